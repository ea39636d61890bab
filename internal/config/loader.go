package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadPlatformer loads platformer configuration.
// Search order: customPath -> ~/.arcade/configs/platformer.yaml -> ./configs/platformer.yaml -> embedded default
func LoadPlatformer(customPath string) (PlatformerConfig, error) {
	return load("platformer.yaml", customPath, defaultPlatformerYAML, DefaultPlatformerConfig)
}

// LoadFarm loads farm tower-defense configuration.
// Search order: customPath -> ~/.arcade/configs/farm.yaml -> ./configs/farm.yaml -> embedded default
func LoadFarm(customPath string) (FarmConfig, error) {
	return load("farm.yaml", customPath, defaultFarmYAML, DefaultFarmConfig)
}

// LoadSlots loads slot machine configuration.
// Search order: customPath -> ~/.arcade/configs/slots.yaml -> ./configs/slots.yaml -> embedded default
func LoadSlots(customPath string) (SlotsConfig, error) {
	return load("slots.yaml", customPath, defaultSlotsYAML, DefaultSlotsConfig)
}

// load resolves a config file through the search order. Files found on the
// implicit paths are parsed over the hardcoded defaults so partial files work;
// a broken implicit file is skipped. Only an explicit customPath can fail.
func load[T any](filename, customPath string, embedded []byte, defaults func() T) (T, error) {
	// Try custom path first
	if customPath != "" {
		cfg := defaults()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath(filename),
		filepath.Join("configs", filename),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := defaults()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := defaults()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return defaults(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
