package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchGoDefaults(t *testing.T) {
	plat, err := load("none.yaml", "", defaultPlatformerYAML, DefaultPlatformerConfig)
	if err != nil {
		t.Fatalf("load platformer: %v", err)
	}
	if plat != DefaultPlatformerConfig() {
		t.Errorf("embedded platformer.yaml drifted from DefaultPlatformerConfig")
	}

	slots, err := load("none.yaml", "", defaultSlotsYAML, DefaultSlotsConfig)
	if err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if len(slots.Symbols) != len(DefaultSlotsConfig().Symbols) {
		t.Errorf("expected %d symbols, got %d", len(DefaultSlotsConfig().Symbols), len(slots.Symbols))
	}

	farm, err := load("none.yaml", "", defaultFarmYAML, DefaultFarmConfig)
	if err != nil {
		t.Fatalf("load farm: %v", err)
	}
	for kind, want := range DefaultFarmConfig().Defenses {
		if got := farm.Defenses[kind]; got != want {
			t.Errorf("defense %s: got %+v, want %+v", kind, got, want)
		}
	}
}

func TestLoadCustomPathPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "platformer.yaml")
	data := []byte("generation:\n  max_platforms: 7\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPlatformer(path)
	if err != nil {
		t.Fatalf("LoadPlatformer() failed: %v", err)
	}
	if cfg.Generation.MaxPlatforms != 7 {
		t.Errorf("MaxPlatforms = %d, expected 7", cfg.Generation.MaxPlatforms)
	}
	// Unset fields keep their defaults
	if cfg.Physics.JumpForce != DefaultPlatformerConfig().Physics.JumpForce {
		t.Errorf("JumpForce = %f, expected default", cfg.Physics.JumpForce)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := LoadFarm(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("waves: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFarm(path); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestScaledChance(t *testing.T) {
	s := ScaledChance{Base: 0.2, PerLevel: 0.1, Cap: 0.5}

	tests := []struct {
		level    int
		expected float64
	}{
		{0, 0.2},
		{2, 0.4},
		{10, 0.5},
	}
	for _, tc := range tests {
		if got := s.At(tc.level); got < tc.expected-1e-9 || got > tc.expected+1e-9 {
			t.Errorf("At(%d) = %f, expected %f", tc.level, got, tc.expected)
		}
	}
}

func TestDifficultyManager(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{Enabled: true, StartLevel: 2, MaxLevel: 5})

	if dm.Level(0) != 2 {
		t.Errorf("Level(0) = %d, expected 2", dm.Level(0))
	}
	if dm.Level(2) != 4 {
		t.Errorf("Level(2) = %d, expected 4", dm.Level(2))
	}
	if dm.Level(100) != 5 {
		t.Errorf("Level(100) = %d, expected cap 5", dm.Level(100))
	}

	dm.SetEnabled(false)
	if dm.Level(3) != 2 {
		t.Errorf("disabled Level(3) = %d, expected start 2", dm.Level(3))
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := DifficultyConfig{Enabled: true, StartLevel: 3}

	ApplyPreset(&cfg, DifficultyFixed)
	if cfg.Enabled || cfg.StartLevel != 3 {
		t.Errorf("fixed preset: got %+v", cfg)
	}

	ApplyPreset(&cfg, DifficultyHard)
	if !cfg.Enabled || cfg.StartLevel != StartLevelForPreset(DifficultyHard) {
		t.Errorf("hard preset: got %+v", cfg)
	}

	before := cfg
	ApplyPreset(&cfg, "")
	if cfg != before {
		t.Error("empty preset should not modify config")
	}
}

func TestParsePreset(t *testing.T) {
	tests := map[string]DifficultyPreset{
		"easy":   DifficultyEasy,
		"normal": DifficultyNormal,
		"hard":   DifficultyHard,
		"fixed":  DifficultyFixed,
		"":       "",
		"brutal": "",
	}
	for in, want := range tests {
		if got := ParsePreset(in); got != want {
			t.Errorf("ParsePreset(%q) = %q, want %q", in, got, want)
		}
	}
}
