package config

import "math"

// DifficultyManager maps game progress (levels cleared, waves survived)
// to the integer difficulty index used by generators and spawners.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg}
}

// SetStartLevel overrides the starting difficulty index.
func (d *DifficultyManager) SetStartLevel(level int) {
	d.cfg.StartLevel = max(level, 0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// Level returns the difficulty index after the given amount of progress.
// Difficulty never decreases as progress grows.
func (d *DifficultyManager) Level(progress int) int {
	if !d.cfg.Enabled || progress < 0 {
		return d.cfg.StartLevel
	}
	level := d.cfg.StartLevel + progress
	if d.cfg.MaxLevel > 0 && level > d.cfg.MaxLevel {
		level = max(d.cfg.MaxLevel, d.cfg.StartLevel)
	}
	return level
}

// ApplyPreset modifies a difficulty config based on a preset.
func ApplyPreset(cfg *DifficultyConfig, preset DifficultyPreset) {
	switch {
	case preset == "":
		return
	case IsFixedPreset(preset):
		// Stays at the configured start level
		cfg.Enabled = false
	default:
		cfg.Enabled = true
		cfg.StartLevel = StartLevelForPreset(preset)
	}
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
