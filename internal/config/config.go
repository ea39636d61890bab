// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

// PlatformerConfig contains all configuration for the platformer game
// and its level generator.
type PlatformerConfig struct {
	Physics    PlatformerPhysics `yaml:"physics"`
	Generation GenerationConfig  `yaml:"generation"`
	Spawn      SpawnConfig       `yaml:"spawn"`
	Player     PlatformerPlayer  `yaml:"player"`
	Difficulty DifficultyConfig  `yaml:"difficulty"`
}

// PlatformerPhysics holds the jump constants that bound platform reachability.
// Units are world pixels and seconds.
type PlatformerPhysics struct {
	Gravity   float64 `yaml:"gravity"`
	JumpForce float64 `yaml:"jump_force"`
	RunSpeed  float64 `yaml:"run_speed"`
	Safety    float64 `yaml:"safety"` // Fraction of the theoretical jump arc treated as reachable
}

// GenerationConfig defines platform placement and level extent parameters.
type GenerationConfig struct {
	MaxAttempts      int     `yaml:"max_attempts"`
	MinGapBase       float64 `yaml:"min_gap_base"`
	MinGapPerLevel   float64 `yaml:"min_gap_per_level"`
	MinGapCap        float64 `yaml:"min_gap_cap"`
	GapVariance      float64 `yaml:"gap_variance"`
	MaxRiseDelta     float64 `yaml:"max_rise_delta"` // Largest upward step drawn (dy = -value)
	MaxDropDelta     float64 `yaml:"max_drop_delta"` // Largest downward step drawn
	WidthMin         float64 `yaml:"width_min"`
	WidthMax         float64 `yaml:"width_max"`
	WidthShrink      float64 `yaml:"width_shrink_per_level"`
	WidthFloor       float64 `yaml:"width_floor"`
	PlatformHeight   float64 `yaml:"platform_height"`
	GroundHeight     float64 `yaml:"ground_height"`
	GroundOffset     float64 `yaml:"ground_offset"` // Ground center distance from canvas bottom
	TopBand          float64 `yaml:"top_band"`      // Fraction of canvas height kept clear above platforms
	GroundClearance  float64 `yaml:"ground_clearance"`
	FallbackGap      float64 `yaml:"fallback_gap"`
	FallbackRise     float64 `yaml:"fallback_rise"`
	MaxPlatforms     int     `yaml:"max_platforms"`
	ScreensBase      int     `yaml:"screens_base"`
	ScreensMax       int     `yaml:"screens_max"`
	GoalWidth        float64 `yaml:"goal_width"`
	PatrolInset      float64 `yaml:"patrol_inset"`
	StarterPlatforms bool    `yaml:"starter_platforms"`
}

// SpawnConfig defines difficulty-scaled probabilities for level content.
// Each scaled value is base + perLevel*difficulty, clamped to cap.
type SpawnConfig struct {
	Star        float64      `yaml:"star"`
	Enemy       ScaledChance `yaml:"enemy"`
	SecondEnemy ScaledChance `yaml:"second_enemy"`
	Hazard      ScaledChance `yaml:"hazard"`
	Powerup     float64      `yaml:"powerup"`
	Moving      ScaledChance `yaml:"moving"`
	Crumbling   ScaledChance `yaml:"crumbling"`
	Bouncy      float64      `yaml:"bouncy"`
	LavaGap     float64      `yaml:"lava_gap"`
	LavaDrop    float64      `yaml:"lava_drop"`
}

// ScaledChance is a probability that grows linearly with difficulty.
type ScaledChance struct {
	Base     float64 `yaml:"base"`
	PerLevel float64 `yaml:"per_level"`
	Cap      float64 `yaml:"cap"`
}

// At returns the probability at the given difficulty.
func (s ScaledChance) At(difficulty int) float64 {
	p := s.Base + s.PerLevel*float64(difficulty)
	if s.Cap > 0 && p > s.Cap {
		p = s.Cap
	}
	return clampF(p, 0, 1)
}

// PlatformerPlayer defines player parameters for the platformer game.
type PlatformerPlayer struct {
	Lives  int     `yaml:"lives"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// FarmConfig contains all configuration for the farm tower-defense game.
type FarmConfig struct {
	Defenses   map[string]DefenseStats `yaml:"defenses"`
	Enemies    map[string]EnemyStats   `yaml:"enemies"`
	Waves      WaveConfig              `yaml:"waves"`
	Combat     CombatConfig            `yaml:"combat"`
	Economy    EconomyConfig           `yaml:"economy"`
	Difficulty DifficultyConfig        `yaml:"difficulty"`
}

// DefenseStats are the base stats of one defense tier.
type DefenseStats struct {
	Tier             int     `yaml:"tier"`
	Cost             int     `yaml:"cost"`
	Range            float64 `yaml:"range"`
	Cooldown         int     `yaml:"cooldown"` // Ticks between attacks
	Damage           float64 `yaml:"damage"`
	AoERadius        float64 `yaml:"aoe_radius"`
	AoEMultiplier    float64 `yaml:"aoe_multiplier"`
	SpecialThreshold int     `yaml:"special_threshold"`
}

// EnemyStats are the base stats of one enemy kind.
type EnemyStats struct {
	Health           float64 `yaml:"health"`
	Speed            float64 `yaml:"speed"` // World units per tick
	Value            int     `yaml:"value"`
	WeakAgainst      string  `yaml:"weak_against"`
	DamageResistance float64 `yaml:"damage_resistance"` // 0..1 fraction of damage ignored
}

// WaveConfig defines how waves scale.
type WaveConfig struct {
	BaseCount        int     `yaml:"base_count"`
	CountPerWave     int     `yaml:"count_per_wave"`
	HealthGrowth     float64 `yaml:"health_growth"`
	SpawnInterval    int     `yaml:"spawn_interval"`
	MinSpawnInterval int     `yaml:"min_spawn_interval"`
	IntervalStep     int     `yaml:"interval_step"`
	BreakTicks       int     `yaml:"break_ticks"`
	CompletionBonus  int     `yaml:"completion_bonus"`
}

// CombatConfig holds the targeting and damage constants.
type CombatConfig struct {
	ExtendedRange      float64 `yaml:"extended_range"`      // Multiple of range for low-health targeting
	LowHealthFraction  float64 `yaml:"low_health_fraction"` // Of max health
	LethalThreshold    float64 `yaml:"lethal_threshold"`    // Health at or below this dies on any hit
	WeaknessMultiplier float64 `yaml:"weakness_multiplier"` // Damage bonus against weak enemies
	SpecialRange       float64 `yaml:"special_range"`       // Multiple of range for special attacks
	FreezeTicks        int     `yaml:"freeze_ticks"`
	ChainTargets       int     `yaml:"chain_targets"`
	ChainFalloff       float64 `yaml:"chain_falloff"`
	SpecialMultiplier  float64 `yaml:"special_multiplier"`
}

// EconomyConfig defines starting resources.
type EconomyConfig struct {
	StartCoins int `yaml:"start_coins"`
	StartLives int `yaml:"start_lives"`
}

// SlotsConfig contains all configuration for the slot machine.
type SlotsConfig struct {
	Symbols      []SlotSymbol `yaml:"symbols"`
	Bets         []int        `yaml:"bets"`
	StartBalance int          `yaml:"start_balance"`
	SpinTicks    int          `yaml:"spin_ticks"`   // Animation length of the first reel
	ReelStagger  int          `yaml:"reel_stagger"` // Extra ticks per subsequent reel
	XPPerSpin    int          `yaml:"xp_per_spin"`
	XPWinDivisor int          `yaml:"xp_win_divisor"` // Payout / divisor = bonus xp
	DailyBase    int          `yaml:"daily_base"`
	DailyCap     int          `yaml:"daily_cap"` // Streak multiplier cap
	BigWinFactor int          `yaml:"big_win_factor"`
}

// SlotSymbol defines one reel symbol.
type SlotSymbol struct {
	ID      string `yaml:"id"`
	Glyph   string `yaml:"glyph"`
	Weight  int    `yaml:"weight"`
	Pays3   int    `yaml:"pays3"` // Multiplier of the line bet for three in a row
	Pays2   int    `yaml:"pays2"` // Multiplier for two from the left (0 = none)
	Jackpot bool   `yaml:"jackpot"`
}

// DifficultyConfig defines how the difficulty index advances.
type DifficultyConfig struct {
	Enabled    bool `yaml:"enabled"`
	StartLevel int  `yaml:"start_level"` // Difficulty index at the first level/wave
	MaxLevel   int  `yaml:"max_level"`   // Progression stops here
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// StartLevelForPreset returns the starting difficulty index for a preset.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 5
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset maps a CLI flag value to a preset. Unknown values mean
// "use the config default".
func ParsePreset(s string) DifficultyPreset {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return ""
	}
}
