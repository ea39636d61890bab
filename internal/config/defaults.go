package config

import (
	_ "embed"
)

//go:embed defaults/platformer.yaml
var defaultPlatformerYAML []byte

//go:embed defaults/farm.yaml
var defaultFarmYAML []byte

//go:embed defaults/slots.yaml
var defaultSlotsYAML []byte

// DefaultPlatformerConfig returns the default platformer configuration.
func DefaultPlatformerConfig() PlatformerConfig {
	return PlatformerConfig{
		Physics: PlatformerPhysics{
			Gravity:   900,
			JumpForce: 520,
			RunSpeed:  220,
			Safety:    0.95,
		},
		Generation: GenerationConfig{
			MaxAttempts:      5,
			MinGapBase:       60,
			MinGapPerLevel:   8,
			MinGapCap:        140,
			GapVariance:      80,
			MaxRiseDelta:     140,
			MaxDropDelta:     70,
			WidthMin:         110,
			WidthMax:         180,
			WidthShrink:      6,
			WidthFloor:       70,
			PlatformHeight:   20,
			GroundHeight:     40,
			GroundOffset:     20,
			TopBand:          0.25,
			GroundClearance:  60,
			FallbackGap:      100,
			FallbackRise:     40,
			MaxPlatforms:     40,
			ScreensBase:      3,
			ScreensMax:       8,
			GoalWidth:        160,
			PatrolInset:      20,
			StarterPlatforms: true,
		},
		Spawn: SpawnConfig{
			Star:        0.6,
			Enemy:       ScaledChance{Base: 0.25, PerLevel: 0.05, Cap: 0.65},
			SecondEnemy: ScaledChance{Base: 0.15, PerLevel: 0.03, Cap: 0.35},
			Hazard:      ScaledChance{Base: 0.10, PerLevel: 0.04, Cap: 0.40},
			Powerup:     0.08,
			Moving:      ScaledChance{Base: 0.05, PerLevel: 0.03, Cap: 0.30},
			Crumbling:   ScaledChance{Base: 0.04, PerLevel: 0.03, Cap: 0.25},
			Bouncy:      0.08,
			LavaGap:     160,
			LavaDrop:    100,
		},
		Player: PlatformerPlayer{
			Lives:  3,
			Width:  28,
			Height: 36,
		},
		Difficulty: DifficultyConfig{
			Enabled:    true,
			StartLevel: 0,
			MaxLevel:   12,
		},
	}
}

// DefaultFarmConfig returns the default farm tower-defense configuration.
func DefaultFarmConfig() FarmConfig {
	return FarmConfig{
		Defenses: map[string]DefenseStats{
			"chicken": {Tier: 1, Cost: 50, Range: 130, Cooldown: 30, Damage: 12, SpecialThreshold: 10},
			"frost":   {Tier: 2, Cost: 100, Range: 150, Cooldown: 50, Damage: 10, AoERadius: 40, AoEMultiplier: 0.5, SpecialThreshold: 12},
			"storm":   {Tier: 3, Cost: 175, Range: 170, Cooldown: 70, Damage: 25, SpecialThreshold: 15},
			"fire":    {Tier: 4, Cost: 250, Range: 160, Cooldown: 90, Damage: 30, AoERadius: 70, AoEMultiplier: 0.8, SpecialThreshold: 18},
		},
		Enemies: map[string]EnemyStats{
			"crow":   {Health: 30, Speed: 1.4, Value: 5, WeakAgainst: "chicken"},
			"rabbit": {Health: 45, Speed: 1.0, Value: 8, WeakAgainst: "frost", DamageResistance: 0.1},
			"fox":    {Health: 70, Speed: 1.2, Value: 12, WeakAgainst: "storm", DamageResistance: 0.15},
			"boar":   {Health: 140, Speed: 0.6, Value: 25, WeakAgainst: "fire", DamageResistance: 0.3},
		},
		Waves: WaveConfig{
			BaseCount:        6,
			CountPerWave:     2,
			HealthGrowth:     0.15,
			SpawnInterval:    60,
			MinSpawnInterval: 20,
			IntervalStep:     4,
			BreakTicks:       240,
			CompletionBonus:  25,
		},
		Combat: CombatConfig{
			ExtendedRange:      1.5,
			LowHealthFraction:  0.3,
			LethalThreshold:    2,
			WeaknessMultiplier: 1.5,
			SpecialRange:       2.5,
			FreezeTicks:        180,
			ChainTargets:       5,
			ChainFalloff:       0.75,
			SpecialMultiplier:  3,
		},
		Economy: EconomyConfig{
			StartCoins: 150,
			StartLives: 20,
		},
		Difficulty: DifficultyConfig{
			Enabled:    true,
			StartLevel: 0,
			MaxLevel:   30,
		},
	}
}

// DefaultSlotsConfig returns the default slot machine configuration.
func DefaultSlotsConfig() SlotsConfig {
	return SlotsConfig{
		Symbols: []SlotSymbol{
			{ID: "cherry", Glyph: "%", Weight: 30, Pays3: 5, Pays2: 2},
			{ID: "lemon", Glyph: "o", Weight: 25, Pays3: 8},
			{ID: "bell", Glyph: "&", Weight: 18, Pays3: 12},
			{ID: "star", Glyph: "*", Weight: 12, Pays3: 20},
			{ID: "noot", Glyph: "N", Weight: 8, Pays3: 40},
			{ID: "diamond", Glyph: "♦", Weight: 5, Pays3: 75},
			{ID: "seven", Glyph: "7", Weight: 2, Pays3: 250, Jackpot: true},
		},
		Bets:         []int{10, 25, 50, 100},
		StartBalance: 1000,
		SpinTicks:    30,
		ReelStagger:  12,
		XPPerSpin:    5,
		XPWinDivisor: 10,
		DailyBase:    100,
		DailyCap:     7,
		BigWinFactor: 10,
	}
}
