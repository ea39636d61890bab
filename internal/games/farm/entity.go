package farm

import (
	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// Positioned is anything with a world position.
type Positioned interface {
	Position() core.Vec2
}

// EnemyKind identifies an enemy type.
type EnemyKind string

const (
	EnemyCrow   EnemyKind = "crow"
	EnemyRabbit EnemyKind = "rabbit"
	EnemyFox    EnemyKind = "fox"
	EnemyBoar   EnemyKind = "boar"
)

// Enemy walks the path toward the barn.
type Enemy struct {
	ID               int
	Kind             EnemyKind
	Pos              core.Vec2
	Health           float64
	MaxHealth        float64
	Speed            float64 // World units per tick
	Value            int     // Coins awarded on defeat
	WeakAgainst      DefenseKind
	DamageResistance float64
	PathIndex        int // Next waypoint
	Frozen           int // Ticks left frozen
	Escaped          bool
}

// NewEnemy creates an enemy at start with health scaled by healthScale.
func NewEnemy(id int, kind EnemyKind, stats config.EnemyStats, healthScale float64, start core.Vec2) *Enemy {
	health := stats.Health * max(healthScale, 0.1)
	return &Enemy{
		ID:               id,
		Kind:             kind,
		Pos:              start,
		Health:           health,
		MaxHealth:        health,
		Speed:            stats.Speed,
		Value:            stats.Value,
		WeakAgainst:      DefenseKind(stats.WeakAgainst),
		DamageResistance: core.ClampF(stats.DamageResistance, 0, 1),
		PathIndex:        1,
	}
}

// Position returns the enemy's world position.
func (e *Enemy) Position() core.Vec2 { return e.Pos }

// Alive reports whether the enemy is still on the field.
func (e *Enemy) Alive() bool {
	return e.Health > 0 && !e.Escaped
}

// Advance walks the enemy along path by its speed. It reports whether the
// enemy reached the end.
func (e *Enemy) Advance(path []core.Vec2) bool {
	if e.Frozen > 0 {
		e.Frozen--
		return false
	}
	remaining := e.Speed
	for remaining > 0 && e.PathIndex < len(path) {
		target := path[e.PathIndex]
		dist := e.Pos.Dist(target)
		if dist <= remaining {
			e.Pos = target
			remaining -= dist
			e.PathIndex++
			continue
		}
		e.Pos = e.Pos.Add(target.Sub(e.Pos).Scale(remaining / dist))
		remaining = 0
	}
	if e.PathIndex >= len(path) {
		e.Escaped = true
	}
	return e.Escaped
}

// DefenseKind identifies one of the defense tiers.
type DefenseKind string

const (
	DefenseChicken DefenseKind = "chicken"
	DefenseFrost   DefenseKind = "frost"
	DefenseStorm   DefenseKind = "storm"
	DefenseFire    DefenseKind = "fire"
)

// SpecialKind is the ability a defense discharges once charged.
type SpecialKind string

const (
	SpecialExplosion SpecialKind = "explosion"
	SpecialFreeze    SpecialKind = "freeze"
	SpecialChain     SpecialKind = "chain_lightning"
	SpecialMeteor    SpecialKind = "meteor"
)

// Special returns the kind's special ability.
func (k DefenseKind) Special() SpecialKind {
	switch k {
	case DefenseFrost:
		return SpecialFreeze
	case DefenseStorm:
		return SpecialChain
	case DefenseFire:
		return SpecialMeteor
	default:
		return SpecialExplosion
	}
}

// Defense is a player-placed unit.
type Defense struct {
	ID               int
	Kind             DefenseKind
	Tier             int
	Pos              core.Vec2
	Col, Row         int // Grid cell occupied
	Range            float64
	Cooldown         int // Ticks between attacks
	CooldownLeft     int
	Damage           float64
	AoERadius        float64
	AoEMultiplier    float64
	EnemiesDefeated  int
	SpecialThreshold int
}

// NewDefense creates a defense of kind at pos from its stats.
func NewDefense(id int, kind DefenseKind, stats config.DefenseStats, pos core.Vec2) *Defense {
	return &Defense{
		ID:               id,
		Kind:             kind,
		Tier:             stats.Tier,
		Pos:              pos,
		Range:            stats.Range,
		Cooldown:         max(stats.Cooldown, 1),
		Damage:           stats.Damage,
		AoERadius:        stats.AoERadius,
		AoEMultiplier:    stats.AoEMultiplier,
		SpecialThreshold: stats.SpecialThreshold,
	}
}

// Position returns the defense's world position.
func (d *Defense) Position() core.Vec2 { return d.Pos }

// SpecialReady reports whether enough kills have been banked to discharge.
func (d *Defense) SpecialReady() bool {
	return d.SpecialThreshold > 0 && d.EnemiesDefeated >= d.SpecialThreshold
}

// Charge returns special charge progress in [0, 1].
func (d *Defense) Charge() float64 {
	if d.SpecialThreshold <= 0 {
		return 0
	}
	return core.ClampF(float64(d.EnemiesDefeated)/float64(d.SpecialThreshold), 0, 1)
}
