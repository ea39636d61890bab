package farm

import (
	"cmp"
	"slices"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// InRange reports whether target is within the defense's direct range.
func InRange(d *Defense, target Positioned) bool {
	return d.Pos.Dist(target.Position()) <= d.Range
}

// Combat resolves targeting, damage and special attacks.
type Combat struct {
	cfg config.CombatConfig
}

// NewCombat creates a combat resolver.
func NewCombat(cfg config.CombatConfig) Combat {
	return Combat{cfg: cfg}
}

// LowHealth reports whether an enemy is weak enough for the extended-range
// targeting layer.
func (c Combat) LowHealth(e *Enemy) bool {
	return e.Health <= e.MaxHealth*c.cfg.LowHealthFraction
}

// SelectTarget picks the enemy a defense attacks:
//  1. the lowest-health low-health enemy within the extended range,
//  2. else the closest enemy within direct range,
//  3. else nil.
func (c Combat) SelectTarget(d *Defense, enemies []*Enemy) *Enemy {
	extended := d.Range * c.cfg.ExtendedRange

	var weakest *Enemy
	weakestDist := 0.0
	for _, e := range enemies {
		if !e.Alive() || !c.LowHealth(e) {
			continue
		}
		dist := d.Pos.Dist(e.Pos)
		if dist > extended {
			continue
		}
		if weakest == nil || e.Health < weakest.Health ||
			(e.Health == weakest.Health && dist < weakestDist) {
			weakest, weakestDist = e, dist
		}
	}
	if weakest != nil {
		return weakest
	}

	var closest *Enemy
	closestDist := 0.0
	for _, e := range enemies {
		if !e.Alive() || !InRange(d, e) {
			continue
		}
		dist := d.Pos.Dist(e.Pos)
		if closest == nil || dist < closestDist {
			closest, closestDist = e, dist
		}
	}
	return closest
}

// ApplyDamage hits an enemy for amount from attacker. Resistance and
// weakness scale the amount before it is subtracted. An enemy at or below
// the lethal threshold dies on any hit. Health never goes negative.
// It returns the health removed and whether the hit killed.
func (c Combat) ApplyDamage(e *Enemy, amount float64, attacker DefenseKind) (float64, bool) {
	if !e.Alive() || amount <= 0 {
		return 0, false
	}
	if e.Health <= c.cfg.LethalThreshold {
		dealt := e.Health
		e.Health = 0
		return dealt, true
	}

	dmg := amount * (1 - e.DamageResistance)
	if attacker != "" && e.WeakAgainst == attacker {
		dmg *= c.cfg.WeaknessMultiplier
	}
	before := e.Health
	e.Health = max(e.Health-dmg, 0)
	return before - e.Health, e.Health == 0
}

// AoEDamage is the area damage at dist from the impact: linear falloff to
// zero at radius.
func AoEDamage(damage, multiplier, dist, radius float64) float64 {
	if radius <= 0 || dist > radius {
		return 0
	}
	return damage * multiplier * (1 - dist/radius)
}

// ApplyAoE damages every enemy within radius of center and returns those
// killed.
func (c Combat) ApplyAoE(center core.Vec2, radius, damage, multiplier float64, attacker DefenseKind, enemies []*Enemy) []*Enemy {
	var killed []*Enemy
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		amount := AoEDamage(damage, multiplier, center.Dist(e.Pos), radius)
		if _, dead := c.ApplyDamage(e, amount, attacker); dead {
			killed = append(killed, e)
		}
	}
	return killed
}

// Attack resolves one regular attack of d against target and returns the
// enemies killed. Splash defenses also hit everything around the target.
func (c Combat) Attack(d *Defense, target *Enemy, enemies []*Enemy) []*Enemy {
	var killed []*Enemy
	if _, dead := c.ApplyDamage(target, d.Damage, d.Kind); dead {
		killed = append(killed, target)
	}
	if d.AoERadius > 0 {
		splash := make([]*Enemy, 0, len(enemies))
		for _, e := range enemies {
			if e != target {
				splash = append(splash, e)
			}
		}
		killed = append(killed, c.ApplyAoE(target.Pos, d.AoERadius, d.Damage, d.AoEMultiplier, d.Kind, splash)...)
	}
	if d.Kind == DefenseFrost {
		target.Frozen = max(target.Frozen, c.cfg.FreezeTicks/6)
	}
	return killed
}

// SpecialResult describes a discharged special attack.
type SpecialResult struct {
	Kind   SpecialKind
	Hit    []*Enemy
	Killed []*Enemy
}

// SpecialRange returns the radius of d's special attack.
func (c Combat) SpecialRange(d *Defense) float64 {
	return d.Range * c.cfg.SpecialRange
}

// Special discharges d's special attack against every enemy within the
// special range and resets its charge. The caller checks SpecialReady.
func (c Combat) Special(d *Defense, enemies []*Enemy) SpecialResult {
	radius := c.SpecialRange(d)
	res := SpecialResult{Kind: d.Kind.Special()}

	var inRange []*Enemy
	for _, e := range enemies {
		if e.Alive() && d.Pos.Dist(e.Pos) <= radius {
			inRange = append(inRange, e)
		}
	}
	power := d.Damage * c.cfg.SpecialMultiplier

	switch res.Kind {
	case SpecialFreeze:
		for _, e := range inRange {
			e.Frozen = max(e.Frozen, c.cfg.FreezeTicks)
			res.Hit = append(res.Hit, e)
			if _, dead := c.ApplyDamage(e, d.Damage, d.Kind); dead {
				res.Killed = append(res.Killed, e)
			}
		}
	case SpecialChain:
		// Arcs jump from the closest enemy outward, weakening each hop.
		slices.SortFunc(inRange, func(a, b *Enemy) int {
			return cmp.Compare(d.Pos.Dist(a.Pos), d.Pos.Dist(b.Pos))
		})
		amount := power
		for i, e := range inRange {
			if c.cfg.ChainTargets > 0 && i >= c.cfg.ChainTargets {
				break
			}
			res.Hit = append(res.Hit, e)
			if _, dead := c.ApplyDamage(e, amount, d.Kind); dead {
				res.Killed = append(res.Killed, e)
			}
			amount *= c.cfg.ChainFalloff
		}
	case SpecialMeteor:
		for _, e := range inRange {
			res.Hit = append(res.Hit, e)
			amount := AoEDamage(power, 1, d.Pos.Dist(e.Pos), radius)
			if _, dead := c.ApplyDamage(e, max(amount, d.Damage), d.Kind); dead {
				res.Killed = append(res.Killed, e)
			}
		}
	default:
		for _, e := range inRange {
			res.Hit = append(res.Hit, e)
			if _, dead := c.ApplyDamage(e, power, d.Kind); dead {
				res.Killed = append(res.Killed, e)
			}
		}
	}

	d.EnemiesDefeated = 0
	return res
}
