package platformer

import (
	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// archetype holds the per-type enemy parameters.
type archetype struct {
	width, height float64
	speed         float64 // Patrol speed, world units per second
	fireInterval  float64
	chargeSpeed   float64
}

var archetypes = map[EnemyType]archetype{
	EnemyRabbit:  {width: 30, height: 28, speed: 60},
	EnemyFox:     {width: 40, height: 30, speed: 95},
	EnemyShooter: {width: 34, height: 40, speed: 25, fireInterval: 2.2},
	EnemyCharger: {width: 44, height: 34, speed: 45, chargeSpeed: 260},
}

// Band is a cumulative probability band for one enemy archetype.
// A roll r selects the first band with r < Upper.
type Band struct {
	Type  EnemyType
	Upper float64
}

// ArchetypeBands returns the cumulative archetype bands at a difficulty.
// Rabbits dominate early; shooters and chargers take over as difficulty rises.
func ArchetypeBands(difficulty int) []Band {
	d := float64(difficulty)
	rabbit := max(0.15, 0.6-0.06*d)
	fox := 0.3
	shooter := min(0.3, 0.05+0.03*d)
	return []Band{
		{Type: EnemyRabbit, Upper: rabbit},
		{Type: EnemyFox, Upper: rabbit + fox},
		{Type: EnemyShooter, Upper: rabbit + fox + shooter},
		{Type: EnemyCharger, Upper: 1},
	}
}

// PickArchetype maps a roll in [0, 1) onto the bands.
func PickArchetype(bands []Band, roll float64) EnemyType {
	for _, b := range bands {
		if roll < b.Upper {
			return b.Type
		}
	}
	return bands[len(bands)-1].Type
}

// populator decorates placed platforms with level content.
type populator struct {
	spawn      config.SpawnConfig
	gen        config.GenerationConfig
	difficulty int
	rng        core.Random
	level      *Level
}

// tagPlatform rolls a special platform type.
func (p *populator) tagPlatform(plat *Platform, minY, maxY float64) {
	d := p.difficulty
	switch {
	case core.Chance(p.rng, p.spawn.Moving.At(d)):
		plat.Type = PlatformMoving
		m := &Motion{
			Speed:     core.RandBetween(p.rng, 40, 70) + 4*float64(d),
			Direction: 1,
		}
		if core.Chance(p.rng, 0.5) {
			m.Direction = -1
		}
		if core.Chance(p.rng, 0.5) {
			m.Axis = AxisX
			m.Min = plat.X - 40
			m.Max = plat.X + 40
		} else {
			m.Axis = AxisY
			m.Min = max(plat.Y-50, minY)
			m.Max = min(plat.Y+30, maxY)
		}
		plat.Motion = m
	case core.Chance(p.rng, p.spawn.Crumbling.At(d)):
		plat.Type = PlatformCrumbling
		plat.CrumbleDelay = max(0.4, 1.0-0.05*float64(d))
		plat.RespawnDelay = 3
	case core.Chance(p.rng, p.spawn.Bouncy):
		plat.Type = PlatformBouncy
		plat.BounceFactor = core.RandBetween(p.rng, 1.3, 1.6)
	}
}

// decorate rolls stars, enemies, hazards and powerups for the platform
// at idx. prev is the platform the player jumps from.
func (p *populator) decorate(idx int, prev Platform) {
	plat := p.level.Platforms[idx]

	if core.Chance(p.rng, p.spawn.Star) {
		p.addStar(idx, false)
	}
	if plat.Starter {
		return
	}

	d := p.difficulty
	if plat.Type != PlatformMoving && core.Chance(p.rng, p.spawn.Enemy.At(d)) {
		p.addEnemy(idx)
		if p.fitsTwoEnemies(plat) && core.Chance(p.rng, p.spawn.SecondEnemy.At(d)) {
			p.addEnemy(idx)
		}
	}

	if core.Chance(p.rng, p.spawn.Hazard.At(d)) {
		p.addHazard(idx, prev)
	}

	if core.Chance(p.rng, p.spawn.Powerup) {
		p.addPowerup(idx)
	}
}

func (p *populator) addStar(idx int, forced bool) {
	plat := p.level.Platforms[idx]
	spread := plat.Width / 4
	p.level.Stars = append(p.level.Stars, Star{
		X:        plat.X + core.RandBetween(p.rng, -spread, spread),
		Y:        plat.Top() - 30,
		Platform: idx,
		Forced:   forced,
	})
}

func (p *populator) fitsTwoEnemies(plat Platform) bool {
	widest := 0.0
	for _, a := range archetypes {
		widest = max(widest, a.width)
	}
	return plat.Width >= 2*p.gen.PatrolInset+2*widest
}

func (p *populator) addEnemy(idx int) {
	plat := p.level.Platforms[idx]
	kind := PickArchetype(ArchetypeBands(p.difficulty), p.rng.Float64())
	a := archetypes[kind]

	lo := plat.Left() + p.gen.PatrolInset + a.width/2
	hi := plat.Right() - p.gen.PatrolInset - a.width/2
	if hi < lo {
		lo, hi = plat.X, plat.X
	}

	vx := a.speed
	if core.Chance(p.rng, 0.5) {
		vx = -vx
	}
	if lo == hi {
		vx = 0
	}

	p.level.Enemies = append(p.level.Enemies, Enemy{
		X:            core.RandBetween(p.rng, lo, hi),
		Y:            plat.Top() - a.height/2,
		Width:        a.width,
		Height:       a.height,
		PatrolMin:    lo,
		PatrolMax:    hi,
		VX:           vx,
		Type:         kind,
		Asset:        "enemy_" + string(kind),
		Platform:     idx,
		FireInterval: a.fireInterval,
		ChargeSpeed:  a.chargeSpeed,
	})
}

// addHazard places lava in the pit before the platform when the jump is a
// large gap or drop, otherwise spikes on one end of the platform top.
func (p *populator) addHazard(idx int, prev Platform) {
	plat := p.level.Platforms[idx]
	gap := plat.Left() - prev.Right()
	drop := plat.Top() - prev.Top()

	if gap >= p.spawn.LavaGap || drop >= p.spawn.LavaDrop {
		ground := p.level.Ground()
		width := max(gap*0.6, 30)
		p.level.Hazards = append(p.level.Hazards, Hazard{
			Type:   HazardLava,
			X:      (prev.Right() + plat.Left()) / 2,
			Y:      ground.Top() - 6,
			Width:  width,
			Height: 12,
		})
		return
	}

	width := min(40, plat.Width/3)
	x := plat.Left() + width/2 + 4
	if core.Chance(p.rng, 0.5) {
		x = plat.Right() - width/2 - 4
	}
	p.level.Hazards = append(p.level.Hazards, Hazard{
		Type:   HazardSpikes,
		X:      x,
		Y:      plat.Top() - 8,
		Width:  width,
		Height: 16,
	})
}

func (p *populator) addPowerup(idx int) {
	plat := p.level.Platforms[idx]
	kind := powerupTypes[p.rng.Intn(len(powerupTypes))]
	p.level.Powerups = append(p.level.Powerups, Powerup{
		Type:     kind,
		X:        plat.X,
		Y:        plat.Top() - 40,
		Platform: idx,
	})
}

// ensureStars force-places stars on the first and last generated platforms
// when random rolls produced fewer than two and there is room for them.
func (p *populator) ensureStars(first, last int) {
	if len(p.level.Stars) >= 2 || last <= first {
		return
	}
	p.addStar(first, true)
	p.addStar(last, true)
}
