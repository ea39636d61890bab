package platformer

import (
	"github.com/nootfarm/noot-arcade/internal/core"
)

// PlatformType tags platforms with special behavior.
type PlatformType string

const (
	PlatformNormal    PlatformType = ""
	PlatformMoving    PlatformType = "moving"
	PlatformBouncy    PlatformType = "bouncy"
	PlatformCrumbling PlatformType = "crumbling"
)

// Axis is the direction a moving platform travels along.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Motion describes a moving platform. The platform oscillates between
// Min and Max along Axis, starting in Direction (+1 or -1).
type Motion struct {
	Axis      Axis    `yaml:"axis"`
	Speed     float64 `yaml:"speed"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Direction int     `yaml:"direction"`
}

// Platform is a standable rectangle. X/Y is the center.
type Platform struct {
	X      float64      `yaml:"x"`
	Y      float64      `yaml:"y"`
	Width  float64      `yaml:"width"`
	Height float64      `yaml:"height"`
	Type   PlatformType `yaml:"type,omitempty"`
	Motion *Motion      `yaml:"motion,omitempty"`

	BounceFactor float64 `yaml:"bounce_factor,omitempty"`
	CrumbleDelay float64 `yaml:"crumble_delay,omitempty"` // Seconds standing before it falls
	RespawnDelay float64 `yaml:"respawn_delay,omitempty"` // Seconds until it returns

	Ground    bool `yaml:"ground,omitempty"`
	Goal      bool `yaml:"goal,omitempty"`
	Starter   bool `yaml:"starter,omitempty"`
	Fallback  bool `yaml:"fallback,omitempty"` // Placed by the fallback path
	Reachable bool `yaml:"reachable"`          // Within jump bounds of the previous platform
}

// Rect returns the platform's bounds.
func (p Platform) Rect() core.FRect {
	return core.FRect{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
}

// Left returns the x-coordinate of the left edge.
func (p Platform) Left() float64 { return p.X - p.Width/2 }

// Right returns the x-coordinate of the right edge.
func (p Platform) Right() float64 { return p.X + p.Width/2 }

// Top returns the y-coordinate of the standing surface.
func (p Platform) Top() float64 { return p.Y - p.Height/2 }

// Star is a collectible.
type Star struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Platform int     `yaml:"platform"` // Index into Level.Platforms
	Forced   bool    `yaml:"forced,omitempty"`
}

// EnemyType is a platformer enemy archetype.
type EnemyType string

const (
	EnemyRabbit  EnemyType = "rabbit"
	EnemyFox     EnemyType = "fox"
	EnemyShooter EnemyType = "shooter"
	EnemyCharger EnemyType = "charger"
)

// Enemy patrols a platform between PatrolMin and PatrolMax.
type Enemy struct {
	X         float64   `yaml:"x"`
	Y         float64   `yaml:"y"`
	Width     float64   `yaml:"width"`
	Height    float64   `yaml:"height"`
	PatrolMin float64   `yaml:"patrol_min"`
	PatrolMax float64   `yaml:"patrol_max"`
	VX        float64   `yaml:"vx"`
	Type      EnemyType `yaml:"type"`
	Asset     string    `yaml:"asset"`
	Platform  int       `yaml:"platform"`

	FireInterval float64 `yaml:"fire_interval,omitempty"` // Shooter: seconds between shots
	ChargeSpeed  float64 `yaml:"charge_speed,omitempty"`  // Charger: speed when the player is level with it
}

// HazardType is a kind of environmental hazard.
type HazardType string

const (
	HazardSpikes HazardType = "spikes"
	HazardLava   HazardType = "lava"
)

// Hazard hurts the player on contact.
type Hazard struct {
	Type   HazardType `yaml:"type"`
	X      float64    `yaml:"x"`
	Y      float64    `yaml:"y"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
}

// Rect returns the hazard's bounds.
func (h Hazard) Rect() core.FRect {
	return core.FRect{X: h.X, Y: h.Y, W: h.Width, H: h.Height}
}

// PowerupType is a kind of powerup.
type PowerupType string

const (
	PowerupSpeed  PowerupType = "speed"
	PowerupJump   PowerupType = "jump"
	PowerupShield PowerupType = "shield"
	PowerupLife   PowerupType = "life"
)

var powerupTypes = []PowerupType{PowerupSpeed, PowerupJump, PowerupShield, PowerupLife}

// Powerup is a collectible with an effect.
type Powerup struct {
	Type     PowerupType `yaml:"type"`
	X        float64     `yaml:"x"`
	Y        float64     `yaml:"y"`
	Platform int         `yaml:"platform"`
}

// Phase is a step of level assembly.
type Phase string

const (
	PhaseGenerating Phase = "generating"
	PhaseFinalizing Phase = "finalizing"
	PhaseDone       Phase = "done"
)

// Level is a complete generated level description.
// Platforms[0] is always the ground; the last platform is the goal.
type Level struct {
	Index       int        `yaml:"index"`
	Difficulty  int        `yaml:"difficulty"`
	Canvas      core.Size  `yaml:"canvas"`
	Width       float64    `yaml:"width"`
	PlayerStart core.Vec2  `yaml:"player_start"`
	Platforms   []Platform `yaml:"platforms"`
	Stars       []Star     `yaml:"stars"`
	Enemies     []Enemy    `yaml:"enemies"`
	Hazards     []Hazard   `yaml:"hazards"`
	Powerups    []Powerup  `yaml:"powerups"`
	Phases      []Phase    `yaml:"-"`
	Truncated   bool       `yaml:"truncated,omitempty"` // Safety valve stopped generation early
}

// Ground returns the ground platform.
func (l *Level) Ground() Platform {
	return l.Platforms[0]
}

// Goal returns the goal platform.
func (l *Level) Goal() Platform {
	return l.Platforms[len(l.Platforms)-1]
}

// Generated returns the non-ground platforms.
func (l *Level) Generated() []Platform {
	if len(l.Platforms) == 0 {
		return nil
	}
	return l.Platforms[1:]
}

// UnreachableCount returns how many platforms failed the reachability check.
func (l *Level) UnreachableCount() int {
	n := 0
	for _, p := range l.Generated() {
		if !p.Reachable {
			n++
		}
	}
	return n
}
