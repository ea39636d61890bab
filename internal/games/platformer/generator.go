package platformer

import (
	"github.com/charmbracelet/log"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// DefaultCanvas is the canvas used when a caller passes an empty size.
var DefaultCanvas = core.Size{W: 800, H: 600}

// starterStep is a fixed offset from the previous platform.
type starterStep struct {
	gap, rise, width float64
}

// starterSteps are the easy opening steps of level 0.
var starterSteps = []starterStep{
	{gap: 100, rise: 80, width: 150},
	{gap: 110, rise: 70, width: 140},
}

// Generator builds levels from platformer configuration.
type Generator struct {
	cfg    config.PlatformerConfig
	placer Placer
	jump   JumpConstants
}

// NewGenerator creates a level generator.
func NewGenerator(cfg config.PlatformerConfig) *Generator {
	return &Generator{
		cfg:    cfg,
		placer: NewPlacer(cfg.Generation),
		jump:   JumpConstantsFrom(cfg.Physics),
	}
}

// Option customizes a single Generate call.
type Option func(*genOptions)

type genOptions struct {
	difficulty int
	set        bool
}

// WithDifficulty overrides the difficulty index, which otherwise equals
// the level index.
func WithDifficulty(d int) Option {
	return func(o *genOptions) {
		o.difficulty = max(d, 0)
		o.set = true
	}
}

// Placer returns the generator's placement heuristics.
func (g *Generator) Placer() Placer {
	return g.placer
}

// Jump returns the generator's jump constants.
func (g *Generator) Jump() JumpConstants {
	return g.jump
}

// Extent returns the level width for a level index.
func (g *Generator) Extent(levelIndex int, canvas core.Size) float64 {
	screens := g.cfg.Generation.ScreensBase + levelIndex/2
	if g.cfg.Generation.ScreensMax > 0 {
		screens = min(screens, g.cfg.Generation.ScreensMax)
	}
	return canvas.W * float64(max(screens, 1))
}

// Generate builds a complete level. All randomness is drawn from rng.
func (g *Generator) Generate(levelIndex int, canvas core.Size, rng core.Random, opts ...Option) *Level {
	var o genOptions
	for _, opt := range opts {
		opt(&o)
	}
	levelIndex = max(levelIndex, 0)
	difficulty := levelIndex
	if o.set {
		difficulty = o.difficulty
	}
	if canvas.W <= 0 || canvas.H <= 0 {
		canvas = DefaultCanvas
	}

	gen := g.cfg.Generation
	extent := g.Extent(levelIndex, canvas)
	level := &Level{
		Index:      levelIndex,
		Difficulty: difficulty,
		Canvas:     canvas,
		Width:      extent,
		Phases:     []Phase{PhaseGenerating},
	}

	ground := Platform{
		X:         extent / 2,
		Y:         canvas.H - gen.GroundOffset,
		Width:     extent,
		Height:    gen.GroundHeight,
		Ground:    true,
		Reachable: true,
	}
	level.Platforms = append(level.Platforms, ground)
	level.PlayerStart = core.V(80, ground.Top()-g.cfg.Player.Height/2)

	pop := &populator{
		spawn:      g.cfg.Spawn,
		gen:        gen,
		difficulty: difficulty,
		rng:        rng,
		level:      level,
	}
	minY, maxY := g.placer.Band(canvas)

	// The first platform is placed relative to a stretch of ground near the start.
	cursor := Platform{X: 100, Y: ground.Y, Width: 200, Height: ground.Height}

	if levelIndex == 0 && gen.StarterPlatforms {
		for _, step := range starterSteps {
			y := core.ClampF(cursor.Top()-step.rise+gen.PlatformHeight/2, minY, maxY)
			plat := Platform{
				X:       cursor.Right() + step.gap + step.width/2,
				Y:       y,
				Width:   step.width,
				Height:  gen.PlatformHeight,
				Starter: true,
			}
			plat.Reachable = g.jump.Bounds().Allows(step.gap, cursor.Top()-plat.Top())
			level.Platforms = append(level.Platforms, plat)
			pop.decorate(len(level.Platforms)-1, cursor)
			cursor = plat
		}
	}

	// Leave room for the widest goal step before the right edge.
	_, gapHi := g.placer.GapRange(difficulty)
	reserve := max(gapHi, gen.FallbackGap) + gen.GoalWidth + 40
	maxGenerated := max(gen.MaxPlatforms, 2)

	for cursor.Right()+reserve < extent {
		if len(level.Platforms)-1 >= maxGenerated-1 {
			level.Truncated = true
			break
		}
		pl := g.placer.Next(cursor, difficulty, canvas, g.jump, rng)
		plat := pl.Platform(gen.PlatformHeight)
		g.logUnreachable(level, len(level.Platforms), pl)

		pop.tagPlatform(&plat, minY, maxY)
		level.Platforms = append(level.Platforms, plat)
		pop.decorate(len(level.Platforms)-1, cursor)
		cursor = plat
	}

	level.Phases = append(level.Phases, PhaseFinalizing)
	g.finalize(level, pop, cursor, difficulty, canvas, rng)
	level.Phases = append(level.Phases, PhaseDone)
	return level
}

// finalize appends the goal platform with its guaranteed powerup and
// applies the star guarantee.
func (g *Generator) finalize(level *Level, pop *populator, cursor Platform, difficulty int, canvas core.Size, rng core.Random) {
	gen := g.cfg.Generation
	pl := g.placer.Next(cursor, difficulty, canvas, g.jump, rng)
	goal := pl.Platform(gen.PlatformHeight)
	// Widen to the goal width keeping the left edge, so the gap is unchanged.
	left := goal.Left()
	goal.Width = gen.GoalWidth
	goal.X = left + gen.GoalWidth/2
	goal.Goal = true
	g.logUnreachable(level, len(level.Platforms), pl)

	level.Platforms = append(level.Platforms, goal)
	idx := len(level.Platforms) - 1
	pop.addPowerup(idx)

	if goal.Right()+40 > level.Width {
		level.Width = goal.Right() + 40
		level.Platforms[0].Width = level.Width
		level.Platforms[0].X = level.Width / 2
	}

	pop.ensureStars(1, idx)
}

func (g *Generator) logUnreachable(level *Level, idx int, pl Placement) {
	if !pl.Fallback || pl.Reachable {
		return
	}
	log.Debug("platformer: unreachable fallback placement",
		"level", level.Index, "platform", idx, "gap", pl.Gap, "dy", pl.DY)
}

// Generate builds a level with the default configuration.
func Generate(levelIndex int, canvas core.Size, rng core.Random, opts ...Option) *Level {
	return NewGenerator(config.DefaultPlatformerConfig()).Generate(levelIndex, canvas, rng, opts...)
}

// GenerateSeeded builds a level with the default configuration and a
// generator seeded at call time.
func GenerateSeeded(levelIndex int, canvas core.Size, seed int64, opts ...Option) *Level {
	return Generate(levelIndex, canvas, core.NewRandom(seed), opts...)
}
