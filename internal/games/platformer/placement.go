package platformer

import (
	"math"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// JumpConstants are the player physics that bound reachability.
type JumpConstants struct {
	JumpForce       float64 // Initial upward velocity
	Gravity         float64
	HorizontalSpeed float64
	Safety          float64 // Fraction of the ideal arc considered reliable
}

// JumpConstantsFrom builds jump constants from platformer physics config.
func JumpConstantsFrom(p config.PlatformerPhysics) JumpConstants {
	return JumpConstants{
		JumpForce:       p.JumpForce,
		Gravity:         p.Gravity,
		HorizontalSpeed: p.RunSpeed,
		Safety:          p.Safety,
	}
}

// ReachBounds is the largest displacement a jump can cover.
type ReachBounds struct {
	MaxGap  float64 // Edge-to-edge horizontal distance
	MaxRise float64 // Upward distance between standing surfaces
	MaxDrop float64 // Downward distance; +Inf when falls are unbounded
}

// Bounds derives reach bounds from the jump arc: apex v²/2g and
// airtime 2v/g at full horizontal speed. Falling never hurts the player,
// so MaxDrop is unbounded.
func (jc JumpConstants) Bounds() ReachBounds {
	if jc.Gravity <= 0 || jc.JumpForce <= 0 {
		return ReachBounds{}
	}
	safety := jc.Safety
	if safety <= 0 || safety > 1 {
		safety = 1
	}
	apex := jc.JumpForce * jc.JumpForce / (2 * jc.Gravity)
	airtime := 2 * jc.JumpForce / jc.Gravity
	return ReachBounds{
		MaxGap:  safety * jc.HorizontalSpeed * airtime,
		MaxRise: safety * apex,
		MaxDrop: math.Inf(1),
	}
}

// Allows reports whether a step of the given gap and rise is jumpable.
// A negative rise is a drop.
func (b ReachBounds) Allows(gap, rise float64) bool {
	return gap <= b.MaxGap && rise <= b.MaxRise && -rise <= b.MaxDrop
}

// Placement is a proposed position for the next platform.
type Placement struct {
	X, Y      float64 // Center
	Width     float64
	Gap       float64 // Edge-to-edge distance from the previous platform
	DY        float64 // Top-to-top vertical delta; negative is up
	Attempts  int
	Fallback  bool
	Reachable bool
}

// Placer proposes reachable platform positions.
type Placer struct {
	gen config.GenerationConfig
}

// NewPlacer creates a placer from generation config.
func NewPlacer(gen config.GenerationConfig) Placer {
	return Placer{gen: gen}
}

// MinGap returns the smallest horizontal gap at the given difficulty.
func (p Placer) MinGap(difficulty int) float64 {
	gap := p.gen.MinGapBase + p.gen.MinGapPerLevel*float64(difficulty)
	if p.gen.MinGapCap > 0 && gap > p.gen.MinGapCap {
		gap = p.gen.MinGapCap
	}
	return gap
}

// GapRange returns the [min, max] horizontal gap drawn at the given difficulty.
func (p Placer) GapRange(difficulty int) (float64, float64) {
	lo := p.MinGap(difficulty)
	return lo, lo + p.gen.GapVariance
}

// WidthRange returns the platform width range; platforms narrow with difficulty.
func (p Placer) WidthRange(difficulty int) (float64, float64) {
	shrink := p.gen.WidthShrink * float64(difficulty)
	lo := max(p.gen.WidthMin-shrink, p.gen.WidthFloor)
	hi := max(p.gen.WidthMax-shrink, lo)
	return lo, hi
}

// GroundTop returns the standing surface of the ground for a canvas.
func (p Placer) GroundTop(canvas core.Size) float64 {
	return canvas.H - p.gen.GroundOffset - p.gen.GroundHeight/2
}

// Band returns the vertical range allowed for platform centers.
func (p Placer) Band(canvas core.Size) (float64, float64) {
	minY := canvas.H * p.gen.TopBand
	maxY := p.GroundTop(canvas) - p.gen.GroundClearance
	if maxY < minY {
		maxY = minY
	}
	return minY, maxY
}

// Next proposes the platform after prev. Attempts draw a random gap, vertical
// delta and width; the first candidate inside the reach bounds and the canvas
// band wins. When every attempt fails the fallback offset is used, clamped to
// the band, and its reachability is evaluated but not enforced.
func (p Placer) Next(prev Platform, difficulty int, canvas core.Size, jc JumpConstants, rng core.Random) Placement {
	bounds := jc.Bounds()
	gapLo, gapHi := p.GapRange(difficulty)
	widthLo, widthHi := p.WidthRange(difficulty)
	minY, maxY := p.Band(canvas)
	height := p.gen.PlatformHeight

	attempts := max(p.gen.MaxAttempts, 1)
	for i := 1; i <= attempts; i++ {
		gap := core.RandBetween(rng, gapLo, gapHi)
		dy := core.RandBetween(rng, -p.gen.MaxRiseDelta, p.gen.MaxDropDelta)
		width := core.RandBetween(rng, widthLo, widthHi)

		y := prev.Top() + dy + height/2
		if !bounds.Allows(gap, -dy) || y < minY || y > maxY {
			continue
		}
		return Placement{
			X:         prev.Right() + gap + width/2,
			Y:         y,
			Width:     width,
			Gap:       gap,
			DY:        dy,
			Attempts:  i,
			Reachable: true,
		}
	}

	width := (widthLo + widthHi) / 2
	y := core.ClampF(prev.Top()-p.gen.FallbackRise+height/2, minY, maxY)
	dy := (y - height/2) - prev.Top()
	return Placement{
		X:         prev.Right() + p.gen.FallbackGap + width/2,
		Y:         y,
		Width:     width,
		Gap:       p.gen.FallbackGap,
		DY:        dy,
		Attempts:  attempts,
		Fallback:  true,
		Reachable: bounds.Allows(p.gen.FallbackGap, -dy),
	}
}

// Platform converts a placement into a platform of the configured height.
func (pl Placement) Platform(height float64) Platform {
	return Platform{
		X:         pl.X,
		Y:         pl.Y,
		Width:     pl.Width,
		Height:    height,
		Fallback:  pl.Fallback,
		Reachable: pl.Reachable,
	}
}
