package platformer

import (
	"testing"

	"github.com/nootfarm/noot-arcade/internal/core"
)

func newTestGame(seed int64) *Game {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	return g
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 300)
	for i := range inputs {
		inputs[i] = core.NewInputFrame(core.ActionRight)
		if i%40 == 0 {
			inputs[i].Set(core.ActionJump)
		}
	}

	g1 := newTestGame(7)
	g2 := newTestGame(7)
	for _, in := range inputs {
		g1.Step(in)
		g2.Step(in)
	}

	if g1.player.x != g2.player.x || g1.player.y != g2.player.y {
		t.Errorf("positions differ: (%f,%f) vs (%f,%f)", g1.player.x, g1.player.y, g2.player.x, g2.player.y)
	}
	if g1.score != g2.score || g1.lives != g2.lives {
		t.Errorf("state differs: score %d/%d lives %d/%d", g1.score, g2.score, g1.lives, g2.lives)
	}
}

func TestGameStartsOnGround(t *testing.T) {
	g := newTestGame(1)
	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	if !g.player.grounded || g.player.standing != 0 {
		t.Errorf("player should rest on the ground, grounded=%v standing=%d", g.player.grounded, g.player.standing)
	}
	want := g.level.Ground().Top() - g.player.h/2
	if g.player.y != want {
		t.Errorf("player y = %f, want %f", g.player.y, want)
	}
}

func TestGameJumpPhysics(t *testing.T) {
	g := newTestGame(1)
	g.Step(core.NewInputFrame())
	startY := g.player.y

	g.Step(core.NewInputFrame(core.ActionJump))
	if g.player.y >= startY {
		t.Errorf("jump should move player up, was %f, now %f", startY, g.player.y)
	}
	if g.player.grounded {
		t.Error("player should be airborne after jumping")
	}

	// Jumping in mid-air does nothing
	vy := g.player.vy
	g.Step(core.NewInputFrame(core.ActionJump))
	if g.player.vy < vy {
		t.Error("mid-air jump should not add upward velocity")
	}
}

func TestGameRunRight(t *testing.T) {
	g := newTestGame(1)
	startX := g.player.x
	for i := 0; i < 20; i++ {
		g.Step(core.NewInputFrame(core.ActionRight))
	}
	if g.player.x <= startX {
		t.Errorf("player should move right, was %f, now %f", startX, g.player.x)
	}
}

func TestGameStarPickup(t *testing.T) {
	g := newTestGame(3)
	g.level.Stars = []Star{{X: g.player.x, Y: g.player.y, Platform: 0}}
	g.starTaken = []bool{false}

	g.Step(core.NewInputFrame())
	if g.score != starPoints {
		t.Errorf("score = %d, want %d", g.score, starPoints)
	}
	g.Step(core.NewInputFrame())
	if g.score != starPoints {
		t.Error("a star must only be collected once")
	}
}

func TestGameHazardCostsLife(t *testing.T) {
	g := newTestGame(3)
	g.invuln = 0
	g.level.Hazards = []Hazard{{Type: HazardSpikes, X: g.player.x, Y: g.player.y, Width: 40, Height: 40}}
	lives := g.lives

	g.Step(core.NewInputFrame())
	if g.lives != lives-1 {
		t.Errorf("lives = %d, want %d", g.lives, lives-1)
	}
	if g.invuln == 0 {
		t.Error("respawn should grant invulnerability")
	}
}

func TestGameShieldAbsorbsHit(t *testing.T) {
	g := newTestGame(3)
	g.invuln = 0
	g.shield = true
	g.level.Hazards = []Hazard{{Type: HazardSpikes, X: g.player.x, Y: g.player.y, Width: 40, Height: 40}}
	lives := g.lives

	g.Step(core.NewInputFrame())
	if g.lives != lives {
		t.Errorf("shield should absorb the hit, lives %d -> %d", lives, g.lives)
	}
	if g.shield {
		t.Error("shield should be consumed")
	}
}

func TestGameOverWhenLivesRunOut(t *testing.T) {
	g := newTestGame(3)
	g.lives = 1
	g.invuln = 0
	g.level.Hazards = []Hazard{{Type: HazardLava, X: g.player.x, Y: g.player.y, Width: 40, Height: 40}}

	res := g.Step(core.NewInputFrame())
	if !res.State.GameOver {
		t.Error("expected game over")
	}
}

func TestGameGoalAdvancesLevel(t *testing.T) {
	g := newTestGame(5)
	goal := g.level.Goal()
	g.player.x = goal.X
	g.player.y = goal.Top() - g.player.h/2 - 1
	g.player.vy = 0
	g.invuln = invulnTicks
	g.level.Hazards = nil
	g.enemies = nil

	// Gravity needs a few ticks to close the gap above the goal
	var res core.StepResult
	for i := 0; i < 30; i++ {
		res = g.Step(core.NewInputFrame())
		if res.State.Level != 1 {
			break
		}
	}
	if res.State.Level != 2 {
		t.Fatalf("level = %d, want 2", res.State.Level)
	}
	if res.State.Score < goalPoints {
		t.Errorf("score = %d, want at least %d", res.State.Score, goalPoints)
	}
	if g.level.Index != 1 {
		t.Errorf("generated level index = %d, want 1", g.level.Index)
	}
}

func TestGamePowerups(t *testing.T) {
	g := newTestGame(1)
	lives := g.lives
	g.applyPowerup(PowerupLife)
	g.applyPowerup(PowerupShield)
	g.applyPowerup(PowerupSpeed)
	g.applyPowerup(PowerupJump)

	if g.lives != lives+1 {
		t.Errorf("life powerup: lives = %d, want %d", g.lives, lives+1)
	}
	if !g.shield || g.speedTimer <= 0 || g.jumpTimer <= 0 {
		t.Error("powerup effects not applied")
	}
}

func TestGameCrumblingPlatform(t *testing.T) {
	g := newTestGame(1)
	p := &g.platforms[0]
	p.Type = PlatformCrumbling
	p.CrumbleDelay = 0.1
	p.RespawnDelay = 0.2

	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	if !g.platforms[0].gone {
		t.Fatal("platform should crumble after its delay")
	}
	for i := 0; i < 20; i++ {
		g.updatePlatforms(1.0 / 60)
	}
	if g.platforms[0].gone {
		t.Error("platform should respawn")
	}
}

func TestGameRenderDoesNotPanic(t *testing.T) {
	g := newTestGame(2)
	for _, size := range [][2]int{{80, 24}, {40, 10}, {200, 60}, {1, 1}} {
		screen := core.NewScreen(size[0], size[1])
		g.Render(screen)
	}
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	found := false
	for y := 0; y < screen.Height(); y++ {
		for x := 0; x < screen.Width(); x++ {
			if screen.Get(x, y) == PlayerChar {
				found = true
			}
		}
	}
	if !found && g.invuln == 0 {
		t.Error("player not rendered")
	}
}

func TestAssetGlyphFallback(t *testing.T) {
	if got := assetGlyph("enemy_rabbit"); got != 'r' {
		t.Errorf("rabbit glyph = %q", got)
	}
	if got := assetGlyph("enemy_dragon"); got != '?' {
		t.Errorf("unknown asset glyph = %q, want placeholder", got)
	}
}
