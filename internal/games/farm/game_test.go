package farm

import (
	"errors"
	"strings"
	"testing"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

func newTestGame(seed int64) *Game {
	g := New()
	g.ResetWith(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}, config.DefaultFarmConfig())
	return g
}

func TestNewWave(t *testing.T) {
	cfg := config.DefaultFarmConfig().Waves
	rng := core.NewRandom(1)

	w1 := NewWave(cfg, 1, 0, rng)
	if w1.Count != cfg.BaseCount || len(w1.Queue) != w1.Count {
		t.Errorf("wave 1 count = %d queue %d", w1.Count, len(w1.Queue))
	}
	for _, k := range w1.Queue {
		if k != EnemyCrow {
			t.Errorf("wave 1 should only have crows, got %s", k)
		}
	}
	if w1.HealthScale != 1 {
		t.Errorf("wave 1 health scale = %f", w1.HealthScale)
	}

	w10 := NewWave(cfg, 10, 9, rng)
	if w10.Count != cfg.BaseCount+9*cfg.CountPerWave {
		t.Errorf("wave 10 count = %d", w10.Count)
	}
	if w10.SpawnInterval != cfg.MinSpawnInterval && w10.SpawnInterval >= w1.SpawnInterval {
		t.Errorf("spawn interval should shrink: %d -> %d", w1.SpawnInterval, w10.SpawnInterval)
	}
	if w10.SpawnInterval < cfg.MinSpawnInterval {
		t.Errorf("spawn interval %d below minimum", w10.SpawnInterval)
	}
	if w10.HealthScale <= w1.HealthScale {
		t.Error("health should scale with difficulty")
	}
}

func TestNewWaveNegativeCount(t *testing.T) {
	cfg := config.DefaultFarmConfig().Waves
	cfg.BaseCount = -3
	cfg.CountPerWave = -1

	w := NewWave(cfg, 5, 0, core.NewRandom(1))
	if w.Count != 0 || len(w.Queue) != 0 {
		t.Errorf("count = %d queue %d, want empty wave", w.Count, len(w.Queue))
	}
}

func TestUnlocked(t *testing.T) {
	tests := []struct {
		wave int
		want int
	}{
		{1, 1}, {2, 2}, {3, 2}, {4, 3}, {6, 4}, {20, 4},
	}
	for _, tt := range tests {
		if got := len(Unlocked(tt.wave)); got != tt.want {
			t.Errorf("Unlocked(%d) = %d kinds, want %d", tt.wave, got, tt.want)
		}
	}
}

func TestPathCellsBlocked(t *testing.T) {
	g := newTestGame(1)
	for _, c := range pathCells {
		if _, err := g.PlaceDefense(DefenseChicken, c[0], c[1]); !errors.Is(err, ErrOnPath) {
			t.Errorf("cell %v: err = %v, want ErrOnPath", c, err)
		}
	}
	// A cell between two waypoints
	if _, err := g.PlaceDefense(DefenseChicken, 8, 2); !errors.Is(err, ErrOnPath) {
		t.Errorf("mid-segment cell: err = %v, want ErrOnPath", err)
	}
}

func TestPlaceDefense(t *testing.T) {
	g := newTestGame(1)
	start := g.Coins()

	d, err := g.PlaceDefense(DefenseChicken, 5, 4)
	if err != nil {
		t.Fatalf("PlaceDefense: %v", err)
	}
	cost := config.DefaultFarmConfig().Defenses["chicken"].Cost
	if g.Coins() != start-cost {
		t.Errorf("coins = %d, want %d", g.Coins(), start-cost)
	}
	if d.Pos != cellCenter([2]int{5, 4}) {
		t.Errorf("defense pos = %v", d.Pos)
	}

	if _, err := g.PlaceDefense(DefenseChicken, 5, 4); !errors.Is(err, ErrCellOccupied) {
		t.Errorf("err = %v, want ErrCellOccupied", err)
	}
	if _, err := g.PlaceDefense(DefenseChicken, -1, 4); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
	if _, err := g.PlaceDefense("scarecrow", 6, 4); !errors.Is(err, ErrUnknownDefense) {
		t.Errorf("err = %v, want ErrUnknownDefense", err)
	}
	if _, err := g.PlaceDefense(DefenseFire, 6, 4); !errors.Is(err, ErrInsufficientCoins) {
		t.Errorf("err = %v, want ErrInsufficientCoins", err)
	}

	refund, err := g.RemoveDefense(5, 4)
	if err != nil {
		t.Fatalf("RemoveDefense: %v", err)
	}
	if refund != cost/2 || g.Coins() != start-cost+cost/2 {
		t.Errorf("refund %d: coins = %d", refund, g.Coins())
	}
	if _, err := g.RemoveDefense(5, 4); !errors.Is(err, ErrNoDefense) {
		t.Errorf("err = %v, want ErrNoDefense", err)
	}
	if _, err := g.RemoveDefense(GridCols, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestRemoveDefenseFromInput(t *testing.T) {
	g := newTestGame(1)
	g.cursorCol, g.cursorRow = 2, 4
	g.Step(core.NewInputFrame(core.ActionConfirm))
	if len(g.Defenses()) != 1 {
		t.Fatal("defense not built")
	}
	coins := g.Coins()

	res := g.Step(core.NewInputFrame(core.ActionRemove))
	if len(g.Defenses()) != 0 {
		t.Fatal("remove should delete the defense under the cursor")
	}
	refund := config.DefaultFarmConfig().Defenses[string(g.kinds[0])].Cost / 2
	if g.Coins() != coins+refund {
		t.Errorf("coins = %d, want %d", g.Coins(), coins+refund)
	}
	if !strings.Contains(res.State.Message, "Removed") {
		t.Errorf("message = %q", res.State.Message)
	}

	res = g.Step(core.NewInputFrame(core.ActionRemove))
	if res.State.Message != ErrNoDefense.Error() {
		t.Errorf("message = %q, want %q", res.State.Message, ErrNoDefense.Error())
	}
}

func TestPlaceDefenseFromInput(t *testing.T) {
	g := newTestGame(1)
	g.cursorCol, g.cursorRow = 2, 4

	g.Step(core.NewInputFrame(core.ActionConfirm))
	if len(g.Defenses()) != 1 || g.Defenses()[0].Kind != g.kinds[0] {
		t.Fatal("confirm should build the selected defense at the cursor")
	}

	g.cursorCol, g.cursorRow = 3, 2 // Path
	res := g.Step(core.NewInputFrame(core.ActionConfirm))
	if res.State.Message != ErrOnPath.Error() {
		t.Errorf("message = %q, want path error", res.State.Message)
	}
}

func TestKindsOrderedByTier(t *testing.T) {
	g := newTestGame(1)
	want := []DefenseKind{DefenseChicken, DefenseFrost, DefenseStorm, DefenseFire}
	if len(g.kinds) != len(want) {
		t.Fatalf("kinds = %v", g.kinds)
	}
	for i := range want {
		if g.kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %s, want %s", i, g.kinds[i], want[i])
		}
	}

	g.Step(core.NewInputFrame(core.ActionCycle))
	if g.selected != 1 {
		t.Errorf("selected = %d after cycle", g.selected)
	}
}

func TestWaveSpawnsAndEnemiesEscape(t *testing.T) {
	g := newTestGame(2)
	lives := g.Lives()

	for i := 0; i < 4000 && !g.gameOver; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.Wave().Number < 1 {
		t.Fatal("first wave never started")
	}
	if g.Lives() >= lives {
		t.Error("undefended farm should lose lives")
	}
}

func TestDefensesKillAndCharge(t *testing.T) {
	g := newTestGame(3)
	g.coins = 10000
	// Line the first straight stretch of the path
	for col := 1; col < 15; col += 2 {
		if _, err := g.PlaceDefense(DefenseChicken, col, 1); err != nil {
			t.Fatalf("place at %d: %v", col, err)
		}
		if _, err := g.PlaceDefense(DefenseChicken, col, 3); err != nil {
			t.Fatalf("place at %d: %v", col, err)
		}
	}
	start := g.score

	for i := 0; i < 2000; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.score <= start {
		t.Error("defenses should defeat enemies and earn score")
	}
	charged := 0
	for _, d := range g.Defenses() {
		charged += d.EnemiesDefeated
	}
	if charged == 0 {
		t.Error("kills should charge specials")
	}
}

func TestTriggerSpecial(t *testing.T) {
	g := newTestGame(1)
	d, err := g.PlaceDefense(DefenseChicken, 5, 4)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := g.TriggerSpecial(5, 4); !errors.Is(err, ErrSpecialNotReady) {
		t.Errorf("err = %v, want ErrSpecialNotReady", err)
	}
	if _, err := g.TriggerSpecial(6, 4); !errors.Is(err, ErrNoDefense) {
		t.Errorf("err = %v, want ErrNoDefense", err)
	}

	d.EnemiesDefeated = d.SpecialThreshold
	stats := g.cfg.Enemies["crow"]
	e := NewEnemy(99, EnemyCrow, stats, 1, d.Pos.Add(core.V(10, 0)))
	g.enemies = append(g.enemies, e)
	coins := g.Coins()

	res, err := g.TriggerSpecial(5, 4)
	if err != nil {
		t.Fatalf("TriggerSpecial: %v", err)
	}
	if len(res.Killed) != 1 || g.Coins() != coins+stats.Value {
		t.Errorf("special should kill the crow and pay out, killed=%d coins=%d", len(res.Killed), g.Coins())
	}
	if d.EnemiesDefeated != 0 {
		t.Error("special should reset the charge")
	}
}

func TestStepGuardBlocksReentry(t *testing.T) {
	g := newTestGame(1)
	g.updating.Store(true)
	before := g.tickCount

	g.Step(core.NewInputFrame())
	if g.tickCount != before {
		t.Error("re-entrant Step should return immediately")
	}

	g.updating.Store(false)
	g.Step(core.NewInputFrame())
	if g.tickCount != before+1 {
		t.Error("Step should run once the guard is released")
	}
	if g.updating.Load() {
		t.Error("guard should be released after Step")
	}
}

func TestGameOverWhenLivesRunOut(t *testing.T) {
	g := newTestGame(1)
	g.lives = 1
	e := NewEnemy(1, EnemyCrow, g.cfg.Enemies["crow"], 1, g.path[len(g.path)-2])
	e.PathIndex = len(g.path) - 1
	g.enemies = append(g.enemies, e)

	res := g.Step(core.NewInputFrame())
	for i := 0; i < 100 && !res.State.GameOver; i++ {
		res = g.Step(core.NewInputFrame())
	}
	if !res.State.GameOver {
		t.Error("expected game over after the last life")
	}
}

func TestResolveTarget(t *testing.T) {
	g := newTestGame(1)
	d, _ := g.PlaceDefense(DefenseChicken, 5, 4)

	if _, err := g.resolveTarget(d); !errors.Is(err, ErrNoTarget) {
		t.Errorf("err = %v, want ErrNoTarget", err)
	}

	g.enemies = []*Enemy{testEnemy(1, d.Pos.X+10, d.Pos.Y, 50)}
	target, err := g.resolveTarget(d)
	if err != nil || target == nil {
		t.Errorf("resolveTarget: %v", err)
	}
}

func TestFarmRender(t *testing.T) {
	g := newTestGame(1)
	d, err := g.PlaceDefense(DefenseChicken, 5, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 200; i++ {
		g.Step(core.NewInputFrame())
	}
	for _, size := range [][2]int{{80, 24}, {20, 5}, {160, 48}} {
		screen := core.NewScreen(size[0], size[1])
		g.Render(screen)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	x, y := newGridView(screen).cell(d.Pos)
	if got := screen.Get(x, y); got != defenseGlyphs[DefenseChicken] {
		t.Errorf("cell at defense = %q, want %q", got, defenseGlyphs[DefenseChicken])
	}
}
