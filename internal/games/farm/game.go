// Package farm implements a tower-defense game. Critters walk a fixed path
// across the farm while the player places defenses that target, damage and
// eventually unleash special attacks on them.
package farm

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
	"github.com/nootfarm/noot-arcade/internal/registry"
)

// World geometry
const (
	WorldW   = 800.0
	WorldH   = 480.0
	CellSize = 40.0
	GridCols = int(WorldW / CellSize)
	GridRows = int(WorldH / CellSize)
)

var gridBounds = core.NewRect(0, 0, GridCols, GridRows)

const messageTicks = 180

var (
	ErrOutOfBounds       = errors.New("farm: cell out of bounds")
	ErrOnPath            = errors.New("farm: cannot build on the path")
	ErrCellOccupied      = errors.New("farm: cell already has a defense")
	ErrUnknownDefense    = errors.New("farm: unknown defense kind")
	ErrInsufficientCoins = errors.New("farm: not enough coins")
	ErrNoDefense         = errors.New("farm: no defense in cell")
	ErrSpecialNotReady   = errors.New("farm: special attack not charged")
	ErrNoTarget          = errors.New("farm: no target")
)

// pathCells are the grid cells the critters walk through, in order.
// The path enters from the left edge and leaves at the right edge.
var pathCells = [][2]int{
	{0, 2}, {15, 2}, {15, 6}, {4, 6}, {4, 10}, {19, 10},
}

// Visual characters for rendering
const (
	PathChar   = '·'
	CursorChar = '░'
	BarnChar   = '⌂'
	EffectChar = '*'
)

var defenseGlyphs = map[DefenseKind]rune{
	DefenseChicken: 'C',
	DefenseFrost:   'F',
	DefenseStorm:   'S',
	DefenseFire:    'P',
}

var defenseColors = map[DefenseKind]core.Color{
	DefenseChicken: core.ColorBrightYellow,
	DefenseFrost:   core.ColorBrightCyan,
	DefenseStorm:   core.ColorBrightMagenta,
	DefenseFire:    core.ColorOrange,
}

var enemyGlyphs = map[EnemyKind]rune{
	EnemyCrow:   'v',
	EnemyRabbit: 'r',
	EnemyFox:    'f',
	EnemyBoar:   'b',
}

type effect struct {
	pos    core.Vec2
	radius float64
	ticks  int
	color  core.Color
}

// Game implements the farm defense game logic.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.FarmConfig
	combat     Combat
	difficulty *config.DifficultyManager
	rng        core.Random

	kinds    []DefenseKind // Buildable kinds ordered by tier
	path     []core.Vec2
	onPath   map[[2]int]bool
	enemies  []*Enemy
	defenses []*Defense
	effects  []effect

	wave       WaveSpec
	spawned    int
	spawnTimer int
	breakTimer int
	nextID     int

	cursorCol, cursorRow int
	selected             int

	coins     int
	lives     int
	score     int
	gameOver  bool
	paused    bool
	tickCount int
	message   string
	msgTimer  int

	// Set while Step runs; a nested Step returns immediately.
	updating atomic.Bool
}

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// New creates a new farm game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "farm"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Farm Defense"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	cfg, err := config.LoadFarm(configPath)
	if err != nil {
		log.Warn("farm: config load failed, using defaults", "err", err)
		cfg = config.DefaultFarmConfig()
	}
	config.ApplyPreset(&cfg.Difficulty, difficultyPreset)
	g.ResetWith(runtime, cfg)
}

// ResetWith restarts the game with an explicit configuration.
func (g *Game) ResetWith(runtime core.RuntimeConfig, cfg config.FarmConfig) {
	g.runtime = runtime
	g.cfg = cfg
	g.combat = NewCombat(cfg.Combat)
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.rng = core.NewRandom(runtime.Seed)

	g.kinds = g.kinds[:0]
	for k := range cfg.Defenses {
		g.kinds = append(g.kinds, DefenseKind(k))
	}
	sort.Slice(g.kinds, func(i, j int) bool {
		a, b := cfg.Defenses[string(g.kinds[i])], cfg.Defenses[string(g.kinds[j])]
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		return g.kinds[i] < g.kinds[j]
	})

	g.buildPath()
	g.enemies = nil
	g.defenses = nil
	g.effects = nil
	g.wave = WaveSpec{}
	g.spawned = 0
	g.spawnTimer = 0
	g.breakTimer = max(cfg.Waves.BreakTicks/2, 1)
	g.nextID = 1

	g.cursorCol, g.cursorRow = GridCols/2, GridRows/2
	g.selected = 0
	g.coins = cfg.Economy.StartCoins
	g.lives = cfg.Economy.StartLives
	g.score = 0
	g.gameOver = false
	g.paused = false
	g.tickCount = 0
	g.message = ""
	g.msgTimer = 0
}

func (g *Game) buildPath() {
	g.path = g.path[:0]
	g.onPath = make(map[[2]int]bool)

	g.path = append(g.path, core.V(-CellSize/2, cellCenter(pathCells[0]).Y))
	for i, c := range pathCells {
		g.path = append(g.path, cellCenter(c))
		if i == 0 {
			g.onPath[c] = true
			continue
		}
		prev := pathCells[i-1]
		dc, dr := sign(c[0]-prev[0]), sign(c[1]-prev[1])
		for cell := prev; cell != c; {
			cell = [2]int{cell[0] + dc, cell[1] + dr}
			g.onPath[cell] = true
		}
	}
	last := pathCells[len(pathCells)-1]
	g.path = append(g.path, core.V(WorldW+CellSize/2, cellCenter(last).Y))
}

func cellCenter(c [2]int) core.Vec2 {
	return core.V(float64(c[0])*CellSize+CellSize/2, float64(c[1])*CellSize+CellSize/2)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Path returns the waypoints critters follow.
func (g *Game) Path() []core.Vec2 {
	return g.path
}

// Enemies returns the critters on the field.
func (g *Game) Enemies() []*Enemy {
	return g.enemies
}

// Defenses returns the placed defenses.
func (g *Game) Defenses() []*Defense {
	return g.defenses
}

// Coins returns the player's coins.
func (g *Game) Coins() int {
	return g.coins
}

// Lives returns the remaining lives.
func (g *Game) Lives() int {
	return g.lives
}

// Wave returns the current wave.
func (g *Game) Wave() WaveSpec {
	return g.wave
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if !g.updating.CompareAndSwap(false, true) {
		return core.StepResult{State: g.State()}
	}
	defer g.updating.Store(false)

	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	g.handleInput(in)
	g.updateWave()
	g.moveEnemies()
	g.fireDefenses()
	g.sweep()
	g.tickEffects()

	if g.lives <= 0 {
		g.lives = 0
		g.gameOver = true
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionLeft):
		g.cursorCol = core.Clamp(g.cursorCol-1, 0, GridCols-1)
	case in.Has(core.ActionRight):
		g.cursorCol = core.Clamp(g.cursorCol+1, 0, GridCols-1)
	case in.Has(core.ActionUp):
		g.cursorRow = core.Clamp(g.cursorRow-1, 0, GridRows-1)
	case in.Has(core.ActionDown):
		g.cursorRow = core.Clamp(g.cursorRow+1, 0, GridRows-1)
	}

	if in.Has(core.ActionCycle) && len(g.kinds) > 0 {
		g.selected = (g.selected + 1) % len(g.kinds)
	}

	if in.Has(core.ActionConfirm) && len(g.kinds) > 0 {
		kind := g.kinds[g.selected]
		if _, err := g.PlaceDefense(kind, g.cursorCol, g.cursorRow); err != nil {
			g.say(err.Error())
		} else {
			g.say(fmt.Sprintf("Placed %s", kind))
		}
	}

	if in.Has(core.ActionRemove) {
		if refund, err := g.RemoveDefense(g.cursorCol, g.cursorRow); err != nil {
			g.say(err.Error())
		} else {
			g.say(fmt.Sprintf("Removed defense, refunded %d", refund))
		}
	}

	if in.Has(core.ActionSpecial) {
		res, err := g.TriggerSpecial(g.cursorCol, g.cursorRow)
		if err != nil {
			g.say(err.Error())
		} else {
			g.say(fmt.Sprintf("%s hit %d, defeated %d", res.Kind, len(res.Hit), len(res.Killed)))
		}
	}

	// Call the next wave early
	if in.Has(core.ActionJump) && g.breakTimer > 0 {
		g.breakTimer = 1
	}
}

func (g *Game) say(msg string) {
	g.message = msg
	g.msgTimer = messageTicks
}

// PlaceDefense builds a defense of kind in grid cell (col, row).
func (g *Game) PlaceDefense(kind DefenseKind, col, row int) (*Defense, error) {
	if !gridBounds.Contains(col, row) {
		return nil, ErrOutOfBounds
	}
	stats, ok := g.cfg.Defenses[string(kind)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefense, kind)
	}
	if g.onPath[[2]int{col, row}] {
		return nil, ErrOnPath
	}
	if g.defenseAt(col, row) != nil {
		return nil, ErrCellOccupied
	}
	if g.coins < stats.Cost {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCoins, stats.Cost, g.coins)
	}

	d := NewDefense(g.nextID, kind, stats, cellCenter([2]int{col, row}))
	d.Col, d.Row = col, row
	g.nextID++
	g.coins -= stats.Cost
	g.defenses = append(g.defenses, d)
	return d, nil
}

// RemoveDefense removes the defense in a cell and refunds half its cost.
func (g *Game) RemoveDefense(col, row int) (int, error) {
	if !gridBounds.Contains(col, row) {
		return 0, ErrOutOfBounds
	}
	for i, d := range g.defenses {
		if d.Col == col && d.Row == row {
			refund := g.cfg.Defenses[string(d.Kind)].Cost / 2
			g.coins += refund
			g.defenses = slices.Delete(g.defenses, i, i+1)
			return refund, nil
		}
	}
	return 0, ErrNoDefense
}

func (g *Game) defenseAt(col, row int) *Defense {
	for _, d := range g.defenses {
		if d.Col == col && d.Row == row {
			return d
		}
	}
	return nil
}

// TriggerSpecial discharges the special attack of the defense in a cell.
func (g *Game) TriggerSpecial(col, row int) (SpecialResult, error) {
	d := g.defenseAt(col, row)
	if d == nil {
		return SpecialResult{}, ErrNoDefense
	}
	if !d.SpecialReady() {
		return SpecialResult{}, fmt.Errorf("%w: %d/%d", ErrSpecialNotReady, d.EnemiesDefeated, d.SpecialThreshold)
	}
	res := g.combat.Special(d, g.enemies)
	for _, e := range res.Killed {
		g.reward(nil, e)
	}
	g.effects = append(g.effects, effect{
		pos:    d.Pos,
		radius: g.combat.SpecialRange(d),
		ticks:  20,
		color:  defenseColors[d.Kind],
	})
	return res, nil
}

func (g *Game) updateWave() {
	if g.msgTimer > 0 {
		g.msgTimer--
		if g.msgTimer == 0 {
			g.message = ""
		}
	}

	if g.breakTimer > 0 {
		g.breakTimer--
		if g.breakTimer == 0 {
			g.startWave(g.wave.Number + 1)
		}
		return
	}

	if g.spawned < len(g.wave.Queue) {
		g.spawnTimer--
		if g.spawnTimer <= 0 {
			g.spawn(g.wave.Queue[g.spawned])
			g.spawned++
			g.spawnTimer = g.wave.SpawnInterval
		}
		return
	}

	for _, e := range g.enemies {
		if e.Alive() {
			return
		}
	}
	g.coins += g.cfg.Waves.CompletionBonus
	g.say(fmt.Sprintf("Wave %d cleared! +%d coins", g.wave.Number, g.cfg.Waves.CompletionBonus))
	g.breakTimer = max(g.cfg.Waves.BreakTicks, 1)
}

func (g *Game) startWave(n int) {
	difficulty := g.difficulty.Level(n - 1)
	g.wave = NewWave(g.cfg.Waves, n, difficulty, g.rng)
	g.spawned = 0
	g.spawnTimer = 0
}

func (g *Game) spawn(kind EnemyKind) {
	stats, ok := g.cfg.Enemies[string(kind)]
	if !ok {
		log.Warn("farm: no stats for enemy kind, skipping spawn", "kind", kind)
		return
	}
	g.enemies = append(g.enemies, NewEnemy(g.nextID, kind, stats, g.wave.HealthScale, g.path[0]))
	g.nextID++
}

func (g *Game) moveEnemies() {
	for _, e := range g.enemies {
		if !e.Alive() {
			continue
		}
		if e.Advance(g.path) {
			g.lives--
		}
	}
}

func (g *Game) fireDefenses() {
	for _, d := range g.defenses {
		if d.CooldownLeft > 0 {
			d.CooldownLeft--
			continue
		}
		target, err := g.resolveTarget(d)
		if err != nil {
			if !errors.Is(err, ErrNoTarget) {
				log.Warn("farm: target resolution failed", "defense", d.ID, "err", err)
			}
			continue
		}
		for _, e := range g.combat.Attack(d, target, g.enemies) {
			g.reward(d, e)
		}
		d.CooldownLeft = d.Cooldown
	}
}

// resolveTarget selects a target for d and validates it.
func (g *Game) resolveTarget(d *Defense) (*Enemy, error) {
	target := g.combat.SelectTarget(d, g.enemies)
	if target == nil {
		return nil, ErrNoTarget
	}
	p := target.Position()
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return nil, fmt.Errorf("farm: enemy %d has invalid position %v", target.ID, p)
	}
	return target, nil
}

// reward pays out a kill. Kills by regular attacks charge the defense's special.
func (g *Game) reward(d *Defense, e *Enemy) {
	g.coins += e.Value
	g.score += e.Value
	if d != nil {
		d.EnemiesDefeated++
	}
}

// sweep drops enemies that died or escaped.
func (g *Game) sweep() {
	alive := g.enemies[:0]
	for _, e := range g.enemies {
		if e.Alive() {
			alive = append(alive, e)
		}
	}
	clear(g.enemies[len(alive):])
	g.enemies = alive
}

func (g *Game) tickEffects() {
	kept := g.effects[:0]
	for _, fx := range g.effects {
		fx.ticks--
		if fx.ticks > 0 {
			kept = append(kept, fx)
		}
	}
	g.effects = kept
}

// gridView maps world coordinates onto the screen. Row 0 is the HUD and
// the last row is the status line.
type gridView struct {
	cellW, cellH float64 // World units per screen cell
}

func newGridView(dst *core.Screen) gridView {
	rows := max(dst.Height()-2, 1)
	cols := max(dst.Width(), 1)
	return gridView{cellW: WorldW / float64(cols), cellH: WorldH / float64(rows)}
}

func (v gridView) cell(p core.Vec2) (int, int) {
	return int(p.X / v.cellW), int(p.Y/v.cellH) + 1
}

func (v gridView) fillGridCell(dst *core.Screen, col, row int, ch rune, c core.Color) {
	x0, y0 := v.cell(core.V(float64(col)*CellSize, float64(row)*CellSize))
	x1, y1 := v.cell(core.V(float64(col+1)*CellSize, float64(row+1)*CellSize))
	x1 = max(x1, x0+1)
	y1 = max(y1, y0+1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			dst.SetColored(x, y, ch, c)
		}
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	v := newGridView(dst)

	for cell := range g.onPath {
		v.fillGridCell(dst, cell[0], cell[1], PathChar, core.ColorGray)
	}
	bx, by := v.cell(g.path[len(g.path)-2])
	dst.SetColored(bx, by, BarnChar, core.ColorRed)

	g.renderCursor(dst, v)

	for _, fx := range g.effects {
		for a := 0.0; a < 2*math.Pi; a += math.Pi / 16 {
			x, y := v.cell(fx.pos.Add(core.V(math.Cos(a), math.Sin(a)).Scale(fx.radius)))
			dst.SetColored(x, y, EffectChar, fx.color)
		}
	}

	for _, d := range g.defenses {
		x, y := v.cell(d.Pos)
		c := defenseColors[d.Kind]
		if d.SpecialReady() && g.tickCount%30 < 15 {
			c = core.ColorBrightWhite
		}
		dst.SetColored(x, y, defenseGlyphs[d.Kind], c)
	}

	for _, e := range g.enemies {
		x, y := v.cell(e.Pos)
		c := core.ColorWhite
		switch {
		case e.Frozen > 0:
			c = core.ColorCyan
		case g.combat.LowHealth(e):
			c = core.ColorRed
		}
		glyph, ok := enemyGlyphs[e.Kind]
		if !ok {
			glyph = '?'
		}
		dst.SetColored(x, y, glyph, c)
	}

	g.drawHUD(dst)

	if g.paused {
		dst.DrawMessageBox("PAUSED", "Press P to resume")
	}
	if g.gameOver {
		dst.DrawMessageBox("THE FARM HAS FALLEN", fmt.Sprintf("Wave %d  Score: %d  |  Press R to restart", g.wave.Number, g.score))
	}
}

func (g *Game) renderCursor(dst *core.Screen, v gridView) {
	c := core.ColorYellow
	if g.onPath[[2]int{g.cursorCol, g.cursorRow}] {
		c = core.ColorRed
	}
	v.fillGridCell(dst, g.cursorCol, g.cursorRow, CursorChar, c)
}

func (g *Game) drawHUD(dst *core.Screen) {
	build := ""
	if len(g.kinds) > 0 {
		kind := g.kinds[g.selected]
		build = fmt.Sprintf("  Build: %s ($%d)", kind, g.cfg.Defenses[string(kind)].Cost)
	}
	hud := fmt.Sprintf(" Wave %d  Lives %d  Coins %d  Score %d%s",
		g.wave.Number, g.lives, g.coins, g.score, build)
	dst.DrawText(0, 0, hud)

	status := g.message
	if status == "" {
		if g.breakTimer > 0 {
			status = fmt.Sprintf("Next wave in %ds (space to call it now)", g.breakTimer/max(g.runtime.TickRate, 1)+1)
		} else {
			status = "arrows move  c cycle  enter build  del remove  x special  p pause"
		}
	}
	dst.DrawTextColored(1, dst.Height()-1, status, core.ColorBrightYellow)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Level:    g.wave.Number,
		GameOver: g.gameOver,
		Paused:   g.paused,
		Message:  g.message,
	}
}

func init() {
	registry.Register("farm", func() registry.Game {
		return New()
	})
}
