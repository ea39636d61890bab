// Package platformer implements a procedurally generated side-scrolling
// platformer. Levels are produced by the generator in this package and
// played back in world units scaled onto the terminal.
package platformer

import (
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
	"github.com/nootfarm/noot-arcade/internal/registry"
)

// World canvas every level is generated for, independent of terminal size.
var worldCanvas = core.Size{W: 800, H: 600}

// Gameplay tuning
const (
	moveHoldTicks   = 8   // Ticks a left/right press keeps the player running
	invulnTicks     = 90  // Grace period after being hurt
	powerupSeconds  = 8.0 // Duration of speed and jump powerups
	speedBoost      = 1.5
	jumpBoost       = 1.2
	stompBounce     = 0.55 // Fraction of jump force after stomping an enemy
	projectileSpeed = 240.0
	chargeSight     = 220.0 // Horizontal distance at which chargers rush
)

// Score values
const (
	starPoints  = 10
	stompPoints = 25
	goalPoints  = 100
)

// Visual characters for rendering
const (
	PlayerChar     = '@'
	PlatformChar   = '▀'
	GroundChar     = '█'
	MovingChar     = '═'
	CrumbleChar    = '░'
	BouncyChar     = '≋'
	GoalChar       = '▓'
	StarChar       = '*'
	SpikeChar      = '^'
	LavaChar       = '≈'
	ProjectileChar = '•'
)

var assetGlyphs = map[string]rune{
	"enemy_rabbit":  'r',
	"enemy_fox":     'f',
	"enemy_shooter": 's',
	"enemy_charger": 'c',
}

var powerupGlyphs = map[PowerupType]rune{
	PowerupSpeed:  '»',
	PowerupJump:   '↑',
	PowerupShield: 'O',
	PowerupLife:   '♥',
}

var (
	missingAssets   = make(map[string]bool)
	missingAssetsMu sync.Mutex
)

// assetGlyph resolves an asset key to a glyph. Unknown keys render as a
// placeholder and are reported once.
func assetGlyph(key string) rune {
	if r, ok := assetGlyphs[key]; ok {
		return r
	}
	missingAssetsMu.Lock()
	defer missingAssetsMu.Unlock()
	if !missingAssets[key] {
		missingAssets[key] = true
		log.Warn("platformer: missing asset, using placeholder", "asset", key)
	}
	return '?'
}

type player struct {
	x, y     float64 // Center
	vx, vy   float64
	w, h     float64
	grounded bool
	standing int // Index of the platform underfoot, -1 in the air
}

func (p player) rect() core.FRect {
	return core.FRect{X: p.x, Y: p.y, W: p.w, H: p.h}
}

func (p player) bottom() float64 { return p.y + p.h/2 }

// platformState is the runtime state of a generated platform.
type platformState struct {
	Platform
	dx, dy       float64 // Movement this tick, carried to riders
	crumbleTimer float64 // Counts down while stood on; <0 means not triggered
	respawnTimer float64
	gone         bool
}

type enemyState struct {
	Enemy
	alive     bool
	fireTimer float64
}

type projectile struct {
	x, y, vx float64
}

// Game implements the platformer game logic.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.PlatformerConfig
	gen        *Generator
	difficulty *config.DifficultyManager
	rng        core.Random

	level       *Level
	levelNum    int // 0-based level index
	platforms   []platformState
	enemies     []enemyState
	starTaken   []bool
	powerTaken  []bool
	projectiles []projectile

	player     player
	moveDir    float64
	moveTicks  int
	invuln     int
	speedTimer float64
	jumpTimer  float64
	shield     bool

	lives     int
	score     int
	gameOver  bool
	paused    bool
	tickCount int
	message   string
}

var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	startLevel       int
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetStartLevel sets the level index new runs begin on.
func SetStartLevel(n int) {
	startLevel = max(n, 0)
}

// New creates a new platformer game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "platformer"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Noot Jump"
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	if g.runtime.TickRate <= 0 {
		g.runtime.TickRate = 60
	}

	cfg, err := config.LoadPlatformer(configPath)
	if err != nil {
		log.Warn("platformer: config load failed, using defaults", "err", err)
		cfg = config.DefaultPlatformerConfig()
	}
	config.ApplyPreset(&cfg.Difficulty, difficultyPreset)

	g.cfg = cfg
	g.gen = NewGenerator(cfg)
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.rng = core.NewRandom(runtime.Seed)

	g.lives = cfg.Player.Lives
	g.score = 0
	g.gameOver = false
	g.paused = false
	g.tickCount = 0
	g.message = ""
	g.shield = false
	g.speedTimer = 0
	g.jumpTimer = 0

	g.loadLevel(startLevel)
}

// loadLevel generates and enters level n.
func (g *Game) loadLevel(n int) {
	g.levelNum = n
	g.level = g.gen.Generate(n, worldCanvas, g.rng, WithDifficulty(g.difficulty.Level(n)))
	if u := g.level.UnreachableCount(); u > 0 {
		log.Debug("platformer: level has unreachable platforms", "level", n, "count", u)
	}

	g.platforms = make([]platformState, len(g.level.Platforms))
	for i, p := range g.level.Platforms {
		if p.Motion != nil {
			m := *p.Motion
			p.Motion = &m
		}
		g.platforms[i] = platformState{Platform: p, crumbleTimer: -1}
	}
	g.enemies = make([]enemyState, len(g.level.Enemies))
	for i, e := range g.level.Enemies {
		g.enemies[i] = enemyState{Enemy: e, alive: true, fireTimer: e.FireInterval}
	}
	g.starTaken = make([]bool, len(g.level.Stars))
	g.powerTaken = make([]bool, len(g.level.Powerups))
	g.projectiles = g.projectiles[:0]
	g.respawn()
}

func (g *Game) respawn() {
	g.player = player{
		x:        g.level.PlayerStart.X,
		y:        g.level.PlayerStart.Y,
		w:        g.cfg.Player.Width,
		h:        g.cfg.Player.Height,
		grounded: true,
		standing: 0,
	}
	g.moveDir = 0
	g.moveTicks = 0
	g.invuln = invulnTicks
}

// Level returns the level currently being played.
func (g *Game) Level() *Level {
	return g.level
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
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
	dt := 1.0 / float64(g.runtime.TickRate)

	g.handleInput(in)
	g.updatePlatforms(dt)
	g.updatePlayer(dt)
	g.updateEnemies(dt)
	g.updateProjectiles(dt)
	g.checkPickups()
	g.checkDanger()
	g.checkGoal()

	if g.invuln > 0 {
		g.invuln--
	}
	g.speedTimer = max(g.speedTimer-dt, 0)
	g.jumpTimer = max(g.jumpTimer-dt, 0)

	return core.StepResult{State: g.State()}
}

func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionLeft):
		g.moveDir = -1
		g.moveTicks = moveHoldTicks
	case in.Has(core.ActionRight):
		g.moveDir = 1
		g.moveTicks = moveHoldTicks
	}

	if (in.Has(core.ActionJump) || in.Has(core.ActionUp)) && g.player.grounded {
		force := g.cfg.Physics.JumpForce
		if g.jumpTimer > 0 {
			force *= jumpBoost
		}
		g.player.vy = -force
		g.player.grounded = false
		g.player.standing = -1
	}
}

func (g *Game) updatePlatforms(dt float64) {
	for i := range g.platforms {
		p := &g.platforms[i]
		p.dx, p.dy = 0, 0

		if p.Motion != nil {
			m := p.Motion
			step := m.Speed * float64(m.Direction) * dt
			pos := &p.X
			delta := &p.dx
			if m.Axis == AxisY {
				pos = &p.Y
				delta = &p.dy
			}
			next := *pos + step
			if next > m.Max || next < m.Min {
				m.Direction = -m.Direction
				next = core.ClampF(next, m.Min, m.Max)
			}
			*delta = next - *pos
			*pos = next
		}

		if p.Type != PlatformCrumbling {
			continue
		}
		switch {
		case p.gone:
			p.respawnTimer -= dt
			if p.respawnTimer <= 0 {
				p.gone = false
				p.crumbleTimer = -1
			}
		case p.crumbleTimer >= 0:
			p.crumbleTimer -= dt
			if p.crumbleTimer <= 0 {
				p.gone = true
				p.respawnTimer = p.RespawnDelay
			}
		}
	}
}

func (g *Game) updatePlayer(dt float64) {
	pl := &g.player

	speed := g.cfg.Physics.RunSpeed
	if g.speedTimer > 0 {
		speed *= speedBoost
	}
	if g.moveTicks > 0 {
		pl.vx = g.moveDir * speed
		g.moveTicks--
	} else {
		pl.vx *= 0.8
		if math.Abs(pl.vx) < 1 {
			pl.vx = 0
		}
	}

	// Ride the platform underfoot
	if pl.grounded && pl.standing >= 0 {
		p := g.platforms[pl.standing]
		pl.x += p.dx
		pl.y += p.dy
	}

	prevBottom := pl.bottom()
	pl.vy += g.cfg.Physics.Gravity * dt
	pl.x += pl.vx * dt
	pl.y += pl.vy * dt
	pl.x = core.ClampF(pl.x, pl.w/2, g.level.Width-pl.w/2)

	pl.grounded = false
	pl.standing = -1
	if pl.vy >= 0 {
		g.land(prevBottom)
	}

	if pl.y-pl.h/2 > worldCanvas.H {
		g.hurt(true)
	}
}

// land snaps the player onto a platform crossed while falling.
func (g *Game) land(prevBottom float64) {
	pl := &g.player
	for i := range g.platforms {
		p := &g.platforms[i]
		if p.gone {
			continue
		}
		if pl.x+pl.w/2 <= p.Left() || pl.x-pl.w/2 >= p.Right() {
			continue
		}
		top := p.Top()
		if prevBottom > max(top, top-p.dy)+1 || pl.bottom() < top {
			continue
		}

		pl.y = top - pl.h/2
		if p.Type == PlatformBouncy {
			pl.vy = -g.cfg.Physics.JumpForce * p.BounceFactor
			return
		}
		pl.vy = 0
		pl.grounded = true
		pl.standing = i
		if p.Type == PlatformCrumbling && p.crumbleTimer < 0 {
			p.crumbleTimer = p.CrumbleDelay
		}
		return
	}
}

func (g *Game) updateEnemies(dt float64) {
	pl := g.player
	for i := range g.enemies {
		e := &g.enemies[i]
		if !e.alive {
			continue
		}

		vx := e.VX
		if e.Type == EnemyCharger && math.Abs(pl.y-e.Y) < 40 && math.Abs(pl.x-e.X) < chargeSight {
			vx = math.Copysign(e.ChargeSpeed, pl.x-e.X)
		}
		e.X += vx * dt
		if e.X <= e.PatrolMin || e.X >= e.PatrolMax {
			e.X = core.ClampF(e.X, e.PatrolMin, e.PatrolMax)
			e.VX = -e.VX
		}

		if e.Type == EnemyShooter && e.FireInterval > 0 {
			e.fireTimer -= dt
			if e.fireTimer <= 0 {
				e.fireTimer = e.FireInterval
				g.projectiles = append(g.projectiles, projectile{
					x:  e.X,
					y:  e.Y,
					vx: math.Copysign(projectileSpeed, pl.x-e.X),
				})
			}
		}
	}
}

func (g *Game) updateProjectiles(dt float64) {
	kept := g.projectiles[:0]
	for _, p := range g.projectiles {
		p.x += p.vx * dt
		if p.x < 0 || p.x > g.level.Width {
			continue
		}
		if g.invuln == 0 && g.player.rect().Intersects(core.FRect{X: p.x, Y: p.y, W: 8, H: 8}) {
			g.hurt(false)
			continue
		}
		kept = append(kept, p)
	}
	g.projectiles = kept
}

func (g *Game) checkPickups() {
	pr := g.player.rect()
	for i, s := range g.level.Stars {
		if g.starTaken[i] {
			continue
		}
		if pr.Intersects(core.FRect{X: s.X, Y: s.Y, W: 16, H: 16}) {
			g.starTaken[i] = true
			g.score += starPoints
		}
	}
	for i, pu := range g.level.Powerups {
		if g.powerTaken[i] {
			continue
		}
		if pr.Intersects(core.FRect{X: pu.X, Y: pu.Y, W: 18, H: 18}) {
			g.powerTaken[i] = true
			g.applyPowerup(pu.Type)
		}
	}
}

func (g *Game) applyPowerup(t PowerupType) {
	switch t {
	case PowerupSpeed:
		g.speedTimer = powerupSeconds
	case PowerupJump:
		g.jumpTimer = powerupSeconds
	case PowerupShield:
		g.shield = true
	case PowerupLife:
		g.lives++
	}
	g.message = fmt.Sprintf("%s powerup!", t)
}

func (g *Game) checkDanger() {
	pl := &g.player
	pr := pl.rect()

	for i := range g.enemies {
		e := &g.enemies[i]
		if !e.alive || !pr.Intersects(core.FRect{X: e.X, Y: e.Y, W: e.Width, H: e.Height}) {
			continue
		}
		// Landing on top defeats the enemy
		if pl.vy > 0 && pl.bottom() <= e.Y {
			e.alive = false
			g.score += stompPoints
			pl.vy = -g.cfg.Physics.JumpForce * stompBounce
			continue
		}
		if g.invuln == 0 {
			g.hurt(false)
			return
		}
	}

	if g.invuln > 0 {
		return
	}
	for _, h := range g.level.Hazards {
		if pr.Intersects(h.Rect()) {
			g.hurt(false)
			return
		}
	}
}

// hurt costs a life unless a shield absorbs it. Falling out of the world
// always costs a life.
func (g *Game) hurt(fell bool) {
	if g.shield && !fell {
		g.shield = false
		g.invuln = invulnTicks
		g.message = "Shield absorbed the hit"
		return
	}
	g.lives--
	if g.lives <= 0 {
		g.lives = 0
		g.gameOver = true
		return
	}
	g.respawn()
}

func (g *Game) checkGoal() {
	last := len(g.platforms) - 1
	if g.gameOver || !g.player.grounded || g.player.standing != last {
		return
	}
	g.score += goalPoints + 10*g.levelNum
	g.message = fmt.Sprintf("Level %d cleared!", g.levelNum+1)
	g.loadLevel(g.levelNum + 1)
}

// viewport maps world coordinates onto screen cells. Row 0 is the HUD.
type viewport struct {
	camX         float64
	cellW, cellH float64
	rows         int
}

func (g *Game) viewport(dst *core.Screen) viewport {
	rows := max(dst.Height()-1, 1)
	cellH := worldCanvas.H / float64(rows)
	cellW := cellH / 2
	viewW := float64(dst.Width()) * cellW
	camX := core.ClampF(g.player.x-viewW/3, 0, max(g.level.Width-viewW, 0))
	return viewport{camX: camX, cellW: cellW, cellH: cellH, rows: rows}
}

func (v viewport) cell(x, y float64) (int, int) {
	return int(math.Floor((x - v.camX) / v.cellW)), int(math.Floor(y/v.cellH)) + 1
}

func (v viewport) fillRect(dst *core.Screen, r core.FRect, ch rune, c core.Color) {
	x0, y0 := v.cell(r.Left(), r.Top())
	x1, y1 := v.cell(r.Right(), r.Bottom())
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
	if g.level == nil {
		return
	}
	v := g.viewport(dst)

	for _, h := range g.level.Hazards {
		ch, c := SpikeChar, core.ColorBrightRed
		if h.Type == HazardLava {
			ch, c = LavaChar, core.ColorOrange
		}
		v.fillRect(dst, h.Rect(), ch, c)
	}

	for _, p := range g.platforms {
		if p.gone {
			continue
		}
		ch, c := PlatformChar, core.ColorGreen
		switch {
		case p.Ground:
			ch, c = GroundChar, core.ColorGray
		case p.Goal:
			ch, c = GoalChar, core.ColorBrightGreen
		case p.Type == PlatformMoving:
			ch, c = MovingChar, core.ColorCyan
		case p.Type == PlatformCrumbling:
			ch = CrumbleChar
			if p.crumbleTimer >= 0 {
				c = core.ColorYellow
			}
		case p.Type == PlatformBouncy:
			ch, c = BouncyChar, core.ColorMagenta
		}
		r := p.Rect()
		if !p.Ground {
			r.H = v.cellH // One row thick
			r.Y = p.Top() + r.H/2
		}
		v.fillRect(dst, r, ch, c)
	}

	for i, s := range g.level.Stars {
		if !g.starTaken[i] {
			x, y := v.cell(s.X, s.Y)
			dst.SetColored(x, y, StarChar, core.ColorBrightYellow)
		}
	}
	for i, pu := range g.level.Powerups {
		if !g.powerTaken[i] {
			x, y := v.cell(pu.X, pu.Y)
			dst.SetColored(x, y, powerupGlyphs[pu.Type], core.ColorBrightCyan)
		}
	}
	for _, e := range g.enemies {
		if e.alive {
			x, y := v.cell(e.X, e.Y)
			dst.SetColored(x, y, assetGlyph(e.Asset), core.ColorRed)
		}
	}
	for _, p := range g.projectiles {
		x, y := v.cell(p.x, p.y)
		dst.SetColored(x, y, ProjectileChar, core.ColorBrightRed)
	}

	if g.invuln == 0 || g.tickCount%8 < 4 {
		x, y := v.cell(g.player.x, g.player.y)
		c := core.ColorBrightWhite
		if g.shield {
			c = core.ColorBrightBlue
		}
		dst.SetColored(x, y, PlayerChar, c)
	}

	g.drawHUD(dst)

	if g.paused {
		dst.DrawMessageBox("PAUSED", "Press P to resume")
	}
	if g.gameOver {
		dst.DrawMessageBox("GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.score))
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	stars := 0
	for _, taken := range g.starTaken {
		if taken {
			stars++
		}
	}
	hud := fmt.Sprintf(" Level %d  Score: %d  Lives: %d  Stars: %d/%d ",
		g.levelNum+1, g.score, g.lives, stars, len(g.starTaken))
	dst.DrawText(1, 0, hud)
	if g.message != "" {
		dst.DrawTextColored(len(hud)+2, 0, g.message, core.ColorBrightYellow)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Level:    g.levelNum + 1,
		GameOver: g.gameOver,
		Paused:   g.paused,
		Message:  g.message,
	}
}

func init() {
	registry.Register("platformer", func() registry.Game {
		return New()
	})
}
