// Package slots implements a three-reel slot machine with persistent player
// progress: balance, xp levels, achievements and a daily login reward.
package slots

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
	"github.com/nootfarm/noot-arcade/internal/registry"
)

const messageTicks = 180

// Cell geometry of one reel window slot
const (
	slotW   = 7
	slotH   = 3
	slotGap = 1
)

// Game implements the slot machine on top of Machine.
type Game struct {
	runtime core.RuntimeConfig
	cfg     config.SlotsConfig
	machine *Machine
	store   registry.StateStore
	anim    core.Random // Drives the blur while reels spin

	betIdx   int
	spinning bool
	spinTick int
	last     SpinResult
	blur     Window
	pending  string // Shown when the reels stop

	paused    bool
	tickCount int
	message   string
	msgTimer  int
}

var configPath string

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// New creates a new slot machine instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "slots"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Noot Slots"
}

// BindState attaches the store that player progress is loaded from and
// saved to.
func (g *Game) BindState(store registry.StateStore) {
	g.store = store
	if g.machine != nil {
		g.load()
	}
}

// Reset initializes or restarts the game. Progress is reloaded from the
// bound store, so a restart never wipes the balance.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	cfg, err := config.LoadSlots(configPath)
	if err != nil {
		log.Warn("slots: config load failed, using defaults", "err", err)
		cfg = config.DefaultSlotsConfig()
	}
	g.ResetWith(runtime, cfg)
}

// ResetWith restarts the game with an explicit configuration.
func (g *Game) ResetWith(runtime core.RuntimeConfig, cfg config.SlotsConfig) {
	g.runtime = runtime
	g.cfg = cfg
	g.machine = NewMachine(cfg, core.NewRandom(runtime.Seed))
	g.anim = core.NewRandom(runtime.Seed + 1)

	g.betIdx = 0
	g.spinning = false
	g.spinTick = 0
	g.last = SpinResult{}
	g.pending = ""
	g.paused = false
	g.tickCount = 0
	g.message = ""
	g.msgTimer = 0

	g.load()
}

// Machine exposes the underlying machine.
func (g *Game) Machine() *Machine {
	return g.machine
}

// Bet returns the currently selected bet.
func (g *Game) Bet() int {
	if len(g.cfg.Bets) == 0 {
		return 0
	}
	return g.cfg.Bets[g.betIdx]
}

func (g *Game) load() {
	if g.store == nil {
		return
	}
	data, found, err := g.store.LoadState(StateKey)
	if err != nil {
		log.Warn("slots: load state failed, starting fresh", "err", err)
		return
	}
	if !found {
		return
	}
	s, err := DecodeState(data)
	if err != nil {
		log.Warn("slots: stored state unreadable, starting fresh", "err", err)
		return
	}
	g.machine.SetState(s)
}

// persist writes the player state to the bound store.
func (g *Game) persist() error {
	if g.store == nil {
		return nil
	}
	data, err := g.machine.State().Encode()
	if err != nil {
		return err
	}
	if err := g.store.SaveState(StateKey, data); err != nil {
		return fmt.Errorf("slots: save state: %w", err)
	}
	return nil
}

func (g *Game) save() {
	if err := g.persist(); err != nil {
		log.Warn("slots: progress not saved", "err", err)
	}
}

// spinLength is the tick at which the last reel stops.
func (g *Game) spinLength() int {
	return max(g.cfg.SpinTicks, 1) + (ReelCount-1)*max(g.cfg.ReelStagger, 0)
}

// reelStopped reports whether reel i has landed.
func (g *Game) reelStopped(i int) bool {
	return !g.spinning || g.spinTick >= max(g.cfg.SpinTicks, 1)+i*max(g.cfg.ReelStagger, 0)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	if g.msgTimer > 0 {
		g.msgTimer--
		if g.msgTimer == 0 {
			g.message = ""
		}
	}

	if g.spinning {
		g.advanceSpin()
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)
	return core.StepResult{State: g.State()}
}

func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp), in.Has(core.ActionRight):
		g.betIdx = core.Clamp(g.betIdx+1, 0, max(len(g.cfg.Bets)-1, 0))
	case in.Has(core.ActionDown), in.Has(core.ActionLeft):
		g.betIdx = core.Clamp(g.betIdx-1, 0, max(len(g.cfg.Bets)-1, 0))
	}

	if in.Has(core.ActionClaim) {
		g.claim()
	}
	if in.Has(core.ActionJump) || in.Has(core.ActionConfirm) {
		g.startSpin()
	}
}

func (g *Game) startSpin() {
	res, earned, err := g.machine.Spin(g.Bet())
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			g.say("Not enough coins! Lower the bet or claim the daily reward (G)")
		} else {
			g.say(err.Error())
		}
		return
	}
	g.save()

	g.last = res
	g.spinning = true
	g.spinTick = 0
	g.message = ""
	g.msgTimer = 0

	switch {
	case res.Jackpot:
		g.pending = fmt.Sprintf("JACKPOT! +%d", res.Payout)
	case res.Payout > 0:
		g.pending = fmt.Sprintf("WIN +%d on %d line(s)", res.Payout, len(res.Wins))
	default:
		g.pending = "No win"
	}
	if len(earned) > 0 {
		g.pending += "  |  " + achievementText(earned)
	}
}

func (g *Game) advanceSpin() {
	g.spinTick++
	g.blur = g.machine.Reels().Spin(g.anim)
	if g.spinTick >= g.spinLength() {
		g.spinning = false
		g.say(g.pending)
		g.pending = ""
	}
}

func (g *Game) claim() {
	reward, earned, err := g.machine.ClaimDaily()
	if err != nil {
		g.say(err.Error())
		return
	}
	g.save()
	msg := fmt.Sprintf("Daily reward +%d (streak %d)", reward, g.machine.State().DailyRewardStreak)
	if len(earned) > 0 {
		msg += "  |  " + achievementText(earned)
	}
	g.say(msg)
}

func achievementText(earned []Achievement) string {
	titles := make([]string, len(earned))
	for i, a := range earned {
		titles[i] = a.Title
	}
	return "Achievement: " + strings.Join(titles, ", ")
}

func (g *Game) say(msg string) {
	g.message = msg
	g.msgTimer = messageTicks
}

// glyphFor returns the display rune of symbol i.
func (g *Game) glyphFor(i int) rune {
	symbols := g.machine.Reels().Symbols()
	if i < 0 || i >= len(symbols) {
		return '?'
	}
	r, _ := utf8.DecodeRuneInString(symbols[i].Glyph)
	if r == utf8.RuneError {
		return '?'
	}
	return r
}

// winningCells marks every window cell on a paying line.
func (g *Game) winningCells() map[[2]int]bool {
	cells := make(map[[2]int]bool)
	if g.spinning {
		return cells
	}
	for _, w := range g.last.Wins {
		line := Paylines[w.Line]
		for reel := range w.Count {
			cells[[2]int{reel, line[reel]}] = true
		}
	}
	return cells
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	s := g.machine.State()

	balance := s.Balance
	if g.spinning {
		balance -= g.last.Payout
	}
	hud := fmt.Sprintf(" Balance %d  Bet %d  Level %d  XP %d/%d", balance, g.Bet(), s.Level, s.XP, XPForLevel(s.Level+1))
	dst.DrawText(0, 0, hud)

	gridW := ReelCount*slotW + (ReelCount-1)*slotGap
	ox := (dst.Width() - gridW) / 2
	oy := 3
	dst.DrawTextColored((dst.Width()-len(g.Title()))/2, 1, g.Title(), core.ColorBrightMagenta)

	wins := g.winningCells()
	for reel := range ReelCount {
		for row := range RowCount {
			x := ox + reel*(slotW+slotGap)
			y := oy + row*slotH
			dst.DrawBox(core.NewRect(x, y, slotW, slotH))

			sym := g.last.Window[reel][row]
			c := core.ColorWhite
			if !g.reelStopped(reel) {
				sym = g.blur[reel][row]
				c = core.ColorGray
			} else if wins[[2]int{reel, row}] {
				c = core.ColorBrightGreen
			}
			dst.SetColored(x+slotW/2, y+1, g.glyphFor(sym), c)
		}
	}

	info := oy + RowCount*slotH + 1
	daily := fmt.Sprintf("Daily streak %d", s.DailyRewardStreak)
	if s.CanClaimDaily(g.machine.now()) {
		daily = "Daily reward ready! Press G"
	}
	dst.DrawTextCentered(info, daily)
	dst.DrawTextCentered(info+1, fmt.Sprintf("Spins %d  Biggest win %d  Achievements %d/%d",
		s.SpinCount, s.BiggestWin, len(s.UnlockedAchievements), len(Achievements)))

	status := g.message
	if status == "" {
		status = "space spin  up/down bet  g daily  p pause"
	}
	dst.DrawTextColored(1, dst.Height()-1, status, core.ColorBrightYellow)

	if g.paused {
		dst.DrawMessageBox("PAUSED", "Press P to resume")
	}
}

// State returns the current game state. The score is the balance.
func (g *Game) State() core.GameState {
	s := g.machine.State()
	return core.GameState{
		Score:   s.Balance,
		Level:   s.Level,
		Paused:  g.paused,
		Message: g.message,
	}
}

// Unlocked lists the titles of earned achievements in unlock order.
func (g *Game) Unlocked() []string {
	return g.machine.State().AchievementTitles()
}

// StateKey returns the key player progress is saved under.
func (g *Game) StateKey() string {
	return StateKey
}

// DescribeProgress summarizes a saved player state for the scoreboard and
// the progress command.
func (g *Game) DescribeProgress(data []byte) ([]registry.Stat, error) {
	s, err := DecodeState(data)
	if err != nil {
		return nil, err
	}

	earned := "none yet"
	if titles := s.AchievementTitles(); len(titles) > 0 {
		earned = strings.Join(titles, ", ")
	}
	return []registry.Stat{
		{Label: "Balance", Value: fmt.Sprintf("%d coins", s.Balance)},
		{Label: "Level", Value: fmt.Sprintf("%d (%d/%d xp)", s.Level, s.XP, XPForLevel(s.Level+1))},
		{Label: "Spins", Value: fmt.Sprint(s.SpinCount)},
		{Label: "Biggest win", Value: fmt.Sprint(s.BiggestWin)},
		{Label: "Daily streak", Value: fmt.Sprintf("%d days", s.DailyRewardStreak)},
		{Label: "Achievements", Value: fmt.Sprintf("%d/%d: %s", len(s.UnlockedAchievements), len(Achievements), earned)},
	}, nil
}

var (
	_ registry.StateBinder      = (*Game)(nil)
	_ registry.ProgressReporter = (*Game)(nil)
)

func init() {
	registry.Register("slots", func() registry.Game {
		return New()
	})
}
