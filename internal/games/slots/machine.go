package slots

import (
	"slices"
	"time"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// Machine resolves spins and claims against the player state.
// It has no notion of animation or persistence.
type Machine struct {
	cfg   config.SlotsConfig
	reels Reels
	rng   core.Random
	now   func() time.Time
	state State
}

// NewMachine creates a machine with a fresh player state.
func NewMachine(cfg config.SlotsConfig, rng core.Random) *Machine {
	return &Machine{
		cfg:   cfg,
		reels: NewReels(cfg.Symbols),
		rng:   rng,
		now:   time.Now,
		state: NewState(cfg),
	}
}

// SetClock replaces the wall clock used for daily rewards.
func (m *Machine) SetClock(now func() time.Time) {
	m.now = now
}

// State returns a copy of the player state.
func (m *Machine) State() State {
	s := m.state
	s.UnlockedAchievements = slices.Clone(s.UnlockedAchievements)
	return s
}

// SetState replaces the player state.
func (m *Machine) SetState(s State) {
	m.state = s
}

// Reels returns the machine's reels.
func (m *Machine) Reels() Reels {
	return m.reels
}

// Bets returns the allowed bet steps.
func (m *Machine) Bets() []int {
	return m.cfg.Bets
}

// Spin takes the bet, spins and settles the result in one step: payout,
// xp, level and achievements.
func (m *Machine) Spin(bet int) (SpinResult, []Achievement, error) {
	if bet <= 0 || (len(m.cfg.Bets) > 0 && !slices.Contains(m.cfg.Bets, bet)) {
		return SpinResult{}, nil, ErrInvalidBet
	}
	if bet > m.state.Balance {
		return SpinResult{}, nil, ErrInsufficientBalance
	}

	m.state.Balance -= bet
	res := m.reels.Evaluate(m.reels.Spin(m.rng), bet)

	s := &m.state
	s.SpinCount++
	s.Balance += res.Payout
	s.TotalWinnings += res.Payout
	s.BiggestWin = max(s.BiggestWin, res.Payout)

	s.XP += m.cfg.XPPerSpin
	if m.cfg.XPWinDivisor > 0 {
		s.XP += res.Payout / m.cfg.XPWinDivisor
	}
	s.Level = max(s.Level, LevelForXP(s.XP))

	return res, s.unlock(res, m.cfg), nil
}

// ClaimDaily grants today's reward.
func (m *Machine) ClaimDaily() (int, []Achievement, error) {
	reward, err := m.state.ClaimDaily(m.now(), m.cfg)
	if err != nil {
		return 0, nil, err
	}
	return reward, m.state.unlock(SpinResult{}, m.cfg), nil
}
