package slots

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nootfarm/noot-arcade/internal/config"
)

// StateKey is the storage key of the persisted player state.
const StateKey = "slotMachineState"

var (
	ErrInsufficientBalance = errors.New("slots: insufficient balance")
	ErrInvalidBet          = errors.New("slots: invalid bet")
	ErrDailyAlreadyClaimed = errors.New("slots: daily reward already claimed today")
)

// State is the player progress that survives between sessions.
type State struct {
	Balance              int       `json:"balance"`
	TotalWinnings        int       `json:"totalWinnings"`
	BiggestWin           int       `json:"biggestWin"`
	SpinCount            int       `json:"spinCount"`
	XP                   int       `json:"xp"`
	Level                int       `json:"level"`
	UnlockedAchievements []string  `json:"unlockedAchievements"`
	DailyRewardStreak    int       `json:"dailyRewardStreak"`
	LastDailyReward      time.Time `json:"lastDailyReward"`
}

// NewState returns a fresh player state.
func NewState(cfg config.SlotsConfig) State {
	return State{
		Balance:              cfg.StartBalance,
		Level:                1,
		UnlockedAchievements: []string{},
	}
}

// DecodeState parses a persisted state blob.
func DecodeState(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("slots: decode state: %w", err)
	}
	if s.Balance < 0 {
		return State{}, fmt.Errorf("slots: decode state: negative balance %d", s.Balance)
	}
	s.Level = max(s.Level, LevelForXP(s.XP))
	if s.UnlockedAchievements == nil {
		s.UnlockedAchievements = []string{}
	}
	return s, nil
}

// Encode serializes the state for storage.
func (s State) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("slots: encode state: %w", err)
	}
	return data, nil
}

// Unlocked reports whether an achievement has been earned.
func (s State) Unlocked(id string) bool {
	return slices.Contains(s.UnlockedAchievements, id)
}

// AchievementTitles lists the titles of earned achievements in unlock order.
func (s State) AchievementTitles() []string {
	var titles []string
	for _, a := range Achievements {
		if s.Unlocked(a.ID) {
			titles = append(titles, a.Title)
		}
	}
	return titles
}

// XPForLevel returns the total xp needed to reach level n.
// Each level costs 100 xp more than the previous one.
func XPForLevel(n int) int {
	if n <= 1 {
		return 0
	}
	return 50 * n * (n - 1)
}

// LevelForXP returns the level reached with xp.
func LevelForXP(xp int) int {
	level := 1
	for xp >= XPForLevel(level+1) {
		level++
	}
	return level
}

// Achievement is a one-time milestone.
type Achievement struct {
	ID    string
	Title string
	check func(s State, last SpinResult, cfg config.SlotsConfig) bool
}

// Achievements lists every milestone in unlock-check order.
var Achievements = []Achievement{
	{"first_spin", "First Spin", func(s State, _ SpinResult, _ config.SlotsConfig) bool {
		return s.SpinCount >= 1
	}},
	{"first_win", "Winner", func(s State, _ SpinResult, _ config.SlotsConfig) bool {
		return s.TotalWinnings > 0
	}},
	{"big_win", "Big Win", func(_ State, last SpinResult, cfg config.SlotsConfig) bool {
		return last.Bet > 0 && last.Payout >= last.Bet*cfg.BigWinFactor
	}},
	{"jackpot", "Jackpot!", func(_ State, last SpinResult, _ config.SlotsConfig) bool {
		return last.Jackpot
	}},
	{"spins_100", "Centurion", func(s State, _ SpinResult, _ config.SlotsConfig) bool {
		return s.SpinCount >= 100
	}},
	{"level_5", "High Roller", func(s State, _ SpinResult, _ config.SlotsConfig) bool {
		return s.Level >= 5
	}},
	{"streak_7", "Loyal Farmer", func(s State, _ SpinResult, _ config.SlotsConfig) bool {
		return s.DailyRewardStreak >= 7
	}},
}

// unlock records every newly earned achievement and returns them.
func (s *State) unlock(last SpinResult, cfg config.SlotsConfig) []Achievement {
	var earned []Achievement
	for _, a := range Achievements {
		if s.Unlocked(a.ID) || !a.check(*s, last, cfg) {
			continue
		}
		s.UnlockedAchievements = append(s.UnlockedAchievements, a.ID)
		earned = append(earned, a)
	}
	return earned
}

// sameDay reports whether a and b fall on the same calendar day in loc.
func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// CanClaimDaily reports whether the daily reward is available at now.
func (s State) CanClaimDaily(now time.Time) bool {
	return s.LastDailyReward.IsZero() || !sameDay(s.LastDailyReward, now, now.Location())
}

// DailyReward returns the payout for a streak.
func DailyReward(cfg config.SlotsConfig, streak int) int {
	return cfg.DailyBase * min(streak, max(cfg.DailyCap, 1))
}

// ClaimDaily grants the daily reward at now. The streak always advances by
// one; a second claim on the same calendar day is rejected.
func (s *State) ClaimDaily(now time.Time, cfg config.SlotsConfig) (int, error) {
	if !s.CanClaimDaily(now) {
		return 0, ErrDailyAlreadyClaimed
	}
	s.DailyRewardStreak++
	reward := DailyReward(cfg, s.DailyRewardStreak)
	s.Balance += reward
	s.LastDailyReward = now
	return reward, nil
}
