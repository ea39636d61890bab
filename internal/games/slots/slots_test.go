package slots

import (
	"errors"
	"testing"
	"time"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
	"github.com/nootfarm/noot-arcade/internal/registry"
)

type memStore struct {
	data    map[string][]byte
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) LoadState(key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) SaveState(key string, value []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[key] = value
	return nil
}

func window(top, mid, bottom [3]int) Window {
	var w Window
	for reel := range ReelCount {
		w[reel][0] = top[reel]
		w[reel][1] = mid[reel]
		w[reel][2] = bottom[reel]
	}
	return w
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEvaluateJackpot(t *testing.T) {
	reels := NewReels(config.DefaultSlotsConfig().Symbols)
	w := window([3]int{0, 1, 2}, [3]int{6, 6, 6}, [3]int{3, 4, 5})

	res := reels.Evaluate(w, 10)
	if !res.Jackpot {
		t.Error("three sevens on the middle line should hit the jackpot")
	}
	if len(res.Wins) != 1 || res.Wins[0].Line != 0 || res.Wins[0].Count != 3 {
		t.Fatalf("wins = %+v", res.Wins)
	}
	if res.Payout != 10*250/len(Paylines) {
		t.Errorf("payout = %d", res.Payout)
	}
}

func TestEvaluateTwoOfAKind(t *testing.T) {
	reels := NewReels(config.DefaultSlotsConfig().Symbols)

	// Cherries pay for two from the left, lemons do not.
	w := window([3]int{0, 0, 1}, [3]int{1, 1, 2}, [3]int{3, 4, 5})
	res := reels.Evaluate(w, 10)
	if len(res.Wins) != 1 || res.Wins[0].Symbol != 0 || res.Wins[0].Count != 2 {
		t.Fatalf("wins = %+v", res.Wins)
	}
	if res.Payout != 10*2/len(Paylines) || res.Jackpot {
		t.Errorf("payout = %d jackpot=%v", res.Payout, res.Jackpot)
	}
}

func TestEvaluateDiagonal(t *testing.T) {
	reels := NewReels(config.DefaultSlotsConfig().Symbols)
	w := window([3]int{2, 0, 1}, [3]int{0, 2, 1}, [3]int{1, 0, 2})

	res := reels.Evaluate(w, 25)
	if len(res.Wins) != 1 || res.Wins[0].Line != 3 {
		t.Fatalf("wins = %+v, want the down diagonal", res.Wins)
	}
	if res.Payout != 25*12/len(Paylines) {
		t.Errorf("payout = %d", res.Payout)
	}
}

func TestDrawRespectsWeights(t *testing.T) {
	symbols := []config.SlotSymbol{
		{ID: "never", Weight: 0},
		{ID: "always", Weight: 5},
	}
	reels := NewReels(symbols)
	rng := core.NewRandom(1)
	for range 100 {
		if got := reels.Draw(rng); got != 1 {
			t.Fatalf("drew %d, want only the weighted symbol", got)
		}
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		xp, level int
	}{
		{0, 1}, {99, 1}, {100, 2}, {299, 2}, {300, 3}, {600, 4}, {1000, 5},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.level {
			t.Errorf("LevelForXP(%d) = %d, want %d", tt.xp, got, tt.level)
		}
	}
}

func TestSpinAccounting(t *testing.T) {
	cfg := config.DefaultSlotsConfig()
	m := NewMachine(cfg, core.NewRandom(7))

	res, earned, err := m.Spin(10)
	if err != nil {
		t.Fatalf("Spin: %v", err)
	}
	s := m.State()
	if s.Balance != cfg.StartBalance-10+res.Payout {
		t.Errorf("balance = %d", s.Balance)
	}
	if s.SpinCount != 1 || s.TotalWinnings != res.Payout || s.BiggestWin != res.Payout {
		t.Errorf("stats = %+v", s)
	}
	if s.XP != cfg.XPPerSpin+res.Payout/cfg.XPWinDivisor {
		t.Errorf("xp = %d", s.XP)
	}
	if len(earned) == 0 || earned[0].ID != "first_spin" || !s.Unlocked("first_spin") {
		t.Error("first spin should unlock first_spin")
	}

	if _, earned, _ := m.Spin(10); len(earned) > 0 && earned[0].ID == "first_spin" {
		t.Error("achievements unlock once")
	}
}

func TestSpinErrors(t *testing.T) {
	m := NewMachine(config.DefaultSlotsConfig(), core.NewRandom(1))

	if _, _, err := m.Spin(7); !errors.Is(err, ErrInvalidBet) {
		t.Errorf("err = %v, want ErrInvalidBet", err)
	}

	s := m.State()
	s.Balance = 5
	m.SetState(s)
	if _, _, err := m.Spin(10); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("err = %v, want ErrInsufficientBalance", err)
	}
	if m.State().Balance != 5 || m.State().SpinCount != 0 {
		t.Error("failed spin must not change state")
	}
}

func TestDailyReward(t *testing.T) {
	cfg := config.DefaultSlotsConfig()
	m := NewMachine(cfg, core.NewRandom(1))
	day := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

	m.SetClock(fixedClock(day))
	reward, _, err := m.ClaimDaily()
	if err != nil {
		t.Fatalf("ClaimDaily: %v", err)
	}
	if reward != cfg.DailyBase || m.State().DailyRewardStreak != 1 {
		t.Errorf("reward %d streak %d", reward, m.State().DailyRewardStreak)
	}
	if m.State().Balance != cfg.StartBalance+cfg.DailyBase {
		t.Errorf("balance = %d", m.State().Balance)
	}

	m.SetClock(fixedClock(day.Add(13 * time.Hour)))
	if _, _, err := m.ClaimDaily(); !errors.Is(err, ErrDailyAlreadyClaimed) {
		t.Errorf("err = %v, want ErrDailyAlreadyClaimed", err)
	}
	if m.State().DailyRewardStreak != 1 {
		t.Error("rejected claim changed the streak")
	}

	m.SetClock(fixedClock(day.Add(24 * time.Hour)))
	reward, _, err = m.ClaimDaily()
	if err != nil || reward != 2*cfg.DailyBase || m.State().DailyRewardStreak != 2 {
		t.Errorf("second day: reward %d streak %d err %v", reward, m.State().DailyRewardStreak, err)
	}
}

func TestDailyRewardStreakIncrementsByOne(t *testing.T) {
	cfg := config.DefaultSlotsConfig()
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, gap := range []int{1, 2, 10} {
		s := NewState(cfg)
		s.DailyRewardStreak = 4
		s.LastDailyReward = day
		before := s.DailyRewardStreak

		if _, err := s.ClaimDaily(day.AddDate(0, 0, gap), cfg); err != nil {
			t.Fatalf("gap %d: %v", gap, err)
		}
		if s.DailyRewardStreak != before+1 {
			t.Errorf("gap %d: streak %d, want %d", gap, s.DailyRewardStreak, before+1)
		}
	}
}

func TestDailyRewardCapAndAchievement(t *testing.T) {
	cfg := config.DefaultSlotsConfig()
	m := NewMachine(cfg, core.NewRandom(1))
	s := m.State()
	s.DailyRewardStreak = 8
	m.SetState(s)
	m.SetClock(fixedClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))

	reward, earned, err := m.ClaimDaily()
	if err != nil {
		t.Fatal(err)
	}
	if reward != cfg.DailyBase*cfg.DailyCap {
		t.Errorf("reward = %d, want capped %d", reward, cfg.DailyBase*cfg.DailyCap)
	}
	found := false
	for _, a := range earned {
		if a.ID == "streak_7" {
			found = true
		}
	}
	if !found {
		t.Error("streak_7 should unlock")
	}
}

func TestDecodeState(t *testing.T) {
	cfg := config.DefaultSlotsConfig()
	s := NewState(cfg)
	s.XP = 350
	s.UnlockedAchievements = append(s.UnlockedAchievements, "first_spin")
	data, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeState(data)
	if err != nil {
		t.Fatalf("DecodeState: %v", err)
	}
	if got.Level != 3 || !got.Unlocked("first_spin") || got.Balance != cfg.StartBalance {
		t.Errorf("decoded %+v", got)
	}

	if _, err := DecodeState([]byte("{not json")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := DecodeState([]byte(`{"balance": -3}`)); err == nil {
		t.Error("expected negative balance error")
	}
}

func newTestGame(store *memStore) *Game {
	g := New()
	if store != nil {
		g.BindState(store)
	}
	g.ResetWith(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}, config.DefaultSlotsConfig())
	return g
}

func TestGamePersistsAndRestores(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)

	g.Step(core.NewInputFrame(core.ActionJump))
	if store.saves != 1 {
		t.Fatalf("spin should persist, saves = %d", store.saves)
	}
	if _, ok := store.data[StateKey]; !ok {
		t.Fatal("state not stored under its key")
	}
	want := g.Machine().State()

	restored := newTestGame(store)
	got := restored.Machine().State()
	if got.Balance != want.Balance || got.SpinCount != 1 || got.XP != want.XP {
		t.Errorf("restored %+v, want %+v", got, want)
	}

	// Binding after Reset also loads
	late := New()
	late.ResetWith(core.RuntimeConfig{Seed: 2}, config.DefaultSlotsConfig())
	late.BindState(store)
	if late.Machine().State().SpinCount != 1 {
		t.Error("late bind should load stored progress")
	}
}

func TestDescribeProgress(t *testing.T) {
	store := newMemStore()
	if _, ok, err := registry.Progress("slots", store); ok || err != nil {
		t.Fatalf("fresh store: ok = %v, err = %v", ok, err)
	}

	s := NewState(config.DefaultSlotsConfig())
	s.XP = 350
	s.SpinCount = 12
	s.UnlockedAchievements = []string{"first_win", "first_spin"}
	data, err := s.Encode()
	if err != nil {
		t.Fatal(err)
	}
	store.data[StateKey] = data

	stats, ok, err := registry.Progress("slots", store)
	if err != nil || !ok {
		t.Fatalf("Progress: ok = %v, err = %v", ok, err)
	}
	lines := map[string]string{}
	for _, st := range stats {
		lines[st.Label] = st.Value
	}
	if lines["Level"] != "3 (350/600 xp)" {
		t.Errorf("level line = %q", lines["Level"])
	}
	if lines["Spins"] != "12" {
		t.Errorf("spins line = %q", lines["Spins"])
	}
	if want := "2/7: First Spin, Winner"; lines["Achievements"] != want {
		t.Errorf("achievements line = %q, want %q", lines["Achievements"], want)
	}

	if _, err := New().DescribeProgress([]byte("garbage")); err == nil {
		t.Error("garbage state should not describe")
	}
}

func TestGameCorruptStateStartsFresh(t *testing.T) {
	store := newMemStore()
	store.data[StateKey] = []byte("garbage")
	g := newTestGame(store)
	if g.Machine().State().Balance != config.DefaultSlotsConfig().StartBalance {
		t.Error("corrupt state should fall back to a fresh balance")
	}
}

func TestGamePersistError(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	g := newTestGame(store)

	if err := g.persist(); err == nil || !errors.Is(err, store.saveErr) {
		t.Errorf("persist err = %v", err)
	}
	// The frame loop keeps going
	g.Step(core.NewInputFrame(core.ActionJump))
	if !g.spinning {
		t.Error("spin should proceed even when saving fails")
	}
}

func TestGameSpinAnimation(t *testing.T) {
	g := newTestGame(nil)
	before := g.Machine().State().Balance

	g.Step(core.NewInputFrame(core.ActionJump))
	if !g.spinning {
		t.Fatal("space should start a spin")
	}
	if g.reelStopped(0) {
		t.Error("reels should be moving right after the spin starts")
	}

	// Input is ignored while the reels turn
	g.Step(core.NewInputFrame(core.ActionJump))
	if g.Machine().State().SpinCount != 1 {
		t.Error("second spin started mid-animation")
	}

	for i := 0; i < g.spinLength() && g.spinning; i++ {
		g.Step(core.NewInputFrame())
	}
	if g.spinning {
		t.Fatal("spin should finish")
	}
	if g.message == "" {
		t.Error("result message should be shown when the reels stop")
	}
	after := g.Machine().State().Balance
	if after != before-g.Bet()+g.last.Payout {
		t.Errorf("balance %d -> %d with payout %d", before, after, g.last.Payout)
	}
}

func TestGameBetSelection(t *testing.T) {
	g := newTestGame(nil)
	bets := config.DefaultSlotsConfig().Bets

	g.Step(core.NewInputFrame(core.ActionDown))
	if g.Bet() != bets[0] {
		t.Errorf("bet = %d, want floor %d", g.Bet(), bets[0])
	}
	for range len(bets) + 2 {
		g.Step(core.NewInputFrame(core.ActionUp))
	}
	if g.Bet() != bets[len(bets)-1] {
		t.Errorf("bet = %d, want ceiling %d", g.Bet(), bets[len(bets)-1])
	}
}

func TestGameClaimFromInput(t *testing.T) {
	store := newMemStore()
	g := newTestGame(store)
	g.Machine().SetClock(fixedClock(time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)))

	g.Step(core.NewInputFrame(core.ActionClaim))
	if g.Machine().State().DailyRewardStreak != 1 || store.saves != 1 {
		t.Fatal("claim should advance the streak and persist")
	}

	res := g.Step(core.NewInputFrame(core.ActionClaim))
	if res.State.Message != ErrDailyAlreadyClaimed.Error() {
		t.Errorf("message = %q", res.State.Message)
	}
}

func TestGameInsufficientBalanceMessage(t *testing.T) {
	g := newTestGame(nil)
	s := g.Machine().State()
	s.Balance = 0
	g.Machine().SetState(s)

	res := g.Step(core.NewInputFrame(core.ActionJump))
	if g.spinning || res.State.Message == "" {
		t.Error("broke player should see a message instead of a spin")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(nil)
	g.Step(core.NewInputFrame(core.ActionJump))
	for _, size := range [][2]int{{80, 24}, {20, 5}, {160, 48}} {
		screen := core.NewScreen(size[0], size[1])
		g.Render(screen)
	}
}
