package slots

import (
	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// Window geometry
const (
	ReelCount = 3
	RowCount  = 3
)

// Window holds the symbol index visible at each reel and row.
type Window [ReelCount][RowCount]int

// Paylines list the row hit on each reel, left to right.
var Paylines = [][ReelCount]int{
	{1, 1, 1}, // Middle
	{0, 0, 0}, // Top
	{2, 2, 2}, // Bottom
	{0, 1, 2}, // Diagonal down
	{2, 1, 0}, // Diagonal up
}

// LineWin is one paying payline.
type LineWin struct {
	Line   int
	Symbol int
	Count  int // 2 or 3 matching from the left
	Payout int
}

// SpinResult is the outcome of one spin.
type SpinResult struct {
	Window  Window
	Bet     int
	Wins    []LineWin
	Payout  int
	Jackpot bool
}

// Reels draws weighted symbols and evaluates paylines.
type Reels struct {
	symbols []config.SlotSymbol
	total   int
}

// NewReels builds reels from a symbol table. Symbols with a non-positive
// weight never appear.
func NewReels(symbols []config.SlotSymbol) Reels {
	r := Reels{symbols: symbols}
	for _, s := range symbols {
		if s.Weight > 0 {
			r.total += s.Weight
		}
	}
	return r
}

// Symbols returns the symbol table.
func (r Reels) Symbols() []config.SlotSymbol {
	return r.symbols
}

// Draw returns one weighted symbol index.
func (r Reels) Draw(rng core.Random) int {
	if r.total == 0 {
		return 0
	}
	roll := rng.Intn(r.total)
	for i, s := range r.symbols {
		if s.Weight <= 0 {
			continue
		}
		if roll < s.Weight {
			return i
		}
		roll -= s.Weight
	}
	return len(r.symbols) - 1
}

// Spin fills a window with independent draws.
func (r Reels) Spin(rng core.Random) Window {
	var w Window
	for reel := range ReelCount {
		for row := range RowCount {
			w[reel][row] = r.Draw(rng)
		}
	}
	return w
}

// Evaluate scores a window for the given bet. A line pays Pays3 for three of
// a kind, or Pays2 for the first two reels matching. Line payouts are
// multiples of the bet spread across all paylines. Three jackpot symbols on
// the middle line hit the jackpot.
func (r Reels) Evaluate(w Window, bet int) SpinResult {
	res := SpinResult{Window: w, Bet: bet}
	if len(r.symbols) == 0 {
		return res
	}

	for i, line := range Paylines {
		a, b, c := w[0][line[0]], w[1][line[1]], w[2][line[2]]
		if a != b {
			continue
		}
		sym := r.symbols[a]
		win := LineWin{Line: i, Symbol: a}
		switch {
		case b == c && sym.Pays3 > 0:
			win.Count = 3
			win.Payout = bet * sym.Pays3 / len(Paylines)
		case sym.Pays2 > 0:
			win.Count = 2
			win.Payout = bet * sym.Pays2 / len(Paylines)
		default:
			continue
		}
		if win.Payout <= 0 {
			continue
		}
		res.Wins = append(res.Wins, win)
		res.Payout += win.Payout

		if i == 0 && win.Count == 3 && sym.Jackpot {
			res.Jackpot = true
		}
	}
	return res
}
