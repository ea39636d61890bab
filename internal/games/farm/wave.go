package farm

import (
	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
)

// unlockWave is the first wave each enemy kind can appear in.
var unlockWave = []struct {
	kind EnemyKind
	wave int
}{
	{EnemyCrow, 1},
	{EnemyRabbit, 2},
	{EnemyFox, 4},
	{EnemyBoar, 6},
}

// WaveSpec describes one wave.
type WaveSpec struct {
	Number        int // 1-based
	Count         int
	HealthScale   float64
	SpawnInterval int // Ticks between spawns
	Queue         []EnemyKind
}

// Unlocked returns the enemy kinds available in wave n.
func Unlocked(n int) []EnemyKind {
	var kinds []EnemyKind
	for _, u := range unlockWave {
		if n >= u.wave {
			kinds = append(kinds, u.kind)
		}
	}
	return kinds
}

// NewWave builds wave n at the given difficulty. The spawn queue is drawn
// from rng; later kinds in the unlock order are rarer.
func NewWave(cfg config.WaveConfig, n, difficulty int, rng core.Random) WaveSpec {
	n = max(n, 1)
	count := max(cfg.BaseCount+cfg.CountPerWave*(n-1), 0)
	interval := max(cfg.SpawnInterval-cfg.IntervalStep*(n-1), cfg.MinSpawnInterval, 1)

	kinds := Unlocked(n)
	weights := make([]int, len(kinds))
	total := 0
	for i := range kinds {
		weights[i] = len(kinds) - i
		total += weights[i]
	}

	queue := make([]EnemyKind, count)
	for i := range queue {
		roll := rng.Intn(total)
		for k, w := range weights {
			if roll < w {
				queue[i] = kinds[k]
				break
			}
			roll -= w
		}
	}

	return WaveSpec{
		Number:        n,
		Count:         count,
		HealthScale:   1 + cfg.HealthGrowth*float64(difficulty),
		SpawnInterval: interval,
		Queue:         queue,
	}
}
