package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/nootfarm/noot-arcade/internal/config"
	"github.com/nootfarm/noot-arcade/internal/core"
	"github.com/nootfarm/noot-arcade/internal/games/farm"
	"github.com/nootfarm/noot-arcade/internal/games/platformer"
	"github.com/nootfarm/noot-arcade/internal/games/slots"
	"github.com/nootfarm/noot-arcade/internal/platform/tui"
)

// selectableLevels is how many platformer levels the start menu offers.
const selectableLevels = 12

var (
	flagConfig     string
	flagDifficulty string
)

// terminalConfig builds the runtime config from the current terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// prepareGame applies --config and --difficulty to gameID and runs any
// pre-game selector. ok is false when the player backed out.
func prepareGame(gameID string, cfg core.RuntimeConfig) (ok bool, err error) {
	switch gameID {
	case "platformer":
		platformer.SetConfigPath(flagConfig)
		platformer.SetDifficultyPreset(flagDifficulty)

		level, chosen, err := tui.RunLevelSelector("N O O T   J U M P", platformerLevelLabels(), cfg)
		if err != nil || !chosen {
			return false, err
		}
		platformer.SetStartLevel(level)

	case "farm":
		farm.SetConfigPath(flagConfig)
		farm.SetDifficultyPreset(flagDifficulty)

	case "slots":
		slots.SetConfigPath(flagConfig)
		if flagDifficulty != "" {
			log.Warn("slots has no difficulty presets, ignoring", "difficulty", flagDifficulty)
		}
	}
	return true, nil
}

// platformerLevelLabels describes the first levels with the difficulty the
// generator will use for each under the current preset.
func platformerLevelLabels() []string {
	cfg, err := config.LoadPlatformer(flagConfig)
	if err != nil {
		log.Warn("platformer: config load failed, using defaults", "err", err)
		cfg = config.DefaultPlatformerConfig()
	}
	config.ApplyPreset(&cfg.Difficulty, config.ParsePreset(flagDifficulty))
	dm := config.NewDifficultyManager(cfg.Difficulty)

	labels := make([]string, selectableLevels)
	for i := range labels {
		labels[i] = fmt.Sprintf("Level %-3d difficulty %d", i+1, dm.Level(i))
	}
	return labels
}
