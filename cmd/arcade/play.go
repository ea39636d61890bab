package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nootfarm/noot-arcade/internal/platform/tui"
	"github.com/nootfarm/noot-arcade/internal/registry"
	"github.com/nootfarm/noot-arcade/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Arrows/WASD  - Move, run, raise or lower the bet
  Space        - Jump / spin
  Enter        - Place a defense / spin
  C            - Cycle defense type
  X            - Special attack
  Del/Bksp     - Remove the defense under the cursor (half refund)
  G            - Claim the daily slots reward
  P            - Pause
  B/Esc        - Back (while paused or after game over)
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit
  Ctrl+S       - Save a text screenshot

Difficulty options (platformer and farm):
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  arcade play platformer
  arcade play farm --difficulty hard
  arcade play slots
  arcade play platformer --config ./my-platformer.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	cfg := terminalConfig()

	ok, err := prepareGame(gameID, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		return
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Continue without storage - game still works
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	_, runErr := tui.Run(game, store, cfg)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
