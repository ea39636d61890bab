// arcade is the Noot Arcade: a platformer, a farm defense game and a slot
// machine for the terminal, plus a local NOOT token wallet.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH server for remote play
//	arcade scores [game]     - Show high scores
//	arcade progress [game]   - Show or reset saved progress
//	arcade level             - Print a generated platformer level as YAML
//	arcade wallet <command>  - Claim, approve, swap and inspect NOOT
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.arcade/scores.db)
//	--log <path>    - Write logs to a file (default: ~/.arcade/arcade.log)
//	--verbose       - Enable debug logging
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import games to register them
	_ "github.com/nootfarm/noot-arcade/internal/games/farm"
	_ "github.com/nootfarm/noot-arcade/internal/games/platformer"
	_ "github.com/nootfarm/noot-arcade/internal/games/slots"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogPath string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Noot Arcade - Play games in your terminal",
	Long: `Noot Arcade is a terminal gaming platform with three games and a
local NOOT token wallet.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores
  progress - Show or reset saved slot machine progress
  level    - Print a generated platformer level
  wallet   - Manage test NOOT and farm coins

Examples:
  arcade list
  arcade play platformer
  arcade play slots
  arcade menu
  arcade serve --ssh :2222
  arcade scores farm
  arcade wallet claim --account alice`,
	PersistentPreRunE: setupLogging,
	SilenceUsage:      true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.arcade/arcade.log", "Log file path (empty = stderr)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(levelCmd)
	rootCmd.AddCommand(walletCmd)
}

// setupLogging routes the global logger to --log and applies --verbose.
func setupLogging(_ *cobra.Command, _ []string) error {
	if flagVerbose {
		log.SetLevel(log.DebugLevel)
	}
	if flagLogPath == "" {
		return nil
	}

	path, err := expandHome(flagLogPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return nil
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
