package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nootfarm/noot-arcade/internal/registry"
	"github.com/nootfarm/noot-arcade/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long:  `Shows every game registered in the arcade with its best score so far.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No games available.")
		return
	}

	// Scores are optional here
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Debug("list: scores unavailable", "err", err)
		store = nil
	} else {
		defer store.Close()
	}

	maxIDLen, maxTitleLen := len("ID"), len("Title")
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	fmt.Println("Available games:")
	fmt.Println()
	fmt.Printf("  %-*s  %-*s  %-8s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Best", "Progress")
	fmt.Printf("  %-*s  %-*s  %-8s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "----", "--------")

	for _, g := range games {
		best := "-"
		if store != nil {
			if hs, err := store.HighScore(g.ID); err == nil && hs > 0 {
				best = fmt.Sprint(hs)
			}
		}
		progress := "per run"
		if g.Saves {
			progress = "saved"
		}
		fmt.Printf("  %-*s  %-*s  %-8s  %s\n", maxIDLen, g.ID, maxTitleLen, g.Title, best, progress)
	}

	fmt.Println()
	fmt.Println("Run 'arcade play <id>' to play a game, 'arcade level' to print a")
	fmt.Println("generated platformer level, or 'arcade wallet' to manage tokens.")
}
