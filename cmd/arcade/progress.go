package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nootfarm/noot-arcade/internal/registry"
	"github.com/nootfarm/noot-arcade/internal/storage"
)

var (
	flagProgressUser  string
	flagProgressReset bool
)

var progressCmd = &cobra.Command{
	Use:   "progress [game]",
	Short: "Show or reset saved game progress",
	Long: `Show what games keep between runs: the slot machine's balance, level,
achievements and daily streak. Local play saves without a user; SSH players
each get their own save, selected with --user.

Examples:
  arcade progress
  arcade progress slots --user alice
  arcade progress slots --reset`,
	Args: cobra.MaximumNArgs(1),
	Run:  runProgress,
}

func init() {
	progressCmd.Flags().StringVar(&flagProgressUser, "user", "", "SSH user whose save to use (default: local play)")
	progressCmd.Flags().BoolVar(&flagProgressReset, "reset", false, "Delete the saved progress")
}

func runProgress(_ *cobra.Command, args []string) {
	var ids []string
	if len(args) == 1 {
		if !registry.Exists(args[0]) {
			fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", args[0])
			os.Exit(1)
		}
		ids = append(ids, args[0])
	} else {
		if flagProgressReset {
			fmt.Fprintln(os.Stderr, "Error: --reset needs a game")
			os.Exit(1)
		}
		for _, g := range registry.List() {
			if g.Saves {
				ids = append(ids, g.ID)
			}
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagProgressReset {
		removed, err := store.ResetProgress(ids[0], flagProgressUser)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if removed {
			fmt.Printf("Reset %s progress%s.\n", ids[0], forUser(flagProgressUser))
		} else {
			fmt.Printf("No saved %s progress%s.\n", ids[0], forUser(flagProgressUser))
		}
		return
	}

	state := storage.Scope(store, flagProgressUser)
	for i, id := range ids {
		if i > 0 {
			fmt.Println()
		}
		stats, ok, err := registry.Progress(id, state)
		switch {
		case err != nil:
			fmt.Printf("%s: %v\n", id, err)
		case !ok:
			fmt.Printf("%s: nothing saved%s\n", id, forUser(flagProgressUser))
		default:
			fmt.Printf("%s%s\n\n", id, forUser(flagProgressUser))
			width := 0
			for _, st := range stats {
				width = max(width, len(st.Label))
			}
			for _, st := range stats {
				fmt.Printf("  %-*s  %s\n", width, st.Label, st.Value)
			}
		}
	}
}

func forUser(user string) string {
	if user == "" {
		return ""
	}
	return " for " + user
}
