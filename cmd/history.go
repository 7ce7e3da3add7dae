package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/harvestmedia/internal/config"
	"github.com/jfmyers9/harvestmedia/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the journal of playlist changes",
	Long: `Show the playlist changes made with hm, most recent first.

Failed changes are listed with the error the service returned.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries (0 = all)")
	historyCmd.Flags().StringP("playlist", "p", "", "Only show changes to this playlist")
	historyCmd.Flags().Duration("prune", 0, "Delete entries older than this age before listing")
}

// runHistory only needs the journal, so it works without credentials.
func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.JournalPath), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() { _ = j.Close() }()

	out := cmd.OutOrStdout()

	if prune, _ := cmd.Flags().GetDuration("prune"); prune > 0 {
		deleted, err := j.Cleanup(ctx, prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d entries\n\n", deleted)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	playlistID, _ := cmd.Flags().GetString("playlist")

	var entries []journal.Entry
	if playlistID != "" {
		entries, err = j.ListPlaylist(ctx, playlistID, limit)
	} else {
		entries, err = j.List(ctx, limit)
	}
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Timestamp.Local().Format(time.DateTime),
			e.Operation,
			e.PlaylistID,
			e.TrackID,
			e.Detail,
			e.Outcome,
			e.Error,
		})
	}
	printTable(out, []string{"TIME", "OPERATION", "PLAYLIST", "TRACK", "DETAIL", "OUTCOME", "ERROR"}, rows)

	total, err := j.Count(ctx, false)
	if err != nil {
		return err
	}
	failed, err := j.Count(ctx, true)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d changes recorded, %d failed\n", total, failed)
	return nil
}
