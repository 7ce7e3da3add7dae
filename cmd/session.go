package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the current service session",
	Long: `Request a service token and the service info, then print the token
expiry, the asset URL templates and the available track formats.`,
	Args: cobra.NoArgs,
	RunE: withApp(runSession),
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	session, err := a.client.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to establish session: %w", err)
	}

	out := cmd.OutOrStdout()
	printFields(out,
		"Expires", session.ExpiresAt.Format(time.RFC3339),
		"Album art", session.AssetURLs.AlbumArt,
		"Waveform", session.AssetURLs.Waveform,
		"Stream", session.AssetURLs.TrackStream,
		"Download", session.AssetURLs.TrackDownload,
	)
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(session.TrackFormats))
	for _, f := range session.TrackFormats {
		rows = append(rows, []string{f.Extension, f.Identifier, f.Bitrate, f.SampleRate, f.SampleSize})
	}
	printTable(out, []string{"FORMAT", "IDENTIFIER", "BITRATE", "SAMPLE RATE", "SAMPLE SIZE"}, rows)
	return nil
}
