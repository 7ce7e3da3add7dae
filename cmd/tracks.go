package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/harvestmedia/pkg/harvestmedia"
)

var trackCmd = &cobra.Command{
	Use:   "track <id>...",
	Short: "Show one or more tracks",
	Long: `Fetch tracks by ID.

With a single ID every attribute and the category tree are printed.
With several IDs a summary table is printed instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(runTrack),
}

var waveformCmd = &cobra.Command{
	Use:   "waveform <track-id>",
	Short: "Print the waveform image URL of a track",
	Long: `Print the waveform image URL of a track.

The URL is built from the service info template; no track lookup is made.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runWaveform),
}

var urlsCmd = &cobra.Command{
	Use:   "urls <track-id>",
	Short: "Print every asset URL of a track",
	Long: `Fetch a track and print its album art, waveform, stream and download
URLs. A download URL is printed for each track format the service offers.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runURLs),
}

func init() {
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(waveformCmd)
	rootCmd.AddCommand(urlsCmd)

	waveformCmd.Flags().Int("width", 600, "Image width in pixels")
	waveformCmd.Flags().Int("height", 100, "Image height in pixels")

	urlsCmd.Flags().Int("width", 300, "Image width in pixels")
	urlsCmd.Flags().Int("height", 300, "Image height in pixels")
}

func runTrack(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	tracks, err := a.client.Tracks().GetByIDs(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to get tracks: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		if len(tracks) == 0 {
			return fmt.Errorf("track %s not found", args[0])
		}
		printTrack(out, &tracks[0])
		return nil
	}

	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{t.ID, t.DisplayTitle, t.Time, t.Genre, t.Publisher})
	}
	printTable(out, []string{"ID", "TITLE", "TIME", "GENRE", "PUBLISHER"}, rows)
	return nil
}

// printTrack writes all attributes in name order, then the categories
// indented by depth.
func printTrack(w io.Writer, t *harvestmedia.Track) {
	attrs := t.AsMap()
	keys := make([]string, 0, len(attrs))
	for k, v := range attrs {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, attrs[k])
	}
	printFields(w, pairs...)

	if len(t.Categories) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Categories:")
	for _, c := range t.Categories {
		c.Walk(func(path []string, node harvestmedia.Category) {
			fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", len(path)), node.Name)
		})
	}
}

func runWaveform(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	url, err := a.client.Tracks().WaveformURL(ctx, &harvestmedia.Track{ID: args[0]}, width, height)
	if err != nil {
		return fmt.Errorf("failed to build waveform URL: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), url)
	return nil
}

func runURLs(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	tracks := a.client.Tracks()
	track, err := tracks.GetByID(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get track: %w", err)
	}

	var pairs []string
	albumArt, err := tracks.AlbumArtURL(ctx, track, width, height)
	switch {
	case err == nil:
		pairs = append(pairs, "Album art", albumArt)
	case errors.Is(err, harvestmedia.ErrMissingParameter):
		// Tracks without an album have no artwork
	default:
		return fmt.Errorf("failed to build album art URL: %w", err)
	}

	waveform, err := tracks.WaveformURL(ctx, track, width, height)
	if err != nil {
		return fmt.Errorf("failed to build waveform URL: %w", err)
	}
	stream, err := tracks.StreamURL(ctx, track)
	if err != nil {
		return fmt.Errorf("failed to build stream URL: %w", err)
	}
	pairs = append(pairs, "Waveform", waveform, "Stream", stream)

	session, err := a.client.Session(ctx)
	if err != nil {
		return fmt.Errorf("failed to establish session: %w", err)
	}
	for _, f := range session.TrackFormats {
		download, err := tracks.DownloadURL(ctx, track, f.Extension)
		if err != nil {
			return fmt.Errorf("failed to build %s download URL: %w", f.Extension, err)
		}
		pairs = append(pairs, "Download ("+f.Extension+")", download)
	}

	printFields(cmd.OutOrStdout(), pairs...)
	return nil
}
