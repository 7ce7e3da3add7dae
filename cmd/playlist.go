package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/harvestmedia/pkg/harvestmedia"
)

var playlistMember string

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Create and edit member playlists",
	Long: `Create and edit member playlists.

Every change is recorded in the local journal, whether or not the service
accepted it. See 'hm history'.`,
}

var playlistCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runPlaylistCreate),
}

var playlistRenameCmd = &cobra.Command{
	Use:   "rename <playlist-id> <name>",
	Short: "Rename a playlist",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runPlaylistRename),
}

var playlistRemoveCmd = &cobra.Command{
	Use:   "remove <playlist-id>",
	Short: "Delete a playlist",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runPlaylistRemove),
}

var playlistAddTrackCmd = &cobra.Command{
	Use:   "add-track <playlist-id> <track-id>",
	Short: "Add a track to a playlist",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runPlaylistAddTrack),
}

var playlistRemoveTrackCmd = &cobra.Command{
	Use:   "remove-track <playlist-id> <track-id>",
	Short: "Remove a track from a playlist",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runPlaylistRemoveTrack),
}

func init() {
	rootCmd.AddCommand(playlistCmd)
	playlistCmd.AddCommand(playlistCreateCmd)
	playlistCmd.AddCommand(playlistRenameCmd)
	playlistCmd.AddCommand(playlistRemoveCmd)
	playlistCmd.AddCommand(playlistAddTrackCmd)
	playlistCmd.AddCommand(playlistRemoveTrackCmd)

	playlistCmd.PersistentFlags().StringVarP(&playlistMember, "member", "m", "", "Member ID (default: member saved by 'hm login')")
}

// playlistRef builds a reference to an existing playlist of the member.
func (a *app) playlistRef(playlistID string) (*harvestmedia.Playlist, error) {
	memberID, err := a.memberID(playlistMember)
	if err != nil {
		return nil, err
	}
	return &harvestmedia.Playlist{ID: playlistID, MemberID: memberID}, nil
}

func runPlaylistCreate(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	memberID, err := a.memberID(playlistMember)
	if err != nil {
		return err
	}
	c, err := a.catalog()
	if err != nil {
		return err
	}

	p, err := c.Create(ctx, memberID, args[0])
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created playlist %q (%s)\n", p.Name, p.ID)
	return nil
}

func runPlaylistRename(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	p, err := a.playlistRef(args[0])
	if err != nil {
		return err
	}
	c, err := a.catalog()
	if err != nil {
		return err
	}

	if err := c.Rename(ctx, p, args[1]); err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed playlist %s to %q\n", p.ID, p.Name)
	return nil
}

func runPlaylistRemove(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	p, err := a.playlistRef(args[0])
	if err != nil {
		return err
	}
	c, err := a.catalog()
	if err != nil {
		return err
	}

	if err := c.Remove(ctx, p); err != nil {
		return fmt.Errorf("failed to remove playlist: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed playlist %s\n", p.ID)
	return nil
}

func runPlaylistAddTrack(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	p, err := a.playlistRef(args[0])
	if err != nil {
		return err
	}
	c, err := a.catalog()
	if err != nil {
		return err
	}

	if err := c.AddTrack(ctx, p, args[1]); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added track %s to playlist %s\n", args[1], p.ID)
	return nil
}

func runPlaylistRemoveTrack(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	p, err := a.playlistRef(args[0])
	if err != nil {
		return err
	}
	c, err := a.catalog()
	if err != nil {
		return err
	}

	if err := c.RemoveTrack(ctx, p, args[1]); err != nil {
		return fmt.Errorf("failed to remove track: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed track %s from playlist %s\n", args[1], p.ID)
	return nil
}
