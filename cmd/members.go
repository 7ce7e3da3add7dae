package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var memberCmd = &cobra.Command{
	Use:   "member [member-id]",
	Short: "Show a member account",
	Long:  `Show a member account. Defaults to the member saved by 'hm login'.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  withApp(runMember),
}

var playlistsCmd = &cobra.Command{
	Use:   "playlists [member-id]",
	Short: "List a member's playlists",
	Long:  `List a member's playlists. Defaults to the member saved by 'hm login'.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  withApp(runPlaylists),
}

func init() {
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(playlistsCmd)

	playlistsCmd.Flags().BoolP("tracks", "t", false, "Also list the tracks of each playlist")
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runMember(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	memberID, err := a.memberID(firstArg(args))
	if err != nil {
		return err
	}

	member, err := a.client.Members().Get(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to get member: %w", err)
	}

	printFields(cmd.OutOrStdout(),
		"ID", member.ID,
		"Username", member.Username,
		"Name", member.FirstName+" "+member.LastName,
		"Email", member.Email,
	)
	return nil
}

func runPlaylists(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	memberID, err := a.memberID(firstArg(args))
	if err != nil {
		return err
	}

	playlists, err := a.client.Members().Playlists(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to get playlists: %w", err)
	}

	withTracks, _ := cmd.Flags().GetBool("tracks")
	out := cmd.OutOrStdout()

	if !withTracks {
		rows := make([][]string, 0, len(playlists))
		for _, p := range playlists {
			rows = append(rows, []string{p.ID, p.Name, strconv.Itoa(len(p.Tracks))})
		}
		printTable(out, []string{"ID", "NAME", "TRACKS"}, rows)
		return nil
	}

	for i, p := range playlists {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  %s\n", p.ID, p.Name)
		rows := make([][]string, 0, len(p.Tracks))
		for n, t := range p.Tracks {
			rows = append(rows, []string{strconv.Itoa(n + 1), t.ID, t.DisplayTitle, t.Time})
		}
		printTable(out, []string{"#", "ID", "TITLE", "TIME"}, rows)
	}
	return nil
}
