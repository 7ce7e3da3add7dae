package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/harvestmedia/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate a member and remember it",
	Long: `Authenticate a member account against the web service.

On success the member ID is saved to ~/.config/harvestmedia/config.yaml
and used as the default member for the playlist commands.

The password is read from HARVESTMEDIA_PASSWORD when set, otherwise it is
prompted for.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runLogin),
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	username := firstArg(args)
	if username == "" {
		fmt.Fprint(out, "Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	password := os.Getenv("HARVESTMEDIA_PASSWORD")
	if password == "" {
		fmt.Fprint(out, "Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	member, err := a.client.Members().Authenticate(ctx, username, password)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	a.cfg.HarvestMedia.MemberID = member.ID
	if err := a.cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Logged in as %s (member %s)\n", member.Username, member.ID)
	fmt.Fprintf(out, "✓ Member saved to %s/config.yaml\n", config.GetConfigDir())
	return nil
}
