package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List the music libraries available to this API key",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLibraries),
}

func init() {
	rootCmd.AddCommand(librariesCmd)
}

func runLibraries(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	libraries, err := a.client.Libraries().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list libraries: %w", err)
	}

	rows := make([][]string, 0, len(libraries))
	for _, l := range libraries {
		rows = append(rows, []string{l.ID, l.Name, l.Detail})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "DETAIL"}, rows)
	return nil
}
