package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jfmyers9/harvestmedia/internal/catalog"
	"github.com/jfmyers9/harvestmedia/internal/config"
	"github.com/jfmyers9/harvestmedia/internal/journal"
	"github.com/jfmyers9/harvestmedia/internal/logging"
	"github.com/jfmyers9/harvestmedia/pkg/harvestmedia"
)

// app bundles what a command needs: configuration, a logger and a client.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	logs    io.Closer
	client  *harvestmedia.Client
	journal *journal.Journal
}

// newApp loads configuration, applies the global flags and creates the
// web service client.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("timeout") {
		cfg.HarvestMedia.Timeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, logs, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	client, err := harvestmedia.NewClient(harvestmedia.Config{
		APIKey:        cfg.HarvestMedia.APIKey,
		WebServiceURL: cfg.HarvestMedia.WebServiceURL,
		Timeout:       cfg.HarvestMedia.Timeout,
		RateLimit:     rate.Limit(cfg.HarvestMedia.RateLimit),
		Logger:        logging.NewAdapter(logger),
	})
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("webservice_url", cfg.HarvestMedia.WebServiceURL).
		Dur("timeout", cfg.HarvestMedia.Timeout).
		Msg("Client configured")

	return &app{cfg: cfg, logger: logger, logs: logs, client: client}, nil
}

// catalog opens the journal and returns a Catalog recording into it.
func (a *app) catalog() (*catalog.Catalog, error) {
	j, err := a.openJournal()
	if err != nil {
		return nil, err
	}
	return catalog.New(a.client.Playlists(), j, a.logger), nil
}

func (a *app) openJournal() (*journal.Journal, error) {
	if a.journal != nil {
		return a.journal, nil
	}

	if err := os.MkdirAll(filepath.Dir(a.cfg.JournalPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	j, err := journal.Open(a.cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	a.journal = j
	return j, nil
}

// memberID returns the explicit member ID or the configured one.
func (a *app) memberID(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if a.cfg.HarvestMedia.MemberID != "" {
		return a.cfg.HarvestMedia.MemberID, nil
	}
	return "", fmt.Errorf("no member given: pass --member or run 'hm login' first")
}

// Close releases the journal and the log file.
func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close journal")
		}
	}
	_ = a.logs.Close()
}

// withApp adapts a command body taking an app into a cobra RunE function.
func withApp(run func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd.Context(), cmd, a, args)
	}
}
