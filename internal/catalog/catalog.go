// Package catalog wraps the playlist operations of the harvestmedia client
// and records every mutation in the local journal.
package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/harvestmedia/internal/journal"
	"github.com/jfmyers9/harvestmedia/pkg/harvestmedia"
)

// Journaled operation names
const (
	OpCreate      = "create"
	OpRename      = "rename"
	OpRemove      = "remove"
	OpAddTrack    = "add-track"
	OpRemoveTrack = "remove-track"
)

// Playlists is the subset of *harvestmedia.PlaylistService used here.
type Playlists interface {
	Create(ctx context.Context, memberID, name string) (*harvestmedia.Playlist, error)
	Update(ctx context.Context, p *harvestmedia.Playlist) error
	Remove(ctx context.Context, p *harvestmedia.Playlist) error
	AddTrack(ctx context.Context, p *harvestmedia.Playlist, trackID string) error
	RemoveTrack(ctx context.Context, p *harvestmedia.Playlist, trackID string) error
}

// Recorder stores journal entries.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) (string, error)
}

// Catalog issues playlist mutations and journals their outcome.
//
// A journal write failure is logged but never turns a successful mutation
// into an error, since the service has already applied it.
type Catalog struct {
	playlists Playlists
	journal   Recorder
	logger    zerolog.Logger
}

// New creates a Catalog.
func New(playlists Playlists, rec Recorder, logger zerolog.Logger) *Catalog {
	return &Catalog{
		playlists: playlists,
		journal:   rec,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

// Create creates a playlist for a member.
func (c *Catalog) Create(ctx context.Context, memberID, name string) (*harvestmedia.Playlist, error) {
	p, err := c.playlists.Create(ctx, memberID, name)

	entry := journal.Entry{Operation: OpCreate, MemberID: memberID, Detail: name}
	if p != nil {
		entry.PlaylistID = p.ID
	}
	c.record(ctx, entry, err)

	return p, err
}

// Rename changes a playlist's name. p is left untouched when the service
// rejects the change.
func (c *Catalog) Rename(ctx context.Context, p *harvestmedia.Playlist, name string) error {
	if p == nil {
		return &harvestmedia.MissingParameterError{Param: "playlist"}
	}

	previous := *p
	p.Name = name
	err := c.playlists.Update(ctx, p)
	if err != nil {
		*p = previous
	}

	c.record(ctx, journal.Entry{
		Operation:  OpRename,
		MemberID:   previous.MemberID,
		PlaylistID: previous.ID,
		Detail:     name,
	}, err)
	return err
}

// Remove deletes a playlist.
func (c *Catalog) Remove(ctx context.Context, p *harvestmedia.Playlist) error {
	err := c.playlists.Remove(ctx, p)
	c.record(ctx, playlistEntry(OpRemove, p, ""), err)
	return err
}

// AddTrack appends a track to a playlist.
func (c *Catalog) AddTrack(ctx context.Context, p *harvestmedia.Playlist, trackID string) error {
	err := c.playlists.AddTrack(ctx, p, trackID)
	c.record(ctx, playlistEntry(OpAddTrack, p, trackID), err)
	return err
}

// RemoveTrack removes a track from a playlist.
func (c *Catalog) RemoveTrack(ctx context.Context, p *harvestmedia.Playlist, trackID string) error {
	err := c.playlists.RemoveTrack(ctx, p, trackID)
	c.record(ctx, playlistEntry(OpRemoveTrack, p, trackID), err)
	return err
}

func playlistEntry(op string, p *harvestmedia.Playlist, trackID string) journal.Entry {
	e := journal.Entry{Operation: op, TrackID: trackID}
	if p != nil {
		e.MemberID = p.MemberID
		e.PlaylistID = p.ID
	}
	return e
}

func (c *Catalog) record(ctx context.Context, e journal.Entry, opErr error) {
	e.Outcome = journal.OutcomeOK
	event := c.logger.Info()
	if opErr != nil {
		e.Outcome = journal.OutcomeFailed
		e.Error = opErr.Error()
		event = c.logger.Warn().Err(opErr)
	}

	event.
		Str("operation", e.Operation).
		Str("playlist_id", e.PlaylistID).
		Str("track_id", e.TrackID).
		Msg("Playlist mutation")

	if c.journal == nil {
		return
	}
	if _, err := c.journal.Record(ctx, e); err != nil {
		c.logger.Error().Err(err).Str("operation", e.Operation).Msg("Failed to write journal entry")
	}
}
