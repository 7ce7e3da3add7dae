package harvestmedia

import (
	"context"
	"fmt"
	"strings"
)

// TrackService provides track lookups and asset URL construction.
type TrackService struct {
	client *Client
}

const methodGetTracks = "gettracks"

// GetByID fetches a single track, including its categories.
//
// Example:
//
//	track, err := client.Tracks().GetByID(ctx, "17376d36f309f18d")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(track.Name, track.Duration())
func (s *TrackService) GetByID(ctx context.Context, id string) (*Track, error) {
	tracks, err := s.GetByIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, invalidResponse(rootTracks, "no track returned for id %s", id)
	}
	return &tracks[0], nil
}

// GetByIDs fetches several tracks in one request. The service returns them
// in its own order.
func (s *TrackService) GetByIDs(ctx context.Context, ids ...string) ([]Track, error) {
	if len(ids) == 0 {
		return nil, &MissingParameterError{Param: "track_id"}
	}
	for _, id := range ids {
		if err := require("track_id", id); err != nil {
			return nil, err
		}
	}

	root, err := s.client.call(ctx, methodGetTracks, map[string]string{
		"track_ids": strings.Join(ids, ","),
	}, rootTracks)
	if err != nil {
		return nil, err
	}
	return tracksFromRoot(root)
}

// WaveformURL returns the waveform image URL of track at the given size.
//
// The URL is built from the session's templates; a request is only made
// when no valid session exists yet.
func (s *TrackService) WaveformURL(ctx context.Context, track *Track, width, height int) (string, error) {
	session, err := s.assetSession(ctx, track)
	if err != nil {
		return "", err
	}
	return session.WaveformURL(track.ID, width, height), nil
}

// AlbumArtURL returns the album art URL for the track's album.
func (s *TrackService) AlbumArtURL(ctx context.Context, track *Track, width, height int) (string, error) {
	session, err := s.assetSession(ctx, track)
	if err != nil {
		return "", err
	}
	if err := require("album_id", track.AlbumID); err != nil {
		return "", err
	}
	return session.AlbumArtURL(track.AlbumID, width, height), nil
}

// StreamURL returns the streaming URL of track.
func (s *TrackService) StreamURL(ctx context.Context, track *Track) (string, error) {
	session, err := s.assetSession(ctx, track)
	if err != nil {
		return "", err
	}
	return session.TrackStreamURL(track.ID), nil
}

// DownloadURL returns the download URL of track in the format with the
// given extension, e.g. "mp3".
func (s *TrackService) DownloadURL(ctx context.Context, track *Track, extension string) (string, error) {
	if err := require("extension", extension); err != nil {
		return "", err
	}
	session, err := s.assetSession(ctx, track)
	if err != nil {
		return "", err
	}
	format, ok := session.Format(extension)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, extension)
	}
	return session.TrackDownloadURL(track.ID, format.Identifier), nil
}

func (s *TrackService) assetSession(ctx context.Context, track *Track) (*Session, error) {
	if track == nil {
		return nil, &MissingParameterError{Param: "track"}
	}
	if err := require("track_id", track.ID); err != nil {
		return nil, err
	}
	return s.client.Session(ctx)
}
