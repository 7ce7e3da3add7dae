package harvestmedia

import "context"

// PlaylistService provides playlist mutations.
//
// Create and Update replace local fields with the server's canonical
// representation when one is returned. Remove, AddTrack and RemoveTrack
// only check for an OK response code. None of them retry, and removal is
// only idempotent if the service treats it so.
type PlaylistService struct {
	client *Client
}

const (
	methodAddPlaylist         = "addplaylist"
	methodUpdatePlaylist      = "updateplaylist"
	methodRemovePlaylist      = "removeplaylist"
	methodAddPlaylistTrack    = "addtracktoplaylist"
	methodRemovePlaylistTrack = "removetrackfromplaylist"
)

// Create creates a playlist for a member and returns it as stored by the
// service.
//
// Example:
//
//	playlist, err := client.Playlists().Create(ctx, memberID, "Road trip")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("created", playlist.ID)
func (s *PlaylistService) Create(ctx context.Context, memberID, name string) (*Playlist, error) {
	if err := require("member_id", memberID, "playlist_name", name); err != nil {
		return nil, err
	}

	root, err := s.client.call(ctx, methodAddPlaylist, map[string]string{
		"member_id":     memberID,
		"playlist_name": name,
	}, rootPlaylists)
	if err != nil {
		return nil, err
	}

	p, err := firstPlaylist(root)
	if err != nil {
		return nil, err
	}
	p.MemberID = memberID
	return &p, nil
}

// Update sends the playlist's current name to the service.
//
// When the service answers with the updated playlist, p is replaced by it;
// a bare OK acknowledgement leaves p as it is.
func (s *PlaylistService) Update(ctx context.Context, p *Playlist) error {
	if err := requirePlaylist(p); err != nil {
		return err
	}
	if err := require("playlist_name", p.Name); err != nil {
		return err
	}

	root, err := s.client.call(ctx, methodUpdatePlaylist, map[string]string{
		"member_id":     p.MemberID,
		"playlist_id":   p.ID,
		"playlist_name": p.Name,
	}, rootPlaylists, rootResponseCode)
	if err != nil {
		return err
	}

	if root.Is(rootResponseCode) {
		return checkResponseCode(methodUpdatePlaylist, root)
	}

	updated, err := firstPlaylist(root)
	if err != nil {
		return err
	}
	updated.MemberID = p.MemberID
	*p = updated
	return nil
}

// Remove deletes the playlist.
func (s *PlaylistService) Remove(ctx context.Context, p *Playlist) error {
	if err := requirePlaylist(p); err != nil {
		return err
	}
	return s.client.acknowledge(ctx, methodRemovePlaylist, map[string]string{
		"member_id":   p.MemberID,
		"playlist_id": p.ID,
	})
}

// AddTrack appends a track to the playlist. On success a reference
// carrying only the track ID is appended to p.Tracks.
func (s *PlaylistService) AddTrack(ctx context.Context, p *Playlist, trackID string) error {
	if err := requirePlaylist(p); err != nil {
		return err
	}
	if err := require("track_id", trackID); err != nil {
		return err
	}

	err := s.client.acknowledge(ctx, methodAddPlaylistTrack, map[string]string{
		"member_id":   p.MemberID,
		"playlist_id": p.ID,
		"track_id":    trackID,
	})
	if err != nil {
		return err
	}
	p.Tracks = append(p.Tracks, Track{ID: trackID})
	return nil
}

// RemoveTrack removes a track from the playlist. On success every entry
// with that ID is dropped from p.Tracks.
func (s *PlaylistService) RemoveTrack(ctx context.Context, p *Playlist, trackID string) error {
	if err := requirePlaylist(p); err != nil {
		return err
	}
	if err := require("track_id", trackID); err != nil {
		return err
	}

	err := s.client.acknowledge(ctx, methodRemovePlaylistTrack, map[string]string{
		"member_id":   p.MemberID,
		"playlist_id": p.ID,
		"track_id":    trackID,
	})
	if err != nil {
		return err
	}

	kept := make([]Track, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		if t.ID != trackID {
			kept = append(kept, t)
		}
	}
	p.Tracks = kept
	return nil
}

func requirePlaylist(p *Playlist) error {
	if p == nil {
		return &MissingParameterError{Param: "playlist"}
	}
	return require("member_id", p.MemberID, "playlist_id", p.ID)
}

func firstPlaylist(root *Node) (Playlist, error) {
	playlists, err := playlistsFromRoot(root)
	if err != nil {
		return Playlist{}, err
	}
	if len(playlists) == 0 {
		return Playlist{}, invalidResponse(rootPlaylists, "no playlist returned")
	}
	return playlists[0], nil
}
