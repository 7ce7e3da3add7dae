package harvestmedia

import "context"

// MemberService provides member account operations.
type MemberService struct {
	client *Client
}

const (
	methodGetMember          = "getmember"
	methodAuthenticateMember = "authenticatemember"
	methodGetMemberPlaylists = "getmemberplaylists"
)

// Get fetches a member account by id.
func (s *MemberService) Get(ctx context.Context, memberID string) (*Member, error) {
	if err := require("member_id", memberID); err != nil {
		return nil, err
	}
	root, err := s.client.call(ctx, methodGetMember, map[string]string{
		"member_id": memberID,
	}, rootMember)
	if err != nil {
		return nil, err
	}
	m, err := MemberFromNode(root)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Authenticate checks a member's credentials and returns the account.
// Rejected credentials surface as a *TransportError carrying the
// service's response code.
func (s *MemberService) Authenticate(ctx context.Context, username, password string) (*Member, error) {
	if err := require("username", username, "password", password); err != nil {
		return nil, err
	}
	root, err := s.client.call(ctx, methodAuthenticateMember, map[string]string{
		"username": username,
		"password": password,
	}, rootMember)
	if err != nil {
		return nil, err
	}
	m, err := MemberFromNode(root)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Playlists fetches the playlists owned by a member. The result is not
// cached; every call issues a request.
//
// Example:
//
//	playlists, err := client.Members().Playlists(ctx, memberID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range playlists {
//	    fmt.Printf("%s (%d tracks)\n", p.Name, len(p.Tracks))
//	}
func (s *MemberService) Playlists(ctx context.Context, memberID string) ([]Playlist, error) {
	if err := require("member_id", memberID); err != nil {
		return nil, err
	}
	root, err := s.client.call(ctx, methodGetMemberPlaylists, map[string]string{
		"member_id": memberID,
	}, rootPlaylists)
	if err != nil {
		return nil, err
	}
	playlists, err := playlistsFromRoot(root)
	if err != nil {
		return nil, err
	}
	for i := range playlists {
		playlists[i].MemberID = memberID
	}
	return playlists, nil
}

// Playlists fetches the member's playlists through c.
func (m *Member) Playlists(ctx context.Context, c *Client) ([]Playlist, error) {
	return c.Members().Playlists(ctx, m.ID)
}
