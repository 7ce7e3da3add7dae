package harvestmedia

import (
	"strconv"
	"strings"
	"time"
)

// Document root element names.
const (
	rootLibraries = "ResponseLibraries"
	rootTracks    = "responsetracks"
	rootPlaylists = "ResponsePlaylists"
	rootMember    = "memberaccount"
)

// Library is a music library offered by the service.
type Library struct {
	ID     string
	Name   string
	Detail string
	Extra  map[string]string // Attributes not mapped to a field
}

// Track is a single track.
//
// Attributes the client does not know about are kept in Extra so that
// AsMap reproduces everything the service sent.
type Track struct {
	ID              string
	Name            string
	DisplayTitle    string
	AlbumID         string
	TrackNumber     string
	Time            string
	LengthSeconds   int
	Comment         string
	Composer        string
	Publisher       string
	Keywords        string
	Lyrics          string
	Genre           string
	Tempo           string
	Instrumentation string
	BPM             string
	MixOut          string
	Frequency       string
	Bitrate         string
	DateIngested    string
	Categories      []Category
	Extra           map[string]string

	present map[string]bool // Mapped attributes the document carried
}

// Category is a node of a track's classification tree, e.g.
// Tuning > Energy > 4.
type Category struct {
	ID       string
	Name     string
	Attrs    map[string]string // Remaining attributes, e.g. descriptive flags
	Children []Category
}

// Member is a member account.
type Member struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	Email     string
	Extra     map[string]string
}

// Playlist is a member playlist.
//
// Tracks holds either fully hydrated tracks, as returned by the service,
// or references carrying only an ID after AddTrack.
type Playlist struct {
	ID       string
	Name     string
	MemberID string
	Tracks   []Track
	Extra    map[string]string
}

// Duration returns the track length.
func (t *Track) Duration() time.Duration {
	return time.Duration(t.LengthSeconds) * time.Second
}

// stringFields maps attribute names to the string fields they populate.
func (t *Track) stringFields() map[string]*string {
	return map[string]*string{
		"id":              &t.ID,
		"name":            &t.Name,
		"displaytitle":    &t.DisplayTitle,
		"albumid":         &t.AlbumID,
		"tracknumber":     &t.TrackNumber,
		"time":            &t.Time,
		"comment":         &t.Comment,
		"composer":        &t.Composer,
		"publisher":       &t.Publisher,
		"keywords":        &t.Keywords,
		"lyrics":          &t.Lyrics,
		"genre":           &t.Genre,
		"tempo":           &t.Tempo,
		"instrumentation": &t.Instrumentation,
		"bpm":             &t.BPM,
		"mixout":          &t.MixOut,
		"frequency":       &t.Frequency,
		"bitrate":         &t.Bitrate,
		"dateingested":    &t.DateIngested,
	}
}

// AsMap returns the track's attributes keyed by their XML attribute names,
// including unmapped ones.
//
// For a track read from a document only the attributes it carried are
// returned, plus fields set afterwards. For a track built by hand the
// non-zero fields are returned.
func (t *Track) AsMap() map[string]string {
	m := make(map[string]string, len(t.Extra)+len(t.present))
	for k, v := range t.Extra {
		m[k] = v
	}
	for k, p := range t.stringFields() {
		if t.has(k, *p != "") {
			m[k] = *p
		}
	}
	if t.has("lengthseconds", t.LengthSeconds != 0) {
		m["lengthseconds"] = strconv.Itoa(t.LengthSeconds)
	}
	return m
}

func (t *Track) has(name string, set bool) bool {
	return set || t.present[name]
}

// Walk visits c and its descendants depth-first in document order.
// path holds the names from the root category down to the visited node.
func (c Category) Walk(fn func(path []string, node Category)) {
	c.walk(nil, fn)
}

func (c Category) walk(prefix []string, fn func([]string, Category)) {
	path := append(append([]string(nil), prefix...), c.Name)
	fn(path, c)
	for _, child := range c.Children {
		child.walk(path, fn)
	}
}

// hydrateFields copies attributes of n into fields and returns the rest.
func hydrateFields(n *Node, fields map[string]*string) map[string]string {
	return hydrateFieldsPresent(n, fields, nil)
}

// hydrateFieldsPresent is hydrateFields that also marks each mapped
// attribute found in present.
func hydrateFieldsPresent(n *Node, fields map[string]*string, present map[string]bool) map[string]string {
	var extra map[string]string
	for _, a := range n.Attrs {
		if dst, ok := fields[a.Name]; ok {
			*dst = a.Value
			if present != nil {
				present[a.Name] = true
			}
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[a.Name] = a.Value
	}
	return extra
}

// requireAttrs fails with a *ResponseError naming the first attribute of
// names that n lacks. Empty values are accepted.
func requireAttrs(n *Node, document string, names ...string) error {
	for _, name := range names {
		if _, ok := n.Attr(name); !ok {
			return invalidResponse(document, "<%s id=%q> without %s", n.Name, n.AttrValue("id"), name)
		}
	}
	return nil
}

// LibraryFromNode hydrates a Library from a <library> element.
func LibraryFromNode(n *Node) (Library, error) {
	var l Library
	l.Extra = hydrateFields(n, map[string]*string{
		"id":     &l.ID,
		"name":   &l.Name,
		"detail": &l.Detail,
	})
	if l.ID == "" {
		return Library{}, invalidResponse(rootLibraries, "library without id")
	}
	if err := requireAttrs(n, rootLibraries, "name", "detail"); err != nil {
		return Library{}, err
	}
	return l, nil
}

// TrackFromNode hydrates a Track, including its category tree, from a
// <track> element.
func TrackFromNode(n *Node) (Track, error) {
	var t Track
	fields := t.stringFields()
	var length string
	fields["lengthseconds"] = &length
	t.present = make(map[string]bool, len(fields))
	t.Extra = hydrateFieldsPresent(n, fields, t.present)

	if t.ID == "" {
		return Track{}, invalidResponse(rootTracks, "track without id")
	}
	if length = strings.TrimSpace(length); length != "" {
		secs, err := strconv.Atoi(length)
		if err != nil {
			return Track{}, invalidResponse(rootTracks, "track %s: invalid lengthseconds %q", t.ID, length)
		}
		t.LengthSeconds = secs
	}

	for _, el := range n.Path("categories", "category") {
		cat, err := categoryFromNode(el)
		if err != nil {
			return Track{}, err
		}
		t.Categories = append(t.Categories, cat)
	}
	return t, nil
}

func categoryFromNode(n *Node) (Category, error) {
	var c Category
	c.Attrs = hydrateFields(n, map[string]*string{
		"id":   &c.ID,
		"name": &c.Name,
	})
	if c.ID == "" {
		return Category{}, invalidResponse(rootTracks, "<%s> without id", n.Name)
	}
	for _, el := range n.Path("attributes", "attribute") {
		child, err := categoryFromNode(el)
		if err != nil {
			return Category{}, err
		}
		c.Children = append(c.Children, child)
	}
	return c, nil
}

// MemberFromNode hydrates a Member from a <memberaccount> element.
func MemberFromNode(n *Node) (Member, error) {
	var m Member
	m.Extra = hydrateFields(n, map[string]*string{"id": &m.ID})
	if m.ID == "" {
		return Member{}, invalidResponse(rootMember, "memberaccount without id")
	}
	for _, name := range []string{"username", "firstname", "lastname", "email"} {
		if n.Child(name) == nil {
			return Member{}, invalidResponse(rootMember, "memberaccount %s: <%s> missing", m.ID, name)
		}
	}
	m.Username = n.ChildText("username")
	m.FirstName = n.ChildText("firstname")
	m.LastName = n.ChildText("lastname")
	m.Email = n.ChildText("email")
	return m, nil
}

// PlaylistFromNode hydrates a Playlist and its tracks from a <playlist>
// element. MemberID is not part of the element and is left empty.
func PlaylistFromNode(n *Node) (Playlist, error) {
	var p Playlist
	p.Extra = hydrateFields(n, map[string]*string{
		"id":   &p.ID,
		"name": &p.Name,
	})
	if p.ID == "" {
		return Playlist{}, invalidResponse(rootPlaylists, "playlist without id")
	}
	if err := requireAttrs(n, rootPlaylists, "name"); err != nil {
		return Playlist{}, err
	}
	for _, el := range n.Path("tracks", "track") {
		t, err := TrackFromNode(el)
		if err != nil {
			return Playlist{}, err
		}
		p.Tracks = append(p.Tracks, t)
	}
	return p, nil
}

// ParseLibraries parses a <ResponseLibraries> document.
func ParseLibraries(data []byte) ([]Library, error) {
	root, err := parseDocument(data, rootLibraries)
	if err != nil {
		return nil, err
	}
	return librariesFromRoot(root)
}

func librariesFromRoot(root *Node) ([]Library, error) {
	var libs []Library
	for _, el := range root.Path("libraries", "library") {
		l, err := LibraryFromNode(el)
		if err != nil {
			return nil, err
		}
		libs = append(libs, l)
	}
	return libs, nil
}

// ParseTracks parses a <responsetracks> document.
func ParseTracks(data []byte) ([]Track, error) {
	root, err := parseDocument(data, rootTracks)
	if err != nil {
		return nil, err
	}
	return tracksFromRoot(root)
}

func tracksFromRoot(root *Node) ([]Track, error) {
	var tracks []Track
	for _, el := range root.Path("tracks", "track") {
		t, err := TrackFromNode(el)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// ParsePlaylists parses a <ResponsePlaylists> document.
func ParsePlaylists(data []byte) ([]Playlist, error) {
	root, err := parseDocument(data, rootPlaylists)
	if err != nil {
		return nil, err
	}
	return playlistsFromRoot(root)
}

func playlistsFromRoot(root *Node) ([]Playlist, error) {
	var playlists []Playlist
	for _, el := range root.Path("playlists", "playlist") {
		p, err := PlaylistFromNode(el)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, nil
}

// ParseMember parses a <memberaccount> document.
func ParseMember(data []byte) (Member, error) {
	root, err := parseDocument(data, rootMember)
	if err != nil {
		return Member{}, err
	}
	return MemberFromNode(root)
}
