package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jfmyers9/harvestmedia/internal/journal"
)

const (
	serviceTokenXML = `<responseservicetoken><token value="tok" expiry="2099-01-01T00:00:00"/></responseservicetoken>`
	serviceInfoXML  = `<responseserviceinfo>
		<asseturl albumart="http://asset.example.com/albumart/{id}/{width}/{height}"
			waveform="http://asset.example.com/waveform/{id}/{width}/{height}"
			trackstream="http://asset.example.com/stream/{id}"
			trackdownload="http://asset.example.com/download/{id}/{trackformat}" />
		<trackformats><trackformat identifier="f-mp3" extension="mp3" bitrate="320" samplerate="48" samplesize="16" /></trackformats>
	</responseserviceinfo>`
	librariesXML = `<ResponseLibraries><libraries>
		<library id="abc123" name="VIDEOHELPER" detail="Library Details" />
		<library id="abc125" name="MODULES" detail="Library Details" />
	</libraries></ResponseLibraries>`
	tracksXML = `<responsetracks><tracks>
		<track id="17376d36f309f18d" name="Guerilla Pop" displaytitle="Guerilla Pop" albumid="a1" time="02:50" lengthseconds="170">
			<categories><category id="c1" name="Tuning"><attributes><attribute id="c2" name="Energy" /></attributes></category></categories>
		</track>
	</tracks></responsetracks>`
	okXML = `<responsecode><code>OK</code></responsecode>`
)

// fakeWebService answers each method with a fixed body and counts calls.
type fakeWebService struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  map[string]int
}

func (f *fakeWebService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := strings.TrimPrefix(r.URL.Path, "/")

	f.mu.Lock()
	f.calls[method]++
	body, ok := f.bodies[method]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write([]byte(body))
}

func (f *fakeWebService) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// setupCommand points the configuration at a fake web service and an
// isolated home directory.
func setupCommand(t *testing.T, bodies map[string]string) (*fakeWebService, string) {
	t.Helper()

	f := &fakeWebService{
		bodies: map[string]string{
			"getservicetoken": serviceTokenXML,
			"getserviceinfo":  serviceInfoXML,
		},
		calls: make(map[string]int),
	}
	for k, v := range bodies {
		f.bodies[k] = v
	}
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	home := t.TempDir()
	journalPath := filepath.Join(home, "journal.db")
	t.Setenv("HOME", home)
	t.Setenv("HARVESTMEDIA_API_KEY", "12345")
	t.Setenv("HARVESTMEDIA_WEBSERVICE_URL", server.URL)
	t.Setenv("HARVESTMEDIA_MEMBER_ID", "42")
	t.Setenv("HARVESTMEDIA_JOURNAL_PATH", journalPath)
	t.Setenv("HARVESTMEDIA_LOG_LEVEL", "error")

	return f, journalPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		playlistMember = ""
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLibrariesCommand(t *testing.T) {
	f, _ := setupCommand(t, map[string]string{"getlibraries": librariesXML})

	out, err := runCommand(t, "libraries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "abc123") || !strings.HasPrefix(lines[2], "abc125") {
		t.Errorf("expected libraries in document order, got %q", out)
	}
	if f.count("getservicetoken") != 1 {
		t.Errorf("expected one token request, got %d", f.count("getservicetoken"))
	}
}

func TestTrackCommand(t *testing.T) {
	setupCommand(t, map[string]string{"gettracks": tracksXML})

	out, err := runCommand(t, "track", "17376d36f309f18d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"displaytitle:", "Guerilla Pop", "lengthseconds:", "170", "Categories:", "  Tuning", "    Energy"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWaveformCommand(t *testing.T) {
	f, _ := setupCommand(t, nil)

	out, err := runCommand(t, "waveform", "17376d36f309f18d", "--width", "200", "--height", "300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "http://asset.example.com/waveform/17376d36f309f18d/200/300"
	if strings.TrimSpace(out) != want {
		t.Errorf("expected %q, got %q", want, out)
	}
	if f.count("gettracks") != 0 {
		t.Error("expected no track lookup for a waveform URL")
	}
}

func TestURLsCommand(t *testing.T) {
	setupCommand(t, map[string]string{"gettracks": tracksXML})

	out, err := runCommand(t, "urls", "17376d36f309f18d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"http://asset.example.com/albumart/a1/300/300",
		"http://asset.example.com/stream/17376d36f309f18d",
		"http://asset.example.com/download/17376d36f309f18d/f-mp3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPlaylistCommands_Journal(t *testing.T) {
	_, journalPath := setupCommand(t, map[string]string{
		"addplaylist":        `<ResponsePlaylists><playlists><playlist id="p9" name="Road trip" /></playlists></ResponsePlaylists>`,
		"addtracktoplaylist": okXML,
		"removeplaylist":     `<responsecode><code>PLAYLIST_NOT_FOUND</code></responsecode>`,
	})

	out, err := runCommand(t, "playlist", "create", "Road trip")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "p9") {
		t.Errorf("expected created playlist id in output, got %q", out)
	}

	if _, err := runCommand(t, "playlist", "add-track", "p9", "17376d36f309f18d"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := runCommand(t, "playlist", "remove", "p9"); err == nil {
		t.Fatal("expected rejected removal to fail")
	}

	j, err := journal.Open(journalPath)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	defer func() { _ = j.Close() }()

	entries, err := j.ListPlaylist(context.Background(), "p9", 0)
	if err != nil {
		t.Fatalf("failed to list journal: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 journal entries, got %d", len(entries))
	}

	failed, err := j.Count(context.Background(), true)
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed entry, got %d", failed)
	}
	for _, e := range entries {
		if e.MemberID != "42" {
			t.Errorf("expected configured member 42, got %q", e.MemberID)
		}
	}
}

func TestHistoryCommand(t *testing.T) {
	_, journalPath := setupCommand(t, nil)

	j, err := journal.Open(journalPath)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	if _, err := j.Record(context.Background(), journal.Entry{Operation: "rename", PlaylistID: "p9", Detail: "Road trip 2"}); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
	if _, err := j.Record(context.Background(), journal.Entry{Operation: "remove", PlaylistID: "p9", Outcome: journal.OutcomeFailed, Error: "rejected"}); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
	_ = j.Close()

	out, err := runCommand(t, "history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "rename") || !strings.Contains(out, "Road trip 2") {
		t.Errorf("expected journal entry in output, got %q", out)
	}
	if !strings.Contains(out, "2 changes recorded, 1 failed") {
		t.Errorf("expected failure summary in output, got %q", out)
	}
}

func TestCommand_MissingCredentials(t *testing.T) {
	setupCommand(t, nil)
	t.Setenv("HARVESTMEDIA_API_KEY", "")

	if _, err := runCommand(t, "libraries"); err == nil {
		t.Error("expected error without api key")
	}
}
