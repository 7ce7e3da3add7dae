package harvestmedia

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

const (
	testAPIKey = "12345"
	testToken  = "9f6c1e0b2d4a7f3e8c5b1a0d6e2f4c8b"
	testExpiry = "2099-01-01T00:00:00"

	waveformTemplate = "http://asset.harvestmedia.net/waveform/8185d768cd8fcaa7/{id}/{width}/{height}"
)

const serviceTokenXML = `<?xml version="1.0" encoding="utf-8"?><responseservicetoken><token value="` + testToken + `" expiry="` + testExpiry + `"/></responseservicetoken>`

const serviceInfoXML = `<?xml version="1.0" encoding="utf-8"?>
<responseserviceinfo>
	<asseturl
		albumart="http://asset.harvestmedia.net/albumart/8185d768cd8fcaa7/{id}/{width}/{height}"
		waveform="` + waveformTemplate + `"
		trackstream="http://asset.harvestmedia.net/trackstream/8185d768cd8fcaa7/{id}"
		trackdownload=" http://asset.harvestmedia.net/trackdownload/8185d768cd8fcaa7/{id}/{trackformat}" />
	<trackformats>
		<trackformat identifier="8185d768cd8fcaa7" extension="mp3" bitrate="320" samplerate="48" samplesize="16" />
		<trackformat identifier="768cd8fcaa8185d7" extension="wav" bitrate="1536" samplerate="48" samplesize="16" />
		<trackformat identifier="7jsi8fcaa818df57" extension="aif" bitrate="1536" samplerate="48" samplesize="16" />
	</trackformats>
</responseserviceinfo>`

const responseCodeOKXML = `<?xml version="1.0" encoding="utf-8"?>
<responsecode xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns:xsd="http://www.w3.org/2001/XMLSchema">
	<code>OK</code>
</responsecode>`

const guerillaPopTrackXML = `<track tracknumber="001" time="02:50" lengthseconds="170" comment="Make sure you're down the front for this fiery Post Punk workout." composer="&quot;S. Milton, J. Wygens&quot;" publisher="HM" name="Guerilla Pop" id="17376d36f309f18d" keywords="" lyrics="" displaytitle="Guerilla Pop" genre="Pop / Rock" tempo="" instrumentation="" bpm="" mixout="" frequency="44100" bitrate="1411" />`

type fakeResponse struct {
	status int
	body   string
}

// fakeService is an httptest server answering each method with queued
// responses. The last queued response for a method is repeated.
type fakeService struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	responses map[string][]fakeResponse
	calls     []string
	forms     []url.Values
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()

	f := &fakeService{t: t, responses: make(map[string][]fakeResponse)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	t.Cleanup(f.server.Close)
	return f
}

// newSessionService returns a fake service that already answers the
// token and service info requests.
func newSessionService(t *testing.T) *fakeService {
	t.Helper()

	f := newFakeService(t)
	f.respond(methodServiceToken, serviceTokenXML)
	f.respond(methodServiceInfo, serviceInfoXML)
	return f
}

func (f *fakeService) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		f.t.Errorf("expected POST request, got %s", r.Method)
	}
	if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
		f.t.Errorf("expected Content-Type application/x-www-form-urlencoded, got %s", ct)
	}
	if err := r.ParseForm(); err != nil {
		f.t.Errorf("failed to parse form: %v", err)
	}

	method := strings.TrimPrefix(r.URL.Path, "/")

	f.mu.Lock()
	f.calls = append(f.calls, method)
	f.forms = append(f.forms, r.PostForm)
	queue := f.responses[method]
	var resp fakeResponse
	switch {
	case len(queue) == 0:
		resp = fakeResponse{status: http.StatusNotFound, body: "no response for " + method}
	case len(queue) == 1:
		resp = queue[0]
	default:
		resp = queue[0]
		f.responses[method] = queue[1:]
	}
	f.mu.Unlock()

	w.WriteHeader(resp.status)
	if _, err := w.Write([]byte(resp.body)); err != nil {
		f.t.Errorf("failed to write response body: %v", err)
	}
}

func (f *fakeService) respond(method, body string) {
	f.respondStatus(method, http.StatusOK, body)
}

func (f *fakeService) respondStatus(method string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method] = append(f.responses[method], fakeResponse{status: status, body: body})
}

func (f *fakeService) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeService) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeService) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// lastForm returns the form of the most recent request for method.
func (f *fakeService) lastForm(method string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i] == method {
			return f.forms[i]
		}
	}
	return nil
}

func (f *fakeService) client(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(Config{
		APIKey:        testAPIKey,
		WebServiceURL: f.server.URL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}
