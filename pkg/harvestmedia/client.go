package harvestmedia

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds client configuration.
type Config struct {
	APIKey        string        // Required: Harvest Media API key
	WebServiceURL string        // Required: Base URL of the web service
	HTTPClient    *http.Client  // Optional: HTTP client (defaults to one with Timeout)
	Timeout       time.Duration // Optional: Per-request timeout (defaults to DefaultTimeout)
	RateLimit     rate.Limit    // Optional: Maximum requests per second (0 disables pacing)
	Logger        Logger        // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for Harvest Media API operations.
//
// A Client owns one authenticated session. It is safe for concurrent use;
// session renewal is serialized so concurrent callers never refresh twice.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     Logger
	now        func() time.Time

	mu      sync.Mutex
	session *Session
	info    *serviceInfo

	libraries *LibraryService
	tracks    *TrackService
	members   *MemberService
	playlists *PlaylistService
}

const (
	// DefaultTimeout bounds each HTTP request when no HTTPClient is given.
	DefaultTimeout = 30 * time.Second

	userAgent = "harvestmedia-go/1.0"
)

// NewClient creates a new Harvest Media API client.
//
// Returns ErrInvalidConfig if APIKey or WebServiceURL is missing or the
// URL cannot be parsed. No request is made until the first operation.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if cfg.WebServiceURL == "" {
		return nil, fmt.Errorf("%w: WebServiceURL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(cfg.WebServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid WebServiceURL %q", ErrInvalidConfig, cfg.WebServiceURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.WebServiceURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
		now:        time.Now,
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(cfg.RateLimit, 1)
	}

	c.libraries = &LibraryService{client: c}
	c.tracks = &TrackService{client: c}
	c.members = &MemberService{client: c}
	c.playlists = &PlaylistService{client: c}

	return c, nil
}

// Libraries returns the library service.
func (c *Client) Libraries() *LibraryService {
	return c.libraries
}

// Tracks returns the track service.
func (c *Client) Tracks() *TrackService {
	return c.tracks
}

// Members returns the member service.
func (c *Client) Members() *MemberService {
	return c.members
}

// Playlists returns the playlist service.
func (c *Client) Playlists() *PlaylistService {
	return c.playlists
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
