package harvestmedia

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// Session is the authenticated context attached to every API call.
//
// A Session is an immutable snapshot: renewal builds a new value and swaps
// it in, so a *Session obtained from Client.Session never changes.
type Session struct {
	Token        string        // Service token sent with every request
	Expiry       string        // Expiry exactly as returned by the service
	ExpiresAt    time.Time     // Parsed Expiry
	AssetURLs    AssetURLs     // URL templates from the service info
	TrackFormats []TrackFormat // Download formats from the service info
}

// AssetURLs holds the URL templates advertised by the service.
//
// Templates contain {id}, {width}, {height} and {trackformat} placeholders.
type AssetURLs struct {
	AlbumArt      string
	Waveform      string
	TrackStream   string
	TrackDownload string
}

// TrackFormat is one entry of the service's download format catalog.
type TrackFormat struct {
	Identifier string
	Extension  string
	Bitrate    string
	SampleRate string
	SampleSize string
}

type serviceInfo struct {
	assets  AssetURLs
	formats []TrackFormat
}

const (
	methodServiceToken = "getservicetoken"
	methodServiceInfo  = "getserviceinfo"

	rootServiceToken = "responseservicetoken"
	rootServiceInfo  = "responseserviceinfo"
)

// expiryLayouts are tried in order; layouts without a zone are read as
// local time.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Valid reports whether the session holds a token that has not expired at now.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}

// AlbumArtURL returns the album art URL for id at the given size.
func (s *Session) AlbumArtURL(id string, width, height int) string {
	return expandTemplate(s.AssetURLs.AlbumArt, id, width, height, "")
}

// WaveformURL returns the waveform image URL for id at the given size.
func (s *Session) WaveformURL(id string, width, height int) string {
	return expandTemplate(s.AssetURLs.Waveform, id, width, height, "")
}

// TrackStreamURL returns the streaming URL for a track.
func (s *Session) TrackStreamURL(id string) string {
	return expandTemplate(s.AssetURLs.TrackStream, id, 0, 0, "")
}

// TrackDownloadURL returns the download URL for a track in the format
// with the given identifier.
func (s *Session) TrackDownloadURL(id, formatIdentifier string) string {
	return expandTemplate(s.AssetURLs.TrackDownload, id, 0, 0, formatIdentifier)
}

// Format returns the track format with the given file extension.
func (s *Session) Format(extension string) (TrackFormat, bool) {
	for _, f := range s.TrackFormats {
		if strings.EqualFold(f.Extension, extension) {
			return f, true
		}
	}
	return TrackFormat{}, false
}

func expandTemplate(tmpl, id string, width, height int, format string) string {
	return strings.NewReplacer(
		"{id}", id,
		"{width}", strconv.Itoa(width),
		"{height}", strconv.Itoa(height),
		"{trackformat}", format,
	).Replace(tmpl)
}

// Session returns a valid session, requesting a new token first when none
// exists or the current one has expired.
//
// The service info (asset URL templates and track formats) is fetched
// together with the first token and reused for every later renewal.
// Callers never observe a partially updated session: on any failure the
// previous session is left in place.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Valid(c.now()) {
		return c.session, nil
	}

	if c.session == nil {
		c.logDebugf("harvestmedia: no session, requesting service token")
	} else {
		c.logDebugf("harvestmedia: session expired at %s, renewing", c.session.Expiry)
	}

	token, expiry, expiresAt, err := c.requestServiceToken(ctx)
	if err != nil {
		return nil, err
	}

	info := c.info
	if info == nil {
		info, err = c.requestServiceInfo(ctx, token)
		if err != nil {
			return nil, err
		}
		c.info = info
	}

	c.session = &Session{
		Token:        token,
		Expiry:       expiry,
		ExpiresAt:    expiresAt,
		AssetURLs:    info.assets,
		TrackFormats: info.formats,
	}
	return c.session, nil
}

// Invalidate discards the current token so that the next operation
// requests a new one. Cached service info is kept.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

func (c *Client) requestServiceToken(ctx context.Context) (token, expiry string, expiresAt time.Time, err error) {
	root, err := c.send(ctx, methodServiceToken, nil, "", rootServiceToken)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return parseServiceToken(root)
}

func parseServiceToken(root *Node) (token, expiry string, expiresAt time.Time, err error) {
	if len(root.Children) != 1 {
		return "", "", time.Time{}, invalidResponse(rootServiceToken, "expected one token element, got %d", len(root.Children))
	}
	el := root.Children[0]

	token, ok := el.Attr("value")
	if !ok || token == "" {
		return "", "", time.Time{}, invalidResponse(rootServiceToken, "token value missing")
	}
	expiry, ok = el.Attr("expiry")
	if !ok || expiry == "" {
		return "", "", time.Time{}, invalidResponse(rootServiceToken, "token expiry missing")
	}

	expiresAt, err = parseExpiry(expiry)
	if err != nil {
		return "", "", time.Time{}, &ResponseError{Document: rootServiceToken, Reason: "unparseable expiry " + strconv.Quote(expiry), Err: err}
	}
	return token, expiry, expiresAt, nil
}

func parseExpiry(s string) (time.Time, error) {
	var err error
	for _, layout := range expiryLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, strings.TrimSpace(s), time.Local)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func (c *Client) requestServiceInfo(ctx context.Context, token string) (*serviceInfo, error) {
	root, err := c.send(ctx, methodServiceInfo, nil, token, rootServiceInfo)
	if err != nil {
		return nil, err
	}
	return parseServiceInfo(root)
}

func parseServiceInfo(root *Node) (*serviceInfo, error) {
	asset := root.Child("asseturl")
	if asset == nil {
		return nil, invalidResponse(rootServiceInfo, "asseturl element missing")
	}

	info := &serviceInfo{}
	templates := []struct {
		attr string
		dst  *string
	}{
		{"albumart", &info.assets.AlbumArt},
		{"waveform", &info.assets.Waveform},
		{"trackstream", &info.assets.TrackStream},
		{"trackdownload", &info.assets.TrackDownload},
	}
	for _, t := range templates {
		v, ok := asset.Attr(t.attr)
		if !ok || strings.TrimSpace(v) == "" {
			return nil, invalidResponse(rootServiceInfo, "asseturl attribute %q missing", t.attr)
		}
		*t.dst = strings.TrimSpace(v)
	}

	for _, el := range root.Path("trackformats", "trackformat") {
		f := TrackFormat{
			Identifier: el.AttrValue("identifier"),
			Extension:  el.AttrValue("extension"),
			Bitrate:    el.AttrValue("bitrate"),
			SampleRate: el.AttrValue("samplerate"),
			SampleSize: el.AttrValue("samplesize"),
		}
		if f.Identifier == "" || f.Extension == "" {
			return nil, invalidResponse(rootServiceInfo, "trackformat without identifier or extension")
		}
		if err := requireAttrs(el, rootServiceInfo, "bitrate", "samplerate", "samplesize"); err != nil {
			return nil, err
		}
		info.formats = append(info.formats, f)
	}

	return info, nil
}
