// Package harvestmedia provides a client library for the Harvest Media
// web service.
//
// # Overview
//
// The service exposes music libraries, tracks, member accounts and member
// playlists through signed requests answered with XML documents. This
// package manages the service session, signs every request and maps the
// XML documents onto typed values.
//
// # Quick Start
//
//	import "github.com/jfmyers9/harvestmedia/pkg/harvestmedia"
//
//	client, err := harvestmedia.NewClient(harvestmedia.Config{
//	    APIKey:        "your-api-key",
//	    WebServiceURL: "https://service.harvestmedia.net/HMP-WS.svc",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	libraries, err := client.Libraries().List(ctx)
//
// # Sessions
//
// No request is made by NewClient. The first operation requests a service
// token, then the service info (asset URL templates and track formats).
// The token is renewed transparently once it expires; the service info is
// fetched only once per Client. Session returns the current snapshot:
//
//	session, err := client.Session(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(session.WaveformURL(trackID, 200, 300))
//
// Renewal is serialized by the Client, so it may be shared between
// goroutines. Requests themselves are synchronous and never retried.
//
// # Playlists
//
//	playlist, err := client.Playlists().Create(ctx, memberID, "Road trip")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = client.Playlists().AddTrack(ctx, playlist, "17376d36f309f18d")
//
//	playlist.Name = "Road trip 2"
//	err = client.Playlists().Update(ctx, playlist)
//
// # Error Handling
//
// Failures fall into three classes, distinguishable with errors.Is:
//
//	switch {
//	case errors.Is(err, harvestmedia.ErrMissingParameter):
//	    // a required argument was empty; nothing was sent
//	case errors.Is(err, harvestmedia.ErrTransport):
//	    // non-200 status or a response code other than OK
//	case errors.Is(err, harvestmedia.ErrInvalidAPIResponse):
//	    // malformed XML, unexpected root or missing required field
//	}
//
// errors.As gives access to *MissingParameterError, *TransportError and
// *ResponseError for details. An entity is never partially updated by a
// failed operation.
//
// # Configuration
//
//	client, err := harvestmedia.NewClient(harvestmedia.Config{
//	    APIKey:        "your-api-key",
//	    WebServiceURL: "https://service.harvestmedia.net/HMP-WS.svc",
//	    Timeout:       10 * time.Second,
//	    RateLimit:     rate.Limit(5),
//	    Logger:        myLogger, // Implements harvestmedia.Logger
//	})
package harvestmedia
