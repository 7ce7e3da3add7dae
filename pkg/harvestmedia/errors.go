package harvestmedia

import (
	"errors"
	"fmt"
)

// Predefined errors for the failure classes surfaced by the client.
//
// Use errors.Is to tell "server rejected the request" apart from
// "response could not be understood". Network and context errors are
// returned wrapped and match none of these.
var (
	// ErrInvalidAPIResponse is matched by errors caused by a response body
	// that is not well-formed XML, has an unrecognized root element, or lacks
	// a required attribute or child.
	ErrInvalidAPIResponse = errors.New("harvestmedia: invalid API response")

	// ErrMissingParameter is matched by errors raised before any network I/O
	// when a required argument is empty.
	ErrMissingParameter = errors.New("harvestmedia: missing parameter")

	// ErrTransport is matched by errors caused by a non-success HTTP status
	// or a response code other than OK.
	ErrTransport = errors.New("harvestmedia: transport failure")

	// ErrInvalidConfig is returned when client configuration is invalid.
	ErrInvalidConfig = errors.New("harvestmedia: invalid configuration")

	// ErrUnknownFormat is returned when a download URL is requested for a
	// file extension the service info does not list.
	ErrUnknownFormat = errors.New("harvestmedia: unknown track format")
)

// ResponseError describes a response that could not be parsed as the
// expected document.
type ResponseError struct {
	Document string // Expected root element, if known
	Reason   string // What was wrong with the document
	Err      error  // Underlying decoder error, if any
}

// Error returns the error message.
func (e *ResponseError) Error() string {
	msg := "harvestmedia: invalid API response"
	if e.Document != "" {
		msg += " (" + e.Document + ")"
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is ErrInvalidAPIResponse.
func (e *ResponseError) Is(target error) bool {
	return target == ErrInvalidAPIResponse
}

// Unwrap returns the underlying decoder error.
func (e *ResponseError) Unwrap() error {
	return e.Err
}

// MissingParameterError names a required argument that was not supplied.
type MissingParameterError struct {
	Param string
}

// Error returns the error message.
func (e *MissingParameterError) Error() string {
	return "harvestmedia: missing parameter: " + e.Param
}

// Is reports whether target is ErrMissingParameter.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// TransportError represents a request the service did not accept.
//
// StatusCode is set for HTTP-level failures. Code holds the text of a
// <responsecode> element when the HTTP exchange succeeded but the service
// answered with something other than OK.
type TransportError struct {
	Method     string
	StatusCode int
	Status     string
	Code       string
}

// Error returns the error message.
func (e *TransportError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("harvestmedia: %s: response code %q", e.Method, e.Code)
	}
	return fmt.Sprintf("harvestmedia: %s: unexpected status %d %s", e.Method, e.StatusCode, e.Status)
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func invalidResponse(document, format string, args ...interface{}) error {
	return &ResponseError{Document: document, Reason: fmt.Sprintf(format, args...)}
}

// require returns a *MissingParameterError for the first empty value.
// Arguments alternate name, value.
func require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return &MissingParameterError{Param: pairs[i]}
		}
	}
	return nil
}
