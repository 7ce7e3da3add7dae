package harvestmedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	rootResponseCode = "responsecode"
	responseCodeOK   = "OK"
)

// call makes an authenticated request, obtaining or renewing the session
// first, and returns the parsed response root.
func (c *Client) call(ctx context.Context, method string, params map[string]string, roots ...string) (*Node, error) {
	session, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, params, session.Token, roots...)
}

// send performs one signed request and parses the XML response.
//
// It handles:
// - Request construction with api_key, token, timestamp and api_sig
// - Optional request pacing
// - HTTP status checks (non-200 is a *TransportError)
// - Response parsing and root element validation
//
// A <responsecode> document received where another root was expected is
// reported as a *TransportError when its code is not OK, since that is how
// the service signals a rejected request.
func (c *Client) send(ctx context.Context, method string, params map[string]string, token string, roots ...string) (*Node, error) {
	reqParams := make(map[string]string, len(params)+3)
	for k, v := range params {
		reqParams[k] = v
	}
	reqParams["api_key"] = c.apiKey
	reqParams["timestamp"] = strconv.FormatInt(c.now().Unix(), 10)
	if token != "" {
		reqParams["token"] = token
	}

	formData := url.Values{}
	for k, v := range reqParams {
		formData.Set(k, v)
	}
	formData.Set("api_sig", calculateSignature(reqParams, c.apiKey))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	requestID := uuid.NewString()
	c.logDebugf("harvestmedia: calling %s (request %s)", method, requestID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logDebugf("harvestmedia: %s failed with status %d (request %s)", method, resp.StatusCode, requestID)
		return nil, &TransportError{Method: method, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	root, err := ParseXML(body)
	if err != nil {
		if re, ok := err.(*ResponseError); ok && len(roots) > 0 {
			re.Document = roots[0]
		}
		return nil, err
	}

	if root.Is(rootResponseCode) && !containsFold(roots, rootResponseCode) {
		if err := checkResponseCode(method, root); err != nil {
			return nil, err
		}
	}
	if err := expectRoot(root, roots...); err != nil {
		return nil, err
	}

	c.logDebugf("harvestmedia: %s succeeded", method)
	return root, nil
}

// checkResponseCode verifies a <responsecode> document carries the OK code.
func checkResponseCode(method string, root *Node) error {
	code := root.Child("code")
	if code == nil {
		return invalidResponse(rootResponseCode, "code element missing")
	}
	if code.Text != responseCodeOK {
		return &TransportError{Method: method, StatusCode: http.StatusOK, Status: "200 OK", Code: code.Text}
	}
	return nil
}

// acknowledge performs a call whose only expected answer is <responsecode>
// with code OK.
func (c *Client) acknowledge(ctx context.Context, method string, params map[string]string) error {
	root, err := c.call(ctx, method, params, rootResponseCode)
	if err != nil {
		return err
	}
	return checkResponseCode(method, root)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
