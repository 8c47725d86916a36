// Package firstrade is an unofficial client for the Firstrade web/mobile
// JSON API. A Client owns one login session: it drives the password + MFA
// handshake to an authenticated state, persists the reusable session token
// through a tokenstore.Store, and exposes the account, quote, and order
// calls that ride on the authenticated session headers.
//
// A Client is not safe for concurrent use. Callers that share one session
// across goroutines (the REST and MCP façades do) must serialize access.
package firstrade

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"firstrade_bridge/internal/tokenstore"
)

const defaultTimeout = 30 * time.Second

// State is the login handshake state of a Client.
type State int

const (
	// StateUnauthenticated is the initial state before Login is called.
	StateUnauthenticated State = iota
	// StateAwaitingFirstFactor means the password submission is in flight.
	StateAwaitingFirstFactor
	// StateAwaitingSecondFactor means the service sent a one-time code to
	// the selected channel and CompleteLogin must supply it.
	StateAwaitingSecondFactor
	// StateAuthenticated is the terminal success state.
	StateAuthenticated
	// StateFailed is terminal; the Client must be discarded.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAwaitingFirstFactor:
		return "awaiting-first-factor"
	case StateAwaitingSecondFactor:
		return "awaiting-second-factor"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Client is a session-scoped Firstrade API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	store      tokenstore.Store

	// maskedEmail is the configured email in the service's mask format,
	// used to match channel candidates during the second-factor step.
	maskedEmail string

	state   state
	headers map[string]string
}

// state bundles the mutable handshake bookkeeping so a failed login leaves
// one obvious place to reset.
type state struct {
	phase State

	// tToken is the handshake-continuation token issued with the
	// second-factor demand and echoed back on every verify call.
	tToken string
}

// NewClient creates a Client for the production API.
func NewClient(creds Credentials, store tokenstore.Store) *Client {
	return NewClientWithBaseURL(creds, store, DefaultBaseURL)
}

// NewClientWithBaseURL creates a Client against a custom API host. Tests
// point this at an httptest server.
func NewClientWithBaseURL(creds Credentials, store tokenstore.Store, baseURL string) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		creds:      creds,
		store:      store,
		headers:    defaultHeaders(),
	}
	if creds.Email != "" {
		c.maskedEmail = maskEmail(creds.Email)
	}
	return c
}

// State returns the current handshake state.
func (c *Client) State() State {
	return c.state.phase
}

// Username returns the login username the Client was built with.
func (c *Client) Username() string {
	return c.creds.Username
}

// SessionHeaders returns a copy of the current session header mapping.
// External collaborators consume it opaquely; mutating the copy has no
// effect on the session.
func (c *Client) SessionHeaders() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// get issues a GET with the session headers.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	return c.do(req)
}

// postForm issues a form-encoded POST with the session headers. The session
// endpoints still speak application/x-www-form-urlencoded.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// postJSON issues a JSON POST with the session headers. The order endpoints
// moved to JSON bodies.
func (c *Client) postJSON(ctx context.Context, path string, body any) ([]byte, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(string(payload)))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// apiCall performs an authenticated GET and returns the raw JSON body after
// checking the status code and the error envelope.
func (c *Client) apiCall(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if c.state.phase != StateAuthenticated {
		return nil, ErrNotAuthenticated
	}

	body, status, err := c.get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRequestFailed, status)
	}
	if err := checkEnvelope(body); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// checkEnvelope parses the common {"error": "..."} envelope and surfaces a
// non-empty error string verbatim.
func checkEnvelope(body []byte) error {
	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponseFormat, err)
	}
	if env.Error != "" {
		return fmt.Errorf("%w: %s", ErrResponseFailed, env.Error)
	}
	return nil
}
