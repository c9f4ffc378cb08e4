// Package rest is the Go client of the daemon HTTP API. The CLI and tooling
// use it instead of talking to the loopback endpoint by hand.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/version"
)

// an error envelope is tiny; cap reads so a misdirected endpoint can't
// balloon memory
const maxErrorResponseSize = 1 << 20

// Client is the daemon API client, the entry point of this package
type Client struct {
	addr       string
	httpClient *http.Client

	// Updates APIs for the update lifecycle, do not use directly
	Updates *UpdatesAPI
	// Shell APIs for window, notification and badge control, do not use directly
	Shell *ShellAPI
	// Menu APIs for the application menu, do not use directly
	Menu *MenuAPI
	// Shortcuts APIs for global shortcuts, do not use directly
	Shortcuts *ShortcutsAPI
	// Events APIs for the event stream, do not use directly
	Events *EventsAPI
}

// New initializes a new Client for the daemon listening on addr (host:port).
func New(addr string, opts ...option) *Client {
	client := &Client{
		addr:       addr,
		httpClient: http.DefaultClient,
	}
	client.initialize()
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func (c *Client) initialize() {
	c.Updates = &UpdatesAPI{c}
	c.Shell = &ShellAPI{c}
	c.Menu = &MenuAPI{c}
	c.Shortcuts = &ShortcutsAPI{c}
	c.Events = &EventsAPI{c}
}

// Status returns the daemon's status snapshot.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	resp, err := c.newRequest(ctx, "GET", "/api/status", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[api.StatusResponse](resp)
	return &ret, err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, "http://"+c.addr+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.CLIUserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, parseError(resp)
	}

	return resp, nil
}

func parseResponse[T any](resp *http.Response) (T, error) {
	var ret T
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ret, fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, &ret); err != nil {
		return ret, fmt.Errorf("parse response body: %w", err)
	}
	return ret, nil
}

func parseError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorResponseSize))
	if err != nil {
		return &Error{Code: resp.StatusCode, Message: resp.Status}
	}

	var envelope api.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Message == "" {
		return &Error{Code: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return &Error{Code: envelope.Code, Message: envelope.Message}
}

// Error is the decoded error envelope of a failed API call.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
