package rest

import (
	"context"

	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/internal/updater"
)

// UpdatesAPI APIs for the update lifecycle, do not use directly
type UpdatesAPI struct {
	c *Client
}

// Check asks the daemon to query the version source once. The response
// reports whether an update is available; a busy daemon answers 409.
func (a *UpdatesAPI) Check(ctx context.Context) (*api.CheckResponse, error) {
	resp, err := a.c.newRequest(ctx, "POST", "/api/update/check", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[api.CheckResponse](resp)
	return &ret, err
}

// Install asks the daemon to download and install the available update.
// The call blocks until the pipeline finishes or fails.
func (a *UpdatesAPI) Install(ctx context.Context) (*api.InstallResponse, error) {
	resp, err := a.c.newRequest(ctx, "POST", "/api/update/install", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[api.InstallResponse](resp)
	return &ret, err
}

// Acknowledge clears a terminal update state and returns the new snapshot.
func (a *UpdatesAPI) Acknowledge(ctx context.Context) (*updater.Snapshot, error) {
	resp, err := a.c.newRequest(ctx, "POST", "/api/update/acknowledge", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[updater.Snapshot](resp)
	return &ret, err
}
