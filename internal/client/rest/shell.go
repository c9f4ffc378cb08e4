package rest

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/quillchat/desktop/internal/server/api"
)

// ShellAPI APIs for window, notification and badge control, do not use directly
type ShellAPI struct {
	c *Client
}

// WindowState returns the daemon's view of the host window.
func (a *ShellAPI) WindowState(ctx context.Context) (*api.WindowState, error) {
	resp, err := a.c.newRequest(ctx, "GET", "/api/window", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[api.WindowState](resp)
	return &ret, err
}

// ShowWindow brings the window to the front.
func (a *ShellAPI) ShowWindow(ctx context.Context) (*api.WindowState, error) {
	return a.windowCommand(ctx, "show")
}

// HideWindow hides the window.
func (a *ShellAPI) HideWindow(ctx context.Context) (*api.WindowState, error) {
	return a.windowCommand(ctx, "hide")
}

// FocusWindow focuses the window, showing it first if hidden.
func (a *ShellAPI) FocusWindow(ctx context.Context) (*api.WindowState, error) {
	return a.windowCommand(ctx, "focus")
}

// ToggleWindow shows a hidden window and hides a visible one.
func (a *ShellAPI) ToggleWindow(ctx context.Context) (*api.WindowState, error) {
	return a.windowCommand(ctx, "toggle")
}

func (a *ShellAPI) windowCommand(ctx context.Context, action string) (*api.WindowState, error) {
	resp, err := a.c.newRequest(ctx, "POST", "/api/window/"+action, nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[api.WindowState](resp)
	return &ret, err
}

// ReportWindow overwrites the daemon's window bookkeeping with the host's
// observed state.
func (a *ShellAPI) ReportWindow(ctx context.Context, state api.WindowState) error {
	requestBytes, err := json.Marshal(state)
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/window/report", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}

// Notify raises a desktop notification.
func (a *ShellAPI) Notify(ctx context.Context, request api.NotifyRequest) error {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/notify", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}

// SetBadge sets the dock or taskbar badge count.
func (a *ShellAPI) SetBadge(ctx context.Context, count int) error {
	requestBytes, err := json.Marshal(api.BadgeRequest{Count: count})
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/badge", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}

// OpenURL routes a quill:// deep link or a web link through the daemon.
func (a *ShellAPI) OpenURL(ctx context.Context, url string) error {
	requestBytes, err := json.Marshal(api.OpenURLRequest{URL: url})
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/open-url", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}

// Autostart reports whether the daemon launches on login.
func (a *ShellAPI) Autostart(ctx context.Context) (*api.AutostartState, error) {
	resp, err := a.c.newRequest(ctx, "GET", "/api/autostart", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[api.AutostartState](resp)
	return &ret, err
}

// SetAutostart enables or disables launch on login.
func (a *ShellAPI) SetAutostart(ctx context.Context, enabled bool) error {
	requestBytes, err := json.Marshal(api.AutostartState{Enabled: enabled})
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/autostart", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}
