package rest

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/internal/shell"
)

// ShortcutsAPI APIs for global shortcuts, do not use directly
type ShortcutsAPI struct {
	c *Client
}

// List returns all registered shortcuts sorted by accelerator.
func (a *ShortcutsAPI) List(ctx context.Context) ([]shell.Shortcut, error) {
	resp, err := a.c.newRequest(ctx, "GET", "/api/shortcuts", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[[]shell.Shortcut](resp)
	return ret, err
}

// Register binds an accelerator to an action and returns the updated list.
func (a *ShortcutsAPI) Register(ctx context.Context, accelerator, action string) ([]shell.Shortcut, error) {
	requestBytes, err := json.Marshal(api.ShortcutRequest{Accelerator: accelerator, Action: action})
	if err != nil {
		return nil, err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/shortcuts", bytes.NewReader(requestBytes))
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[[]shell.Shortcut](resp)
	return ret, err
}

// Unregister removes an accelerator binding and returns the updated list.
func (a *ShortcutsAPI) Unregister(ctx context.Context, accelerator string) ([]shell.Shortcut, error) {
	requestBytes, err := json.Marshal(api.ShortcutUnregisterRequest{Accelerator: accelerator})
	if err != nil {
		return nil, err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/shortcuts/unregister", bytes.NewReader(requestBytes))
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[[]shell.Shortcut](resp)
	return ret, err
}

// Trigger fires the action bound to a shortcut as if the accelerator had
// been pressed.
func (a *ShortcutsAPI) Trigger(ctx context.Context, action string) error {
	requestBytes, err := json.Marshal(api.ShortcutTriggerRequest{Action: action})
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/shortcuts/trigger", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}
