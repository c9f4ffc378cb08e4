package rest

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/quillchat/desktop/internal/server/api"
	"github.com/quillchat/desktop/internal/shell"
)

// MenuAPI APIs for the application menu, do not use directly
type MenuAPI struct {
	c *Client
}

// List returns the full menu model.
func (a *MenuAPI) List(ctx context.Context) ([]shell.Submenu, error) {
	resp, err := a.c.newRequest(ctx, "GET", "/api/menu", nil)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	ret, err := parseResponse[[]shell.Submenu](resp)
	return ret, err
}

// Action invokes a menu item by its identifier.
func (a *MenuAPI) Action(ctx context.Context, id string) error {
	requestBytes, err := json.Marshal(api.MenuActionRequest{ID: id})
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/menu/action", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}

// SetItemEnabled enables or disables a menu item.
func (a *MenuAPI) SetItemEnabled(ctx context.Context, id string, enabled bool) error {
	requestBytes, err := json.Marshal(api.MenuItemRequest{ID: id, Enabled: &enabled})
	if err != nil {
		return err
	}
	resp, err := a.c.newRequest(ctx, "POST", "/api/menu/item", bytes.NewReader(requestBytes))
	if err != nil {
		return err
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	return nil
}
