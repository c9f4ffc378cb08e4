// Package api defines the request and response bodies of the daemon HTTP API.
// The server handlers and the rest client share these types so the wire
// format is declared once.
package api

import (
	"github.com/quillchat/desktop/internal/updater"
)

// ErrorResponse is the error body returned by every failing endpoint.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// StatusResponse describes the daemon and the shell state it tracks.
type StatusResponse struct {
	Version  string           `json:"version"`
	Platform string           `json:"platform"`
	Update   updater.Snapshot `json:"update"`
	Window   WindowState      `json:"window"`
	Badge    int              `json:"badge"`
}

// WindowState is the daemon's bookkeeping of the host window.
type WindowState struct {
	Visible bool `json:"visible"`
	Focused bool `json:"focused"`
}

// CheckResponse is the outcome of a manual update check.
type CheckResponse struct {
	Available bool                    `json:"available"`
	Metadata  *updater.UpdateMetadata `json:"metadata,omitempty"`
}

// InstallResponse reports a completed download and install handoff.
type InstallResponse struct {
	Installed bool `json:"installed"`
}

// NotifyRequest asks the shell to raise a desktop notification.
type NotifyRequest struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// BadgeRequest sets the dock or taskbar badge count.
type BadgeRequest struct {
	Count int `json:"count"`
}

// MenuActionRequest invokes a menu item by its identifier.
type MenuActionRequest struct {
	ID string `json:"id"`
}

// MenuItemRequest enables or disables a menu item. Enabled is a pointer so
// an absent field can be told apart from an explicit false.
type MenuItemRequest struct {
	ID      string `json:"id"`
	Enabled *bool  `json:"enabled"`
}

// ShortcutRequest binds an accelerator to a named action.
type ShortcutRequest struct {
	Accelerator string `json:"accelerator"`
	Action      string `json:"action"`
}

// ShortcutUnregisterRequest removes an accelerator binding.
type ShortcutUnregisterRequest struct {
	Accelerator string `json:"accelerator"`
}

// ShortcutTriggerRequest fires the action bound to a shortcut as if the
// accelerator had been pressed.
type ShortcutTriggerRequest struct {
	Action string `json:"action"`
}

// OpenURLRequest routes a deep link or web link through the daemon.
type OpenURLRequest struct {
	URL string `json:"url"`
}

// AutostartState reports or requests the launch-on-login setting.
type AutostartState struct {
	Enabled bool `json:"enabled"`
}
