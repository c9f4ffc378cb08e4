package shell

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/internal/events"
	"github.com/quillchat/desktop/internal/platform"
)

// ErrAutostartUnavailable is returned when no login-item backend was wired
// into the router.
var ErrAutostartUnavailable = errors.New("autostart is not available in this environment")

// Autostarter abstracts login-item registration so tests can avoid the real
// service manager.
type Autostarter interface {
	Enable() error
	Disable() error
	Enabled() (bool, error)
}

// NotificationPayload is the wire payload of notification events.
type NotificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// BadgePayload is the wire payload of badge-changed events. A zero count
// clears the badge.
type BadgePayload struct {
	Count int `json:"count"`
}

// Router is the daemon-side shell command surface. It renders nothing
// itself: every command is validated, reflected into the router's
// bookkeeping and dispatched to the UI host as an event.
type Router struct {
	mux    sync.Mutex
	bridge *events.Bridge

	visible bool
	focused bool
	badge   int

	menu      []Submenu
	shortcuts map[string]string

	autostart Autostarter

	// replaced in tests
	openURL func(target string) error
}

// NewRouter creates a router publishing on bridge. autostart may be nil
// when the platform offers no login-item integration.
func NewRouter(bridge *events.Bridge, autostart Autostarter) *Router {
	return &Router{
		bridge:    bridge,
		menu:      defaultMenu(),
		shortcuts: defaultShortcuts(),
		autostart: autostart,
		openURL:   platform.OpenURL,
	}
}

// ShowWindow asks the UI host to show and focus the main window.
func (r *Router) ShowWindow() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.showWindowLocked()
}

// HideWindow asks the UI host to hide the main window.
func (r *Router) HideWindow() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.hideWindowLocked()
}

// FocusWindow asks the UI host to focus the main window without changing
// its visibility.
func (r *Router) FocusWindow() {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.focused = true
	r.bridge.Publish(events.WindowFocus, nil)
}

// ToggleWindow hides a visible window and shows a hidden one.
func (r *Router) ToggleWindow() {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.visible {
		r.hideWindowLocked()
		return
	}
	r.showWindowLocked()
}

func (r *Router) showWindowLocked() {
	r.visible = true
	r.focused = true
	r.bridge.Publish(events.WindowShow, nil)
}

func (r *Router) hideWindowLocked() {
	r.visible = false
	r.focused = false
	r.bridge.Publish(events.WindowHide, nil)
}

// ReportWindowState records visibility and focus as observed by the UI
// host. The host's report always wins over the router's own bookkeeping.
func (r *Router) ReportWindowState(visible, focused bool) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.visible = visible
	r.focused = focused
}

// WindowState returns the last known visibility and focus.
func (r *Router) WindowState() (visible, focused bool) {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.visible, r.focused
}

// Notify dispatches a native notification request to the UI host.
func (r *Router) Notify(title, body string) error {
	if title == "" {
		return fmt.Errorf("notification title must not be empty")
	}
	r.bridge.Publish(events.Notification, NotificationPayload{Title: title, Body: body})
	return nil
}

// SetBadge updates the dock or taskbar badge count. Zero clears the badge.
func (r *Router) SetBadge(count int) error {
	if count < 0 {
		return fmt.Errorf("badge count must not be negative, got %d", count)
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	r.badge = count
	r.bridge.Publish(events.BadgeChanged, BadgePayload{Count: count})
	return nil
}

// Badge returns the last badge count set.
func (r *Router) Badge() int {
	r.mux.Lock()
	defer r.mux.Unlock()
	return r.badge
}

// EnableAutostart registers the daemon as a login item.
func (r *Router) EnableAutostart() error {
	if r.autostart == nil {
		return ErrAutostartUnavailable
	}
	return r.autostart.Enable()
}

// DisableAutostart removes the login item.
func (r *Router) DisableAutostart() error {
	if r.autostart == nil {
		return ErrAutostartUnavailable
	}
	return r.autostart.Disable()
}

// AutostartEnabled reports whether the login item is registered.
func (r *Router) AutostartEnabled() (bool, error) {
	if r.autostart == nil {
		return false, ErrAutostartUnavailable
	}
	return r.autostart.Enabled()
}

// SyncAutostart aligns the login item with the configured launch-on-login
// value. Called once at daemon startup.
func (r *Router) SyncAutostart(launchOnLogin bool) error {
	if r.autostart == nil {
		if launchOnLogin {
			log.Warnf("launch on login is configured but autostart is not available")
		}
		return nil
	}

	enabled, err := r.autostart.Enabled()
	if err != nil {
		return err
	}

	switch {
	case launchOnLogin && !enabled:
		log.Infof("registering login item")
		return r.autostart.Enable()
	case !launchOnLogin && enabled:
		log.Infof("removing login item")
		return r.autostart.Disable()
	}
	return nil
}
