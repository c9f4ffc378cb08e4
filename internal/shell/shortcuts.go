package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quillchat/desktop/internal/events"
)

// Global shortcut actions the daemon understands.
const (
	ActionToggleWindow = "toggle-window"
	ActionShowWindow   = "show-window"
	ActionVoiceCall    = "voice-call"
	ActionMute         = "mute"
)

var knownActions = map[string]struct{}{
	ActionToggleWindow: {},
	ActionShowWindow:   {},
	ActionVoiceCall:    {},
	ActionMute:         {},
}

// accelerator modifiers the UI host understands, in the CmdOrCtrl spelling
var modifiers = map[string]struct{}{
	"CmdOrCtrl": {},
	"Cmd":       {},
	"Ctrl":      {},
	"Alt":       {},
	"Option":    {},
	"Shift":     {},
	"Super":     {},
	"Meta":      {},
}

// Shortcut binds a platform accelerator to a daemon action.
type Shortcut struct {
	Accelerator string `json:"accelerator"`
	Action      string `json:"action"`
}

func defaultShortcuts() map[string]string {
	return map[string]string{
		"CmdOrCtrl+Shift+Space": ActionToggleWindow,
		"CmdOrCtrl+Shift+N":     ActionShowWindow,
		"CmdOrCtrl+Shift+V":     ActionVoiceCall,
		"CmdOrCtrl+Shift+M":     ActionMute,
	}
}

// Shortcuts returns the registered bindings sorted by accelerator. The UI
// host owns the OS-level registration and keeps itself in sync with this
// registry.
func (r *Router) Shortcuts() []Shortcut {
	r.mux.Lock()
	defer r.mux.Unlock()

	shortcuts := make([]Shortcut, 0, len(r.shortcuts))
	for accelerator, action := range r.shortcuts {
		shortcuts = append(shortcuts, Shortcut{Accelerator: accelerator, Action: action})
	}
	sort.Slice(shortcuts, func(i, j int) bool {
		return shortcuts[i].Accelerator < shortcuts[j].Accelerator
	})
	return shortcuts
}

// RegisterShortcut stores a binding after validating both sides.
// Re-registering an accelerator rebinds it.
func (r *Router) RegisterShortcut(accelerator, action string) error {
	if err := validateAccelerator(accelerator); err != nil {
		return err
	}
	if _, ok := knownActions[action]; !ok {
		return fmt.Errorf("unknown shortcut action %s", action)
	}

	r.mux.Lock()
	defer r.mux.Unlock()
	r.shortcuts[accelerator] = action
	return nil
}

// UnregisterShortcut removes a binding.
func (r *Router) UnregisterShortcut(accelerator string) error {
	r.mux.Lock()
	defer r.mux.Unlock()

	if _, ok := r.shortcuts[accelerator]; !ok {
		return fmt.Errorf("shortcut %s is not registered", accelerator)
	}
	delete(r.shortcuts, accelerator)
	return nil
}

// IsShortcutRegistered reports whether an accelerator is bound.
func (r *Router) IsShortcutRegistered(accelerator string) bool {
	r.mux.Lock()
	defer r.mux.Unlock()
	_, ok := r.shortcuts[accelerator]
	return ok
}

// TriggerShortcut performs the action bound to a fired shortcut. The window
// actions act on the tracked window state, the rest is forwarded to the UI
// host as shortcut-<action>.
func (r *Router) TriggerShortcut(action string) error {
	if _, ok := knownActions[action]; !ok {
		return fmt.Errorf("unknown shortcut action %s", action)
	}

	switch action {
	case ActionToggleWindow:
		r.ToggleWindow()
	case ActionShowWindow:
		r.ShowWindow()
	default:
		r.bridge.Publish(events.ShortcutPrefix+action, nil)
	}
	return nil
}

// validateAccelerator accepts the CmdOrCtrl+Shift+X form the UI host
// understands: one or more modifiers followed by one key token.
func validateAccelerator(accelerator string) error {
	tokens := strings.Split(accelerator, "+")
	if len(tokens) < 2 {
		return fmt.Errorf("accelerator %q must combine at least one modifier with a key", accelerator)
	}
	for _, token := range tokens[:len(tokens)-1] {
		if _, ok := modifiers[token]; !ok {
			return fmt.Errorf("accelerator %q has unknown modifier %q", accelerator, token)
		}
	}
	if tokens[len(tokens)-1] == "" {
		return fmt.Errorf("accelerator %q is missing the key token", accelerator)
	}
	return nil
}
