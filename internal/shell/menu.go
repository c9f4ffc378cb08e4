package shell

import (
	"fmt"
	"slices"
	"strings"

	"github.com/quillchat/desktop/internal/events"
)

const (
	documentationURL = "https://docs.quillchat.net"
	issueTrackerURL  = "https://github.com/quillchat/desktop/issues"
)

// MenuItem is one entry of the application menu model. The UI host renders
// the model natively and calls back with the item ID on activation.
type MenuItem struct {
	ID          string `json:"id,omitempty"`
	Label       string `json:"label,omitempty"`
	Accelerator string `json:"accelerator,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
	Separator   bool   `json:"separator,omitempty"`
}

// Submenu groups menu items under a top-level title.
type Submenu struct {
	Label string     `json:"label"`
	Items []MenuItem `json:"items"`
}

// NavigatePayload names a UI route requested by a menu action or deep link.
type NavigatePayload struct {
	Route string `json:"route"`
}

func separator() MenuItem { return MenuItem{Separator: true} }

func defaultMenu() []Submenu {
	return []Submenu{
		{
			Label: "File",
			Items: []MenuItem{
				{ID: "new_message", Label: "New Message", Accelerator: "CmdOrCtrl+N"},
				{ID: "new_channel", Label: "New Channel", Accelerator: "CmdOrCtrl+Shift+N"},
				separator(),
				{ID: "preferences", Label: "Preferences...", Accelerator: "CmdOrCtrl+,"},
				separator(),
				{ID: "close_window", Label: "Close Window", Accelerator: "CmdOrCtrl+W"},
			},
		},
		{
			Label: "Edit",
			Items: []MenuItem{
				{ID: "undo", Label: "Undo", Accelerator: "CmdOrCtrl+Z"},
				{ID: "redo", Label: "Redo", Accelerator: "CmdOrCtrl+Shift+Z"},
				separator(),
				{ID: "cut", Label: "Cut", Accelerator: "CmdOrCtrl+X"},
				{ID: "copy", Label: "Copy", Accelerator: "CmdOrCtrl+C"},
				{ID: "paste", Label: "Paste", Accelerator: "CmdOrCtrl+V"},
				{ID: "select_all", Label: "Select All", Accelerator: "CmdOrCtrl+A"},
				separator(),
				{ID: "find", Label: "Find...", Accelerator: "CmdOrCtrl+F"},
			},
		},
		{
			Label: "View",
			Items: []MenuItem{
				{ID: "reload", Label: "Reload", Accelerator: "CmdOrCtrl+R"},
				{ID: "force_reload", Label: "Force Reload", Accelerator: "CmdOrCtrl+Shift+R"},
				separator(),
				{ID: "actual_size", Label: "Actual Size", Accelerator: "CmdOrCtrl+0"},
				{ID: "zoom_in", Label: "Zoom In", Accelerator: "CmdOrCtrl+="},
				{ID: "zoom_out", Label: "Zoom Out", Accelerator: "CmdOrCtrl+-"},
				separator(),
				{ID: "toggle_sidebar", Label: "Toggle Sidebar", Accelerator: "CmdOrCtrl+\\"},
				{ID: "toggle_fullscreen", Label: "Toggle Fullscreen"},
			},
		},
		{
			Label: "Go",
			Items: []MenuItem{
				{ID: "go_home", Label: "Home", Accelerator: "CmdOrCtrl+Shift+H"},
				{ID: "go_channels", Label: "Channels", Accelerator: "CmdOrCtrl+Shift+C"},
				{ID: "go_messages", Label: "Direct Messages", Accelerator: "CmdOrCtrl+Shift+M"},
				{ID: "go_threads", Label: "Threads", Accelerator: "CmdOrCtrl+Shift+T"},
				separator(),
				{ID: "go_settings", Label: "Settings", Accelerator: "CmdOrCtrl+Shift+S"},
			},
		},
		{
			Label: "Window",
			Items: []MenuItem{
				{ID: "minimize", Label: "Minimize", Accelerator: "CmdOrCtrl+M"},
				{ID: "zoom", Label: "Zoom"},
				separator(),
				{ID: "bring_all_to_front", Label: "Bring All to Front"},
			},
		},
		{
			Label: "Help",
			Items: []MenuItem{
				{ID: "documentation", Label: "Documentation"},
				{ID: "keyboard_shortcuts", Label: "Keyboard Shortcuts", Accelerator: "CmdOrCtrl+/"},
				separator(),
				{ID: "report_issue", Label: "Report Issue"},
				{ID: "check_updates", Label: "Check for Updates..."},
				separator(),
				{ID: "about", Label: "About Quill"},
			},
		},
	}
}

// Menu returns a copy of the application menu model.
func (r *Router) Menu() []Submenu {
	r.mux.Lock()
	defer r.mux.Unlock()

	menu := make([]Submenu, len(r.menu))
	for i, submenu := range r.menu {
		menu[i] = Submenu{Label: submenu.Label, Items: slices.Clone(submenu.Items)}
	}
	return menu
}

// SetMenuItemEnabled flips the enabled flag of one menu item.
func (r *Router) SetMenuItemEnabled(id string, enabled bool) error {
	if id == "" {
		return fmt.Errorf("menu item id must not be empty")
	}

	r.mux.Lock()
	defer r.mux.Unlock()
	for i := range r.menu {
		for j := range r.menu[i].Items {
			if r.menu[i].Items[j].ID == id {
				r.menu[i].Items[j].Disabled = !enabled
				return nil
			}
		}
	}
	return fmt.Errorf("unknown menu item %s", id)
}

// MenuAction dispatches one menu item activation. Navigation items emit
// menu-navigate carrying their route, help links open the system browser,
// everything else is forwarded as menu-<id> with underscores mapped to
// dashes.
func (r *Router) MenuAction(id string) error {
	r.mux.Lock()
	item, found := r.findMenuItemLocked(id)
	r.mux.Unlock()

	if !found {
		return fmt.Errorf("unknown menu item %s", id)
	}
	if item.Disabled {
		return fmt.Errorf("menu item %s is disabled", id)
	}

	switch {
	case strings.HasPrefix(id, "go_"):
		r.bridge.Publish(events.MenuNavigate, NavigatePayload{Route: strings.TrimPrefix(id, "go_")})
	case id == "documentation":
		return r.openURL(documentationURL)
	case id == "report_issue":
		return r.openURL(issueTrackerURL)
	default:
		r.bridge.Publish(events.MenuPrefix+strings.ReplaceAll(id, "_", "-"), nil)
	}
	return nil
}

func (r *Router) findMenuItemLocked(id string) (MenuItem, bool) {
	for _, submenu := range r.menu {
		for _, item := range submenu.Items {
			if !item.Separator && item.ID == id {
				return item, true
			}
		}
	}
	return MenuItem{}, false
}
