package events

// Outbound event names. These are part of the UI contract and must not be
// renamed.
const (
	// update lifecycle
	UpdateAvailable        = "update-available"
	NoUpdateAvailable      = "no-update-available"
	UpdateDownloadStart    = "update-download-start"
	UpdateDownloadProgress = "update-download-progress"
	UpdateInstalled        = "update-installed"
	UpdateFailed           = "update-failed"

	// shell command routing
	WindowShow   = "window-show"
	WindowHide   = "window-hide"
	WindowFocus  = "window-focus"
	Notification = "notification"
	BadgeChanged = "badge-changed"
	DeepLink     = "deep-link"

	// navigation requests raised by menu actions and deep links
	MenuNavigate    = "menu-navigate"
	NavigateChannel = "navigate-channel"
	NavigateMessage = "navigate-message"
	NavigateUser    = "navigate-user"
	NavigateThread  = "navigate-thread"
	AuthCallback    = "auth-callback"

	// prefixes for dynamically named emissions
	MenuPrefix     = "menu-"
	ShortcutPrefix = "shortcut-"
)
