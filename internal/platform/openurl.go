package platform

import (
	"fmt"
	"net/url"

	"github.com/skratchdot/open-golang/open"
)

var openRun = open.Run

// OpenURL opens target in the user's default browser. Only web URLs are
// accepted; quill:// deep links are routed internally by the shell.
func OpenURL(target string) error {
	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("refusing to open url with scheme %q", parsed.Scheme)
	}

	return openRun(target)
}
