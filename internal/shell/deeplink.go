package shell

import (
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/internal/events"
)

// DeepLinkScheme is the URL scheme registered for the application.
const DeepLinkScheme = "quill"

// DeepLinkPayload carries a routed deep link to the UI host.
type DeepLinkPayload struct {
	Route string `json:"route"`
	URL   string `json:"url"`
}

// OpenURL routes one URL. Application links bring the window to the front
// and are routed to the UI host, web links open in the system browser,
// anything else is rejected.
func (r *Router) OpenURL(target string) error {
	parsed, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", target, err)
	}

	switch parsed.Scheme {
	case DeepLinkScheme:
		r.routeDeepLink(parsed, target)
		return nil
	case "http", "https":
		return r.openURL(target)
	default:
		return fmt.Errorf("unsupported url scheme %q", parsed.Scheme)
	}
}

func (r *Router) routeDeepLink(parsed *url.URL, raw string) {
	log.Infof("deep link received: %s", raw)

	// a deep link always brings the window to the front first
	r.ShowWindow()

	route := deepLinkRoute(parsed)
	r.bridge.Publish(events.DeepLink, DeepLinkPayload{Route: route, URL: raw})

	switch {
	case strings.HasPrefix(route, "channel/"):
		r.bridge.Publish(events.NavigateChannel, strings.TrimPrefix(route, "channel/"))
	case strings.HasPrefix(route, "message/"):
		r.bridge.Publish(events.NavigateMessage, strings.TrimPrefix(route, "message/"))
	case strings.HasPrefix(route, "user/"):
		r.bridge.Publish(events.NavigateUser, strings.TrimPrefix(route, "user/"))
	case strings.HasPrefix(route, "thread/"):
		r.bridge.Publish(events.NavigateThread, strings.TrimPrefix(route, "thread/"))
	case route == "settings":
		r.bridge.Publish(events.MenuNavigate, NavigatePayload{Route: "settings"})
	case route == "auth/callback":
		r.bridge.Publish(events.AuthCallback, raw)
	default:
		log.Warnf("unknown deep link route: %s", route)
	}
}

// deepLinkRoute normalizes quill://channel/123, quill:///channel/123 and
// quill:channel/123 to the same channel/123 form.
func deepLinkRoute(parsed *url.URL) string {
	if parsed.Opaque != "" {
		return parsed.Opaque
	}
	return strings.TrimPrefix(parsed.Host+parsed.Path, "/")
}
