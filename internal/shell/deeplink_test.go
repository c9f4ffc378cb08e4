package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillchat/desktop/internal/events"
)

func TestOpenURLDeepLinkRouting(t *testing.T) {
	cases := []struct {
		name        string
		url         string
		wantRoute   string
		wantName    string
		wantPayload any
	}{
		{
			name:        "channel link",
			url:         "quill://channel/C0123",
			wantRoute:   "channel/C0123",
			wantName:    events.NavigateChannel,
			wantPayload: "C0123",
		},
		{
			name:        "message link",
			url:         "quill://message/M0456",
			wantRoute:   "message/M0456",
			wantName:    events.NavigateMessage,
			wantPayload: "M0456",
		},
		{
			name:        "user link",
			url:         "quill://user/U0789",
			wantRoute:   "user/U0789",
			wantName:    events.NavigateUser,
			wantPayload: "U0789",
		},
		{
			name:        "thread link with extra slash",
			url:         "quill:///thread/T0001",
			wantRoute:   "thread/T0001",
			wantName:    events.NavigateThread,
			wantPayload: "T0001",
		},
		{
			name:        "settings link",
			url:         "quill://settings",
			wantRoute:   "settings",
			wantName:    events.MenuNavigate,
			wantPayload: NavigatePayload{Route: "settings"},
		},
		{
			name:        "oauth callback keeps the full url",
			url:         "quill://auth/callback?code=abc123",
			wantRoute:   "auth/callback",
			wantName:    events.AuthCallback,
			wantPayload: "quill://auth/callback?code=abc123",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			router, sub := newTestRouter(t)
			require.NoError(t, router.OpenURL(c.url))

			collected := drainEvents(sub)
			require.Len(t, collected, 3)

			// window first, then the raw link, then the routed navigation
			assert.Equal(t, events.WindowShow, collected[0].Name)
			assert.Equal(t, events.DeepLink, collected[1].Name)
			assert.Equal(t, DeepLinkPayload{Route: c.wantRoute, URL: c.url}, collected[1].Payload)
			assert.Equal(t, c.wantName, collected[2].Name)
			assert.Equal(t, c.wantPayload, collected[2].Payload)
		})
	}
}

func TestOpenURLUnknownDeepLinkRoute(t *testing.T) {
	router, sub := newTestRouter(t)

	require.NoError(t, router.OpenURL("quill://castle/keep"))

	// still surfaces the raw link so the UI host can decide
	names := eventNames(drainEvents(sub))
	assert.Equal(t, []string{events.WindowShow, events.DeepLink}, names)
}

func TestOpenURLWebLink(t *testing.T) {
	router, sub := newTestRouter(t)

	var opened []string
	router.openURL = func(target string) error {
		opened = append(opened, target)
		return nil
	}

	require.NoError(t, router.OpenURL("https://quillchat.net/changelog"))

	assert.Equal(t, []string{"https://quillchat.net/changelog"}, opened)
	assert.Empty(t, drainEvents(sub))
}

func TestOpenURLRejectsUnsupportedSchemes(t *testing.T) {
	router, sub := newTestRouter(t)

	assert.Error(t, router.OpenURL("ftp://example.com/build.pkg"))
	assert.Error(t, router.OpenURL("file:///etc/passwd"))
	assert.Error(t, router.OpenURL("://not-a-url"))
	assert.Empty(t, drainEvents(sub))
}
