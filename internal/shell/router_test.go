package shell

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillchat/desktop/internal/events"
)

type fakeAutostart struct {
	enabled    bool
	enableErr  error
	enables    int
	disables   int
	statusErr  error
	statusHits int
}

func (f *fakeAutostart) Enable() error {
	f.enables++
	if f.enableErr != nil {
		return f.enableErr
	}
	f.enabled = true
	return nil
}

func (f *fakeAutostart) Disable() error {
	f.disables++
	f.enabled = false
	return nil
}

func (f *fakeAutostart) Enabled() (bool, error) {
	f.statusHits++
	return f.enabled, f.statusErr
}

func newTestRouter(t *testing.T) (*Router, *events.Subscription) {
	t.Helper()
	bridge := events.NewBridge()
	sub := bridge.Subscribe()
	return NewRouter(bridge, nil), sub
}

func drainEvents(sub *events.Subscription) []events.Event {
	var collected []events.Event
	for {
		select {
		case event := <-sub.Events():
			collected = append(collected, event)
		case <-time.After(10 * time.Millisecond):
			return collected
		}
	}
}

func eventNames(collected []events.Event) []string {
	names := make([]string, len(collected))
	for i, event := range collected {
		names[i] = event.Name
	}
	return names
}

func TestWindowCommands(t *testing.T) {
	router, sub := newTestRouter(t)

	router.ShowWindow()
	visible, focused := router.WindowState()
	assert.True(t, visible)
	assert.True(t, focused)

	router.HideWindow()
	visible, _ = router.WindowState()
	assert.False(t, visible)

	router.ToggleWindow()
	visible, _ = router.WindowState()
	assert.True(t, visible)

	router.FocusWindow()

	want := []string{events.WindowShow, events.WindowHide, events.WindowShow, events.WindowFocus}
	assert.Equal(t, want, eventNames(drainEvents(sub)))
}

func TestReportWindowStateOverridesBookkeeping(t *testing.T) {
	router, sub := newTestRouter(t)

	router.ShowWindow()
	// the UI host observed the user closing the window itself
	router.ReportWindowState(false, false)

	visible, focused := router.WindowState()
	assert.False(t, visible)
	assert.False(t, focused)

	// reports are bookkeeping only, no event echo
	assert.Equal(t, []string{events.WindowShow}, eventNames(drainEvents(sub)))
}

func TestNotify(t *testing.T) {
	router, sub := newTestRouter(t)

	require.Error(t, router.Notify("", "body without title"))
	require.NoError(t, router.Notify("New message", "Ada: hello"))

	collected := drainEvents(sub)
	require.Len(t, collected, 1)
	assert.Equal(t, events.Notification, collected[0].Name)
	assert.Equal(t, NotificationPayload{Title: "New message", Body: "Ada: hello"}, collected[0].Payload)
}

func TestSetBadge(t *testing.T) {
	router, sub := newTestRouter(t)

	require.Error(t, router.SetBadge(-1))
	require.NoError(t, router.SetBadge(3))
	require.NoError(t, router.SetBadge(0))
	assert.Equal(t, 0, router.Badge())

	collected := drainEvents(sub)
	require.Len(t, collected, 2)
	assert.Equal(t, BadgePayload{Count: 3}, collected[0].Payload)
	assert.Equal(t, BadgePayload{Count: 0}, collected[1].Payload)
}

func TestSyncAutostart(t *testing.T) {
	cases := []struct {
		name          string
		launchOnLogin bool
		enabled       bool
		wantEnables   int
		wantDisables  int
	}{
		{name: "configured and registered", launchOnLogin: true, enabled: true},
		{name: "configured but missing", launchOnLogin: true, wantEnables: 1},
		{name: "unconfigured but registered", enabled: true, wantDisables: 1},
		{name: "unconfigured and missing"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			autostart := &fakeAutostart{enabled: c.enabled}
			router := NewRouter(events.NewBridge(), autostart)

			require.NoError(t, router.SyncAutostart(c.launchOnLogin))
			assert.Equal(t, c.wantEnables, autostart.enables)
			assert.Equal(t, c.wantDisables, autostart.disables)
		})
	}
}

func TestSyncAutostartStatusFailure(t *testing.T) {
	autostart := &fakeAutostart{statusErr: errors.New("service manager unreachable")}
	router := NewRouter(events.NewBridge(), autostart)

	require.Error(t, router.SyncAutostart(true))
	assert.Zero(t, autostart.enables)
}

func TestAutostartUnavailable(t *testing.T) {
	router, _ := newTestRouter(t)

	assert.ErrorIs(t, router.EnableAutostart(), ErrAutostartUnavailable)
	assert.ErrorIs(t, router.DisableAutostart(), ErrAutostartUnavailable)
	_, err := router.AutostartEnabled()
	assert.ErrorIs(t, err, ErrAutostartUnavailable)

	// sync degrades to a warning instead of failing the daemon start
	assert.NoError(t, router.SyncAutostart(true))
}
