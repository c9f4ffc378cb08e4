package updater

import (
	"errors"
	"testing"
	"time"

	"github.com/quillchat/desktop/internal/events"
)

// drainEvents collects everything already published to sub.
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
	names := make([]string, 0, len(collected))
	for _, event := range collected {
		names = append(names, event.Name)
	}
	return names
}

func Test_BeginCheckSerialization(t *testing.T) {
	testMatrix := []struct {
		name    string
		initial LifecycleState
		wantErr error
	}{
		{
			name:    "idle allows a check",
			initial: StateIdle,
			wantErr: nil,
		},
		{
			name:    "a second check is rejected while one is in flight",
			initial: StateChecking,
			wantErr: ErrBusy,
		},
		{
			name:    "available allows a re-check",
			initial: StateAvailable,
			wantErr: nil,
		},
		{
			name:    "a check is rejected while downloading",
			initial: StateDownloading,
			wantErr: ErrBusy,
		},
		{
			name:    "downloaded allows a next-cycle check",
			initial: StateDownloaded,
			wantErr: nil,
		},
		{
			name:    "failed allows a retry check",
			initial: StateFailed,
			wantErr: nil,
		},
	}

	for _, c := range testMatrix {
		tracker := NewTracker(events.NewBridge())
		tracker.state = c.initial

		err := tracker.BeginCheck()
		if c.wantErr == nil {
			if err != nil {
				t.Errorf("%s: expected no error, got %v", c.name, err)
			}
			if tracker.State() != StateChecking {
				t.Errorf("%s: expected state checking, got %v", c.name, tracker.State())
			}
		} else {
			if !errors.Is(err, c.wantErr) {
				t.Errorf("%s: expected %v, got %v", c.name, c.wantErr, err)
			}
			if tracker.State() != c.initial {
				t.Errorf("%s: state must not change on rejection, got %v", c.name, tracker.State())
			}
		}
	}
}

func Test_RecordCheckResult(t *testing.T) {
	metadata := &UpdateMetadata{Version: "2.0.0", CurrentVersion: "1.5.0"}
	stale := &UpdateMetadata{Version: "1.5.0", CurrentVersion: "1.5.0"}

	testMatrix := []struct {
		name       string
		metadata   *UpdateMetadata
		checkErr   error
		wantState  LifecycleState
		wantEvents []string
	}{
		{
			name:       "newer version becomes available",
			metadata:   metadata,
			wantState:  StateAvailable,
			wantEvents: []string{events.UpdateAvailable},
		},
		{
			name:       "no update returns to idle",
			metadata:   nil,
			wantState:  StateIdle,
			wantEvents: []string{events.NoUpdateAvailable},
		},
		{
			name:       "metadata equal to the running version is treated as no update",
			metadata:   stale,
			wantState:  StateIdle,
			wantEvents: []string{events.NoUpdateAvailable},
		},
		{
			name:       "a check failure is terminal",
			checkErr:   NewNetworkError(errors.New("connection refused")),
			wantState:  StateFailed,
			wantEvents: []string{events.UpdateFailed},
		},
	}

	for _, c := range testMatrix {
		bridge := events.NewBridge()
		sub := bridge.Subscribe()
		tracker := NewTracker(bridge)

		if err := tracker.BeginCheck(); err != nil {
			t.Fatalf("%s: begin check: %v", c.name, err)
		}
		if _, err := tracker.RecordCheckResult(c.metadata, c.checkErr); err != nil {
			t.Errorf("%s: record check result: %v", c.name, err)
		}

		if tracker.State() != c.wantState {
			t.Errorf("%s: expected state %v, got %v", c.name, c.wantState, tracker.State())
		}

		collected := drainEvents(sub)
		names := eventNames(collected)
		if len(names) != len(c.wantEvents) {
			t.Errorf("%s: expected events %v, got %v", c.name, c.wantEvents, names)
		} else {
			for i := range names {
				if names[i] != c.wantEvents[i] {
					t.Errorf("%s: expected events %v, got %v", c.name, c.wantEvents, names)
					break
				}
			}
		}

		bridge.Unsubscribe(sub)
	}
}

func Test_RecordCheckResultOutsideCheck(t *testing.T) {
	tracker := NewTracker(events.NewBridge())

	if _, err := tracker.RecordCheckResult(nil, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected %v, got %v", ErrInvalidTransition, err)
	}
}

func Test_AvailableEmissionCarriesIdenticalMetadata(t *testing.T) {
	bridge := events.NewBridge()
	sub := bridge.Subscribe()
	tracker := NewTracker(bridge)

	metadata := &UpdateMetadata{
		Version:        "2.0.0",
		CurrentVersion: "1.5.0",
		ReleaseNotes:   "fixes",
		ReleaseDate:    "2024-06-01T00:00:00Z",
		DownloadSize:   1000,
		DownloadURL:    "https://releases.quillchat.io/2.0.0/quill.pkg",
		Checksum:       "abc123",
	}

	if err := tracker.BeginCheck(); err != nil {
		t.Fatalf("begin check: %v", err)
	}
	if _, err := tracker.RecordCheckResult(metadata, nil); err != nil {
		t.Fatalf("record check result: %v", err)
	}

	collected := drainEvents(sub)
	if len(collected) != 1 {
		t.Fatalf("expected exactly one emission, got %v", eventNames(collected))
	}
	if collected[0].Name != events.UpdateAvailable {
		t.Fatalf("expected %s, got %s", events.UpdateAvailable, collected[0].Name)
	}

	payload, ok := collected[0].Payload.(UpdateMetadata)
	if !ok {
		t.Fatalf("expected UpdateMetadata payload, got %T", collected[0].Payload)
	}
	if payload != *metadata {
		t.Errorf("expected payload %+v, got %+v", *metadata, payload)
	}
}

func Test_BeginDownloadRequiresAvailable(t *testing.T) {
	testMatrix := []struct {
		name    string
		initial LifecycleState
		wantErr error
	}{
		{"idle rejects download", StateIdle, ErrInvalidTransition},
		{"checking rejects download", StateChecking, ErrInvalidTransition},
		{"available starts download", StateAvailable, nil},
		{"downloading rejects a second download", StateDownloading, ErrInvalidTransition},
		{"downloaded rejects download", StateDownloaded, ErrInvalidTransition},
		{"failed rejects download", StateFailed, ErrInvalidTransition},
	}

	for _, c := range testMatrix {
		bridge := events.NewBridge()
		sub := bridge.Subscribe()
		tracker := NewTracker(bridge)
		tracker.state = c.initial

		err := tracker.BeginDownload()
		if c.wantErr == nil {
			if err != nil {
				t.Errorf("%s: expected no error, got %v", c.name, err)
			}
			if tracker.State() != StateDownloading {
				t.Errorf("%s: expected state downloading, got %v", c.name, tracker.State())
			}
			names := eventNames(drainEvents(sub))
			if len(names) != 1 || names[0] != events.UpdateDownloadStart {
				t.Errorf("%s: expected a single %s event, got %v", c.name, events.UpdateDownloadStart, names)
			}
		} else {
			if !errors.Is(err, c.wantErr) {
				t.Errorf("%s: expected %v, got %v", c.name, c.wantErr, err)
			}
			if names := eventNames(drainEvents(sub)); len(names) != 0 {
				t.Errorf("%s: rejected transitions must not emit, got %v", c.name, names)
			}
		}

		bridge.Unsubscribe(sub)
	}
}

func Test_RecordProgressMonotonicAndClamped(t *testing.T) {
	bridge := events.NewBridge()
	sub := bridge.Subscribe()
	tracker := NewTracker(bridge)
	tracker.state = StateAvailable

	if err := tracker.BeginDownload(); err != nil {
		t.Fatalf("begin download: %v", err)
	}

	ticks := []float64{-10, 25, 50, 30, 120, 99}
	want := []float64{0, 25, 50, 50, 100, 100}
	for _, tick := range ticks {
		if err := tracker.RecordProgress(tick); err != nil {
			t.Fatalf("record progress %v: %v", tick, err)
		}
	}

	var got []float64
	for _, event := range drainEvents(sub) {
		if event.Name != events.UpdateDownloadProgress {
			continue
		}
		payload := event.Payload.(ProgressPayload)
		got = append(got, payload.Percent)
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d progress events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func Test_RecordProgressOutsideDownload(t *testing.T) {
	tracker := NewTracker(events.NewBridge())

	if err := tracker.RecordProgress(10); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected %v, got %v", ErrInvalidTransition, err)
	}
}

func Test_TerminalTransitions(t *testing.T) {
	testMatrix := []struct {
		name      string
		fail      error
		wantState LifecycleState
		wantEvent string
		wantKind  string
	}{
		{
			name:      "successful install",
			wantState: StateDownloaded,
			wantEvent: events.UpdateInstalled,
		},
		{
			name:      "interrupted download",
			fail:      NewDownloadError(errors.New("connection reset")),
			wantState: StateFailed,
			wantEvent: events.UpdateFailed,
			wantKind:  "Download",
		},
		{
			name:      "cancelled download",
			fail:      NewCancelledError(),
			wantState: StateFailed,
			wantEvent: events.UpdateFailed,
			wantKind:  "Cancelled",
		},
	}

	for _, c := range testMatrix {
		bridge := events.NewBridge()
		tracker := NewTracker(bridge)
		tracker.state = StateAvailable

		if err := tracker.BeginDownload(); err != nil {
			t.Fatalf("%s: begin download: %v", c.name, err)
		}

		sub := bridge.Subscribe()
		var err error
		if c.fail != nil {
			err = tracker.FailDownload(c.fail)
		} else {
			err = tracker.CompleteDownload()
		}
		if err != nil {
			t.Fatalf("%s: terminal transition: %v", c.name, err)
		}

		if tracker.State() != c.wantState {
			t.Errorf("%s: expected state %v, got %v", c.name, c.wantState, tracker.State())
		}

		collected := drainEvents(sub)
		if len(collected) != 1 || collected[0].Name != c.wantEvent {
			t.Fatalf("%s: expected a single %s event, got %v", c.name, c.wantEvent, eventNames(collected))
		}
		if c.wantKind != "" {
			payload := collected[0].Payload.(FailurePayload)
			if payload.ErrorKind != c.wantKind {
				t.Errorf("%s: expected error kind %s, got %s", c.name, c.wantKind, payload.ErrorKind)
			}
		}

		// terminal states accept a fresh check without acknowledgement
		if err := tracker.BeginCheck(); err != nil {
			t.Errorf("%s: check after terminal transition: %v", c.name, err)
		}

		bridge.Unsubscribe(sub)
	}
}

func Test_AcknowledgeResetsFinishedCycle(t *testing.T) {
	tracker := NewTracker(events.NewBridge())
	tracker.state = StateAvailable

	if err := tracker.BeginDownload(); err != nil {
		t.Fatalf("begin download: %v", err)
	}
	if err := tracker.RecordProgress(40); err != nil {
		t.Fatalf("record progress: %v", err)
	}
	if err := tracker.FailDownload(NewDownloadError(errors.New("boom"))); err != nil {
		t.Fatalf("fail download: %v", err)
	}

	status := tracker.Status()
	if status.ErrorKind != "Download" || status.LastError == "" {
		t.Errorf("expected failure details in the snapshot, got %+v", status)
	}

	tracker.Acknowledge()

	status = tracker.Status()
	if status.State != StateIdle || status.Percent != 0 || status.ErrorKind != "" || status.Metadata != nil {
		t.Errorf("expected a clean idle snapshot, got %+v", status)
	}

	// acknowledge outside a terminal state is a no-op
	if err := tracker.BeginCheck(); err != nil {
		t.Fatalf("begin check: %v", err)
	}
	tracker.Acknowledge()
	if tracker.State() != StateChecking {
		t.Errorf("expected acknowledge to be a no-op while checking, got %v", tracker.State())
	}
}
