package updater

import (
	"encoding/json"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/internal/events"
)

const (
	// StateIdle means no update activity is in progress.
	StateIdle LifecycleState = iota
	// StateChecking means a version source query is in flight.
	StateChecking
	// StateAvailable means a newer version was discovered and may be installed.
	StateAvailable
	// StateDownloading means the download-install pipeline is running.
	StateDownloading
	// StateDownloaded means the update was installed and a restart applies it.
	StateDownloaded
	// StateFailed means the last lifecycle run ended in a terminal error.
	StateFailed
)

// LifecycleState is the single process-wide update lifecycle value. Legal
// transitions per run: Idle → Checking → {Available|Idle|Failed} and
// Available → Downloading → {Downloaded|Failed}; no transition skips states.
type LifecycleState int

func (s LifecycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateAvailable:
		return "available"
	case StateDownloading:
		return "downloading"
	case StateDownloaded:
		return "downloaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s LifecycleState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *LifecycleState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	switch name {
	case "idle":
		*s = StateIdle
	case "checking":
		*s = StateChecking
	case "available":
		*s = StateAvailable
	case "downloading":
		*s = StateDownloading
	case "downloaded":
		*s = StateDownloaded
	case "failed":
		*s = StateFailed
	default:
		return fmt.Errorf("unknown lifecycle state %q", name)
	}
	return nil
}

// Snapshot is a read-only copy of the tracker state.
type Snapshot struct {
	State     LifecycleState  `json:"state"`
	Metadata  *UpdateMetadata `json:"metadata,omitempty"`
	Percent   float64         `json:"percent"`
	ErrorKind string          `json:"error_kind,omitempty"`
	LastError string          `json:"last_error,omitempty"`
}

// Tracker owns the lifecycle state. Every mutation goes through its methods
// under one mutex, and the corresponding event is published inside the
// critical section so emission order always matches transition order.
// Publishing never blocks (see events.Bridge), so holding the lock across it
// is safe.
type Tracker struct {
	mux      sync.Mutex
	state    LifecycleState
	metadata *UpdateMetadata
	percent  float64
	lastErr  *Error
	bridge   *events.Bridge
}

// NewTracker creates a Tracker in the Idle state publishing on bridge.
func NewTracker(bridge *events.Bridge) *Tracker {
	return &Tracker{
		state:  StateIdle,
		bridge: bridge,
	}
}

// State returns the current lifecycle state.
func (t *Tracker) State() LifecycleState {
	t.mux.Lock()
	defer t.mux.Unlock()

	return t.state
}

// Status returns a copy of the full tracker state.
func (t *Tracker) Status() Snapshot {
	t.mux.Lock()
	defer t.mux.Unlock()

	snapshot := Snapshot{
		State:   t.state,
		Percent: t.percent,
	}
	if t.metadata != nil {
		metadata := *t.metadata
		snapshot.Metadata = &metadata
	}
	if t.lastErr != nil {
		snapshot.ErrorKind = t.lastErr.Kind.String()
		snapshot.LastError = t.lastErr.Message
	}
	return snapshot
}

// BeginCheck transitions to Checking. It fails with ErrBusy while a check or
// a download-install sequence is in flight; at most one of each may run at
// any time, process-wide.
func (t *Tracker) BeginCheck() error {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.state == StateChecking || t.state == StateDownloading {
		return ErrBusy
	}

	t.state = StateChecking
	return nil
}

// RecordCheckResult finishes a check cycle: Available on metadata, Idle on
// none, Failed on error. Metadata claiming the running version as an update
// is treated as none. It returns the metadata the tracker accepted.
func (t *Tracker) RecordCheckResult(metadata *UpdateMetadata, checkErr error) (*UpdateMetadata, error) {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.state != StateChecking {
		return nil, ErrInvalidTransition
	}

	if checkErr != nil {
		t.failLocked(asError(checkErr, KindNetwork))
		return nil, nil
	}

	if metadata != nil && metadata.Version == metadata.CurrentVersion {
		log.Warnf("version source reported running version %s as an update, treating as no update", metadata.Version)
		metadata = nil
	}

	if metadata == nil {
		t.state = StateIdle
		t.metadata = nil
		t.bridge.Publish(events.NoUpdateAvailable, nil)
		return nil, nil
	}

	copied := *metadata
	t.state = StateAvailable
	t.metadata = &copied
	t.bridge.Publish(events.UpdateAvailable, copied)
	return &copied, nil
}

// BeginDownload transitions Available → Downloading. It is the only entry
// into a download-install sequence and fails with ErrInvalidTransition from
// any other state.
func (t *Tracker) BeginDownload() error {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.state != StateAvailable {
		return ErrInvalidTransition
	}

	t.state = StateDownloading
	t.percent = 0
	t.bridge.Publish(events.UpdateDownloadStart, nil)
	return nil
}

// RecordProgress publishes a progress tick. The percent is clamped to
// [0, 100] and never regresses below the previous tick of the same download.
func (t *Tracker) RecordProgress(percent float64) error {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.state != StateDownloading {
		return ErrInvalidTransition
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent < t.percent {
		percent = t.percent
	}

	t.percent = percent
	t.bridge.Publish(events.UpdateDownloadProgress, ProgressPayload{Percent: percent})
	return nil
}

// CompleteDownload transitions Downloading → Downloaded after the platform
// install step succeeded. The host process is expected to restart afterwards.
func (t *Tracker) CompleteDownload() error {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.state != StateDownloading {
		return ErrInvalidTransition
	}

	t.state = StateDownloaded
	t.bridge.Publish(events.UpdateInstalled, nil)
	return nil
}

// FailDownload transitions Downloading → Failed.
func (t *Tracker) FailDownload(installErr error) error {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.state != StateDownloading {
		return ErrInvalidTransition
	}

	t.failLocked(asError(installErr, KindInstall))
	return nil
}

// Acknowledge resets a finished cycle back to Idle. It is a no-op in any
// state other than Downloaded or Failed.
func (t *Tracker) Acknowledge() {
	t.mux.Lock()
	defer t.mux.Unlock()

	if t.state != StateDownloaded && t.state != StateFailed {
		return
	}

	t.state = StateIdle
	t.metadata = nil
	t.percent = 0
	t.lastErr = nil
}

// failLocked must be called with the mutex held.
func (t *Tracker) failLocked(e *Error) {
	t.state = StateFailed
	t.lastErr = e
	t.bridge.Publish(events.UpdateFailed, FailurePayload{
		ErrorKind: e.Kind.String(),
		Message:   e.Message,
	})
}
