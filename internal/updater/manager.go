package updater

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/quillchat/desktop/internal/events"
	"github.com/quillchat/desktop/internal/platform"
)

// DefaultStartupCheckDelay is how long after launch the automatic check
// fires.
const DefaultStartupCheckDelay = 10 * time.Second

// Options configure a Manager.
type Options struct {
	// Endpoint is the version source URL, with optional %version,
	// %platform and %arch placeholders.
	Endpoint string
	// CurrentVersion is the version of the running application.
	CurrentVersion string
	// UserAgent identifies this client to the version source.
	UserAgent string
	// StartupCheckDelay postpones the automatic check after launch;
	// zero means DefaultStartupCheckDelay.
	StartupCheckDelay time.Duration
	// DisableStartupCheck turns the automatic check off entirely.
	DisableStartupCheck bool
	// StagingDir receives downloaded artifacts; empty means the system
	// temp directory.
	StagingDir string
	// Install applies a staged artifact; nil means the built-in
	// executable swap.
	Install InstallFunc
}

// Manager drives the update lifecycle. It serializes checks and installs
// through the tracker, owns the one-shot startup check, and is the command
// surface behind the API server and CLI.
type Manager struct {
	tracker  *Tracker
	source   *SourceClient
	pipeline *Pipeline

	startupDelay        time.Duration
	disableStartupCheck bool

	// replaced in tests
	checkFn     func(ctx context.Context) (*UpdateMetadata, error)
	timeAfterFn func(d time.Duration) <-chan time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewManager creates a Manager publishing lifecycle events on bridge.
func NewManager(bridge *events.Bridge, opts Options) *Manager {
	tracker := NewTracker(bridge)
	source := NewSourceClient(opts.Endpoint, opts.CurrentVersion, opts.UserAgent)

	install := opts.Install
	if install == nil {
		install = platform.InstallArtifact
	}

	startupDelay := opts.StartupCheckDelay
	if startupDelay <= 0 {
		startupDelay = DefaultStartupCheckDelay
	}

	m := &Manager{
		tracker:             tracker,
		source:              source,
		pipeline:            NewPipeline(tracker, install, opts.StagingDir),
		startupDelay:        startupDelay,
		disableStartupCheck: opts.DisableStartupCheck,
		timeAfterFn:         time.After,
	}
	m.checkFn = source.Check
	return m
}

// Start schedules the automatic startup check: exactly one check per process
// launch, fired after the startup delay. If a manual operation is already in
// flight at that moment the scheduled check is skipped, never queued or
// retried.
func (m *Manager) Start(ctx context.Context) {
	if err := m.pipeline.CleanStaging(); err != nil {
		log.Warnf("failed cleaning update staging dir: %v", err)
	}

	if m.disableStartupCheck {
		log.Debugf("automatic startup update check is disabled")
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		select {
		case <-m.timeAfterFn(m.startupDelay):
		case <-ctx.Done():
			return
		}

		metadata, err := m.CheckForUpdates(ctx)
		switch {
		case errors.Is(err, ErrBusy):
			log.Debugf("startup update check skipped, an update operation is already in progress")
		case err != nil:
			log.Warnf("startup update check failed: %v", err)
		case metadata != nil:
			log.Infof("startup update check found version %s", metadata.Version)
		default:
			log.Debugf("startup update check: no update available")
		}
	}()
}

// Stop cancels the startup check if it has not fired yet and waits for the
// scheduler goroutine to finish.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// CheckForUpdates runs one check cycle. It returns ErrBusy while another
// check or a download is in flight, the discovered metadata, or nil metadata
// when the running version is current. Check failures move the tracker to
// Failed and are returned string-renderable to the caller.
func (m *Manager) CheckForUpdates(ctx context.Context) (*UpdateMetadata, error) {
	if err := m.tracker.BeginCheck(); err != nil {
		return nil, err
	}

	metadata, checkErr := m.checkFn(ctx)
	accepted, err := m.tracker.RecordCheckResult(metadata, checkErr)
	if err != nil {
		log.Errorf("failed recording check result: %v", err)
	}
	if checkErr != nil {
		return nil, checkErr
	}
	return accepted, nil
}

// InstallUpdate re-checks the version source and, when an update is still
// available, runs the download-install pipeline to completion. The re-check
// prevents installing a candidate that went stale since it was discovered.
func (m *Manager) InstallUpdate(ctx context.Context) error {
	metadata, err := m.CheckForUpdates(ctx)
	if err != nil {
		return err
	}
	if metadata == nil {
		return ErrNoUpdateAvailable
	}

	if err := m.tracker.BeginDownload(); err != nil {
		return err
	}

	return m.pipeline.Run(ctx, metadata)
}

// Status returns a snapshot of the lifecycle state.
func (m *Manager) Status() Snapshot {
	return m.tracker.Status()
}

// Acknowledge resets a completed or failed cycle back to Idle.
func (m *Manager) Acknowledge() {
	m.tracker.Acknowledge()
}
