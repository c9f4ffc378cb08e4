package updater

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	qerrors "github.com/quillchat/desktop/internal/errors"
)

const (
	defaultChunkSize = 32 * 1024
	artifactTimeout  = 10 * time.Minute
	stagePattern     = "quill-update-*.pkg"
)

// FetchFunc opens the artifact stream for metadata. It returns the body and
// the total size reported by the transport, or a negative size when unknown.
type FetchFunc func(ctx context.Context, metadata *UpdateMetadata) (io.ReadCloser, int64, error)

// InstallFunc applies a fully staged artifact. Implementations must leave
// the running application intact on failure.
type InstallFunc func(ctx context.Context, artifactPath string) error

// Pipeline streams an update artifact to a staging file, accounts progress
// through the tracker, verifies integrity, and hands the artifact to the
// platform install step.
type Pipeline struct {
	tracker    *Tracker
	fetch      FetchFunc
	install    InstallFunc
	chunkSize  int
	stagingDir string
}

// NewPipeline creates a pipeline reporting through tracker and installing
// via install. An empty stagingDir falls back to the system temp directory.
func NewPipeline(tracker *Tracker, install InstallFunc, stagingDir string) *Pipeline {
	httpClient := &http.Client{Timeout: artifactTimeout}
	return &Pipeline{
		tracker:    tracker,
		fetch:      fetchArtifact(httpClient),
		install:    install,
		chunkSize:  defaultChunkSize,
		stagingDir: stagingDir,
	}
}

// Run executes one download-install attempt. The tracker must already be in
// the Downloading state; any failure moves it to Failed before the error is
// returned, and success moves it to Downloaded. Cancellation is honored
// between chunk reads only and surfaces as a Cancelled failure.
func (p *Pipeline) Run(ctx context.Context, metadata *UpdateMetadata) error {
	if p.tracker.State() != StateDownloading {
		return ErrInvalidTransition
	}

	if err := p.run(ctx, metadata); err != nil {
		typed := asError(err, KindInstall)
		if failErr := p.tracker.FailDownload(typed); failErr != nil {
			log.Errorf("failed recording download failure: %v", failErr)
		}
		return typed
	}

	return p.tracker.CompleteDownload()
}

func (p *Pipeline) run(ctx context.Context, metadata *UpdateMetadata) error {
	artifactPath, checksum, err := p.stage(ctx, metadata)
	if err != nil {
		return err
	}
	// the install step consumes the artifact; remove leftovers on failure
	defer os.Remove(artifactPath)

	if metadata.Checksum != "" && !strings.EqualFold(checksum, metadata.Checksum) {
		return NewCorruptError(metadata.Checksum, checksum)
	}

	if err := p.install(ctx, artifactPath); err != nil {
		return asError(err, KindInstall)
	}

	return nil
}

// stage downloads the artifact chunk by chunk into the staging directory,
// recording a progress tick per chunk, and returns the staged path together
// with the hex sha256 of its contents.
func (p *Pipeline) stage(ctx context.Context, metadata *UpdateMetadata) (string, string, error) {
	stream, contentLength, err := p.fetch(ctx, metadata)
	if err != nil {
		return "", "", NewDownloadError(err)
	}
	defer func() {
		if closeErr := stream.Close(); closeErr != nil {
			log.Debugf("failed closing artifact stream: %v", closeErr)
		}
	}()

	// total size preference: transport content length, then the size the
	// source advertised. With neither, progress stays at 0% and only the
	// terminal event signals completion.
	var totalBytes int64
	switch {
	case contentLength > 0:
		totalBytes = contentLength
	case metadata.DownloadSize > 0:
		totalBytes = int64(metadata.DownloadSize)
	default:
		log.Debugf("artifact size unknown for version %s, progress will stay at 0%%", metadata.Version)
	}

	artifactFile, err := os.CreateTemp(p.stagingDir, stagePattern)
	if err != nil {
		return "", "", NewDownloadError(err)
	}
	artifactPath := artifactFile.Name()
	discard := func() {
		_ = artifactFile.Close()
		_ = os.Remove(artifactPath)
	}

	hasher := sha256.New()
	writer := io.MultiWriter(artifactFile, hasher)

	var downloaded int64
	buf := make([]byte, p.chunkSize)
	for {
		// cancellation is checked between chunk reads, never mid-chunk
		select {
		case <-ctx.Done():
			discard()
			return "", "", NewCancelledError()
		default:
		}

		n, readErr := stream.Read(buf)
		if n > 0 {
			if _, writeErr := writer.Write(buf[:n]); writeErr != nil {
				discard()
				return "", "", NewDownloadError(writeErr)
			}

			downloaded += int64(n)
			var percent float64
			if totalBytes > 0 {
				percent = float64(downloaded) / float64(totalBytes) * 100
			}
			if progressErr := p.tracker.RecordProgress(percent); progressErr != nil {
				discard()
				return "", "", progressErr
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			discard()
			return "", "", NewDownloadError(readErr)
		}
	}

	if err := artifactFile.Close(); err != nil {
		_ = os.Remove(artifactPath)
		return "", "", NewDownloadError(err)
	}

	return artifactPath, hex.EncodeToString(hasher.Sum(nil)), nil
}

// CleanStaging removes artifacts left behind by runs that were interrupted
// before their deferred cleanup could execute.
func (p *Pipeline) CleanStaging() error {
	stagingDir := p.stagingDir
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}

	stale, err := filepath.Glob(filepath.Join(stagingDir, stagePattern))
	if err != nil {
		return fmt.Errorf("scan staging dir: %w", err)
	}

	var merr *multierror.Error
	for _, artifactPath := range stale {
		if err := os.Remove(artifactPath); err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		log.Debugf("removed stale update artifact %s", artifactPath)
	}

	return qerrors.FormatErrorOrNil(merr)
}

// fetchArtifact is the production FetchFunc: a plain GET of the metadata's
// download URL.
func fetchArtifact(httpClient *http.Client) FetchFunc {
	return func(ctx context.Context, metadata *UpdateMetadata) (io.ReadCloser, int64, error) {
		if metadata.DownloadURL == "" {
			return nil, 0, fmt.Errorf("release %s has no download url", metadata.Version)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadata.DownloadURL, nil)
		if err != nil {
			return nil, 0, err
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			return nil, 0, err
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, 0, fmt.Errorf("update server returned status %d", resp.StatusCode)
		}

		return resp.Body, resp.ContentLength, nil
	}
}
