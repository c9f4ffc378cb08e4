package updater

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
)

const (
	checkTimeout = 30 * time.Second
	// a release descriptor is tiny; anything larger is not ours
	maxCheckResponseSize = 1 << 20
)

// sourceResponse is the release descriptor served by the version source.
type sourceResponse struct {
	Version      string `json:"version"`
	Notes        string `json:"notes"`
	PubDate      string `json:"pub_date"`
	URL          string `json:"url"`
	Checksum     string `json:"checksum"`
	DownloadSize uint64 `json:"download_size"`
}

// SourceClient queries a remote endpoint for the latest available version.
// It never mutates lifecycle state and never retries; retry policy belongs
// to the caller.
type SourceClient struct {
	endpoint       string
	currentVersion string
	userAgent      string
	httpClient     *http.Client
}

// NewSourceClient creates a client for endpoint. The endpoint may contain
// %version, %platform and %arch placeholders which are substituted on every
// check.
func NewSourceClient(endpoint, currentVersion, userAgent string) *SourceClient {
	return &SourceClient{
		endpoint:       endpoint,
		currentVersion: currentVersion,
		userAgent:      userAgent,
		httpClient: &http.Client{
			Timeout: checkTimeout,
		},
	}
}

// Check queries the version source once. It returns nil metadata when the
// remote reports the running version current (204, or a version not newer
// than the running one). Failures carry a Kind: KindNetwork on transport
// errors, KindSourceUnavailable on non-2xx statuses, KindParse on malformed
// bodies.
func (c *SourceClient) Check(ctx context.Context) (*UpdateMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.checkURL(), nil)
	if err != nil {
		return nil, NewNetworkError(err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewSourceUnavailableError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCheckResponseSize))
	if err != nil {
		return nil, NewNetworkError(err)
	}

	var remote sourceResponse
	if err := json.Unmarshal(body, &remote); err != nil {
		return nil, NewParseError(err)
	}

	remoteVersion, err := goversion.NewVersion(remote.Version)
	if err != nil {
		return nil, NewParseError(err)
	}

	currentVersion, err := goversion.NewVersion(c.currentVersion)
	if err != nil {
		// development builds have no release version
		currentVersion, _ = goversion.NewVersion("0.0.0")
	}

	if remoteVersion.LessThanOrEqual(currentVersion) {
		return nil, nil
	}

	return &UpdateMetadata{
		Version:        remote.Version,
		CurrentVersion: c.currentVersion,
		ReleaseNotes:   remote.Notes,
		ReleaseDate:    remote.PubDate,
		DownloadSize:   remote.DownloadSize,
		DownloadURL:    remote.URL,
		Checksum:       remote.Checksum,
	}, nil
}

func (c *SourceClient) checkURL() string {
	url := strings.ReplaceAll(c.endpoint, "%version", c.currentVersion)
	url = strings.ReplaceAll(url, "%platform", runtime.GOOS)
	return strings.ReplaceAll(url, "%arch", runtime.GOARCH)
}
