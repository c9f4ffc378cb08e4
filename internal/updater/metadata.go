package updater

// UpdateMetadata describes a release discovered at the version source.
// DownloadSize is zero when the source does not advertise one; Checksum is a
// hex sha256 of the artifact and may be empty.
type UpdateMetadata struct {
	Version        string `json:"version"`
	CurrentVersion string `json:"current_version"`
	ReleaseNotes   string `json:"release_notes,omitempty"`
	ReleaseDate    string `json:"release_date,omitempty"`
	DownloadSize   uint64 `json:"download_size,omitempty"`
	DownloadURL    string `json:"download_url,omitempty"`
	Checksum       string `json:"checksum,omitempty"`
}

// ProgressPayload is the update-download-progress event payload.
type ProgressPayload struct {
	Percent float64 `json:"percent"`
}

// FailurePayload is the update-failed event payload.
type FailurePayload struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message,omitempty"`
}
