package updater

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the immediate caller only. They indicate an
// operation was invoked out of sequence and are never broadcast as events.
var (
	// ErrBusy rejects an operation while a check or download-install
	// sequence is already in flight.
	ErrBusy = errors.New("an update operation is already in progress")

	// ErrInvalidTransition rejects an operation that is not legal in the
	// current lifecycle state.
	ErrInvalidTransition = errors.New("operation is not allowed in the current update state")

	// ErrNoUpdateAvailable is returned by an install request when the
	// re-check reports the running version is current.
	ErrNoUpdateAvailable = errors.New("no update available")
)

const (
	// check failures

	// KindNetwork indicates the version source could not be reached.
	KindNetwork Kind = 1

	// KindParse indicates the version source response could not be decoded.
	KindParse Kind = 2

	// KindSourceUnavailable indicates the version source answered with a
	// non-2xx status.
	KindSourceUnavailable Kind = 3

	// download-install failures

	// KindDownload indicates the artifact transfer was interrupted.
	KindDownload Kind = 4

	// KindCorrupt indicates the artifact failed its integrity check.
	KindCorrupt Kind = 5

	// KindInstall indicates the platform install step failed.
	KindInstall Kind = 6

	// KindCancelled indicates the download was abandoned on request.
	KindCancelled Kind = 7
)

// Kind classifies a terminal update failure. Its string form is the
// error_kind carried by the update-failed event.
type Kind int32

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "Network"
	case KindParse:
		return "Parse"
	case KindSourceUnavailable:
		return "SourceUnavailable"
	case KindDownload:
		return "Download"
	case KindCorrupt:
		return "Corrupt"
	case KindInstall:
		return "Install"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is a terminal failure of one update lifecycle run.
type Error struct {
	Kind    Kind
	Message string
}

// Error is the human-readable message
func (e *Error) Error() string {
	return e.Message
}

// Errorf returns Error(kind, fmt.Sprintf(format, a...)).
func Errorf(kind Kind, format string, a ...interface{}) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
	}
}

// FromError returns Error, true if the provided error is of type of Error.
// nil, false otherwise.
func FromError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// asError coerces err into a typed Error, applying the fallback kind when
// the chain carries none.
func asError(err error, fallback Kind) *Error {
	if e, ok := FromError(err); ok {
		return e
	}
	return &Error{Kind: fallback, Message: err.Error()}
}

// NewNetworkError creates a new Error for a failed version source request
func NewNetworkError(err error) error {
	return Errorf(KindNetwork, "contact version source: %v", err)
}

// NewParseError creates a new Error for an undecodable source response
func NewParseError(err error) error {
	return Errorf(KindParse, "decode version source response: %v", err)
}

// NewSourceUnavailableError creates a new Error for a non-2xx source status
func NewSourceUnavailableError(statusCode int) error {
	return Errorf(KindSourceUnavailable, "version source returned status %d", statusCode)
}

// NewDownloadError creates a new Error for an interrupted artifact transfer
func NewDownloadError(err error) error {
	return Errorf(KindDownload, "download update artifact: %v", err)
}

// NewCorruptError creates a new Error for an artifact integrity mismatch
func NewCorruptError(expected, actual string) error {
	return Errorf(KindCorrupt, "artifact checksum mismatch: expected %s, got %s", expected, actual)
}

// NewInstallError creates a new Error for a failed platform install step
func NewInstallError(err error) error {
	return Errorf(KindInstall, "install update artifact: %v", err)
}

// NewCancelledError creates a new Error for a download abandoned on request
func NewCancelledError() error {
	return Errorf(KindCancelled, "update download cancelled")
}
