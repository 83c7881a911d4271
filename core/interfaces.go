// Package core defines the pipeline interfaces for sdspull.
// Each stage of the pipeline is a clean, testable interface; the shared
// outcome types live here so that stages and the orchestrator agree on
// a single failure taxonomy.
package core

import (
	"context"

	"github.com/gaurav-prasanna/sdspull/core/session"
)

// DownloadStatus classifies the outcome of a single asset download.
type DownloadStatus int

const (
	// DownloadOK means the asset was fetched and written to disk.
	DownloadOK DownloadStatus = iota
	// DownloadSkipped means the target file already existed; no network
	// call was made.
	DownloadSkipped
	// DownloadEmpty means the response body carried zero bytes; the
	// empty file was removed again.
	DownloadEmpty
	// DownloadAuthDenied means the host answered with its login or
	// access-denied page instead of the asset.
	DownloadAuthDenied
	// DownloadBadContentType means the response was neither a PDF nor a
	// recognizable denial page.
	DownloadBadContentType
	// DownloadTimeout means the request exceeded its deadline.
	DownloadTimeout
	// DownloadNetworkError covers every other transport or HTTP failure.
	DownloadNetworkError
	// DownloadFSError means the asset could not be written to disk.
	DownloadFSError
)

func (s DownloadStatus) String() string {
	switch s {
	case DownloadOK:
		return "downloaded"
	case DownloadSkipped:
		return "skipped"
	case DownloadEmpty:
		return "empty_download"
	case DownloadAuthDenied:
		return "auth_denied"
	case DownloadBadContentType:
		return "unexpected_content_type"
	case DownloadTimeout:
		return "timeout"
	case DownloadNetworkError:
		return "network_error"
	case DownloadFSError:
		return "filesystem_error"
	default:
		return "unknown"
	}
}

// DownloadOutcome is the per-identifier result of a download attempt.
type DownloadOutcome struct {
	ID     string
	Path   string
	Bytes  int64
	Status DownloadStatus
	Err    error
}

// ValidationStatus classifies a stored asset's structural integrity.
type ValidationStatus int

const (
	// FileValid means the document opened and has at least one page.
	FileValid ValidationStatus = iota
	// FileNoPages means the document opened but reports zero pages.
	FileNoPages
	// FileCorrupt means the PDF engine rejected the document.
	FileCorrupt
	// FileNotFound means the path does not exist.
	FileNotFound
)

func (s ValidationStatus) String() string {
	switch s {
	case FileValid:
		return "valid"
	case FileNoPages:
		return "no_pages"
	case FileCorrupt:
		return "corrupt"
	case FileNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ValidationResult is the per-file result of an integrity check.
// Reason carries the engine's message for corrupt files.
type ValidationResult struct {
	Path   string
	Status ValidationStatus
	Reason string
}

// CatalogFetcher retrieves the raw catalog payload from the remote API.
// The timestamp is a cache-busting value passed through to the endpoint.
type CatalogFetcher interface {
	Fetch(ctx context.Context, sess session.Session, timestamp string) (string, error)
}

// Downloader fetches a single asset and writes it to the local store.
// Failures are reported in the outcome, never raised: one bad document
// must not abort its siblings. PathFor exposes the target path an
// identifier resolves to, so callers can keep a single writer per path.
type Downloader interface {
	Download(ctx context.Context, sess session.Session, id string) DownloadOutcome
	PathFor(id string) string
}

// Validator checks a stored asset for structural integrity.
type Validator interface {
	Check(path string) ValidationResult
}
