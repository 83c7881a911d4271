// Package download fetches individual PDF assets and writes them to
// the local store. Filenames are a pure function of the download URL,
// and an existing file short-circuits the network call entirely, so
// re-running a pull against a populated store is idempotent.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gaurav-prasanna/sdspull/core"
	"github.com/gaurav-prasanna/sdspull/core/config"
	"github.com/gaurav-prasanna/sdspull/core/inspect"
	"github.com/gaurav-prasanna/sdspull/core/session"
)

// copyChunkSize is the buffer used when streaming a body to disk.
const copyChunkSize = 8 * 1024

// excerptLen bounds the HTML excerpt attached to denial errors.
const excerptLen = 160

// Downloader fetches single assets into a destination directory.
type Downloader struct {
	client  *http.Client
	baseURL string
	destDir string
	retries int
	backoff time.Duration
}

// New creates a Downloader from the run configuration.
func New(cfg config.Config) *Downloader {
	return &Downloader{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		destDir: cfg.OutputDir,
		retries: cfg.Retries,
		backoff: time.Second,
	}
}

// PathFor returns the store path the asset for id will be written to.
// Distinct identifiers can resolve to the same path once unsafe
// characters are sanitized away.
func (d *Downloader) PathFor(id string) string {
	return filepath.Join(d.destDir, FilenameFromURL(d.assetURL(id)))
}

func (d *Downloader) assetURL(id string) string {
	return d.baseURL + config.DownloadPath + "?content=" + id
}

// Download fetches the asset for id and writes it to the store.
// If the target file already exists the download is skipped without
// any network traffic. Timeout and transport failures are retried up
// to the configured extra attempts; every other outcome is final.
func (d *Downloader) Download(ctx context.Context, sess session.Session, id string) core.DownloadOutcome {
	assetURL := d.assetURL(id)
	path := d.PathFor(id)

	if _, err := os.Stat(path); err == nil {
		return core.DownloadOutcome{ID: id, Path: path, Status: core.DownloadSkipped}
	}

	backoff := d.backoff
	for attempt := 0; ; attempt++ {
		out := d.fetchOnce(ctx, sess, assetURL, id, path)
		if attempt >= d.retries || !retryable(out.Status) {
			return out
		}
		slog.Warn("download failed, will retry",
			"id", id,
			"kind", out.Status.String(),
			"attempt", attempt+1,
			"backoff", backoff.String(),
			"error", out.Err,
		)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return out
		}
	}
}

// fetchOnce performs a single streamed GET and classifies the result.
func (d *Downloader) fetchOnce(ctx context.Context, sess session.Session, assetURL, id, path string) core.DownloadOutcome {
	out := core.DownloadOutcome{ID: id, Path: path}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		out.Status = core.DownloadNetworkError
		out.Err = fmt.Errorf("creating request: %w", err)
		return out
	}
	sess.Apply(req)

	resp, err := d.client.Do(req)
	if err != nil {
		out.Status = core.DownloadNetworkError
		if isTimeout(err) {
			out.Status = core.DownloadTimeout
		}
		out.Err = err
		return out
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		out.Status = core.DownloadNetworkError
		out.Err = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return out
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		body, _ := io.ReadAll(resp.Body)
		if inspect.LoginPage(string(body)) {
			out.Status = core.DownloadAuthDenied
			out.Err = fmt.Errorf("access denied page: %s", inspect.Excerpt(string(body), excerptLen))
		} else {
			out.Status = core.DownloadBadContentType
			out.Err = fmt.Errorf("unexpected content type %q", ct)
		}
		return out
	}

	f, err := os.Create(path)
	if err != nil {
		out.Status = core.DownloadFSError
		out.Err = fmt.Errorf("creating file: %w", err)
		return out
	}

	written, err := io.CopyBuffer(f, resp.Body, make([]byte, copyChunkSize))
	closeErr := f.Close()
	if err != nil {
		// Don't leave a partial file behind; it would be skipped as
		// complete on the next run.
		os.Remove(path)
		out.Status = core.DownloadNetworkError
		if isTimeout(err) {
			out.Status = core.DownloadTimeout
		}
		out.Err = fmt.Errorf("streaming body: %w", err)
		return out
	}
	if closeErr != nil {
		os.Remove(path)
		out.Status = core.DownloadFSError
		out.Err = fmt.Errorf("closing file: %w", closeErr)
		return out
	}

	if written == 0 {
		os.Remove(path)
		out.Status = core.DownloadEmpty
		out.Err = errors.New("zero bytes written")
		return out
	}

	out.Status = core.DownloadOK
	out.Bytes = written
	return out
}

// retryable reports whether an outcome is worth another attempt.
// Only transient transport failures qualify; denial and content-type
// outcomes would repeat identically.
func retryable(s core.DownloadStatus) bool {
	return s == core.DownloadTimeout || s == core.DownloadNetworkError
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
