package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/sdspull/core"
	"github.com/gaurav-prasanna/sdspull/core/config"
	"github.com/gaurav-prasanna/sdspull/core/session"
	"github.com/gaurav-prasanna/sdspull/internal/testutil"
)

func testSession() session.Session {
	return session.Session{Cookie: "auth=abc", UserAgent: "test-agent", Referer: "https://example.com/"}
}

func newDownloader(t *testing.T, baseURL string) (*Downloader, string) {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.OutputDir = t.TempDir()
	return New(cfg), cfg.OutputDir
}

func pdfHandler(t *testing.T, requests *atomic.Int32) http.HandlerFunc {
	body := testutil.PDFBytes(t)
	return func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(body)
	}
}

func TestPathFor(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = "store"
	d := New(cfg)

	assert.Equal(t, filepath.Join("store", "ABC_PDF.pdf"), d.PathFor("ABC_PDF"))
	// Distinct identifiers can sanitize to the same path.
	assert.Equal(t, d.PathFor("AB*CD_PDF"), d.PathFor("AB?CD_PDF"))
}

func TestDownloadWritesAsset(t *testing.T) {
	server := httptest.NewServer(pdfHandler(t, nil))
	defer server.Close()

	d, dir := newDownloader(t, server.URL)
	out := d.Download(context.Background(), testSession(), "ABC_PDF")

	assert.Equal(t, core.DownloadOK, out.Status)
	assert.Equal(t, filepath.Join(dir, "ABC_PDF.pdf"), out.Path)
	assert.Greater(t, out.Bytes, int64(0))

	info, err := os.Stat(out.Path)
	require.NoError(t, err)
	assert.Equal(t, out.Bytes, info.Size())
}

func TestDownloadSkipsExistingFile(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(pdfHandler(t, &requests))
	defer server.Close()

	d, dir := newDownloader(t, server.URL)
	sess := testSession()

	first := d.Download(context.Background(), sess, "ABC_PDF")
	require.Equal(t, core.DownloadOK, first.Status)
	require.Equal(t, int32(1), requests.Load())

	content, err := os.ReadFile(first.Path)
	require.NoError(t, err)

	// Second call: file present, zero network traffic, bytes untouched.
	second := d.Download(context.Background(), sess, "ABC_PDF")
	assert.Equal(t, core.DownloadSkipped, second.Status)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, int32(1), requests.Load())

	after, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, content, after)
	assert.FileExists(t, filepath.Join(dir, "ABC_PDF.pdf"))
}

func TestDownloadLoginPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Login</title></head><body>Please sign in</body></html>`))
	}))
	defer server.Close()

	d, dir := newDownloader(t, server.URL)
	out := d.Download(context.Background(), testSession(), "ABC_PDF")

	assert.Equal(t, core.DownloadAuthDenied, out.Status)
	assert.NoFileExists(t, filepath.Join(dir, "ABC_PDF.pdf"))
}

func TestDownloadUnexpectedContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("maintenance window"))
	}))
	defer server.Close()

	d, dir := newDownloader(t, server.URL)
	out := d.Download(context.Background(), testSession(), "ABC_PDF")

	assert.Equal(t, core.DownloadBadContentType, out.Status)
	assert.NoFileExists(t, filepath.Join(dir, "ABC_PDF.pdf"))
}

func TestDownloadEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		// No body at all.
	}))
	defer server.Close()

	d, dir := newDownloader(t, server.URL)
	out := d.Download(context.Background(), testSession(), "ABC_PDF")

	assert.Equal(t, core.DownloadEmpty, out.Status)
	assert.NoFileExists(t, filepath.Join(dir, "ABC_PDF.pdf"))
}

func TestDownloadServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	d, dir := newDownloader(t, server.URL)
	out := d.Download(context.Background(), testSession(), "ABC_PDF")

	assert.Equal(t, core.DownloadNetworkError, out.Status)
	assert.NoFileExists(t, filepath.Join(dir, "ABC_PDF.pdf"))
}

func TestDownloadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.BaseURL = server.URL
	cfg.OutputDir = t.TempDir()
	cfg.Timeout = 20 * time.Millisecond

	out := New(cfg).Download(context.Background(), testSession(), "ABC_PDF")
	assert.Equal(t, core.DownloadTimeout, out.Status)
}

func TestDownloadRetriesTransientFailure(t *testing.T) {
	var requests atomic.Int32
	body := testutil.PDFBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(body)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.BaseURL = server.URL
	cfg.OutputDir = t.TempDir()
	cfg.Retries = 1

	d := New(cfg)
	d.backoff = time.Millisecond

	out := d.Download(context.Background(), testSession(), "ABC_PDF")
	assert.Equal(t, core.DownloadOK, out.Status)
	assert.Equal(t, int32(2), requests.Load())
}

func TestDownloadNoRetryOnAuthDenied(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("Login required"))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.BaseURL = server.URL
	cfg.OutputDir = t.TempDir()
	cfg.Retries = 3

	d := New(cfg)
	d.backoff = time.Millisecond

	out := d.Download(context.Background(), testSession(), "ABC_PDF")
	assert.Equal(t, core.DownloadAuthDenied, out.Status)
	assert.Equal(t, int32(1), requests.Load())
}

func TestDownloadSendsSessionHeaders(t *testing.T) {
	var gotCookie, gotAgent, gotReferer string
	body := testutil.PDFBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotAgent = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(body)
	}))
	defer server.Close()

	d, _ := newDownloader(t, server.URL)
	out := d.Download(context.Background(), testSession(), "ABC_PDF")

	require.Equal(t, core.DownloadOK, out.Status)
	assert.Equal(t, "auth=abc", gotCookie)
	assert.Equal(t, "test-agent", gotAgent)
	assert.Equal(t, "https://example.com/", gotReferer)
}
