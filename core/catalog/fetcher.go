// Package catalog retrieves the bulk document listing from the remote
// API and extracts the download-eligible document identifiers from it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/gaurav-prasanna/sdspull/core/config"
	"github.com/gaurav-prasanna/sdspull/core/session"
)

// Failure classes of a catalog fetch. Callers match with errors.Is; an
// auth failure usually means the session cookie has expired.
var (
	ErrAuth    = errors.New("catalog: authentication rejected")
	ErrTimeout = errors.New("catalog: request timed out")
	ErrNetwork = errors.New("catalog: request failed")
	ErrParse   = errors.New("catalog: malformed payload")
)

// Fetcher retrieves the full catalog in a single request.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	rowCount  int
	searchKey string
}

// NewFetcher creates a Fetcher from the run configuration.
func NewFetcher(cfg config.Config) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		rowCount:  cfg.RowCount,
		searchKey: cfg.SearchKey,
	}
}

// Fetch issues the catalog request and returns the raw response body.
// The pagination parameters ask for the entire catalog in one page;
// timestamp is the caller's cache-busting value for the _ parameter.
// The body is returned unparsed and the request is never retried.
func (f *Fetcher) Fetch(ctx context.Context, sess session.Session, timestamp string) (string, error) {
	endpoint := fmt.Sprintf("%s%s?page=1&rowCount=%d&sortOrder=1&sortField=&searchKey=%s&_=%s",
		f.baseURL, config.CatalogPath, f.rowCount, url.QueryEscape(f.searchKey), url.QueryEscape(timestamp))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrNetwork, err)
	}
	sess.Apply(req)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: reading body: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	return string(body), nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
