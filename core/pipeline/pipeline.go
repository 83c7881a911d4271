// Package pipeline sequences the two phases of a run: the catalog pull
// with its asset downloads, and the integrity sweep over the local
// store. The phases share nothing beyond the output directory and are
// invoked independently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/sdspull/core"
	"github.com/gaurav-prasanna/sdspull/core/catalog"
	"github.com/gaurav-prasanna/sdspull/core/config"
	"github.com/gaurav-prasanna/sdspull/core/download"
	"github.com/gaurav-prasanna/sdspull/core/session"
	"github.com/gaurav-prasanna/sdspull/core/validate"
)

// ErrNoDocuments is returned when the catalog yields no downloadable
// identifiers. A pull with nothing to do is treated as a failed run.
var ErrNoDocuments = errors.New("pipeline: no downloadable documents in catalog")

// PullReport summarizes a pull phase.
type PullReport struct {
	Found      int
	Downloaded int
	Skipped    int
	Failed     int
	ByStatus   map[core.DownloadStatus]int
}

// Pipeline wires the pipeline stages together.
type Pipeline struct {
	cfg        config.Config
	provider   session.Provider
	fetcher    core.CatalogFetcher
	downloader core.Downloader
	sweeper    *validate.Sweeper
}

// New builds a Pipeline with the standard stage implementations.
func New(cfg config.Config, provider session.Provider) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		provider:   provider,
		fetcher:    catalog.NewFetcher(cfg),
		downloader: download.New(cfg),
		sweeper:    validate.NewSweeper(validate.NewChecker(), cfg.Extension, cfg.SweepWorkers),
	}
}

// Pull obtains a session, fetches and parses the catalog, and downloads
// every eligible asset. Session, fetch, and parse failures abort the
// run; per-identifier download failures are logged, counted, and never
// abort sibling downloads.
func (p *Pipeline) Pull(ctx context.Context) (*PullReport, error) {
	sess, err := p.provider.Obtain(ctx)
	if err != nil {
		return nil, fmt.Errorf("obtaining session: %w", err)
	}

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// The endpoint expects the current time in milliseconds as a
	// cache-busting parameter.
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	slog.Info("fetching catalog", "timestamp", timestamp)

	payload, err := p.fetcher.Fetch(ctx, sess, timestamp)
	if err != nil {
		return nil, err
	}

	ids, err := catalog.Extract(payload)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrNoDocuments
	}
	slog.Info("catalog retrieved", "documents", len(ids))

	report := &PullReport{
		Found:    len(ids),
		ByStatus: make(map[core.DownloadStatus]int),
	}
	var mu sync.Mutex

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	var eg errgroup.Group
	eg.SetLimit(workers)
	// Identifiers are dispatched at most once per target path. The
	// catalog can repeat an identifier, and distinct identifiers can
	// sanitize to the same filename; only the first occurrence may
	// write, so no two workers ever stream into the same path.
	claimed := make(map[string]bool)
	for _, id := range ids {
		path := p.downloader.PathFor(id)
		if claimed[path] {
			slog.Info("duplicate target, skipping", "id", id, "path", path)
			mu.Lock()
			report.ByStatus[core.DownloadSkipped]++
			report.Skipped++
			mu.Unlock()
			continue
		}
		claimed[path] = true
		eg.Go(func() error {
			out := p.downloader.Download(ctx, sess, id)
			logOutcome(out)

			mu.Lock()
			report.ByStatus[out.Status]++
			switch out.Status {
			case core.DownloadOK:
				report.Downloaded++
			case core.DownloadSkipped:
				report.Skipped++
			default:
				report.Failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	slog.Info("pull complete",
		"found", report.Found,
		"downloaded", report.Downloaded,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// Sweep validates every stored asset and removes the invalid ones.
func (p *Pipeline) Sweep(ctx context.Context) (*validate.Report, error) {
	return p.sweeper.Sweep(ctx, p.cfg.OutputDir)
}

func logOutcome(out core.DownloadOutcome) {
	switch out.Status {
	case core.DownloadOK:
		slog.Info("downloaded", "id", out.ID, "path", out.Path, "bytes", out.Bytes)
	case core.DownloadSkipped:
		slog.Info("already present, skipping", "id", out.ID, "path", out.Path)
	default:
		slog.Error("download failed", "id", out.ID, "kind", out.Status.String(), "error", out.Err)
	}
}
