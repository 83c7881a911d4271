package validate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/sdspull/core"
)

// Report summarizes a sweep. Findings lists every non-valid file.
type Report struct {
	Scanned      int
	Valid        int
	Removed      int
	RemoveFailed int
	Findings     []core.ValidationResult
}

// Sweeper walks a store, validates every matching file on a bounded
// worker pool, and deletes the ones that fail. Paths are disjoint per
// task, so the filesystem itself is the only shared state.
type Sweeper struct {
	validator core.Validator
	extension string
	workers   int
	remove    func(string) error
}

// NewSweeper creates a Sweeper. The extension gets a leading dot if
// missing; workers <= 0 selects hardware parallelism with a floor of 4.
func NewSweeper(v core.Validator, extension string, workers int) *Sweeper {
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	if workers <= 0 {
		workers = defaultWorkers()
	}
	return &Sweeper{validator: v, extension: extension, workers: workers, remove: removeFile}
}

// Sweep validates every matching file under root and deletes the
// non-valid ones. All dispatched validations finish before Sweep
// returns; there is no ordering guarantee between files. Deletion
// failures are recorded in the report, not raised.
func (s *Sweeper) Sweep(ctx context.Context, root string) (*Report, error) {
	paths, err := discover(root, s.extension)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}

	slog.Info("sweep starting", "root", root, "files", len(paths), "workers", s.workers)

	report := &Report{Scanned: len(paths)}
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.workers)
	for _, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := s.validator.Check(path)
			if res.Status == core.FileValid {
				mu.Lock()
				report.Valid++
				mu.Unlock()
				return nil
			}

			slog.Warn("invalid asset", "path", path, "kind", res.Status.String(), "reason", res.Reason)
			removeErr := s.remove(path)

			mu.Lock()
			report.Findings = append(report.Findings, res)
			if removeErr != nil {
				report.RemoveFailed++
			} else {
				report.Removed++
			}
			mu.Unlock()

			if removeErr != nil {
				slog.Warn("could not remove invalid asset", "path", path, "error", removeErr)
			} else {
				slog.Info("removed invalid asset", "path", path)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// discover walks root single-threaded and collects regular files whose
// name ends with ext. The walk is never the bottleneck; validation is.
func discover(root, ext string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// defaultWorkers is the hardware parallelism with a floor of 4.
func defaultWorkers() int {
	if n := runtime.NumCPU(); n > 4 {
		return n
	}
	return 4
}

func removeFile(path string) error {
	return os.Remove(path)
}
