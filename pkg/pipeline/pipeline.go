// Package pipeline orchestrates the corpus conversion stages: parallel
// per-file scans feeding single-threaded reductions that build the
// surrogate-key tables.
package pipeline

import (
	"context"
	"io/fs"
	"log"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
)

// Pipeline converts a directory tree of vertical corpus files into the
// flat output tables.
type Pipeline struct {
	InputDir  string
	OutputDir string
	// Workers is the number of concurrent per-file scans; 0 means
	// runtime.NumCPU(), and the count is capped at the number of files.
	Workers int
	// Logger receives informational messages. nil means no logging.
	Logger *log.Logger
}

// New creates a pipeline with default concurrency.
func New(inputDir, outputDir string) *Pipeline {
	return &Pipeline{InputDir: inputDir, OutputDir: outputDir}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

// CorpusFiles walks the input directory and returns every regular file in
// sorted path order. The sorted order is what makes surrogate-ID
// assignment reproducible across runs: per-file results are always merged
// in this order.
func (p *Pipeline) CorpusFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// forEachFile runs fn once per file on the worker pool. Each invocation
// owns a disjoint result slot, so no synchronization is needed between
// workers; the first error cancels the remaining jobs and fails the whole
// stage — a partially scanned corpus must never reach the reductions.
func (p *Pipeline) forEachFile(ctx context.Context, files []string, fn func(ctx context.Context, idx int, path string) error) error {
	if len(files) == 0 {
		return nil
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var firstErr error
	var errMu sync.Mutex
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		errMu.Unlock()
	}

	pool := NewWorkerPool(workers, workers*2)
	pool.Start(ctx)

	for i, path := range files {
		idx, file := i, path
		err := pool.Submit(ctx, func(ctx context.Context) error {
			if err := fn(ctx, idx, file); err != nil {
				fail(err)
			}
			return nil
		})
		if err != nil {
			// Canceled by a failing worker or by the caller; the error
			// itself is captured below.
			break
		}
	}
	pool.Close()

	errMu.Lock()
	defer errMu.Unlock()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
