// Package parallel imports several calendar files concurrently.
package parallel

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/planweek/planweek/internal/ics"
	"github.com/planweek/planweek/internal/plan"
)

// FileResult is the outcome of importing one calendar file.
type FileResult struct {
	Path     string
	Tasks    []plan.Task
	Warnings []string
	Error    error
	Duration time.Duration
}

// ImportPool imports calendar files with bounded concurrency.
type ImportPool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	results    []FileResult
	errors     []error
	failFast   bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewImportPool creates an import pool with bounded concurrency.
// If maxWorkers is 0, unlimited workers are allowed (bounded by available files).
// If failFast is true, the context will be cancelled on the first error.
func NewImportPool(ctx context.Context, maxWorkers int, failFast bool) *ImportPool {
	ctx, cancel := context.WithCancel(ctx)
	return &ImportPool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		failFast:   failFast,
		ctx:        ctx,
		cancel:     cancel,
		results:    make([]FileResult, 0),
	}
}

// Submit queues one calendar file for import. If the pool is at
// capacity, the worker blocks until a slot frees or the context is
// cancelled.
func (p *ImportPool) Submit(path string) {
	select {
	case <-p.ctx.Done():
		return
	default:
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// Acquire semaphore slot
		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				return
			}
		}

		// Check if we should still run (fail-fast or cancelled)
		select {
		case <-p.ctx.Done():
			return
		default:
		}

		start := time.Now()
		tasks, warnings, err := importFile(path)
		duration := time.Since(start)

		result := FileResult{
			Path:     path,
			Tasks:    tasks,
			Warnings: warnings,
			Error:    err,
			Duration: duration,
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		p.results = append(p.results, result)
		if err != nil {
			p.errors = append(p.errors, fmt.Errorf("%s: %w", path, err))
			if p.failFast {
				p.cancel()
			}
		}
	}()
}

func importFile(path string) ([]plan.Task, []string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open calendar file: %w", err)
	}
	defer file.Close()

	result, err := ics.Parse(file)
	if err != nil {
		return nil, nil, err
	}
	return ics.ToTasks(result), result.Warnings, nil
}

// Wait waits for all submitted imports to complete and returns the results.
// If failFast was enabled and an error occurred, the context may have been
// cancelled and some imports may not have completed.
func (p *ImportPool) Wait() ([]FileResult, []error) {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()

	// Cancel the context to clean up
	p.cancel()

	results := make([]FileResult, len(p.results))
	copy(results, p.results)

	errors := make([]error, len(p.errors))
	copy(errors, p.errors)

	return results, errors
}

// Cancel cancels all pending work in the pool.
func (p *ImportPool) Cancel() {
	p.cancel()
}
