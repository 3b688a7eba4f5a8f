// Package worker implements a bounded worker pool that runs files through the
// extraction pipeline concurrently.
package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BerylCAtieno/file-forensics-api/internal/extractor"
	"github.com/BerylCAtieno/file-forensics-api/internal/models"
	"github.com/BerylCAtieno/file-forensics-api/internal/utils"
)

// Analyzer is satisfied by *services.Pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, blob *models.FileBlob) *models.ExtractionResult
}

// Job is one file to analyse.
type Job struct {
	Ctx  context.Context
	Path string
}

// Result holds the outcome of a job. Err is set only when the file could not be read;
// extraction failures are inside Report.
type Result struct {
	Path   string
	Report *models.Report
	Err    error
}

// Pool manages a fixed set of worker goroutines that process Jobs from a channel
// and emit Results to another channel.
type Pool struct {
	workers  int
	analyzer Analyzer
	jobs     chan Job
	results  chan Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *utils.Logger
}

// NewPool creates a pool with the given number of workers.
// Call Start() to launch the goroutines.
func NewPool(workers int, analyzer Analyzer, logger *utils.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers:  workers,
		analyzer: analyzer,
		jobs:     make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit enqueues a job. It blocks while the buffer is full and returns false once the
// pool has been cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.jobs <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

func (p *Pool) Results() <-chan Result {
	return p.results
}

// Shutdown closes the jobs channel, waits for all workers to finish,
// then closes the results channel. Safe to call once.
func (p *Pool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}

// Cancel stops workers after their current job. Queued jobs are dropped and later
// Submits are refused; Shutdown must still be called to close Results.
func (p *Pool) Cancel() {
	p.cancel()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		if p.ctx.Err() != nil {
			p.logger.Debug("worker cancelled", "worker_id", id)
			return
		}
		select {
		case job, ok := <-p.jobs:
			if !ok {
				p.logger.Debug("worker exiting", "worker_id", id)
				return
			}
			p.results <- p.process(id, job)

		case <-p.ctx.Done():
			p.logger.Debug("worker cancelled", "worker_id", id)
			return
		}
	}
}

func (p *Pool) process(workerID int, job Job) Result {
	ctx := job.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{Path: job.Path, Err: fmt.Errorf("job cancelled before processing: %w", err)}
	}

	start := time.Now()
	data, err := os.ReadFile(job.Path)
	if err != nil {
		p.logger.Error("read failed", "worker_id", workerID, "path", job.Path, "error", err)
		return Result{Path: job.Path, Err: err}
	}

	name := filepath.Base(job.Path)
	blob := &models.FileBlob{
		ID:       utils.GenerateID(),
		Data:     data,
		Filename: name,
		Ext:      extractor.Extension(name),
	}
	result := p.analyzer.Analyze(ctx, blob)

	p.logger.Info("processing completed",
		"worker_id", workerID,
		"path", job.Path,
		"latency", time.Since(start),
		"succeeded", result.Succeeded(),
	)

	return Result{
		Path: job.Path,
		Report: &models.Report{
			ID:        blob.ID,
			File:      name,
			Type:      blob.Ext,
			Metadata:  result,
			CreatedAt: time.Now().UTC(),
		},
	}
}
