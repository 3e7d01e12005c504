// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ssn-finder/internal/detector"
	"ssn-finder/internal/observability"
	"ssn-finder/internal/preprocessors"
	"ssn-finder/internal/redactors"
)

// Pipeline is the per-file work every job runs: extract, validate and
// optionally redact.
type Pipeline struct {
	Preprocessors *preprocessors.PreprocessorManager
	Validator     detector.Validator

	// PreprocessOnly stops after text extraction
	PreprocessOnly bool

	// Redaction runs when Redactor and OutputManager are both set
	Redactor          redactors.ContentRedactor
	OutputManager     *redactors.OutputStructureManager
	RedactionStrategy redactors.RedactionStrategy

	// JobTimeout bounds a single file; zero means no limit
	JobTimeout time.Duration
}

// WorkerPool manages parallel file processing
type WorkerPool struct {
	workers  int
	pipeline *Pipeline
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	observer *observability.StandardObserver
}

// Job represents a file processing task
type Job struct {
	JobID    string
	Index    int
	FilePath string
}

// Result represents processing results
type Result struct {
	JobID    string
	Index    int
	FilePath string
	Content  *preprocessors.ProcessedContent
	Matches  []detector.Match
	Error    error
	Duration time.Duration

	// Redaction results
	RedactionResult *redactors.RedactionResult
	RedactedPath    string
}

// NewWorkerPool creates a new worker pool. Fewer than one worker means one.
func NewWorkerPool(workers int, pipeline *Pipeline, observer *observability.StandardObserver) *WorkerPool {
	workers = max(workers, 1)
	return &WorkerPool{
		workers:  workers,
		pipeline: pipeline,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		observer: observer,
	}
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Start launches the workers. The results channel is closed once every job
// has been handled after Close.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
	go func() {
		wp.wg.Wait()
		close(wp.results)
	}()
}

// Submit queues a job and reports false if ctx ended first
func (wp *WorkerPool) Submit(ctx context.Context, job *Job) bool {
	select {
	case wp.jobs <- job:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close signals that no more jobs will be submitted
func (wp *WorkerPool) Close() {
	close(wp.jobs)
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// worker processes jobs from the queue. Jobs received after cancellation
// still produce a result carrying the context error.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		wp.results <- wp.processJob(ctx, job, id)
	}
}

// processJob runs the pipeline for a single file
func (wp *WorkerPool) processJob(ctx context.Context, job *Job, workerID int) *Result {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if wp.observer != nil {
		finishTiming = wp.observer.StartTiming("worker_pool", "process_job", job.FilePath)
	}

	result := &Result{
		JobID:    job.JobID,
		Index:    job.Index,
		FilePath: job.FilePath,
	}

	if wp.pipeline.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wp.pipeline.JobTimeout)
		defer cancel()
	}

	result.Error = wp.run(ctx, job, result)
	result.Duration = time.Since(start)

	if finishTiming != nil {
		metadata := map[string]interface{}{
			"worker_id":   workerID,
			"job_id":      job.JobID,
			"match_count": len(result.Matches),
			"redacted":    result.RedactionResult != nil,
		}
		if result.Error != nil {
			metadata["error"] = result.Error.Error()
		}
		finishTiming(result.Error == nil, metadata)
	}

	return result
}

func (wp *WorkerPool) run(ctx context.Context, job *Job, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if wp.pipeline.Preprocessors == nil {
		return fmt.Errorf("no preprocessors configured")
	}

	content, err := wp.pipeline.Preprocessors.ProcessFile(ctx, job.FilePath)
	result.Content = content
	if err != nil {
		return err
	}
	if content == nil || !content.Success {
		return fmt.Errorf("no text extracted from %s", job.FilePath)
	}

	if wp.pipeline.PreprocessOnly || wp.pipeline.Validator == nil {
		return nil
	}

	matches, err := wp.pipeline.Validator.ValidateContent(content.Text, job.FilePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	result.Matches = matches

	if wp.pipeline.Redactor == nil || wp.pipeline.OutputManager == nil {
		return nil
	}
	targets := redactionTargets(wp.pipeline.Validator, content.Text, job.FilePath, matches)
	if len(targets) == 0 {
		return nil
	}

	outputPath, err := wp.pipeline.OutputManager.CreateMirroredPath(job.FilePath)
	if err != nil {
		return fmt.Errorf("failed to create output path: %w", err)
	}

	redaction, err := wp.pipeline.Redactor.RedactContent(content, outputPath, targets, wp.pipeline.RedactionStrategy)
	result.RedactionResult = redaction
	if err != nil {
		return err
	}
	result.RedactedPath = outputPath
	return nil
}

// candidateValidator reports spans it found but scored too low to report
type candidateValidator interface {
	RedactionCandidates(content string, originalPath string) []detector.Match
}

// redactionTargets returns the spans to redact: the reported matches plus
// any unreported candidates the validator exposes.
func redactionTargets(validator detector.Validator, content, path string, matches []detector.Match) []detector.Match {
	cv, ok := validator.(candidateValidator)
	if !ok {
		return matches
	}

	type span struct{ start, end int }
	reported := make(map[span]bool, len(matches))
	for _, m := range matches {
		reported[span{m.Start, m.End}] = true
	}

	targets := append([]detector.Match(nil), matches...)
	for _, c := range cv.RedactionCandidates(content, path) {
		if !reported[span{c.Start, c.End}] {
			targets = append(targets, c)
		}
	}
	return targets
}
