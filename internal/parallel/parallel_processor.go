// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"runtime"
	"time"

	"ssn-finder/internal/observability"

	"github.com/google/uuid"
)

// MaxDefaultWorkers caps the worker count picked from the CPU count
const MaxDefaultWorkers = 8

// ParallelProcessor manages parallel file processing
type ParallelProcessor struct {
	workers  int
	pipeline *Pipeline
	observer *observability.StandardObserver
}

// ProcessingStats tracks parallel processing statistics
type ProcessingStats struct {
	TotalFiles     int           `json:"total_files"`
	ProcessedFiles int           `json:"processed_files"`
	FailedFiles    int           `json:"failed_files"`
	TotalMatches   int           `json:"total_matches"`
	TotalDuration  time.Duration `json:"total_duration_ms"`
	WorkerCount    int           `json:"worker_count"`
	AvgFileTime    time.Duration `json:"avg_file_time_ms"`
}

// DefaultWorkers returns the CPU count capped at MaxDefaultWorkers
func DefaultWorkers() int {
	return min(runtime.NumCPU(), MaxDefaultWorkers)
}

// NewParallelProcessor creates a new parallel processor. Zero or negative
// workers selects DefaultWorkers.
func NewParallelProcessor(workers int, pipeline *Pipeline, observer *observability.StandardObserver) *ParallelProcessor {
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	return &ParallelProcessor{
		workers:  workers,
		pipeline: pipeline,
		observer: observer,
	}
}

// ProgressCallback is called when a file is completed
type ProgressCallback func(completed, total int, currentFile string)

// ProcessFiles processes multiple files in parallel
func (pp *ParallelProcessor) ProcessFiles(ctx context.Context, filePaths []string) ([]*Result, *ProcessingStats) {
	return pp.ProcessFilesWithProgress(ctx, filePaths, nil)
}

// ProcessFilesWithProgress processes files in parallel and returns one
// result per path, in input order. Files never started because ctx ended
// carry the context error.
func (pp *ParallelProcessor) ProcessFilesWithProgress(ctx context.Context, filePaths []string, progressCallback ProgressCallback) ([]*Result, *ProcessingStats) {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if pp.observer != nil {
		finishTiming = pp.observer.StartTiming("parallel_processor", "process_files", "batch")
	}

	workers := min(pp.workers, max(len(filePaths), 1))
	pool := NewWorkerPool(workers, pp.pipeline, pp.observer)
	pool.Start(ctx)

	jobs := make([]*Job, len(filePaths))
	for i, filePath := range filePaths {
		jobs[i] = &Job{
			JobID:    uuid.NewString(),
			Index:    i,
			FilePath: filePath,
		}
	}

	// Submit jobs in a separate goroutine to prevent deadlock
	submitted := make(chan int, 1)
	go func() {
		defer pool.Close()
		n := 0
		for _, job := range jobs {
			if !pool.Submit(ctx, job) {
				break
			}
			n++
		}
		submitted <- n
	}()

	results := make([]*Result, len(filePaths))
	completed := 0
	totalDuration := time.Duration(0)
	for result := range pool.Results() {
		results[result.Index] = result
		totalDuration += result.Duration
		completed++

		if result.Error != nil && pp.observer != nil {
			pp.observer.LogOperation(observability.StandardObservabilityData{
				Component: "parallel_processor",
				Operation: "file_processing",
				FilePath:  result.FilePath,
				Success:   false,
				Error:     result.Error.Error(),
			})
		}

		if progressCallback != nil {
			progressCallback(completed, len(filePaths), result.FilePath)
		}
	}
	<-submitted

	stats := &ProcessingStats{
		TotalFiles:  len(filePaths),
		WorkerCount: workers,
	}
	for i, result := range results {
		if result == nil {
			result = &Result{JobID: jobs[i].JobID, Index: i, FilePath: filePaths[i], Error: ctx.Err()}
			results[i] = result
		}
		if result.Error != nil {
			stats.FailedFiles++
			continue
		}
		stats.ProcessedFiles++
		stats.TotalMatches += len(result.Matches)
	}
	stats.TotalDuration = time.Since(start)
	stats.AvgFileTime = totalDuration / time.Duration(max(stats.ProcessedFiles, 1))

	if finishTiming != nil {
		finishTiming(ctx.Err() == nil, map[string]interface{}{
			"total_files":     stats.TotalFiles,
			"processed_files": stats.ProcessedFiles,
			"failed_files":    stats.FailedFiles,
			"match_count":     stats.TotalMatches,
			"worker_count":    workers,
			"duration_ms":     stats.TotalDuration.Milliseconds(),
		})
	}

	return results, stats
}
