package analysis

import (
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sort"
	"sync"

	"reviewlens/internal/model"
)

const (
	// DefaultBatchSize is the number of comments processed per batch in
	// streaming mode.
	DefaultBatchSize = 100

	// DefaultWorkerCount bounds the parallel workers per batch. Comment
	// parsing is CPU-light string work; a small pool is enough.
	DefaultWorkerCount = 4

	// DefaultMemoryThresholdMB triggers a compaction pass between batches
	// when exceeded.
	DefaultMemoryThresholdMB = 512
)

// ParsedComment is the per-comment output of the batched parsing stage.
type ParsedComment struct {
	Index   int
	Comment model.RawComment
	Summary *model.SummaryComment
	Review  *model.ReviewComment
}

// BatchProcessor runs a per-comment parse function over fixed-size batches
// with a bounded worker pool. Batches share no mutable state: results flow
// through a channel to a single collector, and a failing item is skipped
// rather than failing the run. Thread grouping is never part of this stage;
// it requires the complete comment set.
type BatchProcessor struct {
	batchSize         int
	workers           int
	memoryThresholdMB int
	logger            *slog.Logger

	skipped int
}

// NewBatchProcessor creates a processor with the given batch size, worker
// count, and memory threshold in MB. Non-positive values select defaults.
func NewBatchProcessor(batchSize, workers, memoryThresholdMB int, logger *slog.Logger) *BatchProcessor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	if workers > 4 {
		workers = 4
	}
	if memoryThresholdMB <= 0 {
		memoryThresholdMB = DefaultMemoryThresholdMB
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		batchSize:         batchSize,
		workers:           workers,
		memoryThresholdMB: memoryThresholdMB,
		logger:            logger,
	}
}

// Skipped returns the number of items dropped by the last Process run.
func (bp *BatchProcessor) Skipped() int {
	return bp.skipped
}

// Process applies fn to every comment, batch by batch, and returns the
// results in input order. Items whose fn returns an error (or panics) are
// counted as skipped and logged, never propagated.
func (bp *BatchProcessor) Process(comments []model.RawComment, fn func(model.RawComment) (*ParsedComment, error)) []ParsedComment {
	bp.skipped = 0
	if len(comments) == 0 {
		return nil
	}

	results := make([]ParsedComment, 0, len(comments))

	for start := 0; start < len(comments); start += bp.batchSize {
		end := start + bp.batchSize
		if end > len(comments) {
			end = len(comments)
		}

		results = append(results, bp.processBatch(comments[start:end], start, fn)...)
		bp.maybeCompact()
	}

	// Collector output arrives in completion order; restore input order.
	sortParsedByIndex(results)
	return results
}

// processBatch fans one batch out to the worker pool and collects results on
// a single goroutine (the only writer into the batch accumulator).
func (bp *BatchProcessor) processBatch(batch []model.RawComment, offset int, fn func(model.RawComment) (*ParsedComment, error)) []ParsedComment {
	jobs := make(chan int)
	out := make(chan ParsedComment, len(batch))
	errs := make(chan error, len(batch))

	var wg sync.WaitGroup
	for w := 0; w < bp.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				parsed, err := bp.safeApply(fn, batch[i])
				if err != nil {
					errs <- err
					continue
				}
				if parsed != nil {
					parsed.Index = offset + i
					parsed.Comment = batch[i]
					out <- *parsed
				}
			}
		}()
	}

	go func() {
		for i := range batch {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(out)
		close(errs)
	}()

	var results []ParsedComment
	for parsed := range out {
		results = append(results, parsed)
	}
	for err := range errs {
		bp.skipped++
		bp.logger.Warn("skipping comment after processing failure", "error", err)
	}

	return results
}

// safeApply runs fn with panic capture so one malformed comment cannot take
// down the batch.
func (bp *BatchProcessor) safeApply(fn func(model.RawComment) (*ParsedComment, error), comment model.RawComment) (parsed *ParsedComment, err error) {
	defer func() {
		if r := recover(); r != nil {
			parsed = nil
			err = fmt.Errorf("panic while processing comment %d: %v", comment.ID, r)
		}
	}()
	return fn(comment)
}

// maybeCompact samples heap usage and forces a collection pass between
// batches when it exceeds the configured threshold.
func (bp *BatchProcessor) maybeCompact() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	usedMB := int(stats.HeapAlloc / (1024 * 1024))
	if usedMB < bp.memoryThresholdMB {
		return
	}

	bp.logger.Debug("memory threshold exceeded, compacting", "used_mb", usedMB, "threshold_mb", bp.memoryThresholdMB)
	runtime.GC()
	debug.FreeOSMemory()
}

func sortParsedByIndex(results []ParsedComment) {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})
}
