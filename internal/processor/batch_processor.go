package processor

import (
	"context"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"communityinsights/server/config"
)

// BatchProcessor runs independent batches with bounded concurrency. A failing batch is
// recorded and never stops the others.
type BatchProcessor struct {
	logger *logrus.Logger
	config *config.Config
}

// Result is the outcome of one batch. Index is the batch's position in the input.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &BatchProcessor{
		logger: logger,
		config: config,
	}
}

// Workers is the number of batches allowed in flight at once.
func (p *BatchProcessor) Workers() int {
	if p.config == nil || p.config.BatchProcessing.ProcessorCount <= 0 {
		return 1
	}
	return p.config.BatchProcessing.ProcessorCount
}

// Split cuts items into consecutive batches of at most size elements.
func Split[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// Process hands every batch to handle and returns one Result per batch, in input order.
// Batches not yet started when ctx is done are reported with ctx.Err().
func Process[T, R any](ctx context.Context, p *BatchProcessor, batches [][]T, handle func(ctx context.Context, batch []T) (R, error)) []Result[R] {
	results := make([]Result[R], len(batches))
	sem := make(chan struct{}, p.Workers())
	var wg sync.WaitGroup

	for i, batch := range batches {
		results[i].Index = i
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		select {
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, batch []T) {
			defer wg.Done()
			defer func() { <-sem }()

			value, err := handle(ctx, batch)
			results[i].Value = value
			results[i].Err = err
			if err != nil {
				p.logger.WithError(err).WithFields(logrus.Fields{
					"batch":      i,
					"batch_size": len(batch),
				}).Error("Batch processing failed")
			}
		}(i, batch)
	}

	wg.Wait()
	return results
}
