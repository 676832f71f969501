package eval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"imagenet-web/internal/classify"
)

// Result holds the engine output for a single labeled record.
type Result struct {
	ImagePath      string
	Label          string
	Predictions    []classify.Prediction
	ProcessingTime time.Duration
	Error          string // If classification failed
}

// Run classifies every record with bounded concurrency and returns one
// Result per record. Engine failures are captured per-record, never fatal
// for the run.
func Run(ctx context.Context, classifier classify.Classifier, records []Record, topN, concurrency int) []Result {
	slog.Info("Processing records", "total", len(records), "concurrency", concurrency)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)
	resultsChan := make(chan Result, len(records))

	for i, record := range records {
		wg.Add(1)
		go func(idx int, record Record) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			slog.Info("Processing record", "image", record.ImagePath, "progress", fmt.Sprintf("%d/%d", idx+1, len(records)))

			start := time.Now()
			result := Result{
				ImagePath: record.ImagePath,
				Label:     record.Label,
			}

			predictions, err := classifier.Classify(ctx, record.ImagePath, topN)
			result.ProcessingTime = time.Since(start)
			if err != nil {
				slog.Warn("Classification failed", "image", record.ImagePath, "err", err)
				result.Error = err.Error()
			} else {
				result.Predictions = predictions
			}

			resultsChan <- result
		}(i, record)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]Result, 0, len(records))
	for result := range resultsChan {
		results = append(results, result)
	}

	return results
}
