package eval

import (
	"strings"
	"time"
)

// Summary aggregates a full evaluation run.
type Summary struct {
	TotalRecords int
	SuccessCount int
	FailureCount int

	Top1Correct int
	TopNCorrect int

	Top1Accuracy float64
	TopNAccuracy float64

	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
}

// Aggregate computes top-1 and top-N accuracy over a run. Accuracy is
// measured over successful classifications only; failures are counted
// separately.
func Aggregate(results []Result) Summary {
	summary := Summary{
		TotalRecords: len(results),
	}

	for _, result := range results {
		summary.TotalProcessingTime += result.ProcessingTime

		if result.Error != "" {
			summary.FailureCount++
			continue
		}
		summary.SuccessCount++

		if len(result.Predictions) > 0 && labelMatches(result.Predictions[0].Label, result.Label) {
			summary.Top1Correct++
		}
		for _, p := range result.Predictions {
			if labelMatches(p.Label, result.Label) {
				summary.TopNCorrect++
				break
			}
		}
	}

	if summary.SuccessCount > 0 {
		summary.Top1Accuracy = float64(summary.Top1Correct) / float64(summary.SuccessCount)
		summary.TopNAccuracy = float64(summary.TopNCorrect) / float64(summary.SuccessCount)
	}
	if summary.TotalRecords > 0 {
		summary.AverageProcessingTime = summary.TotalProcessingTime / time.Duration(summary.TotalRecords)
	}

	return summary
}

// labelMatches compares an engine label against the dataset label. Vision
// models phrase labels loosely ("tabby cat" for "cat"), so containment in
// either direction counts after normalization.
func labelMatches(predicted, truth string) bool {
	predicted = strings.ToLower(strings.TrimSpace(predicted))
	truth = strings.ToLower(strings.TrimSpace(truth))
	if predicted == "" || truth == "" {
		return false
	}
	return predicted == truth ||
		strings.Contains(predicted, truth) ||
		strings.Contains(truth, predicted)
}
