package eval

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ReportConfig records how an evaluation was run.
type ReportConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	DatasetPath string `yaml:"datasetpath"`
	TopN        int    `yaml:"topn"`
	SampleSize  int    `yaml:"samplesize"`
	Timestamp   string `yaml:"timestamp"`
}

// ReportSummary is the YAML shape of a Summary.
type ReportSummary struct {
	TotalRecords      int     `yaml:"totalrecords"`
	SuccessCount      int     `yaml:"successcount"`
	FailureCount      int     `yaml:"failurecount"`
	Top1Accuracy      float64 `yaml:"top1accuracy"`
	TopNAccuracy      float64 `yaml:"topnaccuracy"`
	AverageProcessing string  `yaml:"averageprocessing"`
}

// ReportResult is one record's outcome in the report.
type ReportResult struct {
	ImagePath   string             `yaml:"imagepath"`
	Label       string             `yaml:"label"`
	Predictions map[string]float64 `yaml:"predictions,omitempty"`
	Error       string             `yaml:"error,omitempty"`
}

// Report is the complete evaluation report.
type Report struct {
	Config  ReportConfig   `yaml:"config"`
	Summary ReportSummary  `yaml:"summary"`
	Results []ReportResult `yaml:"results"`
}

// SaveToYAML writes an evaluation report into the evals/ directory and
// returns the file path.
func SaveToYAML(provider, model, datasetPath string, topN int, summary Summary, results []Result) (string, error) {
	if err := os.MkdirAll("evals", 0755); err != nil {
		return "", fmt.Errorf("failed to create evals directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")

	report := Report{
		Config: ReportConfig{
			Provider:    provider,
			Model:       model,
			DatasetPath: datasetPath,
			TopN:        topN,
			SampleSize:  summary.TotalRecords,
			Timestamp:   timestamp,
		},
		Summary: ReportSummary{
			TotalRecords:      summary.TotalRecords,
			SuccessCount:      summary.SuccessCount,
			FailureCount:      summary.FailureCount,
			Top1Accuracy:      summary.Top1Accuracy,
			TopNAccuracy:      summary.TopNAccuracy,
			AverageProcessing: summary.AverageProcessingTime.String(),
		},
		Results: make([]ReportResult, 0, len(results)),
	}

	for _, r := range results {
		reportResult := ReportResult{
			ImagePath: r.ImagePath,
			Label:     r.Label,
			Error:     r.Error,
		}
		if len(r.Predictions) > 0 {
			reportResult.Predictions = make(map[string]float64, len(r.Predictions))
			for _, p := range r.Predictions {
				reportResult.Predictions[p.Label] = p.Score
			}
		}
		report.Results = append(report.Results, reportResult)
	}

	filename := fmt.Sprintf("evals/%s-%s.yaml", model, timestamp)

	data, err := yaml.Marshal(&report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	return absPath, nil
}
