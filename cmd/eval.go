package cmd

import (
	"fmt"
	"log/slog"

	"imagenet-web/internal/classify"
	"imagenet-web/internal/eval"

	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	var (
		datasetPath string
		provider    string
		model       string
		topN        int
		concurrency int
		sampleSize  int
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Measure classification accuracy against a labeled dataset",
		Long: `Runs the configured engine over a labeled dataset and reports top-1 and
top-N accuracy.

The dataset is a Parquet or JSONL file of records with an image_path and
the expected label. A YAML report is written to the evals/ directory.`,
		Example: `  # Evaluate the default Ollama model against a parquet dataset
  imagenet-web eval --dataset testdata/imagenet-sample.parquet

  # Quick five-image smoke run against OpenAI
  imagenet-web eval --dataset labels.jsonl --provider openai --sample 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			slog.Info("Starting evaluation run",
				"dataset", datasetPath,
				"provider", provider,
				"model", model,
				"sample_size", sampleSize)

			loader := eval.NewLoader(datasetPath)

			var records []eval.Record
			var err error
			if sampleSize > 0 {
				records, err = loader.LoadSample(sampleSize)
			} else {
				records, err = loader.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			slog.Info("Dataset loaded", "records", len(records))

			classifier, err := classify.New(provider, model)
			if err != nil {
				return err
			}

			results := eval.Run(cmd.Context(), classifier, records, topN, concurrency)
			summary := eval.Aggregate(results)

			path, err := eval.SaveToYAML(provider, model, datasetPath, topN, summary, results)
			if err != nil {
				return err
			}

			slog.Info("Evaluation complete",
				"records", summary.TotalRecords,
				"failures", summary.FailureCount,
				"top1_accuracy", fmt.Sprintf("%.3f", summary.Top1Accuracy),
				"topn_accuracy", fmt.Sprintf("%.3f", summary.TopNAccuracy),
				"avg_processing", summary.AverageProcessingTime,
				"report", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to a .parquet or .jsonl labeled dataset")
	cmd.Flags().StringVar(&provider, "provider", "ollama", "Classification engine: ollama, openai, or gemini")
	cmd.Flags().StringVar(&model, "model", "", "Model name (defaults to the provider's default)")
	cmd.Flags().IntVar(&topN, "top-n", 5, "Number of predictions to request per image")
	cmd.Flags().IntVar(&concurrency, "concurrency", 2, "Concurrent classification requests")
	cmd.Flags().IntVar(&sampleSize, "sample", 0, "Evaluate only the first N records (0 = all)")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}
