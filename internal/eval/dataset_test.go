package eval

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imagenet-web/internal/classify"
)

func writeJSONL(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	if err := os.WriteFile(path, []byte(lines), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestLoadJSONL(t *testing.T) {
	path := writeJSONL(t, `{"image_path": "images/cat.jpeg", "label": "cat"}

{"image_path": "images/dog.png", "label": "dog"}
`)

	records, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].ImagePath != "images/cat.jpeg" || records[0].Label != "cat" {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[1].ImagePath != "images/dog.png" || records[1].Label != "dog" {
		t.Errorf("Unexpected second record: %+v", records[1])
	}
}

func TestLoadJSONLMalformed(t *testing.T) {
	path := writeJSONL(t, `{"image_path": "images/cat.jpeg", "label": "cat"}
not json at all
`)

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for malformed JSONL line")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("Expected error for unsupported file format")
	}
}

func TestLoadSampleLimits(t *testing.T) {
	path := writeJSONL(t, `{"image_path": "a.png", "label": "a"}
{"image_path": "b.png", "label": "b"}
{"image_path": "c.png", "label": "c"}
`)

	records, err := NewLoader(path).LoadSample(2)
	if err != nil {
		t.Fatalf("LoadSample() failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}

	all, err := NewLoader(path).LoadSample(0)
	if err != nil {
		t.Fatalf("LoadSample(0) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected all 3 records for limit 0, got %d", len(all))
	}
}

type fakeClassifier struct {
	predictions map[string][]classify.Prediction
	err         error
}

func (f *fakeClassifier) Classify(ctx context.Context, imagePath string, topN int) ([]classify.Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.predictions[imagePath], nil
}

func TestRunCollectsAllRecords(t *testing.T) {
	records := []Record{
		{ImagePath: "a.png", Label: "cat"},
		{ImagePath: "b.png", Label: "dog"},
		{ImagePath: "c.png", Label: "fish"},
	}
	fake := &fakeClassifier{predictions: map[string][]classify.Prediction{
		"a.png": {{Label: "cat", Score: 0.9}},
		"b.png": {{Label: "dog", Score: 0.8}},
		"c.png": {{Label: "whale", Score: 0.7}},
	}}

	results := Run(context.Background(), fake, records, 5, 2)

	if len(results) != len(records) {
		t.Fatalf("Expected %d results, got %d", len(records), len(results))
	}

	byPath := make(map[string]Result, len(results))
	for _, r := range results {
		byPath[r.ImagePath] = r
	}
	for _, rec := range records {
		r, ok := byPath[rec.ImagePath]
		if !ok {
			t.Fatalf("Missing result for %s", rec.ImagePath)
		}
		if r.Label != rec.Label {
			t.Errorf("%s: label = %s, want %s", rec.ImagePath, r.Label, rec.Label)
		}
		if r.Error != "" {
			t.Errorf("%s: unexpected error %s", rec.ImagePath, r.Error)
		}
	}
}

func TestRunCapturesFailures(t *testing.T) {
	records := []Record{{ImagePath: "a.png", Label: "cat"}}
	fake := &fakeClassifier{err: errors.New("engine down")}

	results := Run(context.Background(), fake, records, 5, 1)

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Error == "" {
		t.Error("Expected error captured in result")
	}
	if len(results[0].Predictions) != 0 {
		t.Error("Expected no predictions for failed record")
	}
}
