package classify

import (
	"testing"
)

func TestParsePredictions(t *testing.T) {
	tests := []struct {
		name     string
		response string
		topN     int
		want     []Prediction
		wantErr  bool
	}{
		{
			name:     "clean json array",
			response: `[{"label": "cat", "score": 0.92}, {"label": "dog", "score": 0.05}]`,
			topN:     5,
			want:     []Prediction{{Label: "cat", Score: 0.92}, {Label: "dog", Score: 0.05}},
		},
		{
			name: "markdown fenced",
			response: "```json\n" +
				`[{"label": "espresso", "score": 0.7}]` +
				"\n```",
			topN: 5,
			want: []Prediction{{Label: "espresso", Score: 0.7}},
		},
		{
			name:     "reorders by descending score",
			response: `[{"label": "dog", "score": 0.05}, {"label": "cat", "score": 0.92}]`,
			topN:     5,
			want:     []Prediction{{Label: "cat", Score: 0.92}, {Label: "dog", Score: 0.05}},
		},
		{
			name:     "truncates to topN",
			response: `[{"label": "a", "score": 0.5}, {"label": "b", "score": 0.3}, {"label": "c", "score": 0.2}]`,
			topN:     2,
			want:     []Prediction{{Label: "a", Score: 0.5}, {Label: "b", Score: 0.3}},
		},
		{
			name:     "array wrapped in chatter",
			response: `Sure! Here are my guesses: [{"label": "banana", "score": 0.9}] Hope that helps.`,
			topN:     5,
			want:     []Prediction{{Label: "banana", Score: 0.9}},
		},
		{
			name:     "empty array",
			response: `[]`,
			topN:     5,
			wantErr:  true,
		},
		{
			name:     "prose without json",
			response: `I cannot determine what this image shows.`,
			topN:     5,
			wantErr:  true,
		},
		{
			name:     "malformed json",
			response: `[{"label": "cat", "score": }]`,
			topN:     5,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePredictions(tt.response, tt.topN)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parsePredictions() expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parsePredictions() failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d predictions, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("prediction %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	if _, err := New("tensorflow", ""); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}

func TestNewKnownProviders(t *testing.T) {
	for _, provider := range []string{"ollama", "openai", "gemini"} {
		c, err := New(provider, "")
		if err != nil {
			t.Errorf("New(%q) failed: %v", provider, err)
		}
		if c == nil {
			t.Errorf("New(%q) returned nil classifier", provider)
		}
	}
}
