// Package classify sends stored images to a vision-capable model and returns
// ranked label predictions.
package classify

import (
	"context"
	"fmt"
)

// Prediction is one ranked label returned by a classification engine.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier runs an external classification engine against a stored image
// and returns up to topN predictions ordered by descending score.
//
// Implementations are stateless HTTP clients, so a single instance is safe
// for concurrent use across requests. The call blocks until the engine
// responds; callers that care about latency wrap ctx with a timeout.
type Classifier interface {
	Classify(ctx context.Context, imagePath string, topN int) ([]Prediction, error)
}

// New returns the engine for the given provider. An empty model selects the
// provider's default.
func New(provider, model string) (Classifier, error) {
	switch provider {
	case "ollama":
		return NewOllama(model), nil
	case "openai":
		return NewOpenAI(model), nil
	case "gemini":
		return NewGemini(model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
