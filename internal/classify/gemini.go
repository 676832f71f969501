package classify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini classifies images with Google's generative AI API.
type Gemini struct {
	model string
}

// NewGemini returns a Gemini engine. An empty model falls back to
// GEMINI_MODEL, then to gemini-1.5-flash.
func NewGemini(model string) *Gemini {
	if model == "" {
		model = os.Getenv("GEMINI_MODEL")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Gemini{model: model}
}

// Classify sends the stored image as an inline part and parses the ranked
// labels out of the response.
func (g *Gemini) Classify(ctx context.Context, imagePath string, topN int) ([]Prediction, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.1)

	// genai wants the bare format name, not a media type.
	format := strings.TrimPrefix(filepath.Ext(imagePath), ".")
	if format == "" {
		format = "jpeg"
	}

	resp, err := model.GenerateContent(ctx,
		genai.ImageData(format, imageData),
		genai.Text(buildPrompt(topN)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("empty content returned from Gemini")
	}

	txt, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from Gemini")
	}

	preds, err := parsePredictions(string(txt), topN)
	if err != nil {
		return nil, err
	}
	slog.Debug("Gemini classification complete", "model", g.model, "predictions", len(preds))
	return preds, nil
}
