package classify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// OpenAI classifies images with the chat completions API.
type OpenAI struct {
	model      string
	httpClient *http.Client
}

// NewOpenAI returns an OpenAI engine. An empty model falls back to
// OPENAI_MODEL, then to gpt-4o.
func NewOpenAI(model string) *OpenAI {
	if model == "" {
		model = os.Getenv("OPENAI_MODEL")
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAI{
		model: model,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Classify sends the stored image inline as a base64 data URI and parses the
// ranked labels out of the response.
func (o *OpenAI) Classify(ctx context.Context, imagePath string, topN int) ([]Prediction, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	mediaType := mime.TypeByExtension(filepath.Ext(imagePath))
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	dataURI := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(imageData)

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": o.model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": buildPrompt(topN),
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": dataURI,
						},
					},
				},
			},
		},
		"max_tokens":  1000,
		"temperature": 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	var openaiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return nil, fmt.Errorf("failed to decode OpenAI response: %w", err)
	}

	if len(openaiResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from OpenAI")
	}

	preds, err := parsePredictions(openaiResp.Choices[0].Message.Content, topN)
	if err != nil {
		return nil, err
	}
	slog.Debug("OpenAI classification complete", "model", o.model, "predictions", len(preds))
	return preds, nil
}
