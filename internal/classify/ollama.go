package classify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Ollama classifies images with a locally-served vision model.
type Ollama struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllama returns an Ollama engine. An empty model falls back to
// OLLAMA_MODEL, then to llava.
func NewOllama(model string) *Ollama {
	baseURL := os.Getenv("OLLAMA_URL")
	if baseURL == "" {
		baseURL = os.Getenv("OLLAMA_HOST")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	if model == "" {
		model = os.Getenv("OLLAMA_MODEL")
	}
	if model == "" {
		model = "llava"
	}

	return &Ollama{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			// Pulling a cold model into memory can take a while.
			Timeout: 5 * time.Minute,
		},
	}
}

// Classify sends the stored image to Ollama's generate API and parses the
// ranked labels out of the response.
func (o *Ollama) Classify(ctx context.Context, imagePath string, topN int) ([]Prediction, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  o.model,
		"prompt": buildPrompt(topN),
		"images": []string{base64.StdEncoding.EncodeToString(imageData)},
		"stream": false,
		"options": map[string]interface{}{
			"temperature": 0.1, // Low temperature for consistent, factual output
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode Ollama response: %w", err)
	}

	preds, err := parsePredictions(ollamaResp.Response, topN)
	if err != nil {
		return nil, err
	}
	slog.Debug("Ollama classification complete", "model", o.model, "predictions", len(preds))
	return preds, nil
}

// EnsureModel pulls the configured model if the Ollama server does not have
// it yet. Run once at startup so the first upload does not pay the download.
func (o *Ollama) EnsureModel(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", o.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to list Ollama models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(body))
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("failed to decode Ollama response: %w", err)
	}

	for _, m := range tags.Models {
		if m.Name == o.model {
			slog.Debug("Model already present", "model", o.model)
			return nil
		}
	}

	slog.Info("Pulling model", "model", o.model)

	pullBody, err := json.Marshal(map[string]interface{}{
		"name":   o.model,
		"stream": false,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	pullReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/pull", bytes.NewBuffer(pullBody))
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	pullReq.Header.Set("Content-Type", "application/json")

	pullResp, err := o.httpClient.Do(pullReq)
	if err != nil {
		return fmt.Errorf("failed to pull model: %w", err)
	}
	defer pullResp.Body.Close()

	if pullResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(pullResp.Body)
		return fmt.Errorf("model pull returned status %d: %s", pullResp.StatusCode, string(body))
	}

	slog.Info("Model pulled", "model", o.model)
	return nil
}
