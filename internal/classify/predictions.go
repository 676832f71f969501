package classify

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// buildPrompt asks the model for a strict JSON ranking so the response is
// machine-parseable regardless of provider.
func buildPrompt(topN int) string {
	return fmt.Sprintf(`You are an image classification engine. Identify what the attached image
depicts and return your %d best guesses with confidence scores.

OUTPUT FORMAT:
Respond with ONLY a JSON array, no prose and no markdown, in the form:

[{"label": "tabby cat", "score": 0.92}, {"label": "dog", "score": 0.05}]

Rules:
- "label" is a short lowercase noun phrase naming the object or scene.
- "score" is your confidence between 0.0 and 1.0.
- Order entries from most to least confident.
- Return at most %d entries.`, topN, topN)
}

// parsePredictions extracts ranked predictions from a raw model response.
// Markdown code fences are tolerated; anything else unparseable is an error
// the caller surfaces as a classification failure.
func parsePredictions(response string, topN int) ([]Prediction, error) {
	// Trim any markdown code blocks
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	// Some models wrap the array in chatter; recover the bracketed section.
	if !strings.HasPrefix(response, "[") {
		start := strings.Index(response, "[")
		end := strings.LastIndex(response, "]")
		if start == -1 || end == -1 || end < start {
			return nil, fmt.Errorf("no JSON array in engine response")
		}
		response = response[start : end+1]
	}

	var preds []Prediction
	if err := json.Unmarshal([]byte(response), &preds); err != nil {
		return nil, fmt.Errorf("failed to parse engine response: %w", err)
	}
	if len(preds) == 0 {
		return nil, fmt.Errorf("engine returned no predictions")
	}

	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Score > preds[j].Score
	})
	if len(preds) > topN {
		preds = preds[:topN]
	}
	return preds, nil
}
