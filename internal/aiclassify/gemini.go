package aiclassify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// GeminiClassifier classifies batches with the Gemini API.
type GeminiClassifier struct {
	apiKey string
	model  string
}

// NewGeminiClassifier returns a classifier. An empty apiKey yields a
// classifier that reports itself unavailable.
func NewGeminiClassifier(apiKey, model string) *GeminiClassifier {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiClassifier{apiKey: strings.TrimSpace(apiKey), model: model}
}

func (g *GeminiClassifier) Available() bool {
	return g != nil && g.apiKey != ""
}

func (g *GeminiClassifier) ClassifyBatch(ctx context.Context, items []Item) ([]Result, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}
	if len(items) == 0 {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ClassifyBatch: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(items)}},
		},
	}

	temperature := float32(0.1)
	resp, err := client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("ClassifyBatch: generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("ClassifyBatch: empty response from model")
	}

	results, err := decodeResults(raw)
	if err != nil {
		return nil, fmt.Errorf("ClassifyBatch: %w", err)
	}
	return results, nil
}

type batchResponse struct {
	Categories []Result `json:"categories"`
}

// decodeResults accepts {"categories": [...]} or a bare array, optionally
// wrapped in Markdown fences or surrounded by prose.
func decodeResults(raw string) ([]Result, error) {
	clean := cleanModelJSON(raw)

	if strings.HasPrefix(clean, "[") {
		var results []Result
		if err := json.Unmarshal([]byte(clean), &results); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w\nraw response: %s", err, raw)
		}
		return results, nil
	}

	var resp batchResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w\nraw response: %s", err, raw)
	}
	return resp.Categories, nil
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	// Keep only the outermost JSON value if prose surrounds it.
	first, last := "{", "}"
	if i, j := strings.Index(s, "["), strings.Index(s, "{"); i != -1 && (j == -1 || i < j) {
		first, last = "[", "]"
	}
	if start := strings.Index(s, first); start != -1 {
		if end := strings.LastIndex(s, last); end > start {
			s = s[start : end+1]
		}
	}

	return strings.TrimSpace(s)
}
