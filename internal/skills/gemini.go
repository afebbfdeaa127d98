package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

const extractionPrompt = `You are a technical skill extraction AI.

Extract technical skills from the text below.

Rules:
- Extract tools, technologies, platforms, programming languages, frameworks
- Extract ONLY skills explicitly mentioned
- Ignore soft skills, responsibilities, benefits, and personality traits
- Do not guess
- Normalize names (Python3 -> Python, JS -> JavaScript)

Text:
%s

Return a JSON array only:
["Skill A", "Skill B"]`

// GeminiExtractor extracts skills with the Gemini API. Temperature is pinned
// to zero so identical text yields identical skill lists, which keeps the
// content-hash cache meaningful.
type GeminiExtractor struct {
	client *genai.Client
	model  string
}

// NewGeminiExtractor dials the Gemini API.
func NewGeminiExtractor(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiExtractor{client: client, model: model}, nil
}

// Extract asks the model for the posting's skills as a JSON array.
func (e *GeminiExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	model := e.client.GenerativeModel(e.model)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(fmt.Sprintf(extractionPrompt, text)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	raw, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return parseSkillArray(raw)
}

// Close releases the API client.
func (e *GeminiExtractor) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}

// parseSkillArray decodes the model output, tolerating markdown fences around
// the JSON.
func parseSkillArray(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var skills []string
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, fmt.Errorf("model returned non-array output: %w", err)
	}
	return skills, nil
}
