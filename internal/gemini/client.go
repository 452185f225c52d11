package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/vocabx/internal/apperrors"
	"github.com/oukeidos/vocabx/internal/language"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Generator is the slice of the genai model used by Client; replaced in tests.
type Generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client translates single vocabulary entries with the Gemini API.
type Client struct {
	client    *genai.Client
	modelName string
	// newModel builds a model configured for one language pair. Models are
	// created per call so concurrent workers never share mutable settings.
	newModel func(source, target string) Generator
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string, modelName string) (*Client, error) {
	// option.WithHTTPClient would bypass the API key header injection of the
	// genai library, so timeouts come from the caller's context instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	c := &Client{client: client, modelName: modelName}
	c.newModel = c.configuredModel
	return c, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) configuredModel(source, target string) Generator {
	model := c.client.GenerativeModel(c.modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"translation": {Type: genai.TypeString},
		},
		Required: []string{"translation"},
	}
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemPrompt(source, target))},
	}
	return model
}

// SystemPrompt returns the instruction for translating vocabulary entries
// from source to target (language codes).
func SystemPrompt(source, target string) string {
	return fmt.Sprintf(`You are a bilingual lexicographer translating vocabulary list entries from %s to %s.
The input is a JSON object whose 'text' field holds one headword or short gloss.
Respond ONLY with a JSON object {"translation": "..."} containing the most common %s equivalent.
Rules:
- Keep it short: a word or short phrase, no explanations, no examples, no transliteration.
- If the input lists several senses separated by ';' or ',', translate the senses in the same order.
- Never repeat the %s input.`,
		displayName(source), displayName(target), displayName(target), displayName(source))
}

func displayName(code string) string {
	if lang, ok := language.GetLanguage(code); ok {
		return lang.Name
	}
	return code
}

// Translate sends one entry to Gemini and returns its translation.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	requestJSON, err := json.Marshal(RequestData{Text: text, Source: source, Target: target})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.newModel(source, target).GenerateContent(ctx, genai.Text(string(requestJSON)))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", classifyGeminiError(err)
	}

	raw, err := extractResponseText(resp)
	if err != nil {
		return "", apperrors.Validation(err)
	}
	return parseTranslation(raw)
}

func parseTranslation(raw string) (string, error) {
	var data ResponseData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		// Models occasionally return a bare JSON string.
		var bare string
		if err2 := json.Unmarshal([]byte(raw), &bare); err2 == nil {
			return bare, nil
		}
		return "", apperrors.New(apperrors.KindValidation, "Gemini response format was invalid.",
			fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if strings.TrimSpace(data.Translation) == "" {
		return "", apperrors.Validation(fmt.Errorf("gemini returned an empty translation"))
	}
	return data.Translation, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				combined.WriteString(string(text))
			}
		}
		if combined.Len() > 0 {
			return combined.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
