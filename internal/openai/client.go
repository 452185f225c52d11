// Package openai translates vocabulary entries with the OpenAI chat API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/oukeidos/vocabx/internal/apperrors"
	"github.com/oukeidos/vocabx/internal/httpclient"
	"github.com/oukeidos/vocabx/internal/language"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = goopenai.GPT4oMini

type Client struct {
	api   *goopenai.Client
	model string
}

func NewClient(apiKey, model string) *Client {
	return newClient(apiKey, model, "")
}

func newClient(apiKey, model, baseURL string) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.HTTPClient = httpclient.GetDefaultClient()
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   goopenai.NewClientWithConfig(cfg),
		model: model,
	}
}

// GetModelID returns the configured model identifier.
func (c *Client) GetModelID() string {
	return c.model
}

func systemPrompt(source, target string) string {
	return fmt.Sprintf("Translate the %s vocabulary entry given by the user into %s. "+
		"Reply with the translation only: a word or short phrase, no quotes, no explanation. "+
		"Keep multiple senses separated by ';' in the same order.",
		displayName(source), displayName(target))
}

func displayName(code string) string {
	if lang, ok := language.GetLanguage(code); ok {
		return lang.Name
	}
	return code
}

// Translate translates one entry from source to target.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt(source, target)},
			{Role: goopenai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.New(apperrors.KindValidation, "OpenAI response had no choices.", errors.New("empty choices"))
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", apperrors.New(apperrors.KindValidation, "OpenAI returned an empty translation.", errors.New("empty content"))
	}
	return out, nil
}

func classifyOpenAIError(err error) error {
	wrapped := fmt.Errorf("openai chat completion failed: %w", err)

	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	var urlErr *url.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case errors.As(err, &urlErr):
		return apperrors.New(apperrors.KindTransient, "OpenAI request failed due to a temporary network error.", wrapped)
	case errors.Is(err, goopenai.ErrChatCompletionInvalidModel):
		return apperrors.New(apperrors.KindBadRequest, "OpenAI model does not support chat completions.", wrapped)
	default:
		// Client side request validation or an undecodable 200 body.
		return apperrors.New(apperrors.KindValidation, "OpenAI response format was invalid.", wrapped)
	}

	switch {
	case status == 429:
		return apperrors.New(apperrors.KindRateLimit, "OpenAI API rate limit exceeded (429).", wrapped)
	case status == 401 || status == 403:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("OpenAI API authentication failed (%d).", status), wrapped)
	case status >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("OpenAI server error (%d).", status), wrapped)
	case status == 404:
		return apperrors.New(apperrors.KindBadRequest, "OpenAI model not found (404).", wrapped)
	}
	return apperrors.FromStatus(status, wrapped)
}
