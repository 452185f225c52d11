// Package libretranslate is a client for a LibreTranslate (Argos) server.
package libretranslate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/oukeidos/vocabx/internal/apperrors"
	"github.com/oukeidos/vocabx/internal/httpclient"
	"github.com/tidwall/gjson"
)

// DefaultEndpoint is where a locally started server listens.
const DefaultEndpoint = "http://localhost:5000"

type Client struct {
	endpoint string
	apiKey   string
}

// NewClient creates a client for the server at endpoint. apiKey may be empty
// for servers that do not require one.
func NewClient(endpoint, apiKey string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// Translate translates text from source to target.
func (c *Client) Translate(ctx context.Context, text, source, target string) (string, error) {
	req := translateRequest{
		Q:      text,
		Source: source,
		Target: target,
		Format: "text",
		APIKey: c.apiKey,
	}
	body, resp, err := httpclient.PostJSON(ctx, httpclient.GetDefaultClient(), c.endpoint+"/translate", req, nil)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", apperrors.New(
			apperrors.KindTransient,
			"LibreTranslate request failed due to a temporary network error.",
			fmt.Errorf("libretranslate request failed: %w", err),
		)
	}
	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, body)
	}

	result := gjson.GetBytes(body, "translatedText")
	if !result.Exists() || result.Type != gjson.String {
		return "", apperrors.New(
			apperrors.KindValidation,
			"LibreTranslate response format was invalid.",
			fmt.Errorf("response has no translatedText field"),
		)
	}
	return result.String(), nil
}

// Language is one entry of the server's /languages listing.
type Language struct {
	Code    string
	Name    string
	Targets []string
}

// Languages lists the language pairs installed on the server.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/languages", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	body, resp, err := httpclient.DoAndRead(httpclient.GetDefaultClient(), req)
	if err != nil {
		return nil, apperrors.Transient(fmt.Errorf("libretranslate languages request failed: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, apperrors.Validation(fmt.Errorf("languages response is not an array"))
	}
	var langs []Language
	root.ForEach(func(_, v gjson.Result) bool {
		lang := Language{
			Code: v.Get("code").String(),
			Name: v.Get("name").String(),
		}
		v.Get("targets").ForEach(func(_, t gjson.Result) bool {
			lang.Targets = append(lang.Targets, t.String())
			return true
		})
		langs = append(langs, lang)
		return true
	})
	return langs, nil
}

// Supports reports whether source->target is an installed pair.
func Supports(langs []Language, source, target string) bool {
	for _, l := range langs {
		if l.Code != source {
			continue
		}
		for _, t := range l.Targets {
			if t == target {
				return true
			}
		}
	}
	return false
}

func classifyStatus(status int, body []byte) error {
	// The server echoes the offending input in some error texts; keep only
	// the status in the public message.
	cause := fmt.Errorf("libretranslate status %d: %s", status, gjson.GetBytes(body, "error").String())
	switch status {
	case http.StatusBadRequest:
		return apperrors.New(apperrors.KindBadRequest, "LibreTranslate rejected the request (400). Check the language codes.", cause)
	case http.StatusForbidden:
		return apperrors.New(apperrors.KindAuth, "LibreTranslate rejected the API key (403).", cause)
	case http.StatusTooManyRequests:
		return apperrors.New(apperrors.KindRateLimit, "LibreTranslate rate limit exceeded (429).", cause)
	}
	return apperrors.FromStatus(status, cause)
}
