package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/vocabx/internal/apperrors"
	"google.golang.org/api/googleapi"
)

func TestTranslate_ParsesJSONObject(t *testing.T) {
	gen := &MockGenerator{Response: TextResponse(`{"translation": "house"}`)}
	got, err := NewMockClient(gen).Translate(context.Background(), "casa", "it", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "house" {
		t.Fatalf("got %q, want house", got)
	}

	var req RequestData
	if err := json.Unmarshal([]byte(gen.Last), &req); err != nil {
		t.Fatalf("request is not JSON: %v", err)
	}
	if req.Text != "casa" || req.Source != "it" || req.Target != "en" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestTranslate_BareString(t *testing.T) {
	gen := &MockGenerator{Response: TextResponse(`"房子"`)}
	got, err := NewMockClient(gen).Translate(context.Background(), "house", "en", "zh")
	if err != nil || got != "房子" {
		t.Fatalf("Translate() = (%q, %v)", got, err)
	}
}

func TestTranslate_InvalidResponses(t *testing.T) {
	for name, text := range map[string]string{
		"NotJSON":     "house",
		"Empty":       `{"translation": "  "}`,
		"WrongObject": `{"translation": 3}`,
	} {
		t.Run(name, func(t *testing.T) {
			gen := &MockGenerator{Response: TextResponse(text)}
			_, err := NewMockClient(gen).Translate(context.Background(), "casa", "it", "en")
			assertErrorKind(t, err, apperrors.KindValidation)
		})
	}
}

func TestTranslate_ClassifiesAPIErrors(t *testing.T) {
	gen := &MockGenerator{Error: &googleapi.Error{Code: 429}}
	_, err := NewMockClient(gen).Translate(context.Background(), "casa", "it", "en")
	assertErrorKind(t, err, apperrors.KindRateLimit)
}

func TestTranslate_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &MockGenerator{Error: errors.New("transport closed")}
	_, err := NewMockClient(gen).Translate(ctx, "casa", "it", "en")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSystemPrompt_UsesLanguageNames(t *testing.T) {
	p := SystemPrompt("it", "en")
	if !strings.Contains(p, "from Italian to English") {
		t.Fatalf("prompt missing language names: %q", p)
	}
}

func TestExtractResponseText(t *testing.T) {
	t.Run("NilResponse", func(t *testing.T) {
		_, err := extractResponseText(nil)
		if err == nil || err.Error() != "no response received from Gemini" {
			t.Fatalf("expected nil response error, got: %v", err)
		}
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		_, err := extractResponseText(&genai.GenerateContentResponse{})
		if err == nil || err.Error() != "no candidates returned from Gemini" {
			t.Fatalf("expected empty candidates error, got: %v", err)
		}
	})

	t.Run("NonTextParts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Blob{MIMEType: "application/octet-stream", Data: []byte{0x01}},
				}}},
			},
		}
		_, err := extractResponseText(resp)
		if err == nil || err.Error() != "no text parts found in Gemini response" {
			t.Fatalf("expected no text parts error, got: %v", err)
		}
	})

	t.Run("MultiPartText", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{
					genai.Text(`{"translation":`),
					genai.Text(`"house"}`),
				}}},
			},
		}
		text, err := extractResponseText(resp)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != `{"translation":"house"}` {
			t.Fatalf("expected concatenated text, got: %q", text)
		}
	})
}

func assertErrorKind(t *testing.T, err error, want apperrors.Kind) {
	t.Helper()
	kind, ok := apperrors.KindOf(err)
	if !ok {
		t.Fatalf("expected apperrors.Error, got %T: %v", err, err)
	}
	if kind != want {
		t.Fatalf("kind = %s, want %s", kind, want)
	}
}
