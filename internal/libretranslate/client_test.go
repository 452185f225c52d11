package libretranslate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oukeidos/vocabx/internal/apperrors"
)

func TestTranslate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %s, want /translate", r.URL.Path)
		}
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if req.Q != "casa" || req.Source != "it" || req.Target != "en" || req.Format != "text" {
			t.Errorf("unexpected request: %+v", req)
		}
		if req.APIKey != "k" {
			t.Errorf("api_key = %q, want k", req.APIKey)
		}
		fmt.Fprint(w, `{"translatedText":"house"}`)
	}))
	defer server.Close()

	got, err := NewClient(server.URL+"/", "k").Translate(context.Background(), "casa", "it", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "house" {
		t.Fatalf("got %q, want house", got)
	}
}

func TestTranslate_OmitsEmptyAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["api_key"]; ok {
			t.Errorf("api_key sent without a key")
		}
		fmt.Fprint(w, `{"translatedText":"房子"}`)
	}))
	defer server.Close()

	got, err := NewClient(server.URL, "").Translate(context.Background(), "house", "en", "zh")
	if err != nil || got != "房子" {
		t.Fatalf("Translate() = (%q, %v)", got, err)
	}
}

func TestTranslate_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   apperrors.Kind
	}{
		{"BadLanguage", 400, `{"error":"xx is not supported"}`, apperrors.KindBadRequest},
		{"BadKey", 403, `{"error":"Invalid API key"}`, apperrors.KindAuth},
		{"Slow", 429, `{"error":"Too many requests"}`, apperrors.KindRateLimit},
		{"Server", 500, `{"error":"boom"}`, apperrors.KindTransient},
		{"MissingField", 200, `{"other":"x"}`, apperrors.KindValidation},
		{"WrongType", 200, `{"translatedText":["a","b"]}`, apperrors.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := NewClient(server.URL, "").Translate(context.Background(), "casa", "it", "en")
			kind, ok := apperrors.KindOf(err)
			if !ok || kind != tt.kind {
				t.Fatalf("kind = %q (%v), want %q", kind, err, tt.kind)
			}
		})
	}
}

func TestTranslate_ErrorDoesNotLeakInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400)
		fmt.Fprint(w, `{"error":"cannot translate SECRET_WORD"}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").Translate(context.Background(), "SECRET_WORD", "it", "en")
	if strings.Contains(apperrors.PublicMessage(err), "SECRET_WORD") {
		t.Fatalf("public message leaked input: %q", apperrors.PublicMessage(err))
	}
}

func TestTranslate_ConnectionFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url, "").Translate(context.Background(), "casa", "it", "en")
	if !apperrors.IsRetryable(err) {
		t.Fatalf("expected retryable error, got %v", err)
	}
}

func TestTranslate_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"translatedText":"house"}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(server.URL, "").Translate(ctx, "casa", "it", "en")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLanguages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/languages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		fmt.Fprint(w, `[{"code":"it","name":"Italian","targets":["en"]},{"code":"en","name":"English","targets":["it","zh"]}]`)
	}))
	defer server.Close()

	langs, err := NewClient(server.URL, "").Languages(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(langs) != 2 || langs[1].Name != "English" {
		t.Fatalf("unexpected languages: %+v", langs)
	}
	if !Supports(langs, "it", "en") || !Supports(langs, "en", "zh") {
		t.Fatalf("expected it->en and en->zh to be supported")
	}
	if Supports(langs, "it", "zh") {
		t.Fatalf("it->zh is not installed")
	}
}
