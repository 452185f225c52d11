// Package provider builds the translation stack selected on the command line.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oukeidos/vocabx/internal/gemini"
	"github.com/oukeidos/vocabx/internal/libretranslate"
	"github.com/oukeidos/vocabx/internal/memo"
	"github.com/oukeidos/vocabx/internal/openai"
	"github.com/oukeidos/vocabx/internal/translate"
)

const (
	LibreTranslate = "libretranslate"
	Gemini         = "gemini"
	OpenAI         = "openai"
)

// Names lists the supported providers, default first.
func Names() []string {
	return []string{LibreTranslate, Gemini, OpenAI}
}

// NeedsKey reports whether the provider cannot run without an API key.
func NeedsKey(name string) bool {
	return name == Gemini || name == OpenAI
}

// Options selects and configures a backend.
type Options struct {
	Provider string
	Endpoint string
	Model    string
	APIKey   string
	// Retries is the total number of attempts per call.
	Retries int
	// MemoPath enables the SQLite translation memo when set.
	MemoPath string
}

// Stack is a ready to use translator plus the resources behind it.
type Stack struct {
	translate.Translator
	Provider string
	Model    string
	closers  []func() error
}

// Close releases backend clients and the memo database.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// New builds backend -> guard -> retry -> memo.
func New(ctx context.Context, opts Options) (*Stack, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Provider))
	if name == "" {
		name = LibreTranslate
	}
	if NeedsKey(name) && opts.APIKey == "" {
		return nil, fmt.Errorf("%s requires an API key", name)
	}

	stack := &Stack{Provider: name}
	var backend translate.Translator
	switch name {
	case LibreTranslate:
		backend = libretranslate.NewClient(opts.Endpoint, opts.APIKey)
		stack.Model = "argos"
	case Gemini:
		client, err := gemini.NewClient(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		stack.closers = append(stack.closers, client.Close)
		backend = client
		stack.Model = modelOr(opts.Model, gemini.DefaultModel)
	case OpenAI:
		client := openai.NewClient(opts.APIKey, opts.Model)
		backend = client
		stack.Model = client.GetModelID()
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: %s)", opts.Provider, strings.Join(Names(), ", "))
	}

	tr := translate.WithRetry(translate.Guarded(backend), opts.Retries)
	if opts.MemoPath != "" {
		store, err := memo.Open(opts.MemoPath)
		if err != nil {
			_ = stack.Close()
			return nil, err
		}
		stack.closers = append(stack.closers, store.Close)
		tr = translate.WithMemo(tr, store)
	}
	stack.Translator = tr
	return stack, nil
}

func modelOr(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}
