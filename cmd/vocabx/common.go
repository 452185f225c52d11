package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oukeidos/vocabx/internal/auth"
	"github.com/oukeidos/vocabx/internal/cleanup"
	"github.com/oukeidos/vocabx/internal/files"
	"github.com/oukeidos/vocabx/internal/language"
	"github.com/oukeidos/vocabx/internal/logger"
	"github.com/oukeidos/vocabx/internal/provider"
	"github.com/oukeidos/vocabx/internal/translate"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	getKey       = auth.GetKey
	getEnvKey    = auth.GetEnvKey
	getStatus    = auth.GetStatus
	promptForKey = auth.PromptForAPIKey

	newTranslator = func(ctx context.Context, opts provider.Options) (translate.Translator, func() error, error) {
		stack, err := provider.New(ctx, opts)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using provider", "provider", stack.Provider, "model", stack.Model)
		return stack, stack.Close, nil
	}
)

// resolveAPIKey handles the logic for finding the API key. Services whose
// key is optional resolve to an empty key instead of prompting.
func resolveAPIKey(service string, allowEnv, envOnly bool) (string, string, error) {
	svc, err := auth.Lookup(service)
	if err != nil {
		return "", "", err
	}
	if envOnly {
		if key, ok := getEnvKey(svc.ID); ok {
			return key, "Environment Variable", nil
		}
		if svc.Optional {
			return "", "", nil
		}
		return "", "", fmt.Errorf("env-only set but %s is not set", svc.EnvVar)
	}

	if key, source := getKey(svc.ID, false); key != "" {
		return key, source, nil
	}
	if allowEnv {
		if key, ok := getEnvKey(svc.ID); ok {
			return key, "Environment Variable", nil
		}
	}
	if svc.Optional {
		return "", "", nil
	}

	interactive := isTerminal(int(os.Stdin.Fd()))
	if interactive {
		key, err := promptForKey(fmt.Sprintf("%s API Key (press Enter to skip): ", svc.DisplayName))
		if err != nil {
			return "", "", fmt.Errorf("error reading API key: %w", err)
		}
		if strings.TrimSpace(key) != "" {
			return strings.TrimSpace(key), "Terminal Prompt", nil
		}
	}

	if !interactive {
		return "", "", fmt.Errorf("no API key available (non-interactive shell); set keychain or use --allow-env")
	}
	if allowEnv {
		return "", "", fmt.Errorf("API key is required; not found in keychain or environment")
	}
	return "", "", fmt.Errorf("API key is required; not found in keychain (environment disabled by default; use --allow-env)")
}

func resolveLanguageCode(input string) (string, error) {
	if lang, ok := language.GetLanguage(input); ok {
		return lang.Code, nil
	}
	needle := strings.TrimSpace(input)
	if needle == "" {
		return "", fmt.Errorf("language is empty")
	}
	for _, entry := range language.GetSupportedLanguages() {
		if strings.EqualFold(entry.Name, needle) {
			return entry.Code, nil
		}
	}
	return "", fmt.Errorf("unsupported language: %s", input)
}

// resolveLanguages accepts codes or English names for the three languages.
func (o *runOptions) resolveLanguages() error {
	for _, p := range []*string{&o.source, &o.via, &o.target} {
		code, err := resolveLanguageCode(*p)
		if err != nil {
			return err
		}
		*p = code
	}
	return nil
}

func setupLogging(opts *runOptions) error {
	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFile != "" {
		if err := files.RejectSymlinkPath(opts.logFile); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register("log file", f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)
	return nil
}

// buildTranslator resolves the provider key and assembles the translation
// stack. The stack is closed by the cleanup hooks.
func buildTranslator(ctx context.Context, opts *runOptions) (translate.Translator, error) {
	name := strings.ToLower(strings.TrimSpace(opts.provider))
	if name == "" {
		name = provider.LibreTranslate
	}
	key, source, err := resolveAPIKey(name, opts.allowEnv, opts.envOnly)
	if err != nil {
		return nil, err
	}
	if key != "" {
		logger.Info("Using API Key", "service", name, "source", source)
	}
	tr, closeFn, err := newTranslator(ctx, opts.providerOptions(key))
	if err != nil {
		return nil, err
	}
	cleanup.Register("translator", closeFn)
	return tr, nil
}

func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Cancellation requested, saving progress")
			cancel()
		case <-ctx.Done():
		}
	}()
	stop := func() {
		signal.Stop(sigCh)
		cancel()
	}
	return ctx, stop
}
