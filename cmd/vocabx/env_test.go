package main

import (
	"bytes"
	"strings"
	"testing"
)

func withEnvStatusStubs(t *testing.T, status bool, envKey string) (*keyStubs, func()) {
	t.Helper()
	stubs := &keyStubs{}

	prevStatus := getStatus
	prevEnv := getEnvKey

	getStatus = func(_ string) bool {
		return status
	}
	getEnvKey = func(_ string) (string, bool) {
		stubs.envCalls++
		if envKey == "" {
			return "", false
		}
		return envKey, true
	}

	restore := func() {
		getStatus = prevStatus
		getEnvKey = prevEnv
	}

	return stubs, restore
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestEnvStatus(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		keychain bool
		env      string
		want     string
	}{
		{"Keychain", "gemini", true, "sk-env-secret", "gemini API Key: Found (source=Keychain)"},
		{"Environment", "openai", false, "sk-env-secret", "Found (source=Environment Variable OPENAI_API_KEY"},
		{"NotFound", "gemini", false, "", "Not Found (keychain empty, env not set)"},
		{"OptionalNotFound", "libretranslate", false, "", "Not Found (optional for this service)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, restore := withEnvStatusStubs(t, tt.keychain, tt.env)
			defer restore()

			out, err := executeCommand(t, "env", "status", "--service", tt.service)
			if err != nil {
				t.Fatalf("command failed: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Fatalf("expected %q, got: %s", tt.want, out)
			}
			if strings.Contains(out, "sk-env-secret") {
				t.Fatalf("output leaked env key")
			}
		})
	}
}

func TestEnvStatus_UnknownService(t *testing.T) {
	out, err := executeCommand(t, "env", "--service", "deepl")
	if err == nil {
		t.Fatalf("expected error for unknown service, got: %s", out)
	}
	if !strings.Contains(err.Error(), "unknown service") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnvSetup_RejectsPositionalAPIKey(t *testing.T) {
	out, err := executeCommand(t, "env", "setup", "sk-should-not-be-allowed", "--service", "openai")
	if err == nil {
		t.Fatalf("expected setup to reject positional API key argument")
	}
	if !strings.Contains(out, "unknown command") && !strings.Contains(out, "accepts 0 arg(s)") {
		t.Fatalf("expected positional-argument rejection error, got: %s", out)
	}
}
