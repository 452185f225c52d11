package auth

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestLookup(t *testing.T) {
	svc, err := Lookup(" OpenAI ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.EnvVar != "OPENAI_API_KEY" {
		t.Fatalf("EnvVar = %q", svc.EnvVar)
	}
	if _, err := Lookup("deepl"); err == nil {
		t.Fatalf("expected error for unknown service")
	}
	lt, _ := Lookup("libretranslate")
	if !lt.Optional {
		t.Fatalf("libretranslate key should be optional")
	}
}

func TestGetKey_KeychainThenEnv(t *testing.T) {
	keyring.MockInit()
	t.Setenv("GEMINI_API_KEY", " env-key ")

	if key, src := GetKey("gemini", false); key != "" || src != "" {
		t.Fatalf("expected no key with env disabled, got (%q, %q)", key, src)
	}
	if key, src := GetKey("gemini", true); key != "env-key" || src != "Environment Variable" {
		t.Fatalf("GetKey() = (%q, %q)", key, src)
	}

	if err := SaveKey("gemini", " chain-key\n"); err != nil {
		t.Fatalf("SaveKey: %v", err)
	}
	if !GetStatus("gemini") {
		t.Fatalf("expected stored key")
	}
	if key, src := GetKey("gemini", true); key != "chain-key" || src != "Keychain" {
		t.Fatalf("GetKey() = (%q, %q)", key, src)
	}

	if err := DeleteKey("gemini"); err != nil {
		t.Fatalf("DeleteKey: %v", err)
	}
	if GetStatus("gemini") {
		t.Fatalf("expected key to be deleted")
	}
}

func TestGetEnvKey_Blank(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "   ")
	if _, ok := GetEnvKey("openai"); ok {
		t.Fatalf("blank env var must not count as a key")
	}
}
