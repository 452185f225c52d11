package auth

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const serviceName = "vocabx"

// Service describes where a provider's API key is stored.
type Service struct {
	ID          string
	DisplayName string
	Account     string
	EnvVar      string
	// Optional services work without a key (e.g. a private LibreTranslate).
	Optional bool
}

var services = map[string]Service{
	"gemini":         {ID: "gemini", DisplayName: "Gemini", Account: "gemini-api-key", EnvVar: "GEMINI_API_KEY"},
	"openai":         {ID: "openai", DisplayName: "OpenAI", Account: "openai-api-key", EnvVar: "OPENAI_API_KEY"},
	"libretranslate": {ID: "libretranslate", DisplayName: "LibreTranslate", Account: "libretranslate-api-key", EnvVar: "LIBRETRANSLATE_API_KEY", Optional: true},
}

// Lookup returns the key storage description for a provider.
func Lookup(service string) (Service, error) {
	svc, ok := services[strings.ToLower(strings.TrimSpace(service))]
	if !ok {
		return Service{}, fmt.Errorf("unknown service %q (supported: %s)", service, strings.Join(ServiceIDs(), ", "))
	}
	return svc, nil
}

// ServiceIDs lists the known provider ids in sorted order.
func ServiceIDs() []string {
	ids := make([]string, 0, len(services))
	for id := range services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetKey retrieves the API key for a service from the keychain and, when
// allowEnv is set, from its environment variable. The second result names
// the source.
func GetKey(service string, allowEnv bool) (string, string) {
	svc, err := Lookup(service)
	if err != nil {
		return "", ""
	}
	key, err := keyring.Get(serviceName, svc.Account)
	if err == nil && strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), "Keychain"
	}
	if allowEnv {
		if key, ok := GetEnvKey(service); ok {
			return key, "Environment Variable"
		}
	}
	return "", ""
}

// SaveKey saves the key for a service to the OS keychain.
func SaveKey(service, key string) error {
	svc, err := Lookup(service)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, svc.Account, strings.TrimSpace(key))
}

// DeleteKey removes the key for a service from the OS keychain.
func DeleteKey(service string) error {
	svc, err := Lookup(service)
	if err != nil {
		return err
	}
	return keyring.Delete(serviceName, svc.Account)
}

// GetStatus reports whether a key for the service is in the keychain.
func GetStatus(service string) bool {
	svc, err := Lookup(service)
	if err != nil {
		return false
	}
	key, err := keyring.Get(serviceName, svc.Account)
	return err == nil && key != ""
}

// PromptForAPIKey reads a key from the terminal without echo.
func PromptForAPIKey(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// GetEnvKey retrieves the key from the service's environment variable only.
func GetEnvKey(service string) (string, bool) {
	svc, err := Lookup(service)
	if err != nil {
		return "", false
	}
	key := strings.TrimSpace(os.Getenv(svc.EnvVar))
	if key == "" {
		return "", false
	}
	return key, true
}
