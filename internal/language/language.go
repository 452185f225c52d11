package language

import (
	"fmt"
	"sort"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language is a language code accepted on the command line.
type Language struct {
	// Code is sent to translation backends as is.
	Code string
	// Name is the English display name, used in prompts and listings.
	Name string
	Tag  xlanguage.Tag
}

// Codes installed by default on LibreTranslate/Argos servers. Other valid
// BCP 47 codes are accepted by GetLanguage; this list only drives `list`.
var knownCodes = []string{
	"ar", "az", "bg", "bn", "ca", "cs", "da", "de", "el", "en", "eo", "es",
	"et", "fa", "fi", "fr", "ga", "he", "hi", "hu", "id", "it", "ja", "ko",
	"lt", "lv", "ms", "nb", "nl", "pl", "pt", "ro", "ru", "sk", "sl", "sq",
	"sv", "th", "tl", "tr", "uk", "ur", "vi", "zh", "zh-Hant",
}

var namer = display.English.Tags()

// GetLanguage resolves a code such as "it" or "zh-Hant".
func GetLanguage(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Language{}, false
	}
	tag, err := xlanguage.Parse(code)
	if err != nil || tag == xlanguage.Und {
		return Language{}, false
	}
	name := namer.Name(tag)
	if name == "" {
		return Language{}, false
	}
	return Language{Code: code, Name: name, Tag: tag}, true
}

// MustResolve is GetLanguage returning an error for unknown codes.
func MustResolve(code string) (Language, error) {
	lang, ok := GetLanguage(code)
	if !ok {
		return Language{}, fmt.Errorf("unsupported language code %q (see 'vocabx list')", code)
	}
	return lang, nil
}

// GetSupportedLanguages returns the well known languages sorted by Name and
// then Code.
func GetSupportedLanguages() []Language {
	entries := make([]Language, 0, len(knownCodes))
	for _, code := range knownCodes {
		if lang, ok := GetLanguage(code); ok {
			entries = append(entries, lang)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Code < entries[j].Code
	})
	return entries
}
