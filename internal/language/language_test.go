package language

import "testing"

func TestGetLanguage(t *testing.T) {
	tests := []struct {
		code string
		name string
		ok   bool
	}{
		{"it", "Italian", true},
		{"en", "English", true},
		{"zh", "Chinese", true},
		{" de ", "German", true},
		{"", "", false},
		{"not a code", "", false},
	}
	for _, tt := range tests {
		lang, ok := GetLanguage(tt.code)
		if ok != tt.ok {
			t.Fatalf("GetLanguage(%q) ok = %v, want %v", tt.code, ok, tt.ok)
		}
		if ok && lang.Name != tt.name {
			t.Errorf("GetLanguage(%q).Name = %q, want %q", tt.code, lang.Name, tt.name)
		}
	}
}

func TestMustResolve(t *testing.T) {
	if _, err := MustResolve("xx-!!"); err == nil {
		t.Fatalf("expected error for invalid code")
	}
	lang, err := MustResolve("it")
	if err != nil || lang.Code != "it" {
		t.Fatalf("MustResolve(it) = (%+v, %v)", lang, err)
	}
}

func TestGetSupportedLanguages_Sorted(t *testing.T) {
	langs := GetSupportedLanguages()
	if len(langs) < 10 {
		t.Fatalf("expected a populated list, got %d", len(langs))
	}
	for i := 1; i < len(langs); i++ {
		if langs[i-1].Name > langs[i].Name {
			t.Fatalf("not sorted: %q before %q", langs[i-1].Name, langs[i].Name)
		}
	}
}
