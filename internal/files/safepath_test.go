package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafePath_NoChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vocabulary.js")
	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath failed: %v", err)
	}
	if changed {
		t.Fatalf("expected unchanged path")
	}
	if got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}
}

func TestSafePath_WithCollision(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vocabulary.js")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath failed: %v", err)
	}
	if !changed {
		t.Fatalf("expected changed path")
	}
	if got == path {
		t.Fatalf("expected different path")
	}
}

func TestSafePath_NumberedThenUUID(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vocabulary.js")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	got, _, err := SafePath(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(tmpDir, "vocabulary_1.js"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	for i := 1; i <= 9; i++ {
		p := filepath.Join(tmpDir, fmt.Sprintf("vocabulary_%d.js", i))
		if err := os.WriteFile(p, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	got, changed, err := SafePath(path)
	if err != nil || !changed {
		t.Fatalf("SafePath() = (%q, %v, %v)", got, changed, err)
	}
	name := filepath.Base(got)
	if !strings.HasPrefix(name, "vocabulary_") || !strings.HasSuffix(name, ".js") || len(name) < len("vocabulary_.js")+36 {
		t.Fatalf("expected uuid suffixed name, got %q", name)
	}
}
