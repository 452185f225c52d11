// Package translate defines the translation capability used by the enhancer
// and the decorators layered on top of a backend.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oukeidos/vocabx/internal/apperrors"
	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

// Translator translates a short text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Func adapts a plain function to the Translator interface.
type Func func(ctx context.Context, text, source, target string) (string, error)

func (f Func) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// MaxResultGraphemes bounds a single translation. Vocabulary entries are words
// or short phrases; anything longer is a backend echoing a prompt or rambling.
const MaxResultGraphemes = 200

// ErrEmptyInput is returned for blank input without calling the backend.
var ErrEmptyInput = errors.New("empty text")

// Clean normalizes a backend result: NFC, trimmed, inner whitespace collapsed
// and surrounding quotes removed.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	for _, q := range [][2]string{{`"`, `"`}, {"“", "”"}, {"「", "」"}, {"'", "'"}} {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			s = strings.TrimSpace(s[len(q[0]) : len(s)-len(q[1])])
		}
	}
	return s
}

// Check validates a cleaned result.
func Check(result string) error {
	if result == "" {
		return apperrors.New(apperrors.KindValidation, "Translation backend returned an empty result.", errors.New("empty translation"))
	}
	if n := uniseg.GraphemeClusterCount(result); n > MaxResultGraphemes {
		return apperrors.New(apperrors.KindValidation, "Translation backend returned an oversized result.",
			fmt.Errorf("translation too long: %d graphemes (max %d)", n, MaxResultGraphemes))
	}
	return nil
}

// Guarded wraps tr so blank input is rejected up front and every result is
// cleaned and checked.
func Guarded(tr Translator) Translator {
	return Func(func(ctx context.Context, text, source, target string) (string, error) {
		if strings.TrimSpace(text) == "" {
			return "", ErrEmptyInput
		}
		out, err := tr.Translate(ctx, text, source, target)
		if err != nil {
			return "", err
		}
		out = Clean(out)
		if err := Check(out); err != nil {
			return "", err
		}
		return out, nil
	})
}
