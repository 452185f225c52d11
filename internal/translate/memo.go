package translate

import (
	"context"

	"github.com/oukeidos/vocabx/internal/logger"
)

// Key identifies a memoized translation.
type Key struct {
	Text   string
	Source string
	Target string
}

// MemoStore persists translations across runs.
type MemoStore interface {
	Get(ctx context.Context, key Key) (string, bool, error)
	Put(ctx context.Context, key Key, value string) error
}

type memoized struct {
	next  Translator
	store MemoStore
}

// WithMemo serves repeated translations from store and records new ones.
// Store failures are logged and never fail a translation.
func WithMemo(tr Translator, store MemoStore) Translator {
	if store == nil {
		return tr
	}
	return &memoized{next: tr, store: store}
}

func (m *memoized) Translate(ctx context.Context, text, source, target string) (string, error) {
	key := Key{Text: text, Source: source, Target: target}
	if v, ok, err := m.store.Get(ctx, key); err != nil {
		logger.Warn("Translation memo lookup failed", "error", err)
	} else if ok {
		return v, nil
	}
	out, err := m.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if err := m.store.Put(ctx, key, out); err != nil {
		logger.Warn("Translation memo write failed", "error", err)
	}
	return out, nil
}
