package translate

import (
	"context"
	"fmt"
	"sync"
)

// Mock is an in-memory Translator for tests and dry runs. Without Fn it
// returns "<target>:<text>".
type Mock struct {
	Fn func(ctx context.Context, text, source, target string) (string, error)

	mu    sync.Mutex
	calls []Key
}

func (m *Mock) Translate(ctx context.Context, text, source, target string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Key{Text: text, Source: source, Target: target})
	m.mu.Unlock()
	if m.Fn != nil {
		return m.Fn(ctx, text, source, target)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", target, text), nil
}

// Calls returns a copy of every call received so far.
func (m *Mock) Calls() []Key {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Key(nil), m.calls...)
}

// CallCount returns the number of calls received so far.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// MapMemo is an in-memory MemoStore.
type MapMemo struct {
	mu sync.Mutex
	m  map[Key]string
}

func (s *MapMemo) Get(_ context.Context, key Key) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MapMemo) Put(_ context.Context, key Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = make(map[Key]string)
	}
	s.m[key] = value
	return nil
}
