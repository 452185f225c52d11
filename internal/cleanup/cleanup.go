// Package cleanup collects process-level teardown hooks (log files, memo
// databases, backend clients) that must run after the CLI command returns.
package cleanup

import (
	"errors"
	"fmt"
	"sync"
)

type hook struct {
	name string
	fn   func() error
}

var (
	mu    sync.Mutex
	hooks []hook
)

// Register adds a named hook. Hooks run in LIFO order.
func Register(name string, fn func() error) {
	if fn == nil {
		return
	}
	mu.Lock()
	hooks = append(hooks, hook{name: name, fn: fn})
	mu.Unlock()
}

// Pending returns the number of registered hooks.
func Pending() int {
	mu.Lock()
	defer mu.Unlock()
	return len(hooks)
}

// RunAll executes and clears every registered hook. All hooks run even if
// some fail; failures are joined in the returned error.
func RunAll() error {
	mu.Lock()
	local := hooks
	hooks = nil
	mu.Unlock()

	var errs []error
	for i := len(local) - 1; i >= 0; i-- {
		if err := local[i].fn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", local[i].name, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
}
