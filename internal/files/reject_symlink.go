package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSymlink is returned when a write path goes through a symlink or a
// Windows reparse point.
var ErrSymlink = errors.New("refusing to write through symlink")

// RejectSymlinkPath fails if any existing component of path, the final
// element included, is a symlink. Components that do not exist yet are fine.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for _, current := range ancestors(abs) {
		info, err := os.Lstat(current)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to access path: %w", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s (at %s)", ErrSymlink, abs, current)
		}
		reparse, err := isReparsePoint(current)
		if err != nil {
			return fmt.Errorf("failed to check reparse point: %w", err)
		}
		if reparse {
			return fmt.Errorf("%w: %s (reparse point at %s)", ErrSymlink, abs, current)
		}
	}
	return nil
}

// ancestors lists the components of an absolute path from the root down,
// excluding the root itself.
func ancestors(abs string) []string {
	var out []string
	for p := abs; ; {
		parent := filepath.Dir(p)
		if parent == p {
			break
		}
		out = append(out, p)
		p = parent
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
