package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SafePath returns path if nothing exists there yet. Otherwise it returns the
// first free "<base>_N<ext>" for N in 1..9, and after that a name with a
// time ordered UUID suffix. The bool reports whether the path was changed.
func SafePath(path string) (string, bool, error) {
	if path == "" {
		return "", false, fmt.Errorf("path is empty")
	}
	free, err := isFree(path)
	if err != nil || free {
		return path, false, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= 9; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		free, err := isFree(candidate)
		if err != nil {
			return "", false, err
		}
		if free {
			return candidate, true, nil
		}
	}

	suffix := uuid.NewString()
	if u, err := uuid.NewV7(); err == nil {
		suffix = u.String()
	}
	return fmt.Sprintf("%s_%s%s", base, suffix, ext), true, nil
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, err
}
