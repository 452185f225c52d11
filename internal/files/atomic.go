package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oukeidos/vocabx/internal/logger"
)

const tempPattern = "vocabx-*.tmp"

// AtomicWrite replaces path with data: the bytes go to a temp file in the
// same directory, which is fsynced and renamed over path, then the directory
// is fsynced. Readers see either the old or the new content, never a mix.
func AtomicWrite(path string, data []byte, perms os.FileMode) error {
	if err := RejectSymlinkPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	cleanup := true
	defer func() {
		if cleanup {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(perms); err != nil {
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := renameAtomic(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to destination: %w", err)
	}
	cleanup = false
	if err := syncDir(dir); err != nil {
		logger.Warn("Directory fsync failed (safe to ignore on some platforms)", "path", dir, "error", err)
	}
	return nil
}

// CopyExclusive copies src to dst, keeping the source's permission bits and
// modification time, unless dst already exists. It never overwrites dst and
// reports whether a copy was made. A missing src is returned as an error
// wrapping os.ErrNotExist.
func CopyExclusive(src, dst string) (bool, error) {
	if err := RejectSymlinkPath(dst); err != nil {
		return false, err
	}
	if _, err := os.Lstat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	in, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return false, err
	}

	dir := filepath.Dir(dst)
	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return false, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		return false, fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := tmpFile.Chmod(info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return false, fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return false, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		logger.Warn("Could not preserve modification time", "path", dst, "error", err)
	}

	if err := placeExclusive(tmpPath, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			// Another process created dst first; theirs wins.
			return false, nil
		}
		return false, fmt.Errorf("failed to place copy at %s: %w", dst, err)
	}
	cleanup = false
	os.Remove(tmpPath)
	if err := syncDir(dir); err != nil {
		logger.Warn("Directory fsync failed (safe to ignore on some platforms)", "path", dir, "error", err)
	}
	return true, nil
}

func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
