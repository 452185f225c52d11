//go:build windows

package files

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

func moveFile(oldPath, newPath string, flags uint32) error {
	oldPtr, err := windows.UTF16PtrFromString(oldPath)
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	newPtr, err := windows.UTF16PtrFromString(newPath)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	return windows.MoveFileEx(oldPtr, newPtr, flags)
}

func renameAtomic(oldPath, newPath string) error {
	return moveFile(oldPath, newPath, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

// placeExclusive moves a finished temp file to newPath unless newPath
// already exists; without MOVEFILE_REPLACE_EXISTING the move fails instead.
func placeExclusive(tmpPath, newPath string) error {
	err := moveFile(tmpPath, newPath, windows.MOVEFILE_WRITE_THROUGH)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) || errors.Is(err, windows.ERROR_FILE_EXISTS) {
		return &os.LinkError{Op: "move", Old: tmpPath, New: newPath, Err: os.ErrExist}
	}
	return err
}

func isReparsePoint(path string) (bool, error) {
	ptr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(ptr)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0, nil
}
