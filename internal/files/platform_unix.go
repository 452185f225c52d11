//go:build !windows

package files

import "os"

func renameAtomic(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// placeExclusive moves a finished temp file to newPath unless newPath
// already exists. A hard link is created atomically and fails with EEXIST.
func placeExclusive(tmpPath, newPath string) error {
	if err := os.Link(tmpPath, newPath); err != nil {
		return err
	}
	return os.Remove(tmpPath)
}

func isReparsePoint(string) (bool, error) {
	return false, nil
}
