// Package checkpoint persists the ordered prefix of enhanced entries between
// batches and publishes the finished catalog.
package checkpoint

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/files"
)

const filePerm = 0644

// ErrSourceMissing is returned by EnsureBackup when there is nothing to back up.
var ErrSourceMissing = errors.New("catalog to back up does not exist")

// DefaultPath returns "<dir>/<base>_progress.json" for a catalog path.
func DefaultPath(catalogPath string) string {
	dir := filepath.Dir(catalogPath)
	base := strings.TrimSuffix(filepath.Base(catalogPath), filepath.Ext(catalogPath))
	return filepath.Join(dir, base+"_progress.json")
}

// DefaultBackupPath returns "<catalog>.backup".
func DefaultBackupPath(catalogPath string) string {
	return catalogPath + ".backup"
}

// Store reads and writes the checkpoint file and the canonical catalog.
// All writes are atomic replacements; a Store is not safe for concurrent use
// and is only driven by the pipeline controller.
type Store struct {
	path        string
	catalogPath string
	schema      catalog.Schema
}

func New(checkpointPath, catalogPath string, schema catalog.Schema) *Store {
	return &Store{path: checkpointPath, catalogPath: catalogPath, schema: schema}
}

// Save atomically replaces the checkpoint with entries.
func (s *Store) Save(entries []catalog.Entry) error {
	data, err := catalog.Encode(entries, s.schema)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := files.AtomicWrite(s.path, data, filePerm); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", s.path, err)
	}
	return nil
}

// Load returns the checkpointed entries, or an empty slice if there is no
// checkpoint yet.
func (s *Store) Load() ([]catalog.Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []catalog.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %s: %w", s.path, err)
	}
	entries, err := catalog.Decode(data, s.schema)
	if err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", s.path, err)
	}
	return entries, nil
}

// Publish atomically replaces the canonical catalog with entries, keeping the
// permission bits of the file it replaces.
func (s *Store) Publish(entries []catalog.Entry) error {
	data, err := catalog.Encode(entries, s.schema)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	perm := os.FileMode(filePerm)
	if info, err := os.Stat(s.catalogPath); err == nil {
		perm = info.Mode().Perm()
	}
	if err := files.AtomicWrite(s.catalogPath, data, perm); err != nil {
		return fmt.Errorf("publish %s: %w", s.catalogPath, err)
	}
	return nil
}

// PublishedEquals reports whether the canonical catalog already holds exactly
// the encoding of entries. A missing catalog is not equal.
func (s *Store) PublishedEquals(entries []catalog.Entry) (bool, error) {
	want, err := catalog.Encode(entries, s.schema)
	if err != nil {
		return false, fmt.Errorf("encode catalog: %w", err)
	}
	have, err := os.ReadFile(s.catalogPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.catalogPath, err)
	}
	return bytes.Equal(have, want), nil
}

// EnsureBackup copies catalogPath to backupPath once. An existing backup is
// never touched, whatever its content. created reports whether a copy was
// made in this call.
func EnsureBackup(catalogPath, backupPath string) (created bool, err error) {
	created, err = files.CopyExclusive(catalogPath, backupPath)
	if errors.Is(err, os.ErrNotExist) {
		if _, statErr := os.Stat(catalogPath); errors.Is(statErr, os.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrSourceMissing, catalogPath)
		}
	}
	if err != nil {
		return false, fmt.Errorf("backup %s: %w", catalogPath, err)
	}
	return created, nil
}
