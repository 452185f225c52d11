package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/checkpoint"
)

// Report describes the on-disk state of a catalog and its run artifacts.
type Report struct {
	Total        int
	Completed    int
	Failed       []int
	BackupExists bool
	// UpToDate is true when the catalog file already holds the encoded
	// checkpoint of a complete run.
	UpToDate bool
}

// Complete reports whether every record has been processed.
func (r Report) Complete() bool { return r.Completed >= r.Total }

// Inspect reads the catalog, backup and checkpoint without modifying them.
// The record count is taken from the backup when it exists, since after
// publication the catalog file holds enhanced entries of the same length.
func Inspect(cfg Config) (Report, error) {
	cfg, _ = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid configuration: %w", err)
	}

	var rep Report
	source := cfg.CatalogPath
	if _, err := os.Stat(cfg.BackupPath); err == nil {
		rep.BackupExists = true
		source = cfg.BackupPath
	} else if !errors.Is(err, os.ErrNotExist) {
		return rep, fmt.Errorf("stat backup: %w", err)
	}
	records, err := catalog.Load(source, cfg.Schema)
	if err != nil {
		return rep, fmt.Errorf("load catalog %s: %w", source, err)
	}
	rep.Total = len(records)

	store := checkpoint.New(cfg.CheckpointPath, cfg.CatalogPath, cfg.Schema)
	entries, err := store.Load()
	if err != nil {
		return rep, err
	}
	if len(entries) > rep.Total {
		entries = entries[:rep.Total]
	}
	rep.Completed = len(entries)
	rep.Failed = catalog.FailedIndices(entries)
	if rep.Complete() {
		if rep.UpToDate, err = store.PublishedEquals(entries); err != nil {
			return rep, err
		}
	}
	return rep, nil
}
