package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/checkpoint"
	"github.com/oukeidos/vocabx/internal/enhancer"
	"github.com/oukeidos/vocabx/internal/files"
	"github.com/oukeidos/vocabx/internal/language"
)

// Config holds everything needed to enhance one catalog.
type Config struct {
	// Paths. BackupPath and CheckpointPath default to siblings of CatalogPath.
	CatalogPath    string
	BackupPath     string
	CheckpointPath string

	Schema catalog.Schema

	// Translation chain: SourceLang -> IntermediateLang -> TargetLang.
	SourceLang       string
	IntermediateLang string
	TargetLang       string

	// Processing parameters
	BatchSize   int
	Workers     int
	CallTimeout time.Duration
	// BatchPause is slept between batches; the only throttling applied.
	BatchPause time.Duration
	// SampleEvery logs one translated record in n. Negative disables it.
	SampleEvery int

	// Callbacks
	// OnProgress is called on the controller goroutine after every
	// checkpoint write.
	OnProgress func(Progress)
	// OnRecord is called from worker goroutines after each record.
	OnRecord func(enhancer.Outcome)
}

const (
	DefaultBatchSize = 100
	MaxBatchSize     = 1000
	DefaultSource    = "it"
	DefaultVia       = "en"
	DefaultTarget    = "zh"
)

// Normalize fills defaults and applies safe bounds, returning a note for
// every value it had to clamp.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if c.Schema == (catalog.Schema{}) {
		c.Schema = catalog.DefaultSchema()
	}
	if c.BackupPath == "" && c.CatalogPath != "" {
		c.BackupPath = checkpoint.DefaultBackupPath(c.CatalogPath)
	}
	if c.CheckpointPath == "" && c.CatalogPath != "" {
		c.CheckpointPath = checkpoint.DefaultPath(c.CatalogPath)
	}
	if c.SourceLang == "" {
		c.SourceLang = DefaultSource
	}
	if c.IntermediateLang == "" {
		c.IntermediateLang = DefaultVia
	}
	if c.TargetLang == "" {
		c.TargetLang = DefaultTarget
	}

	switch {
	case c.BatchSize == 0:
		c.BatchSize = DefaultBatchSize
	case c.BatchSize > MaxBatchSize:
		notes = append(notes, fmt.Sprintf("batch-size clamped from %d to %d (max %d)", c.BatchSize, MaxBatchSize, MaxBatchSize))
		c.BatchSize = MaxBatchSize
	}
	switch {
	case c.Workers == 0:
		c.Workers = enhancer.DefaultWorkers()
	case c.Workers > enhancer.MaxWorkers:
		notes = append(notes, fmt.Sprintf("workers clamped from %d to %d (max %d)", c.Workers, enhancer.MaxWorkers, enhancer.MaxWorkers))
		c.Workers = enhancer.MaxWorkers
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = enhancer.DefaultCallTimeout
	}
	if c.BatchPause < 0 {
		c.BatchPause = 0
	}
	switch {
	case c.SampleEvery == 0:
		c.SampleEvery = enhancer.DefaultSampleEvery
	case c.SampleEvery < 0:
		c.SampleEvery = 0
	}
	return c, notes
}

// Validate checks a normalized configuration.
func (c Config) Validate() error {
	if c.CatalogPath == "" {
		return fmt.Errorf("catalog path is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0, got %d", c.BatchSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0, got %d", c.Workers)
	}
	if err := c.Schema.Validate(); err != nil {
		return err
	}
	for _, code := range []string{c.SourceLang, c.IntermediateLang, c.TargetLang} {
		if _, err := language.MustResolve(code); err != nil {
			return err
		}
	}
	if c.SourceLang == c.IntermediateLang || c.IntermediateLang == c.TargetLang {
		return fmt.Errorf("each translation step needs two different languages (got %s -> %s -> %s)", c.SourceLang, c.IntermediateLang, c.TargetLang)
	}

	paths := map[string]string{}
	for name, p := range map[string]string{"catalog": c.CatalogPath, "backup": c.BackupPath, "checkpoint": c.CheckpointPath} {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s path: %w", name, err)
		}
		if other, ok := paths[abs]; ok {
			return fmt.Errorf("%s and %s paths are the same (%s)", other, name, abs)
		}
		paths[abs] = name
	}
	for _, p := range []string{c.CatalogPath, c.BackupPath, c.CheckpointPath} {
		if err := files.RejectSymlinkPath(p); err != nil {
			return err
		}
	}
	return nil
}

// Route returns the translation chain.
func (c Config) Route() enhancer.Route {
	return enhancer.Route{Source: c.SourceLang, Intermediate: c.IntermediateLang, Target: c.TargetLang}
}
