package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/checkpoint"
	"github.com/oukeidos/vocabx/internal/enhancer"
	"github.com/oukeidos/vocabx/internal/logger"
	"github.com/oukeidos/vocabx/internal/partition"
	"github.com/oukeidos/vocabx/internal/translate"
)

// RunRepair re-translates the records of a finished run that are missing a
// translation. It requires a complete checkpoint; repaired entries are saved
// to the checkpoint after each batch and published at the end, so an
// interrupted repair is picked up by the next enhancement run.
func RunRepair(ctx context.Context, cfg Config, tr translate.Translator) (res RepairResult, err error) {
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	cfg, notes := cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return res, fmt.Errorf("invalid configuration: %w", err)
	}

	records, err := catalog.Load(cfg.CatalogPath, cfg.Schema)
	if err != nil {
		return res, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
	}
	store := checkpoint.New(cfg.CheckpointPath, cfg.CatalogPath, cfg.Schema)
	entries, err := store.Load()
	if err != nil {
		return res, err
	}
	if len(entries) < len(records) {
		return res, fmt.Errorf("enhancement not complete (%d/%d records), run enhance first", len(entries), len(records))
	}
	entries = entries[:len(records)]
	if err := matchCheckpoint(entries, records); err != nil {
		return res, err
	}

	failed := catalog.FailedIndices(entries)
	res.Attempted = len(failed)
	if len(failed) == 0 {
		logger.Info("No records need repair", "total", len(entries))
		res.Status = StatusAlreadyComplete
		return res, nil
	}

	items := make([]catalog.Item, len(failed))
	for i, idx := range failed {
		e := entries[idx-1]
		items[i] = catalog.Item{
			Record: catalog.Record{
				SourceWord:   e.SourceWord,
				Gloss:        e.Gloss,
				Frequency:    e.Frequency,
				HasFrequency: true,
				Rank:         e.Rank,
				HasRank:      true,
			},
			Index: idx,
			Total: len(entries),
		}
	}

	pool := enhancer.New(tr, cfg.Route(),
		enhancer.WithWorkers(cfg.Workers),
		enhancer.WithCallTimeout(cfg.CallTimeout),
		enhancer.WithSampleEvery(cfg.SampleEvery),
		enhancer.WithOnRecord(cfg.OnRecord),
	)
	logger.Info("Repairing records", "count", len(items), "workers", pool.Workers())

	for n, batch := range partition.Batches(items, cfg.BatchSize) {
		outcomes, err := pool.ProcessBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				logger.Warn("Repair interrupted", "fixed", res.Fixed, "attempted", res.Attempted)
				res.Status = StatusInterrupted
				res.StillFailed = res.Attempted - res.Fixed
				return res, nil
			}
			return res, fmt.Errorf("repair batch %d: %w", n+1, err)
		}
		for _, o := range outcomes {
			if o.OK() {
				entries[o.Item.Index-1] = o.Entry
				res.Fixed++
			}
		}
		if err := store.Save(entries); err != nil {
			return res, err
		}
	}

	if err := store.Publish(entries); err != nil {
		return res, err
	}
	res.StillFailed = res.Attempted - res.Fixed
	res.Status = StatusSuccess
	logger.Info("Repair complete", "fixed", res.Fixed, "still_failed", res.StillFailed)
	return res, nil
}
