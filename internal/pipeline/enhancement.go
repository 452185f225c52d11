package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/checkpoint"
	"github.com/oukeidos/vocabx/internal/enhancer"
	"github.com/oukeidos/vocabx/internal/logger"
	"github.com/oukeidos/vocabx/internal/partition"
	"github.com/oukeidos/vocabx/internal/translate"
)

// RunEnhancement translates every record of the catalog not yet covered by
// the checkpoint, persisting progress after each batch and publishing the
// enhanced catalog to CatalogPath once all records are done.
//
// Cancellation of ctx is not an error: the run stops between batches, keeps
// the checkpoint and returns StatusInterrupted.
func RunEnhancement(ctx context.Context, cfg Config, tr translate.Translator) (res EnhancementResult, err error) {
	start := time.Now()
	cfg, notes := cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return res, fmt.Errorf("invalid configuration: %w", err)
	}

	res = EnhancementResult{
		RunID:          newRunID(),
		CheckpointPath: cfg.CheckpointPath,
		OutputPath:     cfg.CatalogPath,
	}
	defer func() { res.Duration = time.Since(start) }()
	log := logger.With("run_id", res.RunID)

	// 1. Backup
	created, err := checkpoint.EnsureBackup(cfg.CatalogPath, cfg.BackupPath)
	switch {
	case errors.Is(err, checkpoint.ErrSourceMissing):
		log.Error("Catalog not found, no backup created", "path", cfg.CatalogPath)
	case err != nil:
		return res, err
	case created:
		log.Info("Backup created", "path", cfg.BackupPath)
	default:
		log.Info("Backup already exists", "path", cfg.BackupPath)
	}

	// 2. Catalog
	records, err := catalog.Load(cfg.CatalogPath, cfg.Schema)
	if err != nil {
		return res, fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
	}
	total := len(records)
	res.Total = total

	// 3. Checkpoint
	store := checkpoint.New(cfg.CheckpointPath, cfg.CatalogPath, cfg.Schema)
	done, err := store.Load()
	if err != nil {
		return res, err
	}
	if len(done) > total {
		log.Warn("Checkpoint longer than catalog, truncating", "checkpoint", len(done), "catalog", total)
		done = done[:total]
	}
	if err := matchCheckpoint(done, records); err != nil {
		return res, err
	}
	res.Resumed = len(done)

	if len(done) >= total {
		same, err := store.PublishedEquals(done)
		if err != nil {
			return res, err
		}
		if !same {
			if err := store.Publish(done); err != nil {
				return res, err
			}
			res.Published = true
			log.Info("Published completed checkpoint", "path", cfg.CatalogPath)
		}
		log.Info("All records already enhanced", "total", total)
		res.Status = StatusAlreadyComplete
		return res, nil
	}
	if res.Resumed > 0 {
		log.Info("Resuming from checkpoint", "completed", res.Resumed, "total", total)
	}

	// 4-6. Batches
	remaining := catalog.Items(records[res.Resumed:], res.Resumed, total)
	pool := enhancer.New(tr, cfg.Route(),
		enhancer.WithWorkers(cfg.Workers),
		enhancer.WithCallTimeout(cfg.CallTimeout),
		enhancer.WithSampleEvery(cfg.SampleEvery),
		enhancer.WithOnRecord(cfg.OnRecord),
	)
	batches := partition.Count(len(remaining), cfg.BatchSize)
	log.Info("Starting enhancement",
		"route", cfg.Route().String(),
		"remaining", len(remaining),
		"batches", batches,
		"batch_size", cfg.BatchSize,
		"workers", pool.Workers(),
	)

	acc := make([]catalog.Entry, len(done), total)
	copy(acc, done)
	nextDecile := len(acc)*10/total + 1

	interrupted := false
	for n, batch := range partition.Batches(remaining, cfg.BatchSize) {
		if n > 0 && cfg.BatchPause > 0 {
			if err := sleepCtx(ctx, cfg.BatchPause); err != nil {
				interrupted = true
				break
			}
		}
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		outcomes, err := pool.ProcessBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				interrupted = true
				break
			}
			return res, fmt.Errorf("batch %d: %w", n+1, err)
		}

		failed := 0
		for _, o := range outcomes {
			acc = append(acc, o.Entry)
			if !o.OK() {
				failed++
			}
		}
		if err := store.Save(acc); err != nil {
			return res, err
		}
		res.Batches++
		res.Processed += len(outcomes)
		res.Failed += failed

		log.Info("Batch complete",
			"batch", fmt.Sprintf("%d/%d", n+1, batches),
			"completed", fmt.Sprintf("%d/%d", len(acc), total),
			"failed", failed,
		)
		nextDecile = logDeciles(log, len(acc), total, nextDecile)

		if cfg.OnProgress != nil {
			cfg.OnProgress(Progress{
				Batch:       n + 1,
				Batches:     batches,
				Completed:   len(acc),
				Total:       total,
				BatchFailed: failed,
			})
		}
	}

	// 8. Interruption
	if interrupted {
		if err := store.Save(acc); err != nil {
			return res, err
		}
		log.Warn("Enhancement interrupted, progress saved",
			"completed", len(acc),
			"total", total,
			"checkpoint", cfg.CheckpointPath,
		)
		res.Status = StatusInterrupted
		return res, nil
	}

	// 7. Publish
	if err := store.Publish(acc); err != nil {
		return res, err
	}
	res.Published = true
	res.Status = StatusSuccess
	log.Info("Enhancement complete",
		"total", total,
		"processed", res.Processed,
		"failed", res.Failed,
		"output", cfg.CatalogPath,
	)
	return res, nil
}

// logDeciles emits one line per 10% boundary crossed and returns the next
// boundary to watch for.
func logDeciles(log *slog.Logger, completed, total, next int) int {
	if total == 0 {
		return next
	}
	for ; next <= 10 && completed*10/total >= next; next++ {
		log.Info("Progress", "percent", next*10, "completed", completed, "total", total)
	}
	return next
}

// matchCheckpoint fails when the checkpoint was written for another catalog.
func matchCheckpoint(done []catalog.Entry, records []catalog.Record) error {
	for i, e := range done {
		if e.SourceWord != records[i].SourceWord {
			return fmt.Errorf("checkpoint does not match catalog at record %d (%q, catalog has %q)", i+1, e.SourceWord, records[i].SourceWord)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
