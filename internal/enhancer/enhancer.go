// Package enhancer translates one batch of catalog records on a bounded pool
// of workers and returns the enhanced entries in input order.
package enhancer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/oukeidos/vocabx/internal/apperrors"
	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/logger"
	"github.com/oukeidos/vocabx/internal/translate"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultCallTimeout = 2 * time.Minute
	DefaultSampleEvery = 50
	MaxWorkers         = 16
)

// ErrEmptyWord marks a record without a source word.
var ErrEmptyWord = errors.New("record has no source word")

// DefaultWorkers is min(4, GOMAXPROCS).
func DefaultWorkers() int {
	return min(4, runtime.GOMAXPROCS(0))
}

// Route is the translation chain: Source -> Intermediate -> Target.
type Route struct {
	Source       string
	Intermediate string
	Target       string
}

func (r Route) String() string {
	return r.Source + "->" + r.Intermediate + "->" + r.Target
}

type Stage int

const (
	StagePrimary Stage = iota + 1
	StageSecondary
)

func (s Stage) String() string {
	switch s {
	case StagePrimary:
		return "primary"
	case StageSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Failure records which step of a record's chain failed.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s translation failed: %s", f.Stage, apperrors.PublicMessage(f.Err))
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome is the result for one record. Entry is always populated; on
// failure the translations that could not be computed are empty.
type Outcome struct {
	Item    catalog.Item
	Entry   catalog.Entry
	Failure *Failure
}

func (o Outcome) OK() bool { return o.Failure == nil }

type Option func(*Pool)

// WithWorkers sets the number of concurrent workers, clamped to 1..MaxWorkers.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		p.workers = max(1, min(n, MaxWorkers))
	}
}

// WithCallTimeout bounds every single backend call. Zero disables it.
func WithCallTimeout(d time.Duration) Option {
	return func(p *Pool) { p.callTimeout = d }
}

// WithSampleEvery logs one record in n (by global index). Zero disables it.
func WithSampleEvery(n int) Option {
	return func(p *Pool) { p.sampleEvery = n }
}

// WithOnRecord registers a hook called from worker goroutines after each
// record finishes. It must be safe for concurrent use.
func WithOnRecord(fn func(Outcome)) Option {
	return func(p *Pool) { p.onRecord = fn }
}

// Pool fans a batch out to its workers. A Pool is stateless between batches
// and may be reused.
type Pool struct {
	tr          translate.Translator
	route       Route
	workers     int
	callTimeout time.Duration
	sampleEvery int
	onRecord    func(Outcome)
}

func New(tr translate.Translator, route Route, opts ...Option) *Pool {
	p := &Pool{
		tr:          tr,
		route:       route,
		workers:     DefaultWorkers(),
		callTimeout: DefaultCallTimeout,
		sampleEvery: DefaultSampleEvery,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pool) Workers() int { return p.workers }

// ProcessBatch translates every item of batch and returns one Outcome per
// item in input order. Record failures are reported in the outcomes and
// never abort the batch. If ctx is canceled while the batch runs, the
// partial results are dropped and ctx.Err() is returned.
func (p *Pool) ProcessBatch(ctx context.Context, batch []catalog.Item) ([]Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]Outcome, len(batch))
	jobs := make(chan int, len(batch))
	for i := range batch {
		jobs <- i
	}
	close(jobs)

	var g errgroup.Group
	for w := 0; w < min(p.workers, len(batch)); w++ {
		g.Go(func() error {
			for i := range jobs {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				// Each worker owns slot i exclusively.
				results[i] = p.processRecord(ctx, batch[i])
				if p.onRecord != nil {
					p.onRecord(results[i])
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pool) processRecord(ctx context.Context, item catalog.Item) Outcome {
	out := Outcome{
		Item: item,
		Entry: catalog.Entry{
			SourceWord: item.SourceWord,
			Gloss:      item.Gloss,
			Rank:       item.Index,
		},
	}
	if item.HasFrequency {
		out.Entry.Frequency = item.Frequency
	}
	if item.HasRank {
		out.Entry.Rank = item.Rank
	}

	word := strings.TrimSpace(item.SourceWord)
	if word == "" {
		out.Failure = &Failure{Stage: StagePrimary, Err: ErrEmptyWord}
		logger.Warn("Skipping record without source word", "index", item.Index)
		return out
	}

	primary, err := p.call(ctx, word, p.route.Source, p.route.Intermediate)
	if err != nil {
		out.Failure = &Failure{Stage: StagePrimary, Err: err}
		logger.Warn("Primary translation failed", "index", item.Index, "word", word, "error", apperrors.PublicMessage(err))
		return out
	}
	out.Entry.Primary = primary

	secondary, err := p.call(ctx, primary, p.route.Intermediate, p.route.Target)
	if err != nil {
		out.Failure = &Failure{Stage: StageSecondary, Err: err}
		logger.Warn("Secondary translation failed", "index", item.Index, "word", word, "primary", primary, "error", apperrors.PublicMessage(err))
		return out
	}
	out.Entry.Secondary = secondary

	if p.sampleEvery > 0 && item.Index%p.sampleEvery == 0 {
		logger.Info("Translated", "index", item.Index, "total", item.Total, "word", word, "primary", primary, "secondary", secondary)
	}
	return out
}

func (p *Pool) call(ctx context.Context, text, source, target string) (string, error) {
	if p.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.callTimeout)
		defer cancel()
	}
	return p.tr.Translate(ctx, text, source, target)
}
