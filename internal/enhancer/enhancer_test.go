package enhancer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oukeidos/vocabx/internal/apperrors"
	"github.com/oukeidos/vocabx/internal/catalog"
	"github.com/oukeidos/vocabx/internal/translate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var route = Route{Source: "it", Intermediate: "en", Target: "zh"}

func items(words ...string) []catalog.Item {
	recs := make([]catalog.Record, len(words))
	for i, w := range words {
		recs[i] = catalog.Record{SourceWord: w, Gloss: "gloss " + w}
	}
	return catalog.Items(recs, 0, len(words))
}

func TestProcessBatch_Success(t *testing.T) {
	mock := &translate.Mock{}
	p := New(mock, route, WithWorkers(2))

	recs := []catalog.Record{
		{SourceWord: "casa", Gloss: "house", Frequency: 12.5, HasFrequency: true, Rank: 9, HasRank: true},
		{SourceWord: "cane", Gloss: "dog"},
	}
	out, err := p.ProcessBatch(context.Background(), catalog.Items(recs, 40, 100))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.True(t, out[0].OK())
	assert.Equal(t, catalog.Entry{
		SourceWord: "casa", Gloss: "house",
		Primary: "en:casa", Secondary: "zh:en:casa",
		Frequency: 12.5, Rank: 9,
	}, out[0].Entry)

	// Missing frequency and rank default to 0 and the global index.
	assert.Equal(t, 0.0, out[1].Entry.Frequency)
	assert.Equal(t, 42, out[1].Entry.Rank)
	assert.Equal(t, 4, mock.CallCount())
}

// A waits for C to finish and B waits for A, so records complete in the
// order C, A, B while the results must still come back as A, B, C.
func TestProcessBatch_PreservesInputOrder(t *testing.T) {
	aDone := make(chan struct{})
	cDone := make(chan struct{})
	var closeA, closeC sync.Once

	wait := func(ch chan struct{}) error {
		select {
		case <-ch:
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("gate timed out")
		}
	}
	mock := &translate.Mock{Fn: func(_ context.Context, text, _, target string) (string, error) {
		if target == "en" {
			switch text {
			case "A":
				if err := wait(cDone); err != nil {
					return "", err
				}
			case "B":
				if err := wait(aDone); err != nil {
					return "", err
				}
			}
		}
		return target + ":" + text, nil
	}}

	var mu sync.Mutex
	var completed []string
	p := New(mock, route, WithWorkers(3), WithOnRecord(func(o Outcome) {
		mu.Lock()
		completed = append(completed, o.Item.SourceWord)
		mu.Unlock()
		switch o.Item.SourceWord {
		case "A":
			closeA.Do(func() { close(aDone) })
		case "C":
			closeC.Do(func() { close(cDone) })
		}
	}))

	out, err := p.ProcessBatch(context.Background(), items("A", "B", "C"))
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B"}, completed)
	require.Len(t, out, 3)
	for i, w := range []string{"A", "B", "C"} {
		assert.Equal(t, w, out[i].Entry.SourceWord)
		assert.Equal(t, i+1, out[i].Item.Index)
		assert.True(t, out[i].OK(), "record %s failed: %v", w, out[i].Failure)
	}
}

func TestProcessBatch_FailureIsolation(t *testing.T) {
	mock := &translate.Mock{Fn: func(_ context.Context, text, _, target string) (string, error) {
		switch {
		case text == "rotto":
			return "", apperrors.BadRequest(errors.New("400"))
		case text == "en:mezzo" && target == "zh":
			return "", apperrors.Transient(errors.New("503"))
		}
		return target + ":" + text, nil
	}}
	p := New(mock, route, WithWorkers(2))

	out, err := p.ProcessBatch(context.Background(), items("uno", "rotto", "mezzo", "quattro"))
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.True(t, out[0].OK())
	assert.True(t, out[3].OK())

	require.NotNil(t, out[1].Failure)
	assert.Equal(t, StagePrimary, out[1].Failure.Stage)
	assert.Empty(t, out[1].Entry.Primary)
	assert.Empty(t, out[1].Entry.Secondary)
	assert.Equal(t, "gloss rotto", out[1].Entry.Gloss)

	require.NotNil(t, out[2].Failure)
	assert.Equal(t, StageSecondary, out[2].Failure.Stage)
	assert.Equal(t, "en:mezzo", out[2].Entry.Primary)
	assert.Empty(t, out[2].Entry.Secondary)
	assert.Contains(t, out[2].Failure.Error(), "secondary translation failed")
}

func TestProcessBatch_EmptyWordSkipsBackend(t *testing.T) {
	mock := &translate.Mock{}
	out, err := New(mock, route).ProcessBatch(context.Background(), items("  "))
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Failure)
	assert.ErrorIs(t, out[0].Failure, ErrEmptyWord)
	assert.Equal(t, 0, mock.CallCount())
}

func TestProcessBatch_CallTimeoutIsRecordFailure(t *testing.T) {
	mock := &translate.Mock{Fn: func(ctx context.Context, text, _, target string) (string, error) {
		if text == "lento" {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return target + ":" + text, nil
	}}
	p := New(mock, route, WithWorkers(2), WithCallTimeout(20*time.Millisecond))

	out, err := p.ProcessBatch(context.Background(), items("lento", "veloce"))
	require.NoError(t, err)
	require.NotNil(t, out[0].Failure)
	assert.ErrorIs(t, out[0].Failure, context.DeadlineExceeded)
	assert.True(t, out[1].OK())
}

func TestProcessBatch_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := &translate.Mock{}

	out, err := New(mock, route).ProcessBatch(ctx, items("a", "b"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
	assert.Equal(t, 0, mock.CallCount())
}

func TestProcessBatch_CanceledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls atomic.Int32
	mock := &translate.Mock{Fn: func(ctx context.Context, text, _, target string) (string, error) {
		if calls.Add(1) == 3 {
			cancel()
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return target + ":" + text, nil
	}}

	out, err := New(mock, route, WithWorkers(1)).ProcessBatch(ctx, items("a", "b", "c", "d", "e"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
	// The single worker stops picking up records once canceled.
	assert.LessOrEqual(t, int(calls.Load()), 4)
}

func TestProcessBatch_WorkerBound(t *testing.T) {
	var inFlight, peak atomic.Int32
	mock := &translate.Mock{Fn: func(_ context.Context, text, _, target string) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return target + ":" + text, nil
	}}

	words := make([]string, 40)
	for i := range words {
		words[i] = "w"
	}
	out, err := New(mock, route, WithWorkers(3)).ProcessBatch(context.Background(), items(words...))
	require.NoError(t, err)
	assert.Len(t, out, 40)
	assert.LessOrEqual(t, int(peak.Load()), 3)
}

func TestWithWorkers_Clamped(t *testing.T) {
	assert.Equal(t, 1, New(nil, route, WithWorkers(0)).Workers())
	assert.Equal(t, MaxWorkers, New(nil, route, WithWorkers(100)).Workers())
	assert.Equal(t, DefaultWorkers(), New(nil, route).Workers())
}

func TestProcessBatch_Empty(t *testing.T) {
	out, err := New(&translate.Mock{}, route).ProcessBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
