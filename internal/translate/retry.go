package translate

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/oukeidos/vocabx/internal/apperrors"
	"github.com/oukeidos/vocabx/internal/logger"
)

// Backoff parameters for retried calls.
var (
	retryBase   = 1 * time.Second
	retryMax    = 20 * time.Second
	retryJitter = 1 * time.Second
)

// MaxRetryAttempts caps the attempts WithRetry makes per call.
const MaxRetryAttempts = 10

type retrying struct {
	next        Translator
	maxAttempts int
}

// WithRetry retries retryable backend errors with exponential backoff and
// jitter. Rate limit errors back off twice as long. Cancellation is never
// retried. maxAttempts above MaxRetryAttempts is clamped.
func WithRetry(tr Translator, maxAttempts int) Translator {
	if maxAttempts <= 1 {
		return tr
	}
	if maxAttempts > MaxRetryAttempts {
		maxAttempts = MaxRetryAttempts
	}
	return &retrying{next: tr, maxAttempts: maxAttempts}
}

func (r *retrying) Translate(ctx context.Context, text, source, target string) (string, error) {
	var (
		out string
		err error
	)
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		out, err = r.next.Translate(ctx, text, source, target)
		if err == nil {
			return out, nil
		}
		retry, backoff := retryDecision(ctx, err, attempt, r.maxAttempts)
		if !retry {
			break
		}
		logger.Debug("Retrying translation", "word", text, "attempt", attempt, "backoff", backoff, "error", apperrors.PublicMessage(err))
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", err
}

func retryDecision(ctx context.Context, err error, attempt, maxAttempts int) (bool, time.Duration) {
	if err == nil {
		return false, 0
	}
	if attempt >= maxAttempts {
		return false, 0
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return false, 0
	}
	if !apperrors.IsRetryable(err) {
		return false, 0
	}

	backoff := retryBase
	if apperrors.IsRateLimit(err) {
		backoff *= 2
	}
	for i := 1; i < attempt && backoff < retryMax; i++ {
		backoff *= 2
	}
	if backoff > retryMax {
		backoff = retryMax
	}
	var jitter time.Duration
	if retryJitter > 0 {
		jitter = time.Duration(rand.Int63n(int64(retryJitter)))
	}
	return true, backoff + jitter
}
