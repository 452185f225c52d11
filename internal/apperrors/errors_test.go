package apperrors

import (
	"errors"
	"testing"
)

func TestPublicMessage_UsesSafeMessage(t *testing.T) {
	sentinel := errors.New("SECRET_VALUE")
	err := New(KindAuth, "safe auth error", sentinel)
	if got := PublicMessage(err); got != "safe auth error" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "safe auth error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped cause to be retained for internal matching")
	}
}

func TestKindOfAndRetryable(t *testing.T) {
	err := New(KindRateLimit, "", errors.New("boom"))
	kind, ok := KindOf(err)
	if !ok || kind != KindRateLimit {
		t.Fatalf("KindOf() = (%q, %v), want (%q, true)", kind, ok, KindRateLimit)
	}
	if !IsRetryable(err) {
		t.Fatalf("expected rate_limit error to be retryable")
	}
}

func TestPublicMessage_NonAppError(t *testing.T) {
	err := errors.New("plain")
	if got := PublicMessage(err); got != "plain" {
		t.Fatalf("PublicMessage() = %q, want %q", got, "plain")
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{429, KindRateLimit},
		{401, KindAuth},
		{403, KindAuth},
		{408, KindTransient},
		{500, KindTransient},
		{503, KindTransient},
		{400, KindBadRequest},
		{404, KindBadRequest},
	}
	for _, tt := range tests {
		kind, ok := KindOf(FromStatus(tt.status, errors.New("x")))
		if !ok || kind != tt.want {
			t.Errorf("FromStatus(%d) kind = %q, want %q", tt.status, kind, tt.want)
		}
	}
}

func TestIsRetryable_AuthAndPlain(t *testing.T) {
	if IsRetryable(Auth(errors.New("denied"))) {
		t.Fatalf("auth errors must not be retried")
	}
	if IsRetryable(errors.New("plain")) {
		t.Fatalf("unclassified errors must not be retried")
	}
	if !IsRetryable(Validation(errors.New("empty"))) {
		t.Fatalf("validation errors should be retried")
	}
}
