package apperrors

import (
	"errors"
	"net/http"
	"strings"
)

type Kind string

const (
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindBadRequest Kind = "bad_request"
)

// Error is a classified translation backend failure.
type Error struct {
	Kind Kind
	// SafeMessage is intended for user-facing output and logs.
	// It must never contain the translated text or credentials.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindTransient:
		return "Translation backend is temporarily unavailable."
	case KindRateLimit:
		return "Translation backend rate limit exceeded."
	case KindAuth:
		return "Translation backend rejected the credentials."
	case KindValidation:
		return "Translation backend returned an unusable result."
	case KindBadRequest:
		return "Translation request rejected by backend."
	default:
		return "Translation request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

func Transient(err error) error {
	return New(KindTransient, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Auth(err error) error {
	return New(KindAuth, "", err)
}

func Validation(err error) error {
	return New(KindValidation, "", err)
}

func BadRequest(err error) error {
	return New(KindBadRequest, "", err)
}

// FromStatus classifies an HTTP status code returned by a backend.
func FromStatus(status int, cause error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return RateLimit(cause)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Auth(cause)
	case status == http.StatusRequestTimeout || status >= 500:
		return Transient(cause)
	case status >= 400:
		return BadRequest(cause)
	default:
		return Transient(cause)
	}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	// Validation: an empty or garbled translation may succeed on a second call.
	return e.Kind == KindTransient || e.Kind == KindRateLimit || e.Kind == KindValidation
}

func IsRateLimit(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindRateLimit
}
