package gemini

import (
	"errors"
	"fmt"

	"github.com/oukeidos/vocabx/internal/apperrors"
	"google.golang.org/api/googleapi"
)

func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("gemini generate content failed: %w", err)

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		// DNS, socket and stream failures are usually transient.
		return apperrors.New(apperrors.KindTransient, "Gemini request failed due to a temporary network error.", wrapped)
	}
	switch gerr.Code {
	case 404:
		return apperrors.New(apperrors.KindBadRequest, "Gemini model not found or no access (404).", wrapped)
	case 400:
		return apperrors.New(apperrors.KindBadRequest, "Gemini request rejected (400).", wrapped)
	case 401, 403:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("Gemini authentication failed (%d).", gerr.Code), wrapped)
	case 429:
		return apperrors.New(apperrors.KindRateLimit, "Gemini rate limit exceeded (429).", wrapped)
	}
	classified := apperrors.FromStatus(gerr.Code, wrapped)
	kind, _ := apperrors.KindOf(classified)
	return apperrors.New(kind, fmt.Sprintf("Gemini API error (%d).", gerr.Code), wrapped)
}
