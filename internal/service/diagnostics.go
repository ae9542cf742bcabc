package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tsunami_usgs/internal/models"
	"tsunami_usgs/internal/repository"
)

type DiagnosticsService struct {
	attempts repository.AttemptRepo
}

func NewDiagnosticsService(attempts repository.AttemptRepo) *DiagnosticsService {
	return &DiagnosticsService{attempts: attempts}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errUnknownOutcome   = errors.New("unknown outcome")
)

var knownOutcomes = map[string]struct{}{
	models.OutcomeDisplayed:      {},
	models.OutcomeTransportError: {},
	models.OutcomeTimeout:        {},
	models.OutcomeMalformedURL:   {},
	models.OutcomeHTTPStatus:     {},
	models.OutcomeParseError:     {},
	models.OutcomeEmptyResult:    {},
	models.OutcomeMissingField:   {},
}

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeOutcome(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

func normalizeAndValidateFilter(f DiagnosticFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	outcome := normalizeOutcome(f.Outcome)
	if _, ok := knownOutcomes[outcome]; outcome != "" && !ok {
		return time.Time{}, time.Time{}, "", errUnknownOutcome
	}
	return from, to, outcome, nil
}

// IsFilterError reports whether err came from rejecting a DiagnosticFilter.
func IsFilterError(err error) bool {
	return errors.Is(err, errInvalidTimeRange) || errors.Is(err, errUnknownOutcome)
}

func (s *DiagnosticsService) List(ctx context.Context, f DiagnosticFilter) ([]models.FetchAttempt, error) {
	from, to, outcome, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.attempts.List(ctx, from, to, outcome)
}
