package models

import "time"

// Outcomes recorded for a pipeline run.
const (
	OutcomeDisplayed      = "DISPLAYED"
	OutcomeTransportError = "TRANSPORT_ERROR"
	OutcomeTimeout        = "TIMEOUT"
	OutcomeMalformedURL   = "MALFORMED_URL"
	OutcomeHTTPStatus     = "HTTP_STATUS"
	OutcomeParseError     = "PARSE_ERROR"
	OutcomeEmptyResult    = "EMPTY_RESULT"
	OutcomeMissingField   = "MISSING_FIELD"
)

// FetchAttempt is a diagnostic entry for one fetch-and-parse run.
type FetchAttempt struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Outcome     string    `json:"outcome"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"` // url, duration_ms, bytes
}
