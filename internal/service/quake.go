package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tsunami_usgs/internal/logger"
	"tsunami_usgs/internal/metrics"
	"tsunami_usgs/internal/models"
	"tsunami_usgs/internal/quake"
	"tsunami_usgs/internal/repository"
	"tsunami_usgs/internal/usgs"
)

const recordTimeout = 2 * time.Second

// ErrPipelinePanic is returned when the background run panicked.
var ErrPipelinePanic = errors.New("quake pipeline panicked")

// Feed is the source of the raw GeoJSON text.
type Feed interface {
	Fetch(ctx context.Context) (string, error)
	URL() string
}

// Result carries either a complete event (Err == nil) or the reason there is none.
type Result struct {
	Event models.EarthquakeEvent
	Err   error
}

// Found reports whether the result holds an event.
func (r Result) Found() bool { return r.Err == nil }

type QuakeService struct {
	feed     Feed
	attempts repository.AttemptRepo
	log      *logger.Logger
}

func NewQuakeService(feed Feed, attempts repository.AttemptRepo, log *logger.Logger) *QuakeService {
	return &QuakeService{feed: feed, attempts: attempts, log: log}
}

// Run fetches the feed once and extracts the first event. It never panics and
// never returns a partial event.
func (s *QuakeService) Run(ctx context.Context) Result {
	start := time.Now()
	body, err := s.feed.Fetch(ctx)
	elapsed := time.Since(start)
	metrics.FetchDuration.Observe(float64(elapsed.Milliseconds()))

	var ev models.EarthquakeEvent
	if err == nil {
		metrics.ResponseBytes.Observe(float64(len(body)))
		ev, err = quake.Extract(body)
	}

	outcome := outcomeOf(err)
	metrics.FetchAttempts.WithLabelValues(outcome).Inc()

	meta := map[string]any{
		"url":         s.feed.URL(),
		"duration_ms": elapsed.Milliseconds(),
		"bytes":       len(body),
	}
	desc := "event found"
	if err != nil {
		desc = err.Error()
		if s.log != nil {
			s.log.Warnw("quake_fetch_failed", "outcome", outcome, "err", err, "duration_ms", elapsed.Milliseconds())
		}
	} else if s.log != nil {
		s.log.Infow("quake_event_found", "title", ev.Title(), "time_ms", ev.OccurredAtMillis(), "tsunami", ev.TsunamiAlert())
	}
	s.record(ctx, models.FetchAttempt{Outcome: outcome, Description: desc, Metadata: meta})

	if err != nil {
		return Result{Err: err}
	}
	return Result{Event: ev}
}

// Start runs the pipeline in its own goroutine. The channel yields exactly
// one Result and is then closed.
func (s *QuakeService) Start(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		defer func() {
			if r := recover(); r != nil {
				if s.log != nil {
					s.log.Errorw("quake_pipeline_panic", "panic", r)
				}
				out <- Result{Err: fmt.Errorf("%w: %v", ErrPipelinePanic, r)}
			}
		}()
		out <- s.Run(ctx)
	}()
	return out
}

// record stores the attempt; failures only reach the log.
func (s *QuakeService) record(ctx context.Context, a models.FetchAttempt) {
	if s.attempts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.attempts.Append(ctx, a); err != nil && s.log != nil {
		s.log.Errorw("record_attempt_failed", "outcome", a.Outcome, "err", err)
	}
}

// Present waits for the single pipeline result and calls render when it holds
// an event. It reports whether render ran.
func Present(ctx context.Context, results <-chan Result, render func(models.EarthquakeEvent)) bool {
	select {
	case <-ctx.Done():
		return false
	case r, ok := <-results:
		if !ok || !r.Found() {
			return false
		}
		render(r.Event)
		return true
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return models.OutcomeDisplayed
	case errors.Is(err, usgs.ErrMalformedURL):
		return models.OutcomeMalformedURL
	case errors.Is(err, usgs.ErrTimeout):
		return models.OutcomeTimeout
	case errors.Is(err, usgs.ErrStatus):
		return models.OutcomeHTTPStatus
	case errors.Is(err, quake.ErrEmptyResult):
		return models.OutcomeEmptyResult
	case errors.Is(err, quake.ErrMissingField):
		return models.OutcomeMissingField
	case errors.Is(err, quake.ErrInvalidJSON), errors.Is(err, quake.ErrNoFeatures):
		return models.OutcomeParseError
	default:
		return models.OutcomeTransportError
	}
}
