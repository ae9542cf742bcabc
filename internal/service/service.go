package service

import (
	"context"

	"tsunami_usgs/internal/logger"
	"tsunami_usgs/internal/models"
	"tsunami_usgs/internal/repository"
)

// Authorization guards the diagnostics API.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	SignIn(ctx context.Context, username, password string) (Token, error)
	ParseToken(accessToken string) (int, error)
}

// Quake runs the fetch-and-parse pipeline.
type Quake interface {
	Run(ctx context.Context) Result
	Start(ctx context.Context) <-chan Result
}

// Display exposes the current screen contents to readers.
type Display interface {
	Labels() models.Labels
	Changed() <-chan struct{}
}

// Diagnostics lists recorded fetch attempts.
type Diagnostics interface {
	List(ctx context.Context, f DiagnosticFilter) ([]models.FetchAttempt, error)
}

// Service aggregates everything the HTTP layer needs.
type Service struct {
	Quake
	Display
	Diagnostics
	Authorization
}

func NewService(repos *repository.Repository, feed Feed, board Display, auth AuthOptions, log *logger.Logger) *Service {
	return &Service{
		Quake:         NewQuakeService(feed, repos.AttemptRepo, log),
		Display:       board,
		Diagnostics:   NewDiagnosticsService(repos.AttemptRepo),
		Authorization: NewAuthService(repos.OperatorRepo, auth),
	}
}
