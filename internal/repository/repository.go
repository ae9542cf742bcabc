package repository

import (
	"context"
	"database/sql"
	"time"

	"tsunami_usgs/internal/models"
)

// OperatorRepo stores diagnostics operators. GetByUsername returns
// (nil, nil) for an unknown name.
type OperatorRepo interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
}

// AttemptRepo stores the diagnostic trail of feed runs.
type AttemptRepo interface {
	Append(ctx context.Context, a models.FetchAttempt) error
	List(ctx context.Context, from, to time.Time, outcome string) ([]models.FetchAttempt, error)
}

type Repository struct {
	AttemptRepo  AttemptRepo
	OperatorRepo OperatorRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		AttemptRepo:  NewAttemptSQLite(db),
		OperatorRepo: NewOperatorSQLite(db),
	}
}
