package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tsunami_usgs/internal/models"

	"github.com/google/uuid"
)

type AttemptSQLite struct {
	db *sql.DB
}

func NewAttemptSQLite(db *sql.DB) *AttemptSQLite { return &AttemptSQLite{db: db} }

var _ AttemptRepo = (*AttemptSQLite)(nil)

const (
	insertAttemptSQL = `
		INSERT INTO fetch_attempts (id, occurred_at, outcome, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`
	selectAttemptsSQL = `SELECT id, occurred_at, outcome, message, meta FROM fetch_attempts`
)

// Append inserts an attempt, filling in EventID and OccurredAt when empty.
func (r *AttemptSQLite) Append(ctx context.Context, a models.FetchAttempt) error {
	if a.EventID == "" {
		a.EventID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	} else {
		a.OccurredAt = a.OccurredAt.UTC()
	}

	var metaPtr *string
	if a.Metadata != nil {
		if b, err := json.Marshal(a.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertAttemptSQL,
		a.EventID,
		a.OccurredAt,
		normalizeOutcome(a.Outcome),
		a.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert fetch attempt %s: %w", a.EventID, err)
	}
	return nil
}

// List returns attempts in [from, to] (zero bounds are open) with an optional
// outcome filter, oldest first.
func (r *AttemptSQLite) List(ctx context.Context, from, to time.Time, outcome string) ([]models.FetchAttempt, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if outcome = normalizeOutcome(outcome); outcome != "" {
		conds = append(conds, "outcome = ?")
		args = append(args, outcome)
	}

	q := selectAttemptsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select fetch attempts: %w", err)
	}
	defer rows.Close()

	out := make([]models.FetchAttempt, 0, 8)
	for rows.Next() {
		var a models.FetchAttempt
		var metaStr sql.NullString
		if err := rows.Scan(&a.EventID, &a.OccurredAt, &a.Outcome, &a.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan fetch attempt: %w", err)
		}
		a.OccurredAt = a.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				a.Metadata = v
			} else {
				a.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeOutcome(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
