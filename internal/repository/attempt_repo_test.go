package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"tsunami_usgs/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMockAttempts(t *testing.T) (*AttemptSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("mock expectations: %v", err)
		}
		_ = db.Close()
	})
	return NewAttemptSQLite(db), mock
}

var attemptCols = []string{"id", "occurred_at", "outcome", "message", "meta"}

func TestAttemptAppend_FillsDefaults(t *testing.T) {
	t.Parallel()

	repo, mock := newMockAttempts(t)

	mock.ExpectExec(regexp.QuoteMeta(insertAttemptSQL)).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "TIMEOUT", "read timeout", `{"url":"u"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(testCtx(t), models.FetchAttempt{
		Outcome:     " timeout ",
		Description: "read timeout",
		Metadata:    map[string]string{"url": "u"},
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAttemptAppend_KeepsIDAndNormalizesTime(t *testing.T) {
	t.Parallel()

	repo, mock := newMockAttempts(t)
	at := time.Date(2012, 1, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))

	mock.ExpectExec(regexp.QuoteMeta(insertAttemptSQL)).
		WithArgs("fixed-id", at.UTC(), "DISPLAYED", "ok", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Append(testCtx(t), models.FetchAttempt{
		EventID:     "fixed-id",
		OccurredAt:  at,
		Outcome:     models.OutcomeDisplayed,
		Description: "ok",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestAttemptAppend_DBError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockAttempts(t)
	mock.ExpectExec("INSERT INTO fetch_attempts").WillReturnError(errors.New("disk full"))

	err := repo.Append(testCtx(t), models.FetchAttempt{Outcome: "PARSE_ERROR"})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestAttemptList_NoFilters(t *testing.T) {
	t.Parallel()

	repo, mock := newMockAttempts(t)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	js, _ := json.Marshal(map[string]any{"bytes": 15.0})

	rows := sqlmock.NewRows(attemptCols).
		AddRow("1", now, "EMPTY_RESULT", "no features", string(js)).
		AddRow("2", now.Add(time.Minute), "DISPLAYED", "ok", nil).
		AddRow("3", now.Add(2*time.Minute), "DISPLAYED", "ok", "{broken")

	mock.ExpectQuery(regexp.QuoteMeta(selectAttemptsSQL + " ORDER BY occurred_at ASC")).
		WillReturnRows(rows)

	got, err := repo.List(testCtx(t), time.Time{}, time.Time{}, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	b, _ := json.Marshal(got[0].Metadata)
	if string(b) != string(js) {
		t.Fatalf("metadata mismatch: %s vs %s", b, js)
	}
	if got[1].Metadata != nil {
		t.Fatalf("expected nil meta, got %#v", got[1].Metadata)
	}
	if got[2].Metadata != "{broken" {
		t.Fatalf("malformed meta should be kept raw, got %#v", got[2].Metadata)
	}
}

func TestAttemptList_WithFilters(t *testing.T) {
	t.Parallel()

	repo, mock := newMockAttempts(t)
	from := time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	q := selectAttemptsSQL + " WHERE occurred_at >= ? AND occurred_at <= ? AND outcome = ? ORDER BY occurred_at ASC"
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs(from, to, "TIMEOUT").
		WillReturnRows(sqlmock.NewRows(attemptCols).AddRow("9", from, "TIMEOUT", "t", nil))

	got, err := repo.List(testCtx(t), from, to, " timeout")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].EventID != "9" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestAttemptList_ScanError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockAttempts(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectAttemptsSQL)).
		WillReturnRows(sqlmock.NewRows(attemptCols).AddRow("x", 123, "DISPLAYED", "m", nil))

	if _, err := repo.List(testCtx(t), time.Time{}, time.Time{}, ""); err == nil {
		t.Fatal("expected scan error, got nil")
	}
}
