package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workdayRowColumns = []string{
	"id", "user_id", "date", "started_at", "paused_at", "resumed_at", "ended_at",
	"status", "worked_seconds", "pause_seconds", "notes", "created_at", "updated_at",
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func timePtr(t time.Time) *time.Time { return &t }

func TestWorkdayRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	started := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	notes := "early shift"

	mock.ExpectQuery(`INSERT INTO workdays`).
		WithArgs("user-1", date, &started, "active", int64(0), int64(0), &notes).
		WillReturnRows(pgxmock.NewRows(workdayRowColumns).AddRow(
			"wd-1", "user-1", date, &started, nil, nil, nil,
			"active", int64(0), int64(0), &notes, started, started,
		))

	created, err := repo.Create(context.Background(), workday.Workday{
		UserID:    "user-1",
		Date:      date,
		StartedAt: &started,
		Status:    workday.StatusActive,
		Notes:     &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "wd-1", created.ID)
	assert.Equal(t, workday.StatusActive, created.Status)
	assert.Nil(t, created.PausedAt)
	require.NotNil(t, created.Notes)
	assert.Equal(t, "early shift", *created.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkdayRepository_Create_Duplicate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	mock.ExpectQuery(`INSERT INTO workdays`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	_, err := repo.Create(context.Background(), workday.Workday{UserID: "user-1", Status: workday.StatusActive})
	assert.ErrorIs(t, err, workday.ErrWorkdayAlreadyExists)
}

func TestWorkdayRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	mock.ExpectQuery(`FROM workdays\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs("wd-404", "user-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "wd-404", "user-1")
	assert.ErrorIs(t, err, workday.ErrWorkdayNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkdayRepository_GetByUserAndDate_None(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	mock.ExpectQuery(`WHERE user_id = \$1 AND date = \$2`).
		WithArgs("user-1", "2025-03-10").
		WillReturnError(pgx.ErrNoRows)

	w, err := repo.GetByUserAndDate(context.Background(), "user-1", time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestWorkdayRepository_List_WithFilters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	from := "2025-03-01"
	status := "finalized"
	date := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	started := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	ended := started.Add(8 * time.Hour)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM workdays WHERE user_id = \$1 AND date >= \$2 AND status = \$3`).
		WithArgs("user-1", from, status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(21)))

	mock.ExpectQuery(`ORDER BY worked_seconds ASC, id ASC\s+LIMIT \$4 OFFSET \$5`).
		WithArgs("user-1", from, status, 10, 10).
		WillReturnRows(pgxmock.NewRows(workdayRowColumns).AddRow(
			"wd-1", "user-1", date, &started, nil, nil, &ended,
			"finalized", int64(28800), int64(0), nil, ended, ended,
		))

	workdays, total, err := repo.List(context.Background(), "user-1", workday.WorkdayFilter{
		From:      &from,
		Status:    &status,
		Page:      2,
		Limit:     10,
		SortBy:    "worked_seconds",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, workdays, 1)
	assert.Equal(t, int64(28800), workdays[0].WorkedSeconds)
	assert.Equal(t, workday.StatusFinalized, workdays[0].State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkdayRepository_ListBetween(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	from := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	first := time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC)
	second := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	started := time.Date(2025, 2, 26, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM workdays\s+WHERE user_id = \$1 AND date >= \$2 AND date <= \$3\s+ORDER BY date ASC`).
		WithArgs("user-1", "2025-02-24", "2025-03-31").
		WillReturnRows(pgxmock.NewRows(workdayRowColumns).
			AddRow(
				"wd-1", "user-1", first, &started, nil, nil, nil,
				"active", int64(0), int64(0), nil, started, started,
			).
			AddRow(
				"wd-2", "user-1", second, &started, nil, nil, &started,
				"finalized", int64(3600), int64(0), nil, started, started,
			))

	workdays, err := repo.ListBetween(context.Background(), "user-1", from, to)
	require.NoError(t, err)
	require.Len(t, workdays, 2)
	assert.Equal(t, "wd-1", workdays[0].ID)
	assert.Equal(t, first, workdays[0].Date)
	assert.Equal(t, "wd-2", workdays[1].ID)
	assert.Equal(t, int64(3600), workdays[1].WorkedSeconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkdayRepository_ListBetween_Errors(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	errConn := errors.New("connection reset")

	t.Run("query fails", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewWorkdayRepository(mock)

		mock.ExpectQuery(`ORDER BY date ASC`).
			WithArgs("user-1", "2025-03-01", "2025-03-31").
			WillReturnError(errConn)

		workdays, err := repo.ListBetween(context.Background(), "user-1", from, to)
		assert.Nil(t, workdays)
		assert.ErrorIs(t, err, errConn)
		assert.ErrorContains(t, err, "failed to query workdays between dates")
	})

	t.Run("iteration fails", func(t *testing.T) {
		mock := newMockPool(t)
		repo := NewWorkdayRepository(mock)

		started := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`ORDER BY date ASC`).
			WithArgs("user-1", "2025-03-01", "2025-03-31").
			WillReturnRows(pgxmock.NewRows(workdayRowColumns).
				AddRow(
					"wd-1", "user-1", started, &started, nil, nil, nil,
					"active", int64(0), int64(0), nil, started, started,
				).
				AddRow(
					"wd-2", "user-1", started, &started, nil, nil, nil,
					"active", int64(0), int64(0), nil, started, started,
				).
				RowError(1, errConn))

		_, err := repo.ListBetween(context.Background(), "user-1", from, to)
		assert.ErrorIs(t, err, errConn)
		assert.ErrorContains(t, err, "failed to iterate workdays")
	})
}

func TestWorkdayRepository_Update_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	mock.ExpectQuery(`UPDATE workdays`).WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), workday.Workday{ID: "wd-1", UserID: "user-2"})
	assert.ErrorIs(t, err, workday.ErrWorkdayNotFound)
}

func TestWorkdayRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayRepository(mock)

	mock.ExpectExec(`DELETE FROM workdays`).
		WithArgs("wd-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM workdays`).
		WithArgs("wd-1", "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), "wd-1", "user-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "wd-1", "user-1"), workday.ErrWorkdayNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkdayEventRepository_CreateAndList(t *testing.T) {
	mock := newMockPool(t)
	repo := NewWorkdayEventRepository(mock)

	occurred := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	metadata := map[string]interface{}{"source": "web"}

	mock.ExpectQuery(`INSERT INTO workday_events`).
		WithArgs("wd-1", "pause", occurred, metadata).
		WillReturnRows(pgxmock.NewRows([]string{"id", "workday_id", "event_type", "occurred_at", "metadata", "created_at"}).
			AddRow("ev-1", "wd-1", "pause", occurred, metadata, occurred))

	mock.ExpectQuery(`FROM workday_events\s+WHERE workday_id = \$1\s+ORDER BY occurred_at ASC`).
		WithArgs("wd-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "workday_id", "event_type", "occurred_at", "metadata", "created_at"}).
			AddRow("ev-0", "wd-1", "start", occurred.Add(-4*time.Hour), map[string]interface{}{}, occurred).
			AddRow("ev-1", "wd-1", "pause", occurred, metadata, occurred))

	created, err := repo.Create(context.Background(), workday.Event{
		WorkdayID:  "wd-1",
		Type:       workday.EventPause,
		OccurredAt: occurred,
		Metadata:   metadata,
	})
	require.NoError(t, err)
	assert.Equal(t, workday.EventPause, created.Type)

	events, err := repo.ListByWorkday(context.Background(), "wd-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, workday.EventStart, events[0].Type)
	assert.Equal(t, "web", events[1].Metadata["source"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
