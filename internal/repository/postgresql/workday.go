package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

const workdayColumns = `id, user_id, date, started_at, paused_at, resumed_at, ended_at,
		       status, worked_seconds, pause_seconds, notes, created_at, updated_at`

type workdayRepository struct {
	db database.Querier
}

func NewWorkdayRepository(db database.Querier) workday.WorkdayRepository {
	return &workdayRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkday(row rowScanner) (workday.Workday, error) {
	var w workday.Workday
	var status string
	err := row.Scan(
		&w.ID, &w.UserID, &w.Date, &w.StartedAt, &w.PausedAt, &w.ResumedAt, &w.EndedAt,
		&status, &w.WorkedSeconds, &w.PauseSeconds, &w.Notes, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return workday.Workday{}, err
	}
	w.Status = workday.Status(status)
	return w, nil
}

// Create implements workday.WorkdayRepository.
func (r *workdayRepository) Create(ctx context.Context, w workday.Workday) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO workdays (user_id, date, started_at, status, worked_seconds, pause_seconds, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + workdayColumns

	created, err := scanWorkday(q.QueryRow(ctx, query,
		w.UserID,
		w.Date,
		w.StartedAt,
		string(w.Status),
		w.WorkedSeconds,
		w.PauseSeconds,
		w.Notes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return workday.Workday{}, workday.ErrWorkdayAlreadyExists
		}
		return workday.Workday{}, fmt.Errorf("failed to create workday: %w", err)
	}

	return created, nil
}

// GetByID implements workday.WorkdayRepository.
func (r *workdayRepository) GetByID(ctx context.Context, id string, userID string) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workdayColumns + `
		FROM workdays
		WHERE id = $1 AND user_id = $2`

	w, err := scanWorkday(q.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workday.Workday{}, workday.ErrWorkdayNotFound
		}
		return workday.Workday{}, fmt.Errorf("failed to get workday by ID: %w", err)
	}

	return w, nil
}

// GetByUserAndDate implements workday.WorkdayRepository.
func (r *workdayRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workdayColumns + `
		FROM workdays
		WHERE user_id = $1 AND date = $2
		LIMIT 1`

	w, err := scanWorkday(q.QueryRow(ctx, query, userID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get workday by user and date: %w", err)
	}

	return &w, nil
}

// List implements workday.WorkdayRepository.
func (r *workdayRepository) List(ctx context.Context, userID string, filter workday.WorkdayFilter) ([]workday.Workday, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.From != nil && *filter.From != "" {
		baseWhere += fmt.Sprintf(" AND date >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil && *filter.To != "" {
		baseWhere += fmt.Sprintf(" AND date <= $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM workdays WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count workdays: %w", err)
	}

	// Build ORDER BY
	orderByField := "date"
	switch filter.SortBy {
	case "started_at":
		orderByField = "started_at"
	case "ended_at":
		orderByField = "ended_at"
	case "worked_seconds":
		orderByField = "worked_seconds"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM workdays
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT $%d OFFSET $%d`,
		workdayColumns, baseWhere, orderByField, sortOrder, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query workdays: %w", err)
	}
	defer rows.Close()

	var workdays []workday.Workday
	for rows.Next() {
		w, err := scanWorkday(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan workday: %w", err)
		}
		workdays = append(workdays, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate workdays: %w", err)
	}

	return workdays, total, nil
}

// ListBetween implements workday.WorkdayRepository.
func (r *workdayRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workdayColumns + `
		FROM workdays
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	rows, err := q.Query(ctx, query, userID, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query workdays between dates: %w", err)
	}
	defer rows.Close()

	var workdays []workday.Workday
	for rows.Next() {
		w, err := scanWorkday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workday: %w", err)
		}
		workdays = append(workdays, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workdays: %w", err)
	}

	return workdays, nil
}

// Update implements workday.WorkdayRepository.
func (r *workdayRepository) Update(ctx context.Context, w workday.Workday) (workday.Workday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE workdays
		SET started_at = $1,
		    paused_at = $2,
		    resumed_at = $3,
		    ended_at = $4,
		    status = $5,
		    worked_seconds = $6,
		    pause_seconds = $7,
		    notes = $8,
		    updated_at = NOW()
		WHERE id = $9 AND user_id = $10
		RETURNING ` + workdayColumns

	updated, err := scanWorkday(q.QueryRow(ctx, query,
		w.StartedAt,
		w.PausedAt,
		w.ResumedAt,
		w.EndedAt,
		string(w.Status),
		w.WorkedSeconds,
		w.PauseSeconds,
		w.Notes,
		w.ID,
		w.UserID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workday.Workday{}, workday.ErrWorkdayNotFound
		}
		return workday.Workday{}, fmt.Errorf("failed to update workday: %w", err)
	}

	return updated, nil
}

// Delete implements workday.WorkdayRepository.
func (r *workdayRepository) Delete(ctx context.Context, id string, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM workdays WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete workday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workday.ErrWorkdayNotFound
	}

	return nil
}
