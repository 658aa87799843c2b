package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
)

type workdayEventRepository struct {
	db database.Querier
}

func NewWorkdayEventRepository(db database.Querier) workday.EventRepository {
	return &workdayEventRepository{db: db}
}

func scanEvent(row rowScanner) (workday.Event, error) {
	var e workday.Event
	var eventType string
	if err := row.Scan(&e.ID, &e.WorkdayID, &eventType, &e.OccurredAt, &e.Metadata, &e.CreatedAt); err != nil {
		return workday.Event{}, err
	}
	e.Type = workday.EventType(eventType)
	return e, nil
}

// Create implements workday.EventRepository.
func (r *workdayEventRepository) Create(ctx context.Context, event workday.Event) (workday.Event, error) {
	q := GetQuerier(ctx, r.db)

	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	query := `
		INSERT INTO workday_events (workday_id, event_type, occurred_at, metadata)
		VALUES ($1, $2, $3, $4)
		RETURNING id, workday_id, event_type, occurred_at, metadata, created_at`

	created, err := scanEvent(q.QueryRow(ctx, query,
		event.WorkdayID,
		string(event.Type),
		event.OccurredAt,
		metadata,
	))
	if err != nil {
		return workday.Event{}, fmt.Errorf("failed to create workday event: %w", err)
	}

	return created, nil
}

// ListByWorkday implements workday.EventRepository.
func (r *workdayEventRepository) ListByWorkday(ctx context.Context, workdayID string) ([]workday.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, workday_id, event_type, occurred_at, metadata, created_at
		FROM workday_events
		WHERE workday_id = $1
		ORDER BY occurred_at ASC, created_at ASC`

	rows, err := q.Query(ctx, query, workdayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workday events: %w", err)
	}
	defer rows.Close()

	events := []workday.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workday event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workday events: %w", err)
	}

	return events, nil
}
