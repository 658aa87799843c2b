package workday

import (
	"context"
	"time"
)

// WorkdayRepository defines data access for workday records.
// Every read and write is scoped by userID so one user can never touch
// another user's rows.
type WorkdayRepository interface {
	// Create inserts a new workday and returns it with its generated fields
	Create(ctx context.Context, workday Workday) (Workday, error)

	// GetByID returns ErrWorkdayNotFound when the row does not exist or
	// belongs to another user
	GetByID(ctx context.Context, id string, userID string) (Workday, error)

	// GetByUserAndDate returns nil, nil when the user has no workday that day
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Workday, error)

	List(ctx context.Context, userID string, filter WorkdayFilter) ([]Workday, int64, error)

	// ListBetween returns every workday with from <= date <= to, oldest first
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]Workday, error)

	// Update writes all mutable columns (last write wins)
	Update(ctx context.Context, workday Workday) (Workday, error)

	Delete(ctx context.Context, id string, userID string) error
}

type EventRepository interface {
	Create(ctx context.Context, event Event) (Event, error)
	ListByWorkday(ctx context.Context, workdayID string) ([]Event, error)
}
