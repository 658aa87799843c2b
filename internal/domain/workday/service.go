package workday

import (
	"context"
)

// WorkdayService drives the workday lifecycle for the authenticated user
type WorkdayService interface {
	// Start opens the workday for the requested date (default today)
	Start(ctx context.Context, req StartWorkdayRequest) (WorkdayResponse, error)

	// Pause, Resume and Finish apply a single state transition
	Pause(ctx context.Context, id string, metadata map[string]interface{}) (WorkdayResponse, error)
	Resume(ctx context.Context, id string, metadata map[string]interface{}) (WorkdayResponse, error)
	Finish(ctx context.Context, id string, metadata map[string]interface{}) (WorkdayResponse, error)

	// Update dispatches on req.Action or applies manual corrections
	Update(ctx context.Context, req UpdateWorkdayRequest) (WorkdayResponse, error)

	// Today returns nil when no workday exists for today
	Today(ctx context.Context) (*WorkdayResponse, error)

	Get(ctx context.Context, id string) (WorkdayResponse, error)
	List(ctx context.Context, filter WorkdayFilter) (ListWorkdayResponse, error)
	Delete(ctx context.Context, id string) error

	// Live computes the elapsed view from one consistent read of the record
	Live(ctx context.Context, id string) (LiveResponse, error)

	Events(ctx context.Context, id string) ([]EventResponse, error)
	RecordEvent(ctx context.Context, req RecordEventRequest) (EventResponse, error)
}
