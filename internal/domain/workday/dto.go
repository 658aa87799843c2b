package workday

import (
	"strings"

	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

// ========================================
// WORKDAY DTOs
// ========================================

const (
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionFinish = "finish"

	maxNotesLength = 500
)

var validActions = []string{ActionPause, ActionResume, ActionFinish}

type StartWorkdayRequest struct {
	Date  *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Notes *string `json:"notes,omitempty"`
}

func (r *StartWorkdayRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Notes != nil && len(*r.Notes) > maxNotesLength {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateWorkdayRequest either drives a lifecycle transition (Action) or
// corrects fields by hand. Timestamps are RFC3339.
type UpdateWorkdayRequest struct {
	ID        string                 `json:"-"`
	Action    *string                `json:"action,omitempty"` // pause, resume, finish
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Notes     *string                `json:"notes,omitempty"`
	StartedAt *string                `json:"started_at,omitempty"`
	PausedAt  *string                `json:"paused_at,omitempty"`
	ResumedAt *string                `json:"resumed_at,omitempty"`
	EndedAt   *string                `json:"ended_at,omitempty"`
}

func (r *UpdateWorkdayRequest) hasFieldUpdates() bool {
	return r.Notes != nil || r.StartedAt != nil || r.PausedAt != nil || r.ResumedAt != nil || r.EndedAt != nil
}

func (r *UpdateWorkdayRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Action == nil && !r.hasFieldUpdates() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "either action or a field update is required",
		})
	}
	if r.Action != nil && r.hasFieldUpdates() {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action cannot be combined with field updates",
		})
	}

	if r.Action != nil {
		action := strings.ToLower(strings.TrimSpace(*r.Action))
		if !validator.IsInSlice(action, validActions) {
			errs = append(errs, validator.ValidationError{
				Field:   "action",
				Message: "action must be one of: pause, resume, finish",
			})
		}
		r.Action = &action
	}

	if r.Notes != nil && len(*r.Notes) > maxNotesLength {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}

	timestamps := []struct {
		field string
		value *string
	}{
		{"started_at", r.StartedAt},
		{"paused_at", r.PausedAt},
		{"resumed_at", r.ResumedAt},
		{"ended_at", r.EndedAt},
	}
	for _, ts := range timestamps {
		if ts.value == nil || *ts.value == "" {
			continue
		}
		if _, valid := validator.IsValidDateTime(*ts.value); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   ts.field,
				Message: ts.field + " must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordEventRequest struct {
	WorkdayID string                 `json:"-"`
	Type      string                 `json:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

func (r *RecordEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.Type, ValidEventTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: start, pause, resume, finish",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type WorkdayResponse struct {
	ID            string  `json:"id"`
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	StartedAt     *string `json:"started_at"`
	PausedAt      *string `json:"paused_at"`
	ResumedAt     *string `json:"resumed_at"`
	EndedAt       *string `json:"ended_at"`
	Status        string  `json:"status"`
	WorkedSeconds int64   `json:"worked_seconds"`
	PauseSeconds  int64   `json:"pause_seconds"`
	WorkedTime    string  `json:"worked_time"`
	Notes         *string `json:"notes"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// LiveResponse is the view refreshed once per second while a workday is open.
type LiveResponse struct {
	WorkdayID        string `json:"workday_id"`
	Status           string `json:"status"`
	WorkedSeconds    int64  `json:"worked_seconds"`
	PauseSeconds     int64  `json:"pause_seconds"`
	WorkedClock      string `json:"worked_clock"`
	PauseClock       string `json:"pause_clock"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	LongPause        bool   `json:"long_pause"`
	EvaluatedAt      string `json:"evaluated_at"`
}

type EventResponse struct {
	ID         string                 `json:"id"`
	WorkdayID  string                 `json:"workday_id"`
	Type       string                 `json:"type"`
	OccurredAt string                 `json:"occurred_at"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  string                 `json:"created_at"`
}

type WorkdayFilter struct {
	// Search & Filter
	From   *string `json:"from,omitempty"` // YYYY-MM-DD
	To     *string `json:"to,omitempty"`   // YYYY-MM-DD
	Status *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, started_at, ended_at, worked_seconds
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *WorkdayFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		validStatuses := []string{string(StatusActive), string(StatusPaused), string(StatusFinalized)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: active, paused, finalized",
			})
		}
	}

	var fromOK, toOK bool
	var from, to validator.Date
	if f.From != nil && *f.From != "" {
		d, err := validator.ParseDate(*f.From)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
		from, fromOK = d, err == nil
	}
	if f.To != nil && *f.To != "" {
		d, err := validator.ParseDate(*f.To)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
		to, toOK = d, err == nil
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "started_at", "ended_at", "worked_seconds"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, started_at, ended_at, worked_seconds",
			})
		}
	} else {
		f.SortBy = "date"
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // newest first
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListWorkdayResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Showing    string            `json:"showing"`
	Workdays   []WorkdayResponse `json:"workdays"`
}
