package workday

import (
	"time"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusFinalized  Status = "finalized"
)

func (s Status) IsOpen() bool {
	return s == StatusActive || s == StatusPaused
}

type Workday struct {
	ID            string
	UserID        string
	Date          time.Time
	StartedAt     *time.Time
	PausedAt      *time.Time
	ResumedAt     *time.Time
	EndedAt       *time.Time
	Status        Status
	WorkedSeconds int64
	PauseSeconds  int64
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Snapshot projects the stored timestamps at now.
func (w Workday) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		StartedAt: w.StartedAt,
		PausedAt:  w.PausedAt,
		ResumedAt: w.ResumedAt,
		EndedAt:   w.EndedAt,
		Now:       now,
	}
}

// State derives the lifecycle state from the timestamps alone. The stored
// Status column can lag behind manual edits, the timestamps cannot.
func (w Workday) State() Status {
	switch {
	case w.StartedAt == nil:
		return StatusNotStarted
	case w.EndedAt != nil:
		return StatusFinalized
	case w.PausedAt != nil && w.ResumedAt == nil:
		return StatusPaused
	default:
		return StatusActive
	}
}

// HasUsedPause reports whether the single pause interval has been taken.
func (w Workday) HasUsedPause() bool {
	return w.PausedAt != nil && w.ResumedAt != nil
}

type EventType string

const (
	EventStart  EventType = "start"
	EventPause  EventType = "pause"
	EventResume EventType = "resume"
	EventFinish EventType = "finish"
)

var ValidEventTypes = []string{
	string(EventStart),
	string(EventPause),
	string(EventResume),
	string(EventFinish),
}

type Event struct {
	ID         string
	WorkdayID  string
	Type       EventType
	OccurredAt time.Time
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
