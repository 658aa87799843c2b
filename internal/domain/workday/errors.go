package workday

import "errors"

// Workday domain errors
var (
	// Lifecycle errors
	ErrWorkdayAlreadyExists = errors.New("a workday already exists for this date")
	ErrWorkdayNotActive     = errors.New("workday is not active")
	ErrWorkdayNotPaused     = errors.New("workday is not paused")
	ErrWorkdayFinalized     = errors.New("workday has already been finalized")
	ErrPauseAlreadyUsed     = errors.New("the pause for this workday has already been taken")

	// General errors
	ErrWorkdayNotFound = errors.New("workday not found")
	ErrInvalidAction   = errors.New("invalid workday action")
	ErrUserIDRequired  = errors.New("user_id claim is missing or invalid")
)
