package workday

import "time"

// Snapshot is a read-only view of a workday's lifecycle timestamps at the
// instant Now. It is rebuilt from the stored record on every evaluation.
type Snapshot struct {
	StartedAt *time.Time
	PausedAt  *time.Time
	ResumedAt *time.Time
	EndedAt   *time.Time
	Now       time.Time
}

// IsPaused reports whether a pause is currently open.
func (s Snapshot) IsPaused() bool {
	return s.PausedAt != nil && s.ResumedAt == nil
}

// WorkedSeconds returns how many whole seconds of the workday count as worked.
//
// While a pause is open the result is frozen at the moment the pause began.
// A completed pause (paused and resumed) is subtracted from the elapsed time.
// Inconsistent timestamps never produce a negative result.
func WorkedSeconds(s Snapshot) int64 {
	if s.StartedAt == nil {
		return 0
	}

	if s.IsPaused() {
		return clamp(seconds(s.PausedAt.Sub(*s.StartedAt)))
	}

	end := s.Now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	worked := seconds(end.Sub(*s.StartedAt))
	if s.PausedAt != nil && s.ResumedAt != nil {
		worked -= seconds(s.ResumedAt.Sub(*s.PausedAt))
	}

	return clamp(worked)
}

// PauseSeconds returns the whole seconds spent on pause. An open pause is
// measured up to now.
func PauseSeconds(pausedAt, resumedAt *time.Time, now time.Time) int64 {
	if pausedAt == nil {
		return 0
	}

	end := now
	if resumedAt != nil {
		end = *resumedAt
	}

	return clamp(seconds(end.Sub(*pausedAt)))
}

// seconds floors d to whole seconds, rounding toward negative infinity so a
// sub-second negative skew stays negative and is clamped away.
func seconds(d time.Duration) int64 {
	s := int64(d / time.Second)
	if d < 0 && d%time.Second != 0 {
		s--
	}
	return s
}

func clamp(s int64) int64 {
	if s < 0 {
		return 0
	}
	return s
}
