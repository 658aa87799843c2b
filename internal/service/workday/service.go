package workday

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workday-backend-go/internal/repository/postgresql"
)

const (
	EventWorkdayUpdated = "workday.updated"
	EventWorkdayDeleted = "workday.deleted"
)

type WorkdayServiceImpl struct {
	db          database.Pool
	workdayRepo workday.WorkdayRepository
	eventRepo   workday.EventRepository
	hub         *sse.Hub

	loc                *time.Location
	standardSeconds    int64
	longPauseThreshold time.Duration
	now                func() time.Time
}

type Option func(*WorkdayServiceImpl)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *WorkdayServiceImpl) {
		s.now = now
	}
}

// WithLocation sets the timezone that decides which calendar day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *WorkdayServiceImpl) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewWorkdayService(
	db database.Pool,
	workdayRepo workday.WorkdayRepository,
	eventRepo workday.EventRepository,
	hub *sse.Hub,
	cfg config.WorkdayConfig,
	opts ...Option,
) workday.WorkdayService {
	s := &WorkdayServiceImpl{
		db:                 db,
		workdayRepo:        workdayRepo,
		eventRepo:          eventRepo,
		hub:                hub,
		loc:                time.UTC,
		standardSeconds:    cfg.StandardSeconds,
		longPauseThreshold: cfg.LongPauseThreshold,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func userIDFromContext(ctx context.Context) (string, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return "", workday.ErrUserIDRequired
	}
	return userID, nil
}

// today returns the current calendar day in s.loc as a UTC midnight.
func (s *WorkdayServiceImpl) today(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Start implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Start(ctx context.Context, req workday.StartWorkdayRequest) (workday.WorkdayResponse, error) {
	if err := req.Validate(); err != nil {
		return workday.WorkdayResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	now := s.now().UTC()
	date := s.today(now)
	if req.Date != nil && *req.Date != "" {
		date, err = time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return workday.WorkdayResponse{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}

	existing, err := s.workdayRepo.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return workday.WorkdayResponse{}, fmt.Errorf("failed to check existing workday: %w", err)
	}
	if existing != nil {
		return workday.WorkdayResponse{}, workday.ErrWorkdayAlreadyExists
	}

	var notes *string
	if req.Notes != nil && *req.Notes != "" {
		notes = req.Notes
	}

	var created workday.Workday
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		created, err = s.workdayRepo.Create(txCtx, workday.Workday{
			UserID:    userID,
			Date:      date,
			StartedAt: &now,
			Status:    workday.StatusActive,
			Notes:     notes,
		})
		if err != nil {
			return err
		}

		_, err = s.eventRepo.Create(txCtx, workday.Event{
			WorkdayID:  created.ID,
			Type:       workday.EventStart,
			OccurredAt: now,
		})
		return err
	})
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	slog.Info("Workday started", "workday_id", created.ID, "user_id", userID, "date", date.Format("2006-01-02"))

	resp := mapWorkdayToResponse(created, now)
	s.publish(userID, EventWorkdayUpdated, created.ID, resp)
	return resp, nil
}

// Pause implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Pause(ctx context.Context, id string, metadata map[string]interface{}) (workday.WorkdayResponse, error) {
	return s.transition(ctx, id, workday.EventPause, metadata, func(w *workday.Workday, now time.Time) error {
		switch w.State() {
		case workday.StatusFinalized:
			return workday.ErrWorkdayFinalized
		case workday.StatusActive:
		default:
			return workday.ErrWorkdayNotActive
		}
		if w.HasUsedPause() {
			return workday.ErrPauseAlreadyUsed
		}

		w.PausedAt = &now
		w.ResumedAt = nil
		return nil
	})
}

// Resume implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Resume(ctx context.Context, id string, metadata map[string]interface{}) (workday.WorkdayResponse, error) {
	return s.transition(ctx, id, workday.EventResume, metadata, func(w *workday.Workday, now time.Time) error {
		switch w.State() {
		case workday.StatusFinalized:
			return workday.ErrWorkdayFinalized
		case workday.StatusPaused:
		default:
			return workday.ErrWorkdayNotPaused
		}

		w.ResumedAt = &now
		return nil
	})
}

// Finish implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Finish(ctx context.Context, id string, metadata map[string]interface{}) (workday.WorkdayResponse, error) {
	return s.transition(ctx, id, workday.EventFinish, metadata, func(w *workday.Workday, now time.Time) error {
		switch w.State() {
		case workday.StatusFinalized:
			return workday.ErrWorkdayFinalized
		case workday.StatusNotStarted:
			return workday.ErrWorkdayNotActive
		case workday.StatusPaused:
			// an open pause ends with the day
			w.ResumedAt = &now
		}

		w.EndedAt = &now
		return nil
	})
}

// transition loads the workday, applies one lifecycle step, stores it together
// with its event and notifies open streams.
func (s *WorkdayServiceImpl) transition(
	ctx context.Context,
	id string,
	eventType workday.EventType,
	metadata map[string]interface{},
	apply func(w *workday.Workday, now time.Time) error,
) (workday.WorkdayResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	now := s.now().UTC()

	var updated workday.Workday
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		w, err := s.workdayRepo.GetByID(txCtx, id, userID)
		if err != nil {
			return err
		}

		if err := apply(&w, now); err != nil {
			return err
		}
		recompute(&w, now)

		updated, err = s.workdayRepo.Update(txCtx, w)
		if err != nil {
			return err
		}

		_, err = s.eventRepo.Create(txCtx, workday.Event{
			WorkdayID:  updated.ID,
			Type:       eventType,
			OccurredAt: now,
			Metadata:   metadata,
		})
		return err
	})
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	slog.Info("Workday transition", "workday_id", updated.ID, "user_id", userID, "event", eventType, "status", updated.Status)

	resp := mapWorkdayToResponse(updated, now)
	s.publish(userID, EventWorkdayUpdated, updated.ID, resp)
	return resp, nil
}

// recompute refreshes the derived columns so list sorting and reports see
// the values as of the last write.
func recompute(w *workday.Workday, now time.Time) {
	w.Status = w.State()
	w.WorkedSeconds = workday.WorkedSeconds(w.Snapshot(now))
	w.PauseSeconds = workday.PauseSeconds(w.PausedAt, w.ResumedAt, now)
}

// Update implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Update(ctx context.Context, req workday.UpdateWorkdayRequest) (workday.WorkdayResponse, error) {
	if err := req.Validate(); err != nil {
		return workday.WorkdayResponse{}, err
	}

	if req.Action != nil {
		switch *req.Action {
		case workday.ActionPause:
			return s.Pause(ctx, req.ID, req.Metadata)
		case workday.ActionResume:
			return s.Resume(ctx, req.ID, req.Metadata)
		case workday.ActionFinish:
			return s.Finish(ctx, req.ID, req.Metadata)
		default:
			return workday.WorkdayResponse{}, workday.ErrInvalidAction
		}
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	now := s.now().UTC()

	var updated workday.Workday
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		w, err := s.workdayRepo.GetByID(txCtx, req.ID, userID)
		if err != nil {
			return err
		}

		if req.Notes != nil {
			if *req.Notes == "" {
				w.Notes = nil
			} else {
				notes := *req.Notes
				w.Notes = &notes
			}
		}
		applyTimestamp(&w.StartedAt, req.StartedAt)
		applyTimestamp(&w.PausedAt, req.PausedAt)
		applyTimestamp(&w.ResumedAt, req.ResumedAt)
		applyTimestamp(&w.EndedAt, req.EndedAt)

		if err := validateTimeline(w); err != nil {
			return err
		}
		recompute(&w, now)

		updated, err = s.workdayRepo.Update(txCtx, w)
		return err
	})
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	slog.Info("Workday edited", "workday_id", updated.ID, "user_id", userID, "status", updated.Status)

	resp := mapWorkdayToResponse(updated, now)
	s.publish(userID, EventWorkdayUpdated, updated.ID, resp)
	return resp, nil
}

func applyTimestamp(field **time.Time, value *string) {
	if value == nil {
		return
	}
	// already checked by UpdateWorkdayRequest.Validate
	t, _ := validator.ParseOptionalDateTime(*value)
	*field = t
}

// validateTimeline rejects combinations that no sequence of transitions can
// produce. Ordering mistakes are tolerated; the duration engine clamps them.
func validateTimeline(w workday.Workday) error {
	var errs validator.ValidationErrors

	if w.StartedAt == nil && (w.PausedAt != nil || w.ResumedAt != nil || w.EndedAt != nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "started_at",
			Message: "started_at is required once the workday has other timestamps",
		})
	}
	if w.ResumedAt != nil && w.PausedAt == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "resumed_at",
			Message: "resumed_at requires paused_at",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Today implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Today(ctx context.Context) (*workday.WorkdayResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	w, err := s.workdayRepo.GetByUserAndDate(ctx, userID, s.today(now))
	if err != nil {
		return nil, fmt.Errorf("failed to get today's workday: %w", err)
	}
	if w == nil {
		return nil, nil
	}

	resp := mapWorkdayToResponse(*w, now)
	return &resp, nil
}

// Get implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Get(ctx context.Context, id string) (workday.WorkdayResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	w, err := s.workdayRepo.GetByID(ctx, id, userID)
	if err != nil {
		return workday.WorkdayResponse{}, err
	}

	return mapWorkdayToResponse(w, s.now().UTC()), nil
}

// List implements workday.WorkdayService.
func (s *WorkdayServiceImpl) List(ctx context.Context, filter workday.WorkdayFilter) (workday.ListWorkdayResponse, error) {
	if err := filter.Validate(); err != nil {
		return workday.ListWorkdayResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return workday.ListWorkdayResponse{}, err
	}

	workdays, total, err := s.workdayRepo.List(ctx, userID, filter)
	if err != nil {
		return workday.ListWorkdayResponse{}, fmt.Errorf("failed to list workdays: %w", err)
	}

	now := s.now().UTC()
	responses := make([]workday.WorkdayResponse, 0, len(workdays))
	for _, w := range workdays {
		responses = append(responses, mapWorkdayToResponse(w, now))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := showingRange(filter.Page, filter.Limit, total)

	return workday.ListWorkdayResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Workdays:   responses,
	}, nil
}

// showingRange renders the "first-last of total" label of a page. Pages past
// the end show "0 of total".
func showingRange(page, limit int, total int64) string {
	first := int64((page-1)*limit + 1)
	if total == 0 || first > total {
		return fmt.Sprintf("0 of %d", total)
	}
	last := min(int64(page*limit), total)
	return fmt.Sprintf("%d-%d of %d", first, last, total)
}

// Delete implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Delete(ctx context.Context, id string) error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.workdayRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	slog.Info("Workday deleted", "workday_id", id, "user_id", userID)
	s.publish(userID, EventWorkdayDeleted, id, nil)
	return nil
}

// Live implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Live(ctx context.Context, id string) (workday.LiveResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return workday.LiveResponse{}, err
	}

	w, err := s.workdayRepo.GetByID(ctx, id, userID)
	if err != nil {
		return workday.LiveResponse{}, err
	}

	return s.liveView(w, s.now().UTC()), nil
}

// liveView evaluates every figure from a single snapshot so worked and pause
// seconds always agree with each other.
func (s *WorkdayServiceImpl) liveView(w workday.Workday, now time.Time) workday.LiveResponse {
	snap := w.Snapshot(now)
	worked := workday.WorkedSeconds(snap)
	pause := workday.PauseSeconds(w.PausedAt, w.ResumedAt, now)
	state := w.State()

	longPause := false
	if state == workday.StatusPaused && s.longPauseThreshold > 0 {
		longPause = pause >= int64(s.longPauseThreshold/time.Second)
	}

	return workday.LiveResponse{
		WorkdayID:        w.ID,
		Status:           string(state),
		WorkedSeconds:    worked,
		PauseSeconds:     pause,
		WorkedClock:      workday.FormatClock(worked),
		PauseClock:       workday.FormatClock(pause),
		RemainingSeconds: max(s.standardSeconds-worked, 0),
		LongPause:        longPause,
		EvaluatedAt:      now.Format(time.RFC3339),
	}
}

// Events implements workday.WorkdayService.
func (s *WorkdayServiceImpl) Events(ctx context.Context, id string) ([]workday.EventResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.workdayRepo.GetByID(ctx, id, userID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByWorkday(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list workday events: %w", err)
	}

	responses := make([]workday.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, mapEventToResponse(e))
	}
	return responses, nil
}

// RecordEvent implements workday.WorkdayService. The event is appended to the
// log only; the workday record is left untouched.
func (s *WorkdayServiceImpl) RecordEvent(ctx context.Context, req workday.RecordEventRequest) (workday.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return workday.EventResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return workday.EventResponse{}, err
	}

	if _, err := s.workdayRepo.GetByID(ctx, req.WorkdayID, userID); err != nil {
		return workday.EventResponse{}, err
	}

	event, err := s.eventRepo.Create(ctx, workday.Event{
		WorkdayID:  req.WorkdayID,
		Type:       workday.EventType(req.Type),
		OccurredAt: s.now().UTC(),
		Metadata:   req.Metadata,
	})
	if err != nil {
		return workday.EventResponse{}, fmt.Errorf("failed to record workday event: %w", err)
	}

	return mapEventToResponse(event), nil
}

func (s *WorkdayServiceImpl) publish(userID, name, workdayID string, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(userID, sse.Event{Name: name, WorkdayID: workdayID, Data: data})
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

// mapWorkdayToResponse evaluates the durations at now; finalized days are
// independent of now.
func mapWorkdayToResponse(w workday.Workday, now time.Time) workday.WorkdayResponse {
	worked := workday.WorkedSeconds(w.Snapshot(now))
	return workday.WorkdayResponse{
		ID:            w.ID,
		UserID:        w.UserID,
		Date:          w.Date.Format("2006-01-02"),
		StartedAt:     timePtrToString(w.StartedAt),
		PausedAt:      timePtrToString(w.PausedAt),
		ResumedAt:     timePtrToString(w.ResumedAt),
		EndedAt:       timePtrToString(w.EndedAt),
		Status:        string(w.State()),
		WorkedSeconds: worked,
		PauseSeconds:  workday.PauseSeconds(w.PausedAt, w.ResumedAt, now),
		WorkedTime:    workday.FormatClock(worked),
		Notes:         w.Notes,
		CreatedAt:     w.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapEventToResponse(e workday.Event) workday.EventResponse {
	return workday.EventResponse{
		ID:         e.ID,
		WorkdayID:  e.WorkdayID,
		Type:       string(e.Type),
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}
