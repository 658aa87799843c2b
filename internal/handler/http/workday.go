package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/ticker"
	workdayService "github.com/cmlabs-hris/workday-backend-go/internal/service/workday"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type WorkdayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
	RecordEvent(w http.ResponseWriter, r *http.Request)
}

type workdayHandlerImpl struct {
	workdayService workday.WorkdayService
	hub            *sse.Hub
	liveTick       time.Duration
}

func NewWorkdayHandler(workdayService workday.WorkdayService, hub *sse.Hub, liveTick time.Duration) WorkdayHandler {
	if liveTick <= 0 {
		liveTick = time.Second
	}
	return &workdayHandlerImpl{
		workdayService: workdayService,
		hub:            hub,
		liveTick:       liveTick,
	}
}

// workdayIDParam returns the {id} path parameter when it is a valid UUID.
func workdayIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid workday ID", nil)
		return "", false
	}
	return id.String(), true
}

// decodeJSON reads an optional JSON body; an empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// List implements WorkdayHandler.
func (h *workdayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := workday.WorkdayFilter{}

	// Date range filters
	if from := query.Get("from"); from != "" {
		filter.From = &from
	}
	if to := query.Get("to"); to != "" {
		filter.To = &to
	}

	// Status filter
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}

	// Pagination
	if p := query.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			response.BadRequest(w, "page must be a number", nil)
			return
		}
		filter.Page = page
	}
	if l := query.Get("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = limit
	}

	// Sorting
	filter.SortBy = query.Get("sort_by")
	filter.SortOrder = query.Get("sort_order")

	result, err := h.workdayService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Workdays, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// Start implements WorkdayHandler.
func (h *workdayHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req workday.StartWorkdayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.workdayService.Start(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Workday started", result)
}

// Today implements WorkdayHandler.
func (h *workdayHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.workdayService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result == nil {
		response.SuccessWithMessage(w, "No workday for today", nil)
		return
	}
	response.Success(w, result)
}

// Get implements WorkdayHandler.
func (h *workdayHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := workdayIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.workdayService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements WorkdayHandler.
func (h *workdayHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := workdayIDParam(w, r)
	if !ok {
		return
	}

	var req workday.UpdateWorkdayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.workdayService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Workday updated", result)
}

// Delete implements WorkdayHandler.
func (h *workdayHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := workdayIDParam(w, r)
	if !ok {
		return
	}

	if err := h.workdayService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Workday deleted", nil)
}

// Live implements WorkdayHandler.
func (h *workdayHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	id, ok := workdayIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.workdayService.Live(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stream pushes the live view once per tick until the workday is finalized,
// deleted or the client goes away. Changes made from another session are
// forwarded as soon as the next tick runs.
func (h *workdayHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	id, ok := workdayIDParam(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		response.HandleError(w, workday.ErrUserIDRequired)
		return
	}

	// fail with a normal JSON error before switching to event-stream
	if _, err := h.workdayService.Live(ctx, id); err != nil {
		response.HandleError(w, err)
		return
	}

	flusher, ok := sse.PrepareStream(w)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	changes, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	send := func(name string, data interface{}) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		if err := sse.WriteEvent(w, name, payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err = ticker.Run(ctx, "workday-stream", h.liveTick, func(ctx context.Context, _ time.Time) (bool, error) {
		for drained := false; !drained; {
			select {
			case change, open := <-changes:
				if !open {
					return true, nil
				}
				if change.WorkdayID != id {
					continue
				}
				if err := send(change.Name, change.Data); err != nil {
					return true, err
				}
				if change.Name == workdayService.EventWorkdayDeleted {
					return true, nil
				}
			default:
				drained = true
			}
		}

		live, err := h.workdayService.Live(ctx, id)
		if err != nil {
			return true, err
		}
		if err := send("live", live); err != nil {
			return true, err
		}
		return live.Status == string(workday.StatusFinalized), nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Workday stream closed", "workday_id", id, "error", err)
	}
}

// Events implements WorkdayHandler.
func (h *workdayHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	id, ok := workdayIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.workdayService.Events(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// RecordEvent implements WorkdayHandler.
func (h *workdayHandlerImpl) RecordEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := workdayIDParam(w, r)
	if !ok {
		return
	}

	var req workday.RecordEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.WorkdayID = id

	result, err := h.workdayService.RecordEvent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Event recorded", result)
}
