package http

import (
	"net/http"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Summary handles GET /reports/summary?date=YYYY-MM-DD
	Summary(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// Summary implements ReportHandler.
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	var req report.SummaryRequest
	if date := r.URL.Query().Get("date"); date != "" {
		req.Date = &date
	}

	result, err := h.reportService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
