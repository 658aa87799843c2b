package report

import (
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
)

// ========================================
// WORKDAY SUMMARY REPORT
// ========================================

type SummaryRequest struct {
	Date *string `json:"date,omitempty"` // YYYY-MM-DD, reference day
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: ErrInvalidDate.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	ReferenceDate string `json:"reference_date"`
	WeekStart     string `json:"week_start"`
	WeekEnd       string `json:"week_end"`
	MonthStart    string `json:"month_start"`
	MonthEnd      string `json:"month_end"`
	GeneratedAt   string `json:"generated_at"`

	Totals SummaryTotals `json:"totals"`

	// Week has one entry per day Monday..Sunday, zero when there is no workday.
	Week []DailySeconds `json:"week"`
	// Month only lists days that have a workday.
	Month []DailySeconds `json:"month"`
}

// SummaryTotals aggregates the reference period. TodaySeconds and TodayHours
// hold the reference date's total, which is a past day when the request sets
// date.
type SummaryTotals struct {
	TodaySeconds         int64  `json:"today_seconds"`
	WeekSeconds          int64  `json:"week_seconds"`
	MonthSeconds         int64  `json:"month_seconds"`
	DaysWorkedMonth      int    `json:"days_worked_month"`
	AverageDailySeconds  int64  `json:"average_daily_seconds"`
	StandardDailySeconds int64  `json:"standard_daily_seconds"`
	MonthBalanceSeconds  int64  `json:"month_balance_seconds"` // finalized worked time minus the standard for those days
	TodayHours           string `json:"today_hours"`
	WeekHours            string `json:"week_hours"`
	MonthHours           string `json:"month_hours"`
	AverageDailyHours    string `json:"average_daily_hours"`
}

type DailySeconds struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Seconds int64  `json:"seconds"`
	Status  string `json:"status,omitempty"`
}
