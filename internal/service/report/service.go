package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
)

const dateLayout = "2006-01-02"

type ReportServiceImpl struct {
	workdayRepo     workday.WorkdayRepository
	standardSeconds int64
	loc             *time.Location
	now             func() time.Time
}

type Option func(*ReportServiceImpl)

func WithClock(now func() time.Time) Option {
	return func(s *ReportServiceImpl) {
		s.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(s *ReportServiceImpl) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewReportService(workdayRepo workday.WorkdayRepository, cfg config.WorkdayConfig, opts ...Option) report.ReportService {
	s := &ReportServiceImpl{
		workdayRepo:     workdayRepo,
		standardSeconds: cfg.StandardSeconds,
		loc:             time.UTC,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary implements report.ReportService.
func (s *ReportServiceImpl) Summary(ctx context.Context, req report.SummaryRequest) (report.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return report.SummaryResponse{}, err
	}

	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return report.SummaryResponse{}, workday.ErrUserIDRequired
	}

	now := s.now().UTC()
	local := now.In(s.loc)
	refDate := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != nil && *req.Date != "" {
		refDate, err = time.Parse(dateLayout, *req.Date)
		if err != nil {
			return report.SummaryResponse{}, report.ErrInvalidDate
		}
	}

	// Monday-based week
	offset := (int(refDate.Weekday()) + 6) % 7
	weekStart := refDate.AddDate(0, 0, -offset)
	weekEnd := weekStart.AddDate(0, 0, 6)
	monthStart := time.Date(refDate.Year(), refDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	from, to := weekStart, weekEnd
	if monthStart.Before(from) {
		from = monthStart
	}
	if monthEnd.After(to) {
		to = monthEnd
	}

	workdays, err := s.workdayRepo.ListBetween(ctx, userID, from, to)
	if err != nil {
		return report.SummaryResponse{}, fmt.Errorf("failed to get workdays for summary: %w", err)
	}

	// open workdays count with their live value
	byDate := make(map[string]workday.Workday, len(workdays))
	worked := make(map[string]int64, len(workdays))
	for _, w := range workdays {
		key := w.Date.Format(dateLayout)
		byDate[key] = w
		worked[key] = workday.WorkedSeconds(w.Snapshot(now))
	}

	var totals report.SummaryTotals
	totals.StandardDailySeconds = s.standardSeconds
	totals.TodaySeconds = worked[refDate.Format(dateLayout)]

	week := make([]report.DailySeconds, 0, 7)
	for d := weekStart; !d.After(weekEnd); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		day := report.DailySeconds{Date: key, Weekday: d.Weekday().String(), Seconds: worked[key]}
		if w, ok := byDate[key]; ok {
			day.Status = string(w.State())
		}
		totals.WeekSeconds += day.Seconds
		week = append(week, day)
	}

	month := make([]report.DailySeconds, 0, len(workdays))
	var finalizedSeconds int64
	for _, w := range workdays {
		if w.Date.Before(monthStart) || w.Date.After(monthEnd) {
			continue
		}
		key := w.Date.Format(dateLayout)
		state := w.State()
		month = append(month, report.DailySeconds{
			Date:    key,
			Weekday: w.Date.Weekday().String(),
			Seconds: worked[key],
			Status:  string(state),
		})
		totals.MonthSeconds += worked[key]
		if state == workday.StatusFinalized {
			totals.DaysWorkedMonth++
			finalizedSeconds += worked[key]
		}
	}

	if totals.DaysWorkedMonth > 0 {
		totals.AverageDailySeconds = finalizedSeconds / int64(totals.DaysWorkedMonth)
	}
	totals.MonthBalanceSeconds = finalizedSeconds - s.standardSeconds*int64(totals.DaysWorkedMonth)

	totals.TodayHours = workday.FormatHours(totals.TodaySeconds)
	totals.WeekHours = workday.FormatHours(totals.WeekSeconds)
	totals.MonthHours = workday.FormatHours(totals.MonthSeconds)
	totals.AverageDailyHours = workday.FormatHours(totals.AverageDailySeconds)

	return report.SummaryResponse{
		ReferenceDate: refDate.Format(dateLayout),
		WeekStart:     weekStart.Format(dateLayout),
		WeekEnd:       weekEnd.Format(dateLayout),
		MonthStart:    monthStart.Format(dateLayout),
		MonthEnd:      monthEnd.Format(dateLayout),
		GeneratedAt:   now.Format(time.RFC3339),
		Totals:        totals,
		Week:          week,
		Month:         month,
	}, nil
}
