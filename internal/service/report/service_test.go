package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/config"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubWorkdayRepo only serves ListBetween; the summary needs nothing else.
type stubWorkdayRepo struct {
	workday.WorkdayRepository
	workdays []workday.Workday
	gotFrom  time.Time
	gotTo    time.Time
}

func (r *stubWorkdayRepo) ListBetween(_ context.Context, _ string, from, to time.Time) ([]workday.Workday, error) {
	r.gotFrom, r.gotTo = from, to
	var result []workday.Workday
	for _, w := range r.workdays {
		if !w.Date.Before(from) && !w.Date.After(to) {
			result = append(result, w)
		}
	}
	return result, nil
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func at(s string) *time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return &t
}

func finalized(date, start, end string) workday.Workday {
	return workday.Workday{
		ID:        "wd-" + date,
		UserID:    "user-1",
		Date:      day(date),
		StartedAt: at(date + "T" + start + "Z"),
		EndedAt:   at(date + "T" + end + "Z"),
		Status:    workday.StatusFinalized,
	}
}

func userCtx(t *testing.T) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	tokenString, _, err := svc.GenerateAccessToken("user-1")
	require.NoError(t, err)
	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newService(repo *stubWorkdayRepo, now time.Time) report.ReportService {
	return NewReportService(repo, config.WorkdayConfig{StandardSeconds: 8 * 3600}, WithClock(func() time.Time { return now }))
}

func fixtureRepo() *stubWorkdayRepo {
	return &stubWorkdayRepo{workdays: []workday.Workday{
		finalized("2025-02-26", "09:00:00", "15:00:00"),
		finalized("2025-03-03", "08:00:00", "16:00:00"),
		finalized("2025-03-07", "08:00:00", "15:00:00"),
		{
			ID:        "wd-open",
			UserID:    "user-1",
			Date:      day("2025-03-10"),
			StartedAt: at("2025-03-10T08:00:00Z"),
			Status:    workday.StatusActive,
		},
	}}
}

func TestSummary_CurrentWeekAndMonth(t *testing.T) {
	repo := fixtureRepo()
	svc := newService(repo, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))

	resp, err := svc.Summary(userCtx(t), report.SummaryRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.ReferenceDate)
	assert.Equal(t, "2025-03-10", resp.WeekStart)
	assert.Equal(t, "2025-03-16", resp.WeekEnd)
	assert.Equal(t, "2025-03-01", resp.MonthStart)
	assert.Equal(t, "2025-03-31", resp.MonthEnd)
	assert.Equal(t, day("2025-03-01"), repo.gotFrom)
	assert.Equal(t, day("2025-03-31"), repo.gotTo)

	totals := resp.Totals
	assert.Equal(t, int64(7200), totals.TodaySeconds, "open workday counts with its live value")
	assert.Equal(t, int64(7200), totals.WeekSeconds)
	assert.Equal(t, int64(8*3600+7*3600+7200), totals.MonthSeconds)
	assert.Equal(t, 2, totals.DaysWorkedMonth)
	assert.Equal(t, int64(27000), totals.AverageDailySeconds)
	assert.Equal(t, int64(-3600), totals.MonthBalanceSeconds)
	assert.Equal(t, "7h 30m", totals.AverageDailyHours)
	assert.Equal(t, "2h 0m", totals.TodayHours)

	require.Len(t, resp.Week, 7)
	assert.Equal(t, "Monday", resp.Week[0].Weekday)
	assert.Equal(t, string(workday.StatusActive), resp.Week[0].Status)
	assert.Equal(t, int64(0), resp.Week[6].Seconds)
	assert.Len(t, resp.Month, 3)
}

func TestSummary_WeekSpanningMonths(t *testing.T) {
	repo := fixtureRepo()
	svc := newService(repo, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))

	resp, err := svc.Summary(userCtx(t), report.SummaryRequest{Date: strPtr("2025-03-02")})
	require.NoError(t, err)

	assert.Equal(t, "2025-02-24", resp.WeekStart)
	assert.Equal(t, "2025-03-02", resp.WeekEnd)
	assert.Equal(t, day("2025-02-24"), repo.gotFrom)
	assert.Equal(t, int64(0), resp.Totals.TodaySeconds)
	assert.Equal(t, int64(6*3600), resp.Totals.WeekSeconds)
	assert.Equal(t, "Wednesday", resp.Week[2].Weekday)
	assert.Equal(t, int64(6*3600), resp.Week[2].Seconds)
	assert.Len(t, resp.Month, 3, "February days stay out of the month list")
}

func TestSummary_PastReferenceDate(t *testing.T) {
	svc := newService(fixtureRepo(), time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))

	resp, err := svc.Summary(userCtx(t), report.SummaryRequest{Date: strPtr("2025-03-03")})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-03", resp.ReferenceDate)
	assert.Equal(t, int64(8*3600), resp.Totals.TodaySeconds, "today totals follow the reference date")
	assert.Equal(t, "8h 0m", resp.Totals.TodayHours)
}

func TestSummary_NoWorkdays(t *testing.T) {
	svc := newService(&stubWorkdayRepo{}, time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))

	resp, err := svc.Summary(userCtx(t), report.SummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Totals.DaysWorkedMonth)
	assert.Equal(t, int64(0), resp.Totals.AverageDailySeconds)
	assert.Equal(t, int64(0), resp.Totals.MonthBalanceSeconds)
	assert.Empty(t, resp.Month)
}

func TestSummary_Errors(t *testing.T) {
	svc := newService(&stubWorkdayRepo{}, time.Now())

	_, err := svc.Summary(userCtx(t), report.SummaryRequest{Date: strPtr("10/03/2025")})
	var validationErrs validator.ValidationErrors
	assert.True(t, errors.As(err, &validationErrs))

	_, err = svc.Summary(context.Background(), report.SummaryRequest{})
	assert.ErrorIs(t, err, workday.ErrUserIDRequired)
}

func strPtr(s string) *string { return &s }
