package report

import "context"

// ReportService aggregates a user's workdays for the dashboard and report pages
type ReportService interface {
	// Summary returns today/week/month totals around the reference date
	// (default: today)
	Summary(ctx context.Context, req SummaryRequest) (SummaryResponse, error)
}
