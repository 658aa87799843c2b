package console

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/workday"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderSummary prints the month of a summary as a table followed by the
// week and balance totals.
func RenderSummary(w io.Writer, resp report.SummaryResponse) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Workdays %s .. %s", resp.MonthStart, resp.MonthEnd))
	t.AppendHeader(table.Row{"Date", "Weekday", "Status", "Worked", "Hours"})

	for _, day := range resp.Month {
		t.AppendRow(table.Row{
			day.Date,
			day.Weekday,
			day.Status,
			workday.FormatClock(day.Seconds),
			workday.FormatHours(day.Seconds),
		})
	}

	totals := resp.Totals
	t.AppendFooter(table.Row{"", "", "Total", workday.FormatClock(totals.MonthSeconds), totals.MonthHours})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintf(w, "Today:   %s\n", totals.TodayHours)
	fmt.Fprintf(w, "Week:    %s (%s .. %s)\n", totals.WeekHours, resp.WeekStart, resp.WeekEnd)
	fmt.Fprintf(w, "Average: %s over %d finalized days\n", totals.AverageDailyHours, totals.DaysWorkedMonth)
	fmt.Fprintf(w, "Balance: %s\n", formatBalance(totals.MonthBalanceSeconds))
}

// formatBalance renders a signed duration, red when under the standard.
func formatBalance(seconds int64) string {
	if seconds < 0 {
		return color.New(color.FgRed).Sprint("-" + workday.FormatHours(-seconds))
	}
	return color.New(color.FgGreen).Sprint("+" + workday.FormatHours(seconds))
}
