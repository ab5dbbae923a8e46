package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/worktime/hours-engine/payroll"
	"github.com/worktime/hours-engine/worktime"
)

// formatMinutes renders minutes as HH:MM, rounded to the nearest minute.
func formatMinutes(m decimal.Decimal) string {
	total := m.Round(0).IntPart()
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}

func formatEntry(e worktime.WorkEntry) string {
	s := fmt.Sprintf("%s %s-%s (%s)",
		e.Date,
		e.Start.Format(worktime.ClockLayout),
		e.End.Format(worktime.ClockLayout),
		formatMinutes(e.DurationMinutes()))
	if e.Comment != "" {
		s += " " + e.Comment
	}
	return s
}

func printEntries(out io.Writer, entries []worktime.WorkEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(out, formatEntry(e))
	}
}

func printMonthSettings(out io.Writer, s worktime.MonthlySetting) {
	rate := s.HourlyRate.StringFixed(2)
	if s.RateInherited() {
		rate += fmt.Sprintf(" (from %s)", s.RateFrom)
	}
	fmt.Fprintf(out, "%s  rate %s  advance %s\n", s.Month, rate, s.Advance.StringFixed(2))
}

func printSummary(out io.Writer, s payroll.Summary) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	if len(s.Days) > 0 {
		fmt.Fprintln(tw, "DATE\tSTART\tEND\tWORKED\tLUNCH\tNET\tCOMMENT")
		for _, d := range s.Days {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				d.Entry.Date,
				d.Entry.Start.Format(worktime.ClockLayout),
				d.Entry.End.Format(worktime.ClockLayout),
				formatMinutes(d.DurationMinutes),
				formatMinutes(d.LunchMinutes),
				formatMinutes(d.NetMinutes),
				d.Entry.Comment)
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintf(tw, "Month:\t%s\n", s.Month)
	fmt.Fprintf(tw, "Work days:\t%d\n", s.WorkDaysCount)
	fmt.Fprintf(tw, "Hours with lunch:\t%s\n", s.TotalHoursWithLunch.StringFixed(2))
	fmt.Fprintf(tw, "Hours without lunch:\t%s\n", s.TotalHoursWithoutLunch.StringFixed(2))
	fmt.Fprintf(tw, "Hourly rate:\t%s\n", s.HourlyRate.StringFixed(2))
	fmt.Fprintf(tw, "Gross pay:\t%s\n", s.GrossPay.StringFixed(2))
	fmt.Fprintf(tw, "Tax (13%%):\t%s\n", s.TaxAmount.StringFixed(2))
	fmt.Fprintf(tw, "Net pay:\t%s\n", s.NetPay.StringFixed(2))
	fmt.Fprintf(tw, "Advance:\t%s\n", s.Advance.StringFixed(2))
	fmt.Fprintf(tw, "Final payout:\t%s\n", s.FinalPayout.StringFixed(2))

	tw.Flush()
}
