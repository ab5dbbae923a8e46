package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/worktime/hours-engine/payroll"
	"github.com/worktime/hours-engine/store/sqlite"
	"github.com/worktime/hours-engine/worktime"
)

// app holds what every command needs once the database is open.
type app struct {
	dbPath  string
	store   *sqlite.Store
	payroll *payroll.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "worktime",
		Short: "Work-hours tracker and payroll calculator",
		Long: `worktime records one start/end pair per day and turns a month of them
into hours, gross pay, 13% tax, advance and final payout.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(a.dbPath)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", a.dbPath, err)
			}
			a.store = store
			a.payroll = payroll.NewService(store)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return nil
			}
			return a.store.Close()
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "worktime.db", "SQLite database path")

	root.AddCommand(
		a.addCmd(),
		a.showCmd(),
		a.deleteCmd(),
		a.listCmd(),
		a.summaryCmd(),
		a.rateCmd(),
		a.lunchCmd(),
	)
	return root
}

// parseDateArg accepts YYYY-MM-DD or "today".
func parseDateArg(s string) (worktime.Date, error) {
	if s == "today" {
		return worktime.Today(), nil
	}
	return worktime.ParseDate(s)
}

// parseMonthArg accepts YYYY-MM, defaulting to the current month.
func parseMonthArg(args []string) (worktime.YearMonth, error) {
	if len(args) == 0 {
		return worktime.Today().YearMonth(), nil
	}
	return worktime.ParseYearMonth(args[0])
}
