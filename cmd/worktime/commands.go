package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/worktime/hours-engine/worktime"
)

func (a *app) addCmd() *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "add DATE START END",
		Short: "Create or replace the entry for a day",
		Example: `  worktime add 2024-03-05 09:00 18:00
  worktime add today 08:30 17:15 --comment "release"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			entry, err := a.payroll.RecordDay(cmd.Context(), date, args[1], args[2], comment)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", formatEntry(*entry))
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Free-text note for the day")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show DATE",
		Short: "Print the entry for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			entry, err := a.payroll.Entry(cmd.Context(), date)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatEntry(*entry))
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete DATE",
		Short: "Delete the entry for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateArg(args[0])
			if err != nil {
				return err
			}
			if err := a.payroll.DeleteDay(cmd.Context(), date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", date)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ym worktime.YearMonth
			if month != "" {
				m, err := worktime.ParseYearMonth(month)
				if err != nil {
					return err
				}
				ym = m
			}
			entries, err := a.payroll.Entries(cmd.Context(), ym)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Only list YYYY-MM")
	return cmd
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [YYYY-MM]",
		Short: "Print the monthly hours and pay summary",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonthArg(args)
			if err != nil {
				return err
			}
			summary, err := a.payroll.MonthlySummary(cmd.Context(), month)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}

func (a *app) rateCmd() *cobra.Command {
	var advance string

	cmd := &cobra.Command{
		Use:   "rate YYYY-MM [RATE]",
		Short: "Show or set a month's hourly rate and advance",
		Long: `Without RATE, prints the month's resolved rate (inherited from the latest
earlier month when unset) and its advance. With RATE, saves the month.
The advance is kept unless --advance is given.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			month, err := worktime.ParseYearMonth(args[0])
			if err != nil {
				return err
			}
			current, err := a.payroll.MonthSettings(ctx, month)
			if err != nil {
				return err
			}

			if len(args) == 2 {
				rate, err := worktime.ParseAmount("hourly_rate", args[1])
				if err != nil {
					return err
				}
				setting := worktime.MonthlySetting{Month: month, HourlyRate: rate, Advance: current.Advance}
				if cmd.Flags().Changed("advance") {
					if setting.Advance, err = worktime.ParseAmount("advance", advance); err != nil {
						return err
					}
				}
				if err := a.payroll.SaveMonthSettings(ctx, setting); err != nil {
					return err
				}
				if current, err = a.payroll.MonthSettings(ctx, month); err != nil {
					return err
				}
			}

			printMonthSettings(cmd.OutOrStdout(), current)
			return nil
		},
	}
	cmd.Flags().StringVar(&advance, "advance", "0", "Advance already paid for the month")
	return cmd
}

func (a *app) lunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lunch [HOURS]",
		Short: "Show or set the lunch duration deducted from long days",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				hours, err := worktime.ParseAmount(worktime.SettingLunchDurationHours, args[0])
				if err != nil {
					return err
				}
				if err := a.payroll.SaveSettings(ctx, worktime.Settings{LunchDurationHours: hours}); err != nil {
					return err
				}
			}
			settings, err := a.payroll.Settings(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lunch: %s h\n", settings.LunchDurationHours)
			return nil
		},
	}
}
