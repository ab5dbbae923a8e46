/*
main.go - Command-line client for the work-hours tracker

PURPOSE:
  Records work days and prints monthly summaries against the same SQLite
  database the HTTP server uses.

COMMANDS:
  add DATE START END [--comment]   Create or replace a day (DATE may be "today")
  show DATE                        Print one day
  delete DATE                      Remove a day (no-op if absent)
  list [--month YYYY-MM]           List days
  summary [YYYY-MM]                Monthly hours and pay (default: current month)
  rate YYYY-MM [RATE] [--advance]  Show or set a month's rate and advance
  lunch [HOURS]                    Show or set the configured lunch duration

SEE ALSO:
  - cmd/server: HTTP server over the same database
  - payroll/service.go: Operations behind every command
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
