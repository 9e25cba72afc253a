/*
Package export renders amortization schedules for download.

PURPOSE:
  Streams a schedule as CSV, one row per payment period, with running
  totals. Amounts are written with two decimal places and dates as
  ISO-8601 days.
*/
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/warp/mortgage-engine/loan"
)

var scheduleHeader = []string{
	"Payment #",
	"Date",
	"Payment Amount",
	"Principal",
	"Interest",
	"Extra Payment",
	"Remaining Balance",
	"Total Principal Paid",
	"Total Interest Paid",
}

// WriteSchedule writes the schedule as CSV to w, header row included.
func WriteSchedule(w io.Writer, schedule loan.Schedule) error {
	out := csv.NewWriter(w)

	if err := out.Write(scheduleHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, record := range schedule {
		row := []string{
			strconv.Itoa(record.Number),
			record.Date.Format("2006-01-02"),
			record.Payment.StringFixed(2),
			record.Principal.StringFixed(2),
			record.Interest.StringFixed(2),
			record.Extra.StringFixed(2),
			record.Balance.StringFixed(2),
			record.TotalPrincipal.StringFixed(2),
			record.TotalInterest.StringFixed(2),
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", record.Number, err)
		}
	}

	out.Flush()
	return out.Error()
}
