package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xraph/folio/types"
)

func newSummaryCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Aliases: []string{"dashboard"},
		Short:   "Show invoice totals and recent activity",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sum, err := app.Engine.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if app.jsonOut {
				return printJSON(app.Out, sum)
			}

			cur := sum.Currency
			fmt.Fprintf(app.Out, "Invoices:     %d (%d paid, %d unpaid, %d overdue)\n",
				sum.TotalInvoices, sum.PaidInvoices, sum.UnpaidInvoices, sum.OverdueInvoices)
			fmt.Fprintf(app.Out, "Revenue:      %s\n", types.FormatAmount(sum.Revenue, cur))
			fmt.Fprintf(app.Out, "Outstanding:  %s\n", types.FormatAmount(sum.Outstanding, cur))
			if len(sum.Recent) == 0 {
				return nil
			}

			fmt.Fprintln(app.Out, "\nRecent documents:")
			t := newTable(app.Out, "NUMBER", "TYPE", "STATUS", "ISSUED", "TOTAL")
			for _, d := range sum.Recent {
				t.row(d.Number, d.Type.Label(), string(d.Status), formatDate(d.IssueDate),
					types.FormatAmount(d.Total, cur))
			}
			return t.flush()
		},
	}
}

func newSeedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demonstration clients and invoices into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seeded, err := app.Engine.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintln(app.Out, "demonstration data loaded")
			} else {
				fmt.Fprintln(app.Out, "store already has data, nothing loaded")
			}
			return nil
		},
	}
}
