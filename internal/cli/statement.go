package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/xraph/folio"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

func newStatementCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "statement <client-id>",
		Short: "Print a client's account statement with a running balance",
		Long: `Print every document issued to a client in date order. Invoices are
debits; receipts and credit notes are credits. The final balance is
what the client owes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := id.ParseClientID(args[0])
			if err != nil {
				return err
			}
			heading := "Unknown client"
			c, err := app.Engine.GetClient(cmd.Context(), clientID)
			switch {
			case err == nil:
				heading = fmt.Sprintf("%s <%s>", c.Name, c.Email)
			case !folio.IsNotFound(err):
				return err
			}
			st, err := app.Engine.Statement(cmd.Context(), clientID)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return printJSON(app.Out, st)
			}
			cfg, err := app.Engine.Settings(cmd.Context())
			if err != nil {
				return err
			}
			cur := cfg.DefaultCurrency

			fmt.Fprintf(app.Out, "Statement for %s\n\n", heading)
			t := newTable(app.Out, "DATE", "DESCRIPTION", "STATUS", "DEBIT", "CREDIT", "BALANCE")
			for _, r := range st.Rows {
				t.row(formatDate(r.Date), r.Description, string(r.Status),
					amountOrBlank(r.Debit, cur), amountOrBlank(r.Credit, cur),
					types.FormatAmount(r.Balance, cur))
			}
			t.row("", "Total", "", types.FormatAmount(st.TotalDebit, cur),
				types.FormatAmount(st.TotalCredit, cur), types.FormatAmount(st.Balance, cur))
			return t.flush()
		},
	}
}

func amountOrBlank(d decimal.Decimal, currency string) string {
	if d.IsZero() {
		return ""
	}
	return types.FormatAmount(d, currency)
}
