package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xraph/folio/settings"
)

func newSettingsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change company settings",
	}
	cmd.AddCommand(newSettingsShowCommand(app), newSettingsSetCommand(app))
	return cmd
}

func newSettingsShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Engine.Settings(cmd.Context())
			if err != nil {
				return err
			}
			return app.printSettings(s)
		},
	}
}

func newSettingsSetCommand(app *App) *cobra.Command {
	var (
		s       settings.Settings
		taxRate string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings; only the given flags are applied",
		Example: `  folio settings set --company "Northwind Ltd" --currency EUR --invoice-prefix "NW-"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cur, err := app.Engine.Settings(cmd.Context())
			if err != nil {
				return err
			}
			next := *cur
			flags := cmd.Flags()
			apply := func(flag string, dst *string, v string) {
				if flags.Changed(flag) {
					*dst = v
				}
			}
			apply("company", &next.CompanyName, s.CompanyName)
			apply("email", &next.CompanyEmail, s.CompanyEmail)
			apply("phone", &next.CompanyPhone, s.CompanyPhone)
			apply("address", &next.CompanyAddress, s.CompanyAddress)
			apply("tax-number", &next.TaxNumber, s.TaxNumber)
			apply("logo", &next.Logo, s.Logo)
			apply("currency", &next.DefaultCurrency, s.DefaultCurrency)
			apply("invoice-prefix", &next.InvoicePrefix, s.InvoicePrefix)
			apply("receipt-prefix", &next.ReceiptPrefix, s.ReceiptPrefix)
			apply("credit-note-prefix", &next.CreditNotePrefix, s.CreditNotePrefix)
			if flags.Changed("tax-rate") {
				rate, err := parseDecimal("tax rate", taxRate)
				if err != nil {
					return err
				}
				next.DefaultTaxRate = rate
			}

			saved, err := app.Engine.SaveSettings(cmd.Context(), next)
			if err != nil {
				return err
			}
			return app.printSettings(saved)
		},
	}
	f := cmd.Flags()
	f.StringVar(&s.CompanyName, "company", "", "company name")
	f.StringVar(&s.CompanyEmail, "email", "", "company email address")
	f.StringVar(&s.CompanyPhone, "phone", "", "company phone number")
	f.StringVar(&s.CompanyAddress, "address", "", "company postal address")
	f.StringVar(&s.TaxNumber, "tax-number", "", "company tax registration number")
	f.StringVar(&s.Logo, "logo", "", "logo path or URL")
	f.StringVar(&s.DefaultCurrency, "currency", "", "ISO currency code")
	f.StringVar(&taxRate, "tax-rate", "", "default tax rate percentage for new line items")
	f.StringVar(&s.InvoicePrefix, "invoice-prefix", "", "invoice number prefix")
	f.StringVar(&s.ReceiptPrefix, "receipt-prefix", "", "receipt number prefix")
	f.StringVar(&s.CreditNotePrefix, "credit-note-prefix", "", "credit note number prefix")
	return cmd
}

func (a *App) printSettings(s *settings.Settings) error {
	if a.jsonOut {
		return printJSON(a.Out, s)
	}
	t := newTable(a.Out, "SETTING", "VALUE")
	t.row("company", s.CompanyName)
	t.row("email", s.CompanyEmail)
	t.row("phone", s.CompanyPhone)
	t.row("address", s.CompanyAddress)
	t.row("tax number", s.TaxNumber)
	t.row("logo", s.Logo)
	t.row("currency", s.DefaultCurrency)
	t.row("tax rate", fmt.Sprintf("%s%%", s.DefaultTaxRate))
	t.row("invoice prefix", s.InvoicePrefix)
	t.row("receipt prefix", s.ReceiptPrefix)
	t.row("credit note prefix", s.CreditNotePrefix)
	return t.flush()
}
