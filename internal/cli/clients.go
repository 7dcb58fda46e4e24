package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/id"
)

func newClientCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "client",
		Aliases: []string{"clients"},
		Short:   "Manage clients",
	}
	cmd.AddCommand(
		newClientAddCommand(app),
		newClientListCommand(app),
		newClientShowCommand(app),
		newClientUpdateCommand(app),
		newClientDeleteCommand(app),
	)
	return cmd
}

type clientFlags struct {
	name, email, phone, address, taxNumber, vatRate string
}

func (f *clientFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "client name")
	cmd.Flags().StringVar(&f.email, "email", "", "billing email address")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.address, "address", "", "postal address")
	cmd.Flags().StringVar(&f.taxNumber, "tax-number", "", "tax registration number")
	cmd.Flags().StringVar(&f.vatRate, "vat-rate", "", "default tax rate percentage for this client")
}

func newClientAddCommand(app *App) *cobra.Command {
	var f clientFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a client",
		Example: `  folio client add --name "Acme Corporation" --email billing@acme.com --vat-rate 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := client.Input{
				Name:      f.name,
				Email:     f.email,
				Phone:     f.phone,
				Address:   f.address,
				TaxNumber: f.taxNumber,
			}
			if f.vatRate != "" {
				rate, err := parseDecimal("vat rate", f.vatRate)
				if err != nil {
					return err
				}
				in.VATRate = &rate
			}
			c, err := app.Engine.CreateClient(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.printClient(c)
		},
	}
	f.bind(cmd)
	return cmd
}

func newClientListCommand(app *App) *cobra.Command {
	var opts client.ListOpts
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients, err := app.Engine.ListClients(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return printJSON(app.Out, clients)
			}
			t := newTable(app.Out, "ID", "NAME", "EMAIL", "VAT")
			for _, c := range clients {
				vat := "-"
				if c.VATRate != nil {
					vat = c.VATRate.String() + "%"
				}
				t.row(c.ID.String(), c.Name, c.Email, vat)
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by name or email")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of clients")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of clients to skip")
	return cmd
}

func newClientShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <client-id>",
		Short: "Show one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := id.ParseClientID(args[0])
			if err != nil {
				return err
			}
			c, err := app.Engine.GetClient(cmd.Context(), clientID)
			if err != nil {
				return err
			}
			return app.printClient(c)
		},
	}
}

func newClientUpdateCommand(app *App) *cobra.Command {
	var (
		f        clientFlags
		clearVAT bool
		version  int64
	)
	cmd := &cobra.Command{
		Use:   "update <client-id>",
		Short: "Change client details; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := id.ParseClientID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			u := client.Update{ClearVATRate: clearVAT, ExpectedVersion: version}
			for flag, dst := range map[string]**string{
				"name":       &u.Name,
				"email":      &u.Email,
				"phone":      &u.Phone,
				"address":    &u.Address,
				"tax-number": &u.TaxNumber,
			} {
				if flags.Changed(flag) {
					v, _ := flags.GetString(flag)
					*dst = &v
				}
			}
			if flags.Changed("vat-rate") {
				rate, err := parseDecimal("vat rate", f.vatRate)
				if err != nil {
					return err
				}
				u.VATRate = &rate
			}

			c, err := app.Engine.UpdateClient(cmd.Context(), clientID, u)
			if err != nil {
				return err
			}
			return app.printClient(c)
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&clearVAT, "clear-vat-rate", false, "remove the client's own tax rate")
	cmd.Flags().Int64Var(&version, "expect-version", 0, "fail unless the stored version matches")
	return cmd
}

func newClientDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <client-id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, err := id.ParseClientID(args[0])
			if err != nil {
				return err
			}
			if err := app.Engine.DeleteClient(cmd.Context(), clientID); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "deleted", clientID)
			return nil
		},
	}
}

func (a *App) printClient(c *client.Client) error {
	if a.jsonOut {
		return printJSON(a.Out, c)
	}
	t := newTable(a.Out, "FIELD", "VALUE")
	t.row("id", c.ID.String())
	t.row("name", c.Name)
	t.row("email", c.Email)
	if c.Phone != "" {
		t.row("phone", c.Phone)
	}
	if c.Address != "" {
		t.row("address", c.Address)
	}
	if c.TaxNumber != "" {
		t.row("tax number", c.TaxNumber)
	}
	if c.VATRate != nil {
		t.row("vat rate", c.VATRate.String()+"%")
	}
	t.row("version", fmt.Sprint(c.Version))
	return t.flush()
}
