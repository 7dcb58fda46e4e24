package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

func newDocumentCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doc",
		Aliases: []string{"document", "documents"},
		Short:   "Manage invoices, receipts and credit notes",
	}
	cmd.AddCommand(
		newDocumentCreateCommand(app),
		newDocumentListCommand(app),
		newDocumentShowCommand(app),
		newDocumentUpdateCommand(app),
		newDocumentDeleteCommand(app),
		newNextNumberCommand(app),
		newConflictsCommand(app),
	)
	return cmd
}

func newDocumentCreateCommand(app *App) *cobra.Command {
	var (
		docType, clientID, status string
		issueDate, dueDate, notes string
		items                     []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new document",
		Example: `  folio doc create --type invoice --client cli_01h... \
    --item "Website development;40;150" --item "Hosting;12;25;0" --due-date 2026-02-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entityID, err := id.ParseClientID(clientID)
			if err != nil {
				return fmt.Errorf("--client: %w", err)
			}
			lineItems, err := parseItems(items)
			if err != nil {
				return err
			}
			in := document.Input{
				Type:      document.Type(docType),
				EntityID:  entityID,
				Status:    document.Status(status),
				LineItems: lineItems,
				Notes:     notes,
			}
			if issueDate == "" {
				issueDate = time.Now().UTC().Format(dateLayout)
			}
			if in.IssueDate, err = parseDate(issueDate); err != nil {
				return err
			}
			if dueDate != "" {
				due, err := parseDate(dueDate)
				if err != nil {
					return err
				}
				in.DueDate = &due
			}

			d, err := app.Engine.CreateDocument(cmd.Context(), in)
			if err != nil {
				return err
			}
			return app.printDocument(cmd, d)
		},
	}
	cmd.Flags().StringVar(&docType, "type", string(document.TypeInvoice), "invoice, receipt or credit_note")
	cmd.Flags().StringVar(&clientID, "client", "", "client the document is issued to")
	cmd.Flags().StringVar(&status, "status", "", "initial status (default draft for invoices, paid otherwise)")
	cmd.Flags().StringVar(&issueDate, "issue-date", "", "issue date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringArrayVar(&items, "item", nil, `line item "description;quantity;price[;tax rate]", repeatable`)
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func newDocumentListCommand(app *App) *cobra.Command {
	var (
		opts                     document.ListOpts
		docType, status, clientID string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Type = document.Type(docType)
			opts.Status = document.Status(status)
			if clientID != "" {
				entityID, err := id.ParseClientID(clientID)
				if err != nil {
					return fmt.Errorf("--client: %w", err)
				}
				opts.EntityID = entityID
			}

			docs, err := app.Engine.ListDocuments(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if app.jsonOut {
				return printJSON(app.Out, docs)
			}
			cfg, err := app.Engine.Settings(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(app.Out, "NUMBER", "TYPE", "STATUS", "ISSUED", "DUE", "TOTAL", "ID")
			for _, d := range docs {
				t.row(d.Number, d.Type.Label(), string(d.Status), formatDate(d.IssueDate),
					formatDatePtr(d.DueDate), types.FormatAmount(d.Total, cfg.DefaultCurrency), d.ID.String())
			}
			return t.flush()
		},
	}
	cmd.Flags().StringVar(&docType, "type", "", "filter by type")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&clientID, "client", "", "filter by client")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by number or notes")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of documents")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "number of documents to skip")
	return cmd
}

func newDocumentShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show a document with its line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, err := id.ParseDocumentID(args[0])
			if err != nil {
				return err
			}
			d, err := app.Engine.GetDocument(cmd.Context(), docID)
			if err != nil {
				return err
			}
			return app.printDocument(cmd, d)
		},
	}
}

func newDocumentUpdateCommand(app *App) *cobra.Command {
	var (
		clientID, status, issueDate, dueDate, notes string
		clearDue                                    bool
		items                                       []string
		version                                     int64
	)
	cmd := &cobra.Command{
		Use:   "update <document-id>",
		Short: "Change a document; only the given flags are applied",
		Long: `Change a document. Type and number are fixed once issued. Passing any
--item replaces every line item; totals are recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, err := id.ParseDocumentID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			u := document.Update{ClearDueDate: clearDue, ExpectedVersion: version}

			if flags.Changed("client") {
				entityID, err := id.ParseClientID(clientID)
				if err != nil {
					return fmt.Errorf("--client: %w", err)
				}
				u.EntityID = &entityID
			}
			if flags.Changed("status") {
				s := document.Status(status)
				u.Status = &s
			}
			if flags.Changed("issue-date") {
				issued, err := parseDate(issueDate)
				if err != nil {
					return err
				}
				u.IssueDate = &issued
			}
			if flags.Changed("due-date") {
				due, err := parseDate(dueDate)
				if err != nil {
					return err
				}
				u.DueDate = &due
			}
			if flags.Changed("notes") {
				u.Notes = &notes
			}
			if flags.Changed("item") {
				lineItems, err := parseItems(items)
				if err != nil {
					return err
				}
				u.LineItems = &lineItems
			}

			d, err := app.Engine.UpdateDocument(cmd.Context(), docID, u)
			if err != nil {
				return err
			}
			return app.printDocument(cmd, d)
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "reassign to another client")
	cmd.Flags().StringVar(&status, "status", "", "draft, sent, paid, cancelled or overdue")
	cmd.Flags().StringVar(&issueDate, "issue-date", "", "issue date YYYY-MM-DD")
	cmd.Flags().StringVar(&dueDate, "due-date", "", "due date YYYY-MM-DD")
	cmd.Flags().BoolVar(&clearDue, "clear-due-date", false, "remove the due date")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().StringArrayVar(&items, "item", nil, `replacement line item "description;quantity;price[;tax rate]", repeatable`)
	cmd.Flags().Int64Var(&version, "expect-version", 0, "fail unless the stored version matches")
	return cmd
}

func newDocumentDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docID, err := id.ParseDocumentID(args[0])
			if err != nil {
				return err
			}
			if err := app.Engine.DeleteDocument(cmd.Context(), docID); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "deleted", docID)
			return nil
		},
	}
}

func newNextNumberCommand(app *App) *cobra.Command {
	var docType string
	cmd := &cobra.Command{
		Use:   "next-number",
		Short: "Preview the number the next document of a type will get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := app.Engine.NextNumber(cmd.Context(), document.Type(docType))
			if err != nil {
				return err
			}
			if app.jsonOut {
				return printJSON(app.Out, map[string]string{"type": docType, "number": n})
			}
			fmt.Fprintln(app.Out, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&docType, "type", string(document.TypeInvoice), "invoice, receipt or credit_note")
	return cmd
}

func newConflictsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List document numbers shared by more than one document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			collisions, err := app.Engine.NumberingConflicts(cmd.Context())
			if err != nil {
				return err
			}
			if app.jsonOut {
				return printJSON(app.Out, collisions)
			}
			if len(collisions) == 0 {
				fmt.Fprintln(app.Out, "no duplicate numbers")
				return nil
			}
			t := newTable(app.Out, "TYPE", "NUMBER", "DOCUMENTS")
			for _, c := range collisions {
				t.row(c.Type.Label(), c.Number, fmt.Sprint(len(c.DocumentIDs)))
			}
			return t.flush()
		},
	}
}

func (a *App) printDocument(cmd *cobra.Command, d *document.Document) error {
	if a.jsonOut {
		return printJSON(a.Out, d)
	}
	cfg, err := a.Engine.Settings(cmd.Context())
	if err != nil {
		return err
	}
	cur := cfg.DefaultCurrency

	fmt.Fprintf(a.Out, "%s %s (%s)\n", d.Type.Label(), d.Number, d.Status)
	fmt.Fprintf(a.Out, "id:      %s\nclient:  %s\nissued:  %s\ndue:     %s\n",
		d.ID, d.EntityID, formatDate(d.IssueDate), formatDatePtr(d.DueDate))
	if d.Notes != "" {
		fmt.Fprintf(a.Out, "notes:   %s\n", d.Notes)
	}
	fmt.Fprintln(a.Out)

	t := newTable(a.Out, "DESCRIPTION", "QTY", "PRICE", "TAX", "AMOUNT")
	for _, li := range d.LineItems {
		t.row(li.Description, li.Quantity.String(), types.FormatAmount(li.UnitPrice, cur),
			li.TaxRate.String()+"%", types.FormatAmount(li.Amount, cur))
	}
	t.row("", "", "", "Subtotal", types.FormatAmount(d.Subtotal, cur))
	t.row("", "", "", "Tax", types.FormatAmount(d.TaxAmount, cur))
	t.row("", "", "", "Total", types.FormatAmount(d.Total, cur))
	return t.flush()
}
