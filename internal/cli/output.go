package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/document"
)

const dateLayout = "2006-01-02"

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes tab-separated rows as aligned columns.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush() error { return t.tw.Flush() }

func formatDate(t time.Time) string { return t.Format(dateLayout) }

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q", field, s)
	}
	return d, nil
}

// parseItem reads a line item written as "description;quantity;unit price"
// with an optional fourth ";tax rate" field.
func parseItem(s string) (document.LineItemInput, error) {
	parts := strings.Split(s, ";")
	if len(parts) < 3 || len(parts) > 4 {
		return document.LineItemInput{}, fmt.Errorf("invalid item %q, want \"description;quantity;price[;tax rate]\"", s)
	}

	li := document.LineItemInput{Description: strings.TrimSpace(parts[0])}
	var err error
	if li.Quantity, err = parseDecimal("quantity", parts[1]); err != nil {
		return li, err
	}
	if li.UnitPrice, err = parseDecimal("price", parts[2]); err != nil {
		return li, err
	}
	if len(parts) == 4 && strings.TrimSpace(parts[3]) != "" {
		rate, err := parseDecimal("tax rate", parts[3])
		if err != nil {
			return li, err
		}
		li.TaxRate = &rate
	}
	return li, nil
}

func parseItems(raw []string) ([]document.LineItemInput, error) {
	items := make([]document.LineItemInput, 0, len(raw))
	for _, s := range raw {
		li, err := parseItem(s)
		if err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, nil
}
