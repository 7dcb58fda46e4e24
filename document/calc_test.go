package document

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(q, p, t string) LineItem {
	return LineItem{Quantity: dec(q), UnitPrice: dec(p), TaxRate: dec(t)}
}

func TestComputeAmount(t *testing.T) {
	tests := []struct {
		name            string
		qty, price, tax string
		want            string
	}{
		{"taxed", "40", "150", "20", "7200"},
		{"sibling", "20", "100", "20", "2400"},
		{"untaxed", "3", "19.99", "0", "59.97"},
		{"fractional rate", "1", "100", "7.5", "107.5"},
		{"fractional quantity", "2.5", "40", "18", "118"},
		{"zero quantity", "0", "150", "20", "0"},
		{"free item", "10", "0", "20", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAmount(dec(tt.qty), dec(tt.price), dec(tt.tax))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ComputeAmount(%s, %s, %s) = %s, want %s", tt.qty, tt.price, tt.tax, got, tt.want)
			}
		})
	}
}

func TestComputeAmountMatchesFormula(t *testing.T) {
	quantities := []string{"0", "1", "2.5", "40", "1000"}
	prices := []string{"0", "0.01", "19.99", "150"}
	rates := []string{"0", "5", "18", "20", "33.333"}

	for _, q := range quantities {
		for _, p := range prices {
			for _, r := range rates {
				net := dec(q).Mul(dec(p))
				want := net.Add(net.Mul(dec(r)).Div(decimal.NewFromInt(100)))
				if got := ComputeAmount(dec(q), dec(p), dec(r)); !got.Equal(want) {
					t.Errorf("ComputeAmount(%s, %s, %s) = %s, want %s", q, p, r, got, want)
				}
			}
			if got := ComputeAmount(dec(q), dec(p), decimal.Zero); !got.Equal(dec(q).Mul(dec(p))) {
				t.Errorf("ComputeAmount(%s, %s, 0) should equal q*p, got %s", q, p, got)
			}
		}
	}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name                 string
		items                []LineItem
		subtotal, tax, total string
	}{
		{"empty", nil, "0", "0", "0"},
		{"single", []LineItem{item("10", "200", "18")}, "2000", "360", "2360"},
		{"two items", []LineItem{item("40", "150", "20"), item("20", "100", "20")}, "8000", "1600", "9600"},
		{"mixed rates", []LineItem{item("1", "100", "0"), item("2", "50", "10"), item("1", "0.10", "20")}, "200.10", "10.02", "210.12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items)
			if !got.Subtotal.Equal(dec(tt.subtotal)) {
				t.Errorf("Subtotal: got %s, want %s", got.Subtotal, tt.subtotal)
			}
			if !got.TaxAmount.Equal(dec(tt.tax)) {
				t.Errorf("TaxAmount: got %s, want %s", got.TaxAmount, tt.tax)
			}
			if !got.Total.Equal(dec(tt.total)) {
				t.Errorf("Total: got %s, want %s", got.Total, tt.total)
			}
			if !got.Total.Equal(got.Subtotal.Add(got.TaxAmount)) {
				t.Errorf("Total %s != Subtotal %s + TaxAmount %s", got.Total, got.Subtotal, got.TaxAmount)
			}
		})
	}
}

func TestRecalculate(t *testing.T) {
	d := &Document{
		Type:      TypeInvoice,
		LineItems: []LineItem{item("40", "150", "20"), item("20", "100", "20")},
		Subtotal:  dec("1"), // stale
		Total:     dec("1"),
	}
	d.LineItems[0].Amount = dec("999") // stale

	d.Recalculate()

	if !d.LineItems[0].Amount.Equal(dec("7200")) {
		t.Errorf("first amount: got %s, want 7200", d.LineItems[0].Amount)
	}
	if !d.LineItems[1].Amount.Equal(dec("2400")) {
		t.Errorf("second amount: got %s, want 2400", d.LineItems[1].Amount)
	}
	if !d.Subtotal.Equal(dec("8000")) || !d.TaxAmount.Equal(dec("1600")) || !d.Total.Equal(dec("9600")) {
		t.Errorf("totals: got %s/%s/%s, want 8000/1600/9600", d.Subtotal, d.TaxAmount, d.Total)
	}

	sum := decimal.Zero
	for _, li := range d.LineItems {
		sum = sum.Add(li.Amount)
	}
	if !sum.Equal(d.Total) {
		t.Errorf("sum of amounts %s != total %s", sum, d.Total)
	}
}

func BenchmarkComputeTotals(b *testing.B) {
	items := make([]LineItem, 1000)
	for i := range items {
		items[i] = item("3", "19.99", "20")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ComputeTotals(items)
	}
}
