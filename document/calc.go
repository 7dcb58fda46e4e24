package document

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals are the aggregated figures of a document.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeAmount returns the tax-inclusive amount of one line:
// quantity*unitPrice plus taxRate percent of it.
func ComputeAmount(quantity, unitPrice, taxRate decimal.Decimal) decimal.Decimal {
	net := quantity.Mul(unitPrice)
	return net.Add(tax(net, taxRate))
}

// ComputeTotals aggregates items in order. An empty slice yields zero totals.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	taxAmount := decimal.Zero
	for _, li := range items {
		net := li.Quantity.Mul(li.UnitPrice)
		subtotal = subtotal.Add(net)
		taxAmount = taxAmount.Add(tax(net, li.TaxRate))
	}
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

// tax is net*rate/100. Multiplying before dividing keeps the result exact
// whenever the rate has a terminating decimal form.
func tax(net, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return net.Mul(rate).Div(hundred)
}
