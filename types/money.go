package types

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount tagged with an ISO 4217 currency code.
// Document totals are stored as bare decimals; Money exists for display,
// where the currency comes from Settings.
//
// Examples:
//   - NewMoney(decimal.NewFromInt(9600), "USD") = $9600.00
//   - NewMoney(decimal.RequireFromString("199.5"), "eur") = €199.50
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"` // ISO 4217 uppercase: "USD", "EUR", "GBP"
}

// NewMoney creates a Money value, normalising the currency code.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(strings.TrimSpace(currency))}
}

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money { return NewMoney(decimal.Zero, currency) }

// Add adds two Money values. Panics if currencies don't match.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Sub subtracts another Money value. Panics if currencies don't match.
func (m Money) Sub(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}
}

// Neg returns the negative of the Money value.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// Equal returns true if both Money values are numerically equal in the same currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// FormatMajor returns the amount rounded to the currency's minor unit,
// without a symbol: "9600.00" for USD, "100" for JPY.
func (m Money) FormatMajor() string {
	return m.Amount.StringFixedBank(currencyDecimals(m.Currency))
}

// String returns a human-readable string with currency symbol.
// Examples: "$49.00", "€199.00", "£99.00", "¥100", "-$12.50"
func (m Money) String() string {
	symbol := currencySymbol(m.Currency)
	if m.Amount.IsNegative() {
		return "-" + symbol + m.Amount.Neg().StringFixedBank(currencyDecimals(m.Currency))
	}
	return symbol + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   decimal.Decimal `json:"amount"`
		Currency string          `json:"currency"`
		Display  string          `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

// FormatAmount renders a bare decimal in the given currency.
func FormatAmount(amount decimal.Decimal, currency string) string {
	return NewMoney(amount, currency).String()
}

func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic("money: currency mismatch: " + m.Currency + " != " + other.Currency)
	}
}

// currencySymbol returns the symbol for a currency code.
func currencySymbol(currency string) string {
	symbols := map[string]string{
		"USD": "$",
		"EUR": "€",
		"GBP": "£",
		"JPY": "¥",
		"CAD": "C$",
		"AUD": "A$",
		"CHF": "CHF ",
		"CNY": "¥",
		"SEK": "kr ",
		"NZD": "NZ$",
		"TRY": "₺",
		"INR": "₹",
	}
	if sym, ok := symbols[strings.ToUpper(currency)]; ok {
		return sym
	}
	return strings.ToUpper(currency) + " "
}

// currencyDecimals returns the number of decimal places for a currency.
func currencyDecimals(currency string) int32 {
	zeroDecimal := map[string]bool{
		"JPY": true, // Japanese Yen
		"KRW": true, // Korean Won
		"VND": true, // Vietnamese Dong
		"CLP": true, // Chilean Peso
		"PYG": true, // Paraguayan Guarani
		"IDR": true, // Indonesian Rupiah
	}
	if zeroDecimal[strings.ToUpper(currency)] {
		return 0
	}
	return 2
}
