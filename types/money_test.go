package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMoneyString(t *testing.T) {
	tests := []struct {
		name    string
		money   Money
		display string
	}{
		{"USD", NewMoney(d("49"), "usd"), "$49.00"},
		{"EUR fraction", NewMoney(d("199.5"), "EUR"), "€199.50"},
		{"GBP", NewMoney(d("99"), " gbp "), "£99.00"},
		{"JPY no decimals", NewMoney(d("100"), "JPY"), "¥100"},
		{"TRY", NewMoney(d("2360"), "TRY"), "₺2360.00"},
		{"Negative", NewMoney(d("-12.5"), "USD"), "-$12.50"},
		{"Unknown currency", NewMoney(d("7"), "xyz"), "XYZ 7.00"},
		{"Zero", Zero("USD"), "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.String(); got != tt.display {
				t.Errorf("String: got %s, want %s", got, tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return NewMoney(d("9600"), "USD").Add(NewMoney(d("400"), "USD")) }, NewMoney(d("10000"), "USD")},
		{"Sub", func() Money { return NewMoney(d("9600"), "USD").Sub(NewMoney(d("4000"), "USD")) }, NewMoney(d("5600"), "USD")},
		{"Neg", func() Money { return NewMoney(d("1.25"), "USD").Neg() }, NewMoney(d("-1.25"), "USD")},
		{"Scale-insensitive", func() Money { return NewMoney(d("1.10"), "USD") }, NewMoney(d("1.1"), "USD")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.op(); !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	_ = NewMoney(d("1"), "USD").Add(NewMoney(d("1"), "EUR"))
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		money    Money
		expected string
	}{
		{NewMoney(d("49"), "USD"), "49.00"},
		{NewMoney(d("0.01"), "USD"), "0.01"},
		{NewMoney(d("0"), "USD"), "0.00"},
		{NewMoney(d("-49"), "USD"), "-49.00"},
		{NewMoney(d("99.994"), "EUR"), "99.99"},
		{NewMoney(d("12345"), "JPY"), "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.money.FormatMajor(); got != tt.expected {
				t.Errorf("FormatMajor: got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(NewMoney(d("49"), "usd"))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	expected := `{"amount":"49","currency":"USD","display":"$49.00"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(d("9600"), "USD"); got != "$9600.00" {
		t.Errorf("FormatAmount: got %s", got)
	}
}

func TestEntityTimestamps(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2026, 1, 15, 12, 0, 0, 0, loc)

	e := NewEntityAt(created)
	if !e.CreatedAt.Equal(created) || e.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt: got %v, want %v in UTC", e.CreatedAt, created)
	}
	if !e.UpdatedAt.Equal(e.CreatedAt) {
		t.Errorf("UpdatedAt should start equal to CreatedAt")
	}

	later := created.Add(time.Hour)
	e.TouchAt(later)
	if !e.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt: got %v, want %v", e.UpdatedAt, later)
	}
	if !e.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt must not move on touch")
	}
}
