package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xraph/grove"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// settingsRowID is the primary key of the single settings row.
const settingsRowID = 1

// ==================== Client models ====================

type clientModel struct {
	grove.BaseModel `grove:"table:folio_clients"`

	ID        string    `grove:"id,pk"`
	Name      string    `grove:"name"`
	Email     string    `grove:"email"`
	Phone     string    `grove:"phone"`
	Address   string    `grove:"address"`
	TaxNumber string    `grove:"tax_number"`
	VATRate   *string   `grove:"vat_rate"`
	Version   int64     `grove:"version"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toClientModel(c *client.Client) *clientModel {
	return &clientModel{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		TaxNumber: c.TaxNumber,
		VATRate:   decimalPtrString(c.VATRate),
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromClientModel(m *clientModel) (*client.Client, error) {
	clientID, err := id.ParseClientID(m.ID)
	if err != nil {
		return nil, err
	}
	vat, err := parseDecimalPtr(m.VATRate)
	if err != nil {
		return nil, fmt.Errorf("vat_rate: %w", err)
	}
	return &client.Client{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		ID:        clientID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		TaxNumber: m.TaxNumber,
		VATRate:   vat,
		Version:   m.Version,
	}, nil
}

// ==================== Document models ====================

type documentModel struct {
	grove.BaseModel `grove:"table:folio_documents"`

	ID        string          `grove:"id,pk"`
	Type      string          `grove:"type"`
	Number    string          `grove:"number"`
	EntityID  string          `grove:"entity_id"`
	Status    string          `grove:"status"`
	IssueDate time.Time       `grove:"issue_date"`
	DueDate   *time.Time      `grove:"due_date"`
	LineItems string          `grove:"line_items"`
	Subtotal  string          `grove:"subtotal"`
	TaxAmount string          `grove:"tax_amount"`
	Total     string          `grove:"total"`
	Notes     string          `grove:"notes"`
	Version   int64           `grove:"version"`
	CreatedAt time.Time       `grove:"created_at"`
	UpdatedAt time.Time       `grove:"updated_at"`
}

func toDocumentModel(d *document.Document) (*documentModel, error) {
	items := d.LineItems
	if items == nil {
		items = []document.LineItem{}
	}
	lineItems, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("line_items: %w", err)
	}
	return &documentModel{
		ID:        d.ID.String(),
		Type:      string(d.Type),
		Number:    d.Number,
		EntityID:  d.EntityID.String(),
		Status:    string(d.Status),
		IssueDate: d.IssueDate,
		DueDate:   d.DueDate,
		LineItems: string(lineItems),
		Subtotal:  d.Subtotal.String(),
		TaxAmount: d.TaxAmount.String(),
		Total:     d.Total.String(),
		Notes:     d.Notes,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func fromDocumentModel(m *documentModel) (*document.Document, error) {
	docID, err := id.ParseDocumentID(m.ID)
	if err != nil {
		return nil, err
	}
	entityID, err := id.ParseClientID(m.EntityID)
	if err != nil {
		return nil, fmt.Errorf("entity_id: %w", err)
	}

	items := []document.LineItem{}
	if len(m.LineItems) > 0 {
		if err := json.Unmarshal([]byte(m.LineItems), &items); err != nil {
			return nil, fmt.Errorf("line_items: %w", err)
		}
	}

	d := &document.Document{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		ID:        docID,
		Type:      document.Type(m.Type),
		Number:    m.Number,
		EntityID:  entityID,
		Status:    document.Status(m.Status),
		IssueDate: m.IssueDate.UTC(),
		LineItems: items,
		Notes:     m.Notes,
		Version:   m.Version,
	}
	if m.DueDate != nil {
		due := m.DueDate.UTC()
		d.DueDate = &due
	}
	if d.Subtotal, err = decimal.NewFromString(m.Subtotal); err != nil {
		return nil, fmt.Errorf("subtotal: %w", err)
	}
	if d.TaxAmount, err = decimal.NewFromString(m.TaxAmount); err != nil {
		return nil, fmt.Errorf("tax_amount: %w", err)
	}
	if d.Total, err = decimal.NewFromString(m.Total); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	return d, nil
}

// ==================== Settings models ====================

type settingsModel struct {
	grove.BaseModel `grove:"table:folio_settings"`

	ID               int       `grove:"id,pk"`
	CompanyName      string    `grove:"company_name"`
	CompanyEmail     string    `grove:"company_email"`
	CompanyPhone     string    `grove:"company_phone"`
	CompanyAddress   string    `grove:"company_address"`
	TaxNumber        string    `grove:"tax_number"`
	Logo             string    `grove:"logo"`
	DefaultCurrency  string    `grove:"default_currency"`
	DefaultTaxRate   string    `grove:"default_tax_rate"`
	InvoicePrefix    string    `grove:"invoice_prefix"`
	ReceiptPrefix    string    `grove:"receipt_prefix"`
	CreditNotePrefix string    `grove:"credit_note_prefix"`
	UpdatedAt        time.Time `grove:"updated_at"`
}

func toSettingsModel(s *settings.Settings) *settingsModel {
	return &settingsModel{
		ID:               settingsRowID,
		CompanyName:      s.CompanyName,
		CompanyEmail:     s.CompanyEmail,
		CompanyPhone:     s.CompanyPhone,
		CompanyAddress:   s.CompanyAddress,
		TaxNumber:        s.TaxNumber,
		Logo:             s.Logo,
		DefaultCurrency:  s.DefaultCurrency,
		DefaultTaxRate:   s.DefaultTaxRate.String(),
		InvoicePrefix:    s.InvoicePrefix,
		ReceiptPrefix:    s.ReceiptPrefix,
		CreditNotePrefix: s.CreditNotePrefix,
		UpdatedAt:        now(),
	}
}

func fromSettingsModel(m *settingsModel) (*settings.Settings, error) {
	rate, err := decimal.NewFromString(m.DefaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("default_tax_rate: %w", err)
	}
	return &settings.Settings{
		CompanyName:      m.CompanyName,
		CompanyEmail:     m.CompanyEmail,
		CompanyPhone:     m.CompanyPhone,
		CompanyAddress:   m.CompanyAddress,
		TaxNumber:        m.TaxNumber,
		Logo:             m.Logo,
		DefaultCurrency:  m.DefaultCurrency,
		DefaultTaxRate:   rate,
		InvoicePrefix:    m.InvoicePrefix,
		ReceiptPrefix:    m.ReceiptPrefix,
		CreditNotePrefix: m.CreditNotePrefix,
	}, nil
}

// ==================== Helpers ====================

func decimalPtrString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDecimalPtr(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
