package mongo

import (
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

// ==================== Client models ====================

type clientModel struct {
	grove.BaseModel `grove:"table:folio_clients"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Name      string    `grove:"name"       bson:"name"`
	Email     string    `grove:"email"      bson:"email"`
	Phone     string    `grove:"phone"      bson:"phone,omitempty"`
	Address   string    `grove:"address"    bson:"address,omitempty"`
	TaxNumber string    `grove:"tax_number" bson:"tax_number,omitempty"`
	VATRate   *string   `grove:"vat_rate"   bson:"vat_rate,omitempty"`
	Version   int64     `grove:"version"    bson:"version"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}

func toClientModel(c *client.Client) *clientModel {
	m := &clientModel{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		TaxNumber: c.TaxNumber,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.VATRate != nil {
		vat := c.VATRate.String()
		m.VATRate = &vat
	}
	return m
}

func fromClientModel(m *clientModel) (*client.Client, error) {
	clientID, err := id.ParseClientID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse client id: %w", err)
	}
	c := &client.Client{
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
		Version:   m.Version,
	}
	if m.VATRate != nil {
		vat, err := decimal.NewFromString(*m.VATRate)
		if err != nil {
			return nil, fmt.Errorf("parse vat rate: %w", err)
		}
		c.VATRate = &vat
	}
	return c, nil
}

// ==================== Document models ====================

type documentModel struct {
	grove.BaseModel `grove:"table:folio_documents"`

	ID        string          `grove:"id,pk"      bson:"_id"`
	Type      string          `grove:"type"       bson:"type"`
	Number    string          `grove:"number"     bson:"number"`
	EntityID  string          `grove:"entity_id"  bson:"entity_id"`
	Status    string          `grove:"status"     bson:"status"`
	IssueDate time.Time       `grove:"issue_date" bson:"issue_date"`
	DueDate   *time.Time      `grove:"due_date"   bson:"due_date,omitempty"`
	LineItems []lineItemModel `grove:"line_items" bson:"line_items"`
	Subtotal  string          `grove:"subtotal"   bson:"subtotal"`
	TaxAmount string          `grove:"tax_amount" bson:"tax_amount"`
	Total     string          `grove:"total"      bson:"total"`
	Notes     string          `grove:"notes"      bson:"notes,omitempty"`
	Version   int64           `grove:"version"    bson:"version"`
	CreatedAt time.Time       `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `grove:"updated_at" bson:"updated_at"`
}

type lineItemModel struct {
	ID          string `bson:"id"`
	Description string `bson:"description"`
	Quantity    string `bson:"quantity"`
	UnitPrice   string `bson:"unit_price"`
	TaxRate     string `bson:"tax_rate"`
	Amount      string `bson:"amount"`
}

func toDocumentModel(d *document.Document) *documentModel {
	items := make([]lineItemModel, len(d.LineItems))
	for i, li := range d.LineItems {
		items[i] = lineItemModel{
			ID:          li.ID.String(),
			Description: li.Description,
			Quantity:    li.Quantity.String(),
			UnitPrice:   li.UnitPrice.String(),
			TaxRate:     li.TaxRate.String(),
			Amount:      li.Amount.String(),
		}
	}
	return &documentModel{
		ID:        d.ID.String(),
		Type:      string(d.Type),
		Number:    d.Number,
		EntityID:  d.EntityID.String(),
		Status:    string(d.Status),
		IssueDate: d.IssueDate,
		DueDate:   d.DueDate,
		LineItems: items,
		Subtotal:  d.Subtotal.String(),
		TaxAmount: d.TaxAmount.String(),
		Total:     d.Total.String(),
		Notes:     d.Notes,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDocumentModel(m *documentModel) (*document.Document, error) {
	docID, err := id.ParseDocumentID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse document id: %w", err)
	}
	entityID, err := id.ParseClientID(m.EntityID)
	if err != nil {
		return nil, fmt.Errorf("parse entity id: %w", err)
	}

	items := make([]document.LineItem, len(m.LineItems))
	for i, lm := range m.LineItems {
		li, err := fromLineItemModel(lm)
		if err != nil {
			return nil, fmt.Errorf("line item %d: %w", i, err)
		}
		items[i] = li
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
	amounts := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&d.Subtotal, m.Subtotal},
		{&d.TaxAmount, m.TaxAmount},
		{&d.Total, m.Total},
	}
	for _, a := range amounts {
		if *a.dst, err = decimal.NewFromString(a.src); err != nil {
			return nil, fmt.Errorf("parse totals: %w", err)
		}
	}
	return d, nil
}

func fromLineItemModel(m lineItemModel) (document.LineItem, error) {
	liID, err := id.ParseLineItemID(m.ID)
	if err != nil {
		return document.LineItem{}, err
	}
	li := document.LineItem{ID: liID, Description: m.Description}
	fields := []struct {
		dst *decimal.Decimal
		src string
	}{
		{&li.Quantity, m.Quantity},
		{&li.UnitPrice, m.UnitPrice},
		{&li.TaxRate, m.TaxRate},
		{&li.Amount, m.Amount},
	}
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return document.LineItem{}, err
		}
	}
	return li, nil
}

// ==================== Settings models ====================

type settingsModel struct {
	ID               string    `bson:"_id"`
	CompanyName      string    `bson:"company_name"`
	CompanyEmail     string    `bson:"company_email"`
	CompanyPhone     string    `bson:"company_phone,omitempty"`
	CompanyAddress   string    `bson:"company_address,omitempty"`
	TaxNumber        string    `bson:"tax_number,omitempty"`
	Logo             string    `bson:"logo,omitempty"`
	DefaultCurrency  string    `bson:"default_currency"`
	DefaultTaxRate   string    `bson:"default_tax_rate"`
	InvoicePrefix    string    `bson:"invoice_prefix"`
	ReceiptPrefix    string    `bson:"receipt_prefix"`
	CreditNotePrefix string    `bson:"credit_note_prefix"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

func toSettingsModel(s *settings.Settings) *settingsModel {
	return &settingsModel{
		ID:               settingsDocID,
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
		return nil, fmt.Errorf("parse default tax rate: %w", err)
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

// counterModel holds the last issued sequence of one document type.
type counterModel struct {
	Type  string `bson:"_id"`
	Value int64  `bson:"value"`
}
