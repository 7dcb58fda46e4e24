package gormstore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

const settingsRowID = 1

type clientRow struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Phone     string    `gorm:"not null;default:''"`
	Address   string    `gorm:"not null;default:''"`
	TaxNumber string    `gorm:"not null;default:''"`
	VATRate   *string   `gorm:"column:vat_rate"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (clientRow) TableName() string { return "folio_clients" }

type documentRow struct {
	ID        string                                 `gorm:"primaryKey;size:64"`
	Type      string                                 `gorm:"not null;index:idx_folio_documents_type,priority:1"`
	Number    string                                 `gorm:"not null;index:idx_folio_documents_type,priority:2"`
	EntityID  string                                 `gorm:"not null;index"`
	Status    string                                 `gorm:"not null"`
	IssueDate time.Time                              `gorm:"not null"`
	DueDate   *time.Time
	LineItems datatypes.JSONSlice[document.LineItem] `gorm:"not null"`
	Subtotal  string                                 `gorm:"not null;default:'0'"`
	TaxAmount string                                 `gorm:"not null;default:'0'"`
	Total     string                                 `gorm:"not null;default:'0'"`
	Notes     string                                 `gorm:"not null;default:''"`
	Version   int64                                  `gorm:"not null;default:1"`
	CreatedAt time.Time                              `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time                              `gorm:"not null;autoUpdateTime:false"`
}

func (documentRow) TableName() string { return "folio_documents" }

type settingsRow struct {
	ID               int    `gorm:"primaryKey;autoIncrement:false"`
	CompanyName      string `gorm:"not null"`
	CompanyEmail     string `gorm:"not null"`
	CompanyPhone     string `gorm:"not null;default:''"`
	CompanyAddress   string `gorm:"not null;default:''"`
	TaxNumber        string `gorm:"not null;default:''"`
	Logo             string `gorm:"not null;default:''"`
	DefaultCurrency  string `gorm:"not null"`
	DefaultTaxRate   string `gorm:"not null"`
	InvoicePrefix    string `gorm:"not null"`
	ReceiptPrefix    string `gorm:"not null"`
	CreditNotePrefix string `gorm:"not null"`
}

func (settingsRow) TableName() string { return "folio_settings" }

type counterRow struct {
	DocType string `gorm:"primaryKey;size:32"`
	Value   int64  `gorm:"not null;default:0"`
}

func (counterRow) TableName() string { return "folio_counters" }

func toClientRow(c *client.Client) *clientRow {
	r := &clientRow{
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
		r.VATRate = &vat
	}
	return r
}

func (r *clientRow) toClient() (*client.Client, error) {
	clientID, err := id.ParseClientID(r.ID)
	if err != nil {
		return nil, err
	}
	c := &client.Client{
		Entity:    types.Entity{CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC()},
		ID:        clientID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		TaxNumber: r.TaxNumber,
		Version:   r.Version,
	}
	if r.VATRate != nil {
		vat, err := decimal.NewFromString(*r.VATRate)
		if err != nil {
			return nil, fmt.Errorf("vat_rate: %w", err)
		}
		c.VATRate = &vat
	}
	return c, nil
}

func toDocumentRow(d *document.Document) *documentRow {
	items := d.LineItems
	if items == nil {
		items = []document.LineItem{}
	}
	return &documentRow{
		ID:        d.ID.String(),
		Type:      string(d.Type),
		Number:    d.Number,
		EntityID:  d.EntityID.String(),
		Status:    string(d.Status),
		IssueDate: d.IssueDate,
		DueDate:   d.DueDate,
		LineItems: datatypes.NewJSONSlice(items),
		Subtotal:  d.Subtotal.String(),
		TaxAmount: d.TaxAmount.String(),
		Total:     d.Total.String(),
		Notes:     d.Notes,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *documentRow) toDocument() (*document.Document, error) {
	docID, err := id.ParseDocumentID(r.ID)
	if err != nil {
		return nil, err
	}
	entityID, err := id.ParseClientID(r.EntityID)
	if err != nil {
		return nil, fmt.Errorf("entity_id: %w", err)
	}
	items := []document.LineItem(r.LineItems)
	if items == nil {
		items = []document.LineItem{}
	}
	d := &document.Document{
		Entity:    types.Entity{CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC()},
		ID:        docID,
		Type:      document.Type(r.Type),
		Number:    r.Number,
		EntityID:  entityID,
		Status:    document.Status(r.Status),
		IssueDate: r.IssueDate.UTC(),
		LineItems: items,
		Notes:     r.Notes,
		Version:   r.Version,
	}
	if r.DueDate != nil {
		due := r.DueDate.UTC()
		d.DueDate = &due
	}
	if d.Subtotal, err = decimal.NewFromString(r.Subtotal); err != nil {
		return nil, fmt.Errorf("subtotal: %w", err)
	}
	if d.TaxAmount, err = decimal.NewFromString(r.TaxAmount); err != nil {
		return nil, fmt.Errorf("tax_amount: %w", err)
	}
	if d.Total, err = decimal.NewFromString(r.Total); err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}
	return d, nil
}

func toSettingsRow(s *settings.Settings) *settingsRow {
	return &settingsRow{
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
	}
}

func (r *settingsRow) toSettings() (*settings.Settings, error) {
	rate, err := decimal.NewFromString(r.DefaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("default_tax_rate: %w", err)
	}
	return &settings.Settings{
		CompanyName:      r.CompanyName,
		CompanyEmail:     r.CompanyEmail,
		CompanyPhone:     r.CompanyPhone,
		CompanyAddress:   r.CompanyAddress,
		TaxNumber:        r.TaxNumber,
		Logo:             r.Logo,
		DefaultCurrency:  r.DefaultCurrency,
		DefaultTaxRate:   rate,
		InvoicePrefix:    r.InvoicePrefix,
		ReceiptPrefix:    r.ReceiptPrefix,
		CreditNotePrefix: r.CreditNotePrefix,
	}, nil
}
