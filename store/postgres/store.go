package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/folio"
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
	foliostore "github.com/xraph/folio/store"
)

// compile-time interface check
var _ foliostore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("folio/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: postgres: %w", folio.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Client Store ====================

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	_, err := s.pg.NewInsert(toClientModel(c)).Exec(ctx)
	return err
}

func (s *Store) GetClient(ctx context.Context, clientID id.ClientID) (*client.Client, error) {
	m := new(clientModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", clientID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrClientNotFound
		}
		return nil, err
	}
	return fromClientModel(m)
}

func (s *Store) ListClients(ctx context.Context, opts client.ListOpts) ([]*client.Client, error) {
	var models []clientModel
	q := s.pg.NewSelect(&models)

	if term := searchTerm(opts.Search); term != "" {
		q = q.Where("(LOWER(name) LIKE $1 OR LOWER(email) LIKE $1)", term)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*client.Client, len(models))
	for i := range models {
		c, err := fromClientModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	m := toClientModel(c)
	res, err := s.pg.NewUpdate((*clientModel)(nil)).
		Set("name = $1", m.Name).
		Set("email = $2", m.Email).
		Set("phone = $3", m.Phone).
		Set("address = $4", m.Address).
		Set("tax_number = $5", m.TaxNumber).
		Set("vat_rate = $6", m.VATRate).
		Set("version = $7", m.Version+1).
		Set("updated_at = $8", m.UpdatedAt).
		Where("id = $9", m.ID).
		Where("version = $10", m.Version).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.missingOrStale(ctx, "folio_clients", m.ID, folio.ErrClientNotFound)
	}
	c.Version++
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, clientID id.ClientID) error {
	res, err := s.pg.NewDelete((*clientModel)(nil)).
		Where("id = $1", clientID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return folio.ErrClientNotFound
	}
	return nil
}

// ==================== Document Store ====================

func (s *Store) CreateDocument(ctx context.Context, d *document.Document) error {
	m, err := toDocumentModel(d)
	if err != nil {
		return err
	}
	_, err = s.pg.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetDocument(ctx context.Context, docID id.DocumentID) (*document.Document, error) {
	m := new(documentModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", docID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, folio.ErrDocumentNotFound
		}
		return nil, err
	}
	return fromDocumentModel(m)
}

func (s *Store) ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	var models []documentModel
	q := s.pg.NewSelect(&models)

	for _, f := range documentFilters(opts) {
		q = q.Where(f.expr, f.arg)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("created_at ASC, id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*document.Document, len(models))
	for i := range models {
		d, err := fromDocumentModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = d
	}
	return result, nil
}

func (s *Store) CountDocuments(ctx context.Context, opts document.ListOpts) (int64, error) {
	query := "SELECT COUNT(*) FROM folio_documents"
	filters := documentFilters(opts)
	args := make([]any, len(filters))
	if len(filters) > 0 {
		clauses := make([]string, len(filters))
		for i, f := range filters {
			clauses[i] = f.expr
			args[i] = f.arg
		}
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int64
	if err := s.pg.NewRaw(query, args...).Scan(ctx, &total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) UpdateDocument(ctx context.Context, d *document.Document) error {
	m, err := toDocumentModel(d)
	if err != nil {
		return err
	}
	res, err := s.pg.NewUpdate((*documentModel)(nil)).
		Set("number = $1", m.Number).
		Set("entity_id = $2", m.EntityID).
		Set("status = $3", m.Status).
		Set("issue_date = $4", m.IssueDate).
		Set("due_date = $5", m.DueDate).
		Set("line_items = $6", m.LineItems).
		Set("subtotal = $7", m.Subtotal).
		Set("tax_amount = $8", m.TaxAmount).
		Set("total = $9", m.Total).
		Set("notes = $10", m.Notes).
		Set("version = $11", m.Version+1).
		Set("updated_at = $12", m.UpdatedAt).
		Where("id = $13", m.ID).
		Where("version = $14", m.Version).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.missingOrStale(ctx, "folio_documents", m.ID, folio.ErrDocumentNotFound)
	}
	d.Version++
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, docID id.DocumentID) error {
	res, err := s.pg.NewDelete((*documentModel)(nil)).
		Where("id = $1", docID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return folio.ErrDocumentNotFound
	}
	return nil
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	m := new(settingsModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", settingsRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			def := settings.Default()
			return &def, nil
		}
		return nil, err
	}
	return fromSettingsModel(m)
}

func (s *Store) SaveSettings(ctx context.Context, st *settings.Settings) error {
	_, err := s.pg.NewInsert(toSettingsModel(st)).
		OnConflict("(id) DO UPDATE").
		Set("company_name = EXCLUDED.company_name").
		Set("company_email = EXCLUDED.company_email").
		Set("company_phone = EXCLUDED.company_phone").
		Set("company_address = EXCLUDED.company_address").
		Set("tax_number = EXCLUDED.tax_number").
		Set("logo = EXCLUDED.logo").
		Set("default_currency = EXCLUDED.default_currency").
		Set("default_tax_rate = EXCLUDED.default_tax_rate").
		Set("invoice_prefix = EXCLUDED.invoice_prefix").
		Set("receipt_prefix = EXCLUDED.receipt_prefix").
		Set("credit_note_prefix = EXCLUDED.credit_note_prefix").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// ==================== Numbering Store ====================

func (s *Store) CurrentSequence(ctx context.Context, t document.Type) (int64, error) {
	var cur int64
	err := s.pg.NewRaw(`
		SELECT COALESCE(MAX(value), 0) FROM folio_counters WHERE doc_type = $1
	`, string(t)).Scan(ctx, &cur)
	if err != nil {
		return 0, err
	}
	return cur, nil
}

func (s *Store) AdvanceSequence(ctx context.Context, t document.Type, floor int64) (int64, error) {
	var next int64
	err := s.pg.NewRaw(`
		INSERT INTO folio_counters (doc_type, value) VALUES ($1, $2 + 1)
		ON CONFLICT (doc_type) DO UPDATE SET value = GREATEST(folio_counters.value, $2) + 1
		RETURNING value
	`, string(t), floor).Scan(ctx, &next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// ==================== Helpers ====================

// filter is one WHERE clause and its single bound argument.
type filter struct {
	expr string
	arg  any
}

// documentFilters turns opts into numbered WHERE clauses shared by
// ListDocuments and CountDocuments.
func documentFilters(opts document.ListOpts) []filter {
	var out []filter
	add := func(expr string, arg any) {
		out = append(out, filter{expr: fmt.Sprintf(expr, len(out)+1), arg: arg})
	}
	if opts.Type != "" {
		add("type = $%d", string(opts.Type))
	}
	if opts.Status != "" {
		add("status = $%d", string(opts.Status))
	}
	if !opts.EntityID.IsNil() {
		add("entity_id = $%d", opts.EntityID.String())
	}
	if term := searchTerm(opts.Search); term != "" {
		add("(LOWER(number) LIKE $%[1]d OR LOWER(notes) LIKE $%[1]d)", term)
	}
	return out
}

// missingOrStale explains a conditional update that matched no row: the
// row is either gone or carries a newer version.
func (s *Store) missingOrStale(ctx context.Context, table, rowID string, notFound error) error {
	var n int64
	if err := s.pg.NewRaw("SELECT COUNT(*) FROM "+table+" WHERE id = $1", rowID).Scan(ctx, &n); err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return folio.ErrVersionConflict
}

// searchTerm lower-cases term and wraps it for a LIKE match.
func searchTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ""
	}
	return "%" + term + "%"
}

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
