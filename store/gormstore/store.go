// Package gormstore implements store.Store on GORM. It opens SQLite files
// through the pure-Go glebarez driver and PostgreSQL through pgx, which
// makes it the backend the folio command uses.
//
// The glebarez driver registers itself with database/sql as "sqlite", the
// same name Grove's sqlitedriver registers, so this package and
// store/sqlite cannot be linked into one binary.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/xraph/folio"
	"github.com/xraph/folio/client"
	"github.com/xraph/folio/document"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store persists folio records through a *gorm.DB.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// OpenSQLite opens (creating if needed) the SQLite database at dsn.
// Use "file::memory:?cache=shared" for a throwaway database.
func OpenSQLite(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("folio/gorm: open sqlite: %w", err)
	}
	return New(db), nil
}

// OpenPostgres connects to the PostgreSQL server described by dsn.
func OpenPostgres(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("folio/gorm: open postgres: %w", err)
	}
	return New(db), nil
}

// Open opens the store for a named driver: "sqlite" or "postgres".
func Open(driver, dsn string) (*Store, error) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return OpenSQLite(dsn)
	case "postgres", "postgresql", "pg":
		return OpenPostgres(dsn)
	}
	return nil, fmt.Errorf("folio/gorm: unsupported driver %q", driver)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB { return s.db }

// Migrate creates or updates the folio tables.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&clientRow{},
		&documentRow{},
		&settingsRow{},
		&counterRow{},
	)
	if err != nil {
		return fmt.Errorf("%w: gorm: %w", folio.ErrMigrationFailed, err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ──────────────────────────────────────────────────
// Clients
// ──────────────────────────────────────────────────

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	return createErr(s.db.WithContext(ctx).Create(toClientRow(c)).Error)
}

func (s *Store) GetClient(ctx context.Context, clientID id.ClientID) (*client.Client, error) {
	var row clientRow
	err := s.db.WithContext(ctx).Where("id = ?", clientID.String()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, folio.ErrClientNotFound
		}
		return nil, err
	}
	return row.toClient()
}

func (s *Store) ListClients(ctx context.Context, opts client.ListOpts) ([]*client.Client, error) {
	stmt := s.db.WithContext(ctx).Model(&clientRow{})
	if term := likeTerm(opts.Search); term != "" {
		stmt = stmt.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", term, term)
	}
	stmt = paginate(stmt, opts.Limit, opts.Offset)

	var rows []clientRow
	if err := stmt.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*client.Client, len(rows))
	for i := range rows {
		c, err := rows[i].toClient()
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	row := toClientRow(c)
	res := s.db.WithContext(ctx).
		Model(&clientRow{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]any{
			"name":       row.Name,
			"email":      row.Email,
			"phone":      row.Phone,
			"address":    row.Address,
			"tax_number": row.TaxNumber,
			"vat_rate":   row.VATRate,
			"version":    row.Version + 1,
			"updated_at": row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.missingOrStale(ctx, &clientRow{}, row.ID, folio.ErrClientNotFound)
	}
	c.Version++
	return nil
}

func (s *Store) DeleteClient(ctx context.Context, clientID id.ClientID) error {
	res := s.db.WithContext(ctx).Where("id = ?", clientID.String()).Delete(&clientRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return folio.ErrClientNotFound
	}
	return nil
}

// ──────────────────────────────────────────────────
// Documents
// ──────────────────────────────────────────────────

func (s *Store) CreateDocument(ctx context.Context, d *document.Document) error {
	return createErr(s.db.WithContext(ctx).Create(toDocumentRow(d)).Error)
}

func (s *Store) GetDocument(ctx context.Context, docID id.DocumentID) (*document.Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("id = ?", docID.String()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, folio.ErrDocumentNotFound
		}
		return nil, err
	}
	return row.toDocument()
}

func (s *Store) ListDocuments(ctx context.Context, opts document.ListOpts) ([]*document.Document, error) {
	stmt := paginate(s.documentQuery(ctx, opts), opts.Limit, opts.Offset)

	var rows []documentRow
	if err := stmt.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*document.Document, len(rows))
	for i := range rows {
		d, err := rows[i].toDocument()
		if err != nil {
			return nil, err
		}
		result[i] = d
	}
	return result, nil
}

func (s *Store) CountDocuments(ctx context.Context, opts document.ListOpts) (int64, error) {
	var n int64
	if err := s.documentQuery(ctx, opts).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) UpdateDocument(ctx context.Context, d *document.Document) error {
	row := toDocumentRow(d)
	res := s.db.WithContext(ctx).
		Model(&documentRow{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]any{
			"number":     row.Number,
			"entity_id":  row.EntityID,
			"status":     row.Status,
			"issue_date": row.IssueDate,
			"due_date":   row.DueDate,
			"line_items": row.LineItems,
			"subtotal":   row.Subtotal,
			"tax_amount": row.TaxAmount,
			"total":      row.Total,
			"notes":      row.Notes,
			"version":    row.Version + 1,
			"updated_at": row.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.missingOrStale(ctx, &documentRow{}, row.ID, folio.ErrDocumentNotFound)
	}
	d.Version++
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, docID id.DocumentID) error {
	res := s.db.WithContext(ctx).Where("id = ?", docID.String()).Delete(&documentRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return folio.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) documentQuery(ctx context.Context, opts document.ListOpts) *gorm.DB {
	stmt := s.db.WithContext(ctx).Model(&documentRow{})
	if opts.Type != "" {
		stmt = stmt.Where("type = ?", string(opts.Type))
	}
	if opts.Status != "" {
		stmt = stmt.Where("status = ?", string(opts.Status))
	}
	if !opts.EntityID.IsNil() {
		stmt = stmt.Where("entity_id = ?", opts.EntityID.String())
	}
	if term := likeTerm(opts.Search); term != "" {
		stmt = stmt.Where("(LOWER(number) LIKE ? OR LOWER(notes) LIKE ?)", term, term)
	}
	return stmt
}

// ──────────────────────────────────────────────────
// Settings and numbering
// ──────────────────────────────────────────────────

func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	var row settingsRow
	err := s.db.WithContext(ctx).Where("id = ?", settingsRowID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			def := settings.Default()
			return &def, nil
		}
		return nil, err
	}
	return row.toSettings()
}

func (s *Store) SaveSettings(ctx context.Context, st *settings.Settings) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(toSettingsRow(st)).Error
}

func (s *Store) CurrentSequence(ctx context.Context, t document.Type) (int64, error) {
	var cur int64
	err := s.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(value), 0) FROM folio_counters WHERE doc_type = ?", string(t)).
		Scan(&cur).Error
	if err != nil {
		return 0, err
	}
	return cur, nil
}

func (s *Store) AdvanceSequence(ctx context.Context, t document.Type, floor int64) (int64, error) {
	greatest := "MAX"
	if strings.EqualFold(s.db.Dialector.Name(), "postgres") {
		greatest = "GREATEST"
	}

	var next int64
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO folio_counters (doc_type, value) VALUES (?, ?)
		ON CONFLICT (doc_type) DO UPDATE SET value = `+greatest+`(folio_counters.value, ?) + 1
		RETURNING value`,
		string(t), floor+1, floor,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// missingOrStale explains a conditional update that matched no row: the
// row is either gone or carries a newer version.
func (s *Store) missingOrStale(ctx context.Context, model any, rowID string, notFound error) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", rowID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return folio.ErrVersionConflict
}

func createErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return folio.ErrAlreadyExists
	}
	return err
}

func paginate(stmt *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if offset > 0 {
		stmt = stmt.Offset(offset)
	}
	return stmt
}

// likeTerm lower-cases term and wraps it for a LIKE match.
func likeTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ""
	}
	return "%" + term + "%"
}
