package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Folio store (SQLite).
var Migrations = migrate.NewGroup("folio")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_folio_clients",
			Version: "20260101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_clients (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    email       TEXT NOT NULL DEFAULT '',
    phone       TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    tax_number  TEXT NOT NULL DEFAULT '',
    vat_rate    TEXT,
    version     INTEGER NOT NULL DEFAULT 1,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_folio_clients_created ON folio_clients (created_at, id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_clients`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_folio_documents",
			Version: "20260101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_documents (
    id          TEXT PRIMARY KEY,
    type        TEXT NOT NULL,
    number      TEXT NOT NULL DEFAULT '',
    entity_id   TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'draft',
    issue_date  TIMESTAMP NOT NULL,
    due_date    TIMESTAMP,
    line_items  TEXT NOT NULL DEFAULT '[]',
    subtotal    TEXT NOT NULL DEFAULT '0',
    tax_amount  TEXT NOT NULL DEFAULT '0',
    total       TEXT NOT NULL DEFAULT '0',
    notes       TEXT NOT NULL DEFAULT '',
    version     INTEGER NOT NULL DEFAULT 1,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_folio_documents_type ON folio_documents (type, number);
CREATE INDEX IF NOT EXISTS idx_folio_documents_entity ON folio_documents (entity_id, issue_date);
CREATE INDEX IF NOT EXISTS idx_folio_documents_created ON folio_documents (created_at, id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_documents`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_folio_settings",
			Version: "20260101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_settings (
    id                  INTEGER PRIMARY KEY,
    company_name        TEXT NOT NULL DEFAULT '',
    company_email       TEXT NOT NULL DEFAULT '',
    company_phone       TEXT NOT NULL DEFAULT '',
    company_address     TEXT NOT NULL DEFAULT '',
    tax_number          TEXT NOT NULL DEFAULT '',
    logo                TEXT NOT NULL DEFAULT '',
    default_currency    TEXT NOT NULL DEFAULT 'USD',
    default_tax_rate    TEXT NOT NULL DEFAULT '20',
    invoice_prefix      TEXT NOT NULL DEFAULT 'INV-',
    receipt_prefix      TEXT NOT NULL DEFAULT 'REC-',
    credit_note_prefix  TEXT NOT NULL DEFAULT 'CN-',
    updated_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_settings`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_folio_counters",
			Version: "20260101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS folio_counters (
    doc_type  TEXT PRIMARY KEY,
    value     INTEGER NOT NULL DEFAULT 0
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS folio_counters`)
				return err
			},
		},
	)
}
