// Package cli implements the folio command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xraph/folio"
	"github.com/xraph/folio/internal/config"
	"github.com/xraph/folio/store"
	"github.com/xraph/folio/store/gormstore"
	"github.com/xraph/folio/store/memory"
)

// Version is stamped at build time.
var Version = "dev"

// App carries the state shared by every command. When Engine is set
// before Execute the commands use it as is and the configuration is not
// consulted.
type App struct {
	Out    io.Writer
	Err    io.Writer
	Engine *folio.Folio

	driver  string
	dsn     string
	jsonOut bool
	owned   bool
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Err == nil {
		app.Err = os.Stderr
	}

	root := &cobra.Command{
		Use:   "folio",
		Short: "Issue invoices, receipts and credit notes and track client balances",
		Long: `folio keeps a register of clients and the financial documents issued to
them. Documents are numbered per type with the configured prefixes and
carry tax-inclusive line items; a client statement lists every document
with a running balance.

Configuration is read from the environment (and a .env file):
  FOLIO_DB_DRIVER      memory, sqlite or postgres (default sqlite)
  FOLIO_DB_DSN         database file or connection string (default folio.db)
  FOLIO_NUMBERING      monotonic or count (default monotonic)
  FOLIO_ALLOW_ORPHANS  allow deleting clients that documents reference
  FOLIO_LOG_LEVEL      debug, info, warn or error (default warn)
  FOLIO_LOG_FORMAT     text or json (default text)`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.open(cmd.Context())
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return app.close()
		},
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	root.PersistentFlags().StringVar(&app.driver, "driver", "", "storage driver, overrides "+config.EnvDBDriver)
	root.PersistentFlags().StringVar(&app.dsn, "dsn", "", "data source, overrides "+config.EnvDBDSN)
	root.PersistentFlags().BoolVar(&app.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		newClientCommand(app),
		newDocumentCommand(app),
		newStatementCommand(app),
		newSettingsCommand(app),
		newSummaryCommand(app),
		newSeedCommand(app),
	)
	return root
}

// Execute runs the command tree with the process arguments.
func Execute(ctx context.Context) int {
	app := &App{}
	if err := NewRootCommand(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(app.Err, "error:", err)
		_ = app.close()
		return 1
	}
	return 0
}

func (a *App) open(ctx context.Context) error {
	if a.Engine != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.DBDriver = a.driver
	}
	if a.dsn != "" {
		cfg.DBDSN = a.dsn
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}

	logger := cfg.Logger(a.Err)
	opts := []folio.Option{
		folio.WithLogger(logger),
		folio.WithNumberingPolicy(cfg.Numbering),
		folio.WithOrphanedReferences(cfg.AllowOrphans),
	}
	eng := folio.New(s, opts...)
	if err := eng.Start(ctx); err != nil {
		_ = s.Close()
		return err
	}
	logger.Debug("store opened", "driver", cfg.DBDriver)

	a.Engine = eng
	a.owned = true
	return nil
}

func (a *App) close() error {
	if a.Engine == nil || !a.owned {
		return nil
	}
	err := a.Engine.Stop()
	a.Engine, a.owned = nil, false
	return err
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.DBDriver == "memory" {
		return memory.New(), nil
	}
	return gormstore.Open(cfg.DBDriver, cfg.DBDSN)
}

