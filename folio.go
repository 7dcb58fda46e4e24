package folio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/store"
)

// Folio is the document and ledger engine. All writes go through one
// mutex, so a single Folio is a single writer; the version stamps checked
// by the store protect against other processes sharing the same database.
type Folio struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger

	// mu serialises every operation that writes to the store.
	mu sync.Mutex
	// seedMu keeps concurrent Seed calls from both finding an empty store.
	seedMu sync.Mutex

	// Configuration
	policy       numbering.Policy
	allowOrphans bool
	clock        func() time.Time
}

// New creates a new Folio instance.
func New(s store.Store, opts ...Option) *Folio {
	f := &Folio{
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		policy:  numbering.PolicyMonotonic,
		clock:   time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Option configures a Folio instance.
type Option func(*Folio)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Folio) {
		f.logger = logger
		f.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(f *Folio) {
		_ = f.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithNumberingPolicy selects how document numbers are assigned.
// Unknown policies are ignored.
func WithNumberingPolicy(p numbering.Policy) Option {
	return func(f *Folio) {
		if p.Valid() {
			f.policy = p
		}
	}
}

// WithOrphanedReferences allows deleting clients that documents still
// reference. Statements of such documents keep working; callers render the
// missing client themselves.
func WithOrphanedReferences(allow bool) Option {
	return func(f *Folio) {
		f.allowOrphans = allow
	}
}

// WithClock replaces the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Folio) {
		if now != nil {
			f.clock = now
		}
	}
}

// Start migrates the store and initialises plugins.
func (f *Folio) Start(ctx context.Context) error {
	if err := f.store.Migrate(ctx); err != nil {
		return err
	}

	f.plugins.EmitInit(ctx, f)

	f.logger.Info("folio started",
		"numbering", string(f.policy),
		"allow_orphans", f.allowOrphans,
		"plugins", f.plugins.Count(),
	)

	return nil
}

// Stop notifies plugins and closes the store.
func (f *Folio) Stop() error {
	f.plugins.EmitShutdown(context.Background())

	return f.store.Close()
}

// Store returns the underlying store.
func (f *Folio) Store() store.Store { return f.store }

// Plugins returns the plugin registry.
func (f *Folio) Plugins() *plugin.Registry { return f.plugins }

// NumberingPolicy returns the active numbering policy.
func (f *Folio) NumberingPolicy() numbering.Policy { return f.policy }

// now returns the current instant in UTC at microsecond precision, the
// finest resolution every supported backend keeps.
func (f *Folio) now() time.Time {
	return normalizeTime(f.clock())
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
