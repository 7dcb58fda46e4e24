// Package extension provides the Forge extension adapter for Folio.
//
// It implements the forge.Extension interface to integrate Folio
// into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.folio" or "folio" keys.
package extension

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/folio"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/observability"
	"github.com/xraph/folio/store"
	"github.com/xraph/folio/store/gormstore"
	"github.com/xraph/folio/store/memory"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "folio"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Invoice, receipt and credit note engine with client statements"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Folio as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config    Config
	engine    *folio.Folio
	store     store.Store
	folioOpts []folio.Option
}

// New creates a new Folio Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Folio instance.
// This is nil until Register is called.
func (e *Extension) Engine() *folio.Folio { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the folio engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	if e.store == nil {
		s, err := openStore(e.config)
		if err != nil {
			return err
		}
		e.store = s
	}

	opts, err := e.buildFolioOpts()
	if err != nil {
		return err
	}

	e.engine = folio.New(e.store, opts...)

	return vessel.Provide(fapp.Container(), func() (*folio.Folio, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("folio: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("folio: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildFolioOpts constructs folio.Option values from the resolved config.
func (e *Extension) buildFolioOpts() ([]folio.Option, error) {
	opts := make([]folio.Option, 0, len(e.folioOpts)+3)

	policy, err := numbering.ParsePolicy(e.config.Numbering)
	if err != nil {
		return nil, fmt.Errorf("folio: %w", err)
	}
	opts = append(opts,
		folio.WithNumberingPolicy(policy),
		folio.WithOrphanedReferences(e.config.AllowOrphans),
	)

	if e.config.EnableMetrics {
		factory := observability.NewPrometheusFactory(nil)
		opts = append(opts, folio.WithPlugin(observability.NewMetricsExtension(factory)))
	}

	// Append any pass-through folio options.
	opts = append(opts, e.folioOpts...)

	return opts, nil
}

// openStore builds the backend named by cfg.Driver.
func openStore(cfg Config) (store.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return memory.New(), nil
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("folio: driver %q requires a dsn", cfg.Driver)
	}
	return gormstore.Open(cfg.Driver, cfg.DSN)
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("folio: configuration is required but not found in config files; " +
				"ensure 'extensions.folio' or 'folio' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("folio: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("numbering", e.config.Numbering),
		forge.F("allow_orphans", e.config.AllowOrphans),
		forge.F("driver", e.config.Driver),
		forge.F("enable_metrics", e.config.EnableMetrics),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	for _, key := range []string{"extensions.folio", "folio"} {
		if !cm.IsSet(key) {
			continue
		}
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("folio: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		e.Logger().Warn("folio: failed to bind config",
			forge.F("key", key),
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.Numbering == "" {
		cfg.Numbering = defaults.Numbering
	}
	if cfg.Driver == "" {
		cfg.Driver = defaults.Driver
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.AllowOrphans {
		yamlConfig.AllowOrphans = true
	}
	if programmaticConfig.EnableMetrics {
		yamlConfig.EnableMetrics = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Numbering == "" {
		yamlConfig.Numbering = programmaticConfig.Numbering
	}
	if yamlConfig.Driver == "" {
		yamlConfig.Driver = programmaticConfig.Driver
		if yamlConfig.DSN == "" {
			yamlConfig.DSN = programmaticConfig.DSN
		}
	}

	// Fill remaining zeros with defaults.
	return mergeWithDefaults(yamlConfig)
}
