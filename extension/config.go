package extension

// Config holds the Folio extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.folio" or "folio" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Numbering selects the document numbering policy: "monotonic"
	// (default) never reuses a number, "count" derives it from the number
	// of existing documents of the type.
	Numbering string `json:"numbering" mapstructure:"numbering" yaml:"numbering"`

	// AllowOrphans permits deleting clients that documents still reference.
	AllowOrphans bool `json:"allow_orphans" mapstructure:"allow_orphans" yaml:"allow_orphans"`

	// Driver names the storage backend used when no store was supplied
	// with WithStore: "memory" (default), "sqlite" or "postgres".
	Driver string `json:"driver" mapstructure:"driver" yaml:"driver"`

	// DSN is the data source for the sqlite and postgres drivers.
	DSN string `json:"dsn" mapstructure:"dsn" yaml:"dsn"`

	// EnableMetrics registers the observability metrics plugin, exporting
	// counters through the default Prometheus registerer.
	EnableMetrics bool `json:"enable_metrics" mapstructure:"enable_metrics" yaml:"enable_metrics"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Numbering: "monotonic",
		Driver:    "memory",
	}
}
