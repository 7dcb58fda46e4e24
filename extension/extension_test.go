package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/store/memory"
)

func TestMergeWithDefaults(t *testing.T) {
	cfg := mergeWithDefaults(Config{AllowOrphans: true})
	assert.Equal(t, "monotonic", cfg.Numbering)
	assert.Equal(t, "memory", cfg.Driver)
	assert.True(t, cfg.AllowOrphans)
}

func TestMergeConfigurations(t *testing.T) {
	yamlCfg := Config{Numbering: "count"}
	programmatic := Config{
		Numbering:      "monotonic",
		Driver:         "sqlite",
		DSN:            "folio.db",
		DisableMigrate: true,
	}

	got := mergeConfigurations(yamlCfg, programmatic)
	assert.Equal(t, "count", got.Numbering, "file config wins for strings")
	assert.Equal(t, "sqlite", got.Driver, "programmatic fills missing driver")
	assert.Equal(t, "folio.db", got.DSN)
	assert.True(t, got.DisableMigrate, "programmatic bool flags override")
}

func TestBuildFolioOpts(t *testing.T) {
	e := New(WithNumbering("count"), WithAllowOrphans(true), WithMetrics())
	e.config = mergeWithDefaults(e.config)

	opts, err := e.buildFolioOpts()
	require.NoError(t, err)

	eng := folio.New(memory.New(), opts...)
	assert.Equal(t, numbering.PolicyCount, eng.NumberingPolicy())
	assert.Equal(t, 1, eng.Plugins().Count(), "metrics plugin registered")
}

func TestBuildFolioOptsRejectsUnknownPolicy(t *testing.T) {
	e := New(WithNumbering("random"))
	_, err := e.buildFolioOpts()
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	s, err := openStore(DefaultConfig())
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	_, err = openStore(Config{Driver: "sqlite"})
	assert.Error(t, err, "sqlite without dsn")

	_, err = openStore(Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}
