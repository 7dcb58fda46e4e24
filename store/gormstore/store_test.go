package gormstore_test

import (
	"context"
	"database/sql"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xraph/folio/store"
	"github.com/xraph/folio/store/gormstore"
	"github.com/xraph/folio/store/storetest"
)

func openMemory(t *testing.T) *gormstore.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := gormstore.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openMemory(t)
	})
}

func TestMigrateIsRepeatable(t *testing.T) {
	s := openMemory(t)
	require.NoError(t, s.Migrate(context.Background()))
	require.NoError(t, s.Ping(context.Background()))
}

func TestSQLiteDriverRegistration(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Grove's sqlitedriver claims the same name through modernc.org/sqlite.
	require.Equal(t, "github.com/glebarez/go-sqlite", reflect.TypeOf(db.Driver()).Elem().PkgPath())
}
