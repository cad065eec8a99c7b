package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"add lot supplier", "add_lot_supplier"},
		{"Add-Warehouse-Codes", "add_warehouse_codes"},
		{"create__operations__table", "create_operations_table"},
		{"trailing space ", "trailing_space"},
		{"mixed CASE 123", "mixed_case_123"},
		{"drop;table", "droptable"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeName(tt.input), "name %q", tt.input)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	mf, err := CreateMigration(dir, "add lot supplier", "supplier column on lots")
	require.NoError(t, err)

	assert.FileExists(t, mf.UpPath)
	assert.FileExists(t, mf.DownPath)
	assert.Contains(t, filepath.Base(mf.UpPath), "add_lot_supplier.up.sql")
	assert.Contains(t, filepath.Base(mf.DownPath), "add_lot_supplier.down.sql")
	assert.Len(t, mf.Version, 14)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "supplier column on lots")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "reverts: supplier column on lots")
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"20260101000000_create_ledger.up.sql",
		"20260101000000_create_ledger.down.sql",
		"20260201000000_add_warehouses.up.sql",
		"20260201000000_add_warehouses.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20260101000000_create_ledger",
		"20260201000000_add_warehouses",
	}, migrations)
}

func TestListMigrationsMissingDir(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
