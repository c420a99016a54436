package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigrationWritesPair(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "Add payout batches", "payout batch table plus indexes")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.Equal(t, "Add payout batches", mf.Name)
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_payout_batches.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_payout_batches.down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: Add payout batches")
	assert.Contains(t, string(up), "payout batch table plus indexes")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")
}

func TestCreateMigrationCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := CreateMigration(dir, "seed sellers", "")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Add payout batches", "add_payout_batches"},
		{"ledger-entries v2", "ledger_entries_v2"},
		{"  spaced   out  ", "spaced_out"},
		{"UPPER_case", "upper_case"},
		{"drop! weird@chars#", "drop_weirdchars"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, slugify(tc.in), "input %q", tc.in)
	}
}

func TestListMigrationsSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{
		"20250102000000_orders.up.sql",
		"20250102000000_orders.down.sql",
		"20250101000000_sellers.up.sql",
		"20250101000000_sellers.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20250101000000_sellers",
		"20250102000000_orders",
	}, migrations)
}

func TestListMigrationsMissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
