package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create invoices table", "create_invoices_table"},
		{"Create-Quotes-Table", "create_quotes_table"},
		{"ADD_SUBSCRIPTION_FIELDS", "add_subscription_fields"},
		{"add__bank__details", "add_bank_details"},
		{"Add Reminder Count 2", "add_reminder_count_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add payment terms", "Payment terms column on invoices")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// version is a sortable YYYYMMDDHHMMSS timestamp
	assert.Len(t, mf.Version, 14)

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)
	assert.Equal(t, mf.Version+"_add_payment_terms", upBase)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_payment_terms")
	assert.Contains(t, string(up), "-- Description: Payment terms column on invoices")
	assert.Contains(t, string(up), "UP migration")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback for add payment terms")
	assert.Contains(t, string(down), "DOWN migration")
}

func TestCreateMigration_OmitsEmptyDescription(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "drop legacy columns", "")
	require.NoError(t, err)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(up), "-- Description:")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"20250218093000_create_profiles.up.sql",
		"20250218093000_create_profiles.down.sql",
		"20250218094000_create_quotes.up.sql",
		"20250218094000_create_quotes.down.sql",
		"20250218094500_create_invoices.up.sql",
		"20250218094500_create_invoices.down.sql",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0o644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"20250218093000_create_profiles",
		"20250218094000_create_quotes",
		"20250218094500_create_invoices",
	}, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_IgnoresOtherEntries(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250218093000_init.up.sql"), []byte("-- test"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250218093000_init.down.sql"), []byte("-- test"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"20250218093000_init"}, migrations)
}
