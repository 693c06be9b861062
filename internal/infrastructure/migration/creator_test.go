package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	pair, err := CreateMigration(dir, "Add crew payout index", "speeds up ledger history reads")
	require.NoError(t, err)
	require.NotNil(t, pair)

	assert.Len(t, pair.Version, 14, "version is a timestamp")
	assert.Equal(t, filepath.Join(dir, pair.Version+"_add_crew_payout_index.up.sql"), pair.UpPath)
	assert.Equal(t, filepath.Join(dir, pair.Version+"_add_crew_payout_index.down.sql"), pair.DownPath)

	up, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Add crew payout index")
	assert.Contains(t, string(up), "-- speeds up ledger history reads")

	down, err := os.ReadFile(pair.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(rollback)")
}

func TestCreateMigrationWithoutDescription(t *testing.T) {
	dir := t.TempDir()

	pair, err := CreateMigration(dir, "create ledger events", "")
	require.NoError(t, err)

	up, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(up), "--"), "header has title and timestamp only")
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Add Crew Payout Index", "add_crew_payout_index"},
		{"fix-balance--recompute", "fix_balance_recompute"},
		{"  spaced  out  ", "spaced_out"},
		{"drop M-Pesa receipt! column?", "drop_m_pesa_receipt_column"},
		{"UPPER_case_MIXED", "upper_case_mixed"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, sanitizeName(c.in), "input %q", c.in)
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, stem := range []string{"20260801120000_create_users", "20260802090000_create_ledger"} {
		for _, suffix := range []string{".up.sql", ".down.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, stem+suffix), []byte("-- sql\n"), 0o644))
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("notes"), 0o644))

	stems, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"20260801120000_create_users", "20260802090000_create_ledger"}, stems)
}

func TestListMigrationsMissingDir(t *testing.T) {
	stems, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, stems)
}
