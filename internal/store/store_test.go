package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(db.NewTestDB(t), db.DriverSQLite)
}

// countRows returns the number of rows in table.
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestPlaceholderRewrite(t *testing.T) {
	pg := &Store{driver: db.DriverPostgres}
	assert.Equal(t,
		`UPDATE inventory SET name = $1, sku = $2 WHERE id = $3`,
		pg.q(`UPDATE inventory SET name = ?, sku = ? WHERE id = ?`))

	lite := &Store{driver: db.DriverSQLite}
	query := `SELECT id FROM users WHERE username = ?`
	assert.Equal(t, query, lite.q(query))
}

func TestIsUniqueViolationIgnoresOtherErrors(t *testing.T) {
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}

// TestPostgres runs the repository round trip against a real PostgreSQL
// server when TEST_DATABASE_URL is set.
func TestPostgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.Open(ctx, db.DriverPostgres, dsn)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, db.Migrate(ctx, database, db.DriverPostgres))
	_, err = database.ExecContext(ctx, `TRUNCATE sessions, inventory, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	s := New(database, db.DriverPostgres)

	_, err = s.CreateUser(ctx, "alice", "hash")
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, "alice", "hash")
	assert.ErrorIs(t, err, model.ErrConflict)

	first, err := s.CreateItem(ctx, model.Item{Name: "Widget", SKU: "W1", Quantity: 5, Price: 2.5})
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, model.Item{Name: "Gadget", SKU: "G1"})
	require.NoError(t, err)

	sku := "G1"
	_, err = s.UpdateItem(ctx, first.ID, model.ItemPatch{SKU: &sku})
	assert.ErrorIs(t, err, model.ErrConflict)

	name, err := s.DeleteItem(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", name)
}
