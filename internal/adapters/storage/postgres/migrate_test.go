package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	up, err := migrationNames(".up.sql", false)
	require.NoError(t, err)
	require.NotEmpty(t, up)

	down, err := migrationNames(".down.sql", true)
	require.NoError(t, err)
	assert.Len(t, down, len(up))

	raw, err := migrationFiles.ReadFile(up[0])
	require.NoError(t, err)
	sqlText := string(raw)
	for _, table := range []string{"pets", "tasks", "grooming_appointments", "health_issues", "notifications", "foods", "shops"} {
		assert.True(t, strings.Contains(sqlText, "CREATE TABLE IF NOT EXISTS "+table+" "), "missing table %s", table)
	}

	// el down de profiles va primero
	require.GreaterOrEqual(t, len(up), 2)
	assert.Equal(t, "migrations/002_profiles.up.sql", up[1])
	assert.Equal(t, "migrations/002_profiles.down.sql", down[0])
}

func TestWhereBuilder(t *testing.T) {
	w := newWhere("owner_id = $1", "o1")
	w.add("status = $%d", "Pending")
	w.addIn("type", []string{"a", "b"})
	w.addILike([]string{"name", "notes"}, "milo")

	assert.Equal(t, " WHERE owner_id = $1 AND status = $2 AND type IN ($3,$4) AND (name ILIKE $5 OR notes ILIKE $5)", w.String())
	assert.Equal(t, []any{"o1", "Pending", "a", "b", "%milo%"}, w.args)
	assert.Equal(t, " LIMIT $6", w.limit(10))
	assert.Equal(t, []any{"o1", "Pending", "a", "b", "%milo%", 10}, w.args)
}

func TestShopColumnHelpers(t *testing.T) {
	lat, lon := toNullCoordinate(nil)
	assert.False(t, lat.Valid)
	assert.Nil(t, fromNullCoordinate(lat, lon))

	s, err := marshalServices(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}
