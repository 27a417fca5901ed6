package database

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations_EmbeddedInOrder(t *testing.T) {
	migrations, err := loadMigrations(migrationFiles)
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_users_table", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS users")
	assert.Equal(t, 2, migrations[1].Version)
	assert.Contains(t, migrations[1].SQL, "user_tickets")
}

func TestLoadMigrations_SkipsMalformedNames(t *testing.T) {
	files := fstest.MapFS{
		"migrations/010_later.sql":   {Data: []byte("SELECT 10;")},
		"migrations/002_earlier.sql": {Data: []byte("SELECT 2;")},
		"migrations/notes.sql":       {Data: []byte("-- no version")},
		"migrations/abc_bad.sql":     {Data: []byte("-- bad version")},
		"migrations/003_readme.txt":  {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(files)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 2, migrations[0].Version)
	assert.Equal(t, "earlier", migrations[0].Name)
	assert.Equal(t, 10, migrations[1].Version)
}

func TestConfigDSN(t *testing.T) {
	assert.Equal(t, "postgres://u@h/db", Config{URL: "postgres://u@h/db", Host: "ignored"}.DSN())
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=pw dbname=movie_booking sslmode=disable",
		Config{Host: "localhost", Port: 5432, User: "postgres", Password: "pw", DBName: "movie_booking", SSLMode: "disable"}.DSN())
}

func TestMigrator_UpIsIdempotent(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := NewConnection(Config{URL: dsn})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	_, err = db.RunMigrations(ctx)
	require.NoError(t, err)

	ran, err := db.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Zero(t, ran)

	states, err := db.MigrationStatus(ctx)
	require.NoError(t, err)
	for _, s := range states {
		assert.True(t, s.Applied(), s.Name)
	}
}
