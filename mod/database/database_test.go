package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"imuslab.com/siteserv/mod/database"
	"imuslab.com/siteserv/mod/database/dbinc"
)

type testRecord struct {
	Port    int
	WebRoot string
}

func TestDatabaseReadWrite(t *testing.T) {
	backends := []struct {
		name        string
		backendType dbinc.BackendType
	}{
		{"boltdb", dbinc.BackendBoltDB},
		{"leveldb", dbinc.BackendLevelDB},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			dbfile := filepath.Join(t.TempDir(), "sys.db")
			db, err := database.NewDatabase(dbfile, backend.backendType)
			require.NoError(t, err)
			defer db.Close()

			err = db.NewTable("webserv")
			require.NoError(t, err)
			assert.True(t, db.TableExists("webserv"))

			//Write and read back a string value
			err = db.Write("webserv", "port", "8000")
			require.NoError(t, err)
			port := ""
			err = db.Read("webserv", "port", &port)
			require.NoError(t, err)
			assert.Equal(t, "8000", port)

			//Write and read back a struct value
			err = db.Write("webserv", "config", testRecord{Port: 8000, WebRoot: "dist"})
			require.NoError(t, err)
			loaded := testRecord{}
			err = db.Read("webserv", "config", &loaded)
			require.NoError(t, err)
			assert.Equal(t, 8000, loaded.Port)
			assert.Equal(t, "dist", loaded.WebRoot)

			assert.True(t, db.KeyExists("webserv", "port"))
			assert.False(t, db.KeyExists("webserv", "no-such-key"))
		})
	}
}

func TestDatabaseDelete(t *testing.T) {
	backends := []struct {
		name        string
		backendType dbinc.BackendType
	}{
		{"boltdb", dbinc.BackendBoltDB},
		{"leveldb", dbinc.BackendLevelDB},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			dbfile := filepath.Join(t.TempDir(), "sys.db")
			db, err := database.NewDatabase(dbfile, backend.backendType)
			require.NoError(t, err)
			defer db.Close()

			require.NoError(t, db.NewTable("settings"))
			require.NoError(t, db.Write("settings", "dirlist", true))
			assert.True(t, db.KeyExists("settings", "dirlist"))

			require.NoError(t, db.Delete("settings", "dirlist"))
			assert.False(t, db.KeyExists("settings", "dirlist"))
		})
	}
}

func TestDatabaseListTable(t *testing.T) {
	backends := []struct {
		name        string
		backendType dbinc.BackendType
	}{
		{"boltdb", dbinc.BackendBoltDB},
		{"leveldb", dbinc.BackendLevelDB},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			dbfile := filepath.Join(t.TempDir(), "sys.db")
			db, err := database.NewDatabase(dbfile, backend.backendType)
			require.NoError(t, err)
			defer db.Close()

			require.NoError(t, db.NewTable("stats"))
			require.NoError(t, db.Write("stats", "2026_08_24", 42))
			require.NoError(t, db.Write("stats", "2026_08_25", 1337))

			entries, err := db.ListTable("stats")
			require.NoError(t, err)
			require.Len(t, entries, 2)

			keys := []string{string(entries[0][0]), string(entries[1][0])}
			assert.Contains(t, keys, "2026_08_24")
			assert.Contains(t, keys, "2026_08_25")
		})
	}
}
