package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("KANSO_STORE", "")
		t.Setenv("KANSO_DATA_DIR", dir)
		t.Setenv("KANSO_SQLITE_PATH", "")
		t.Setenv("PORT", "")
		t.Setenv("REDIS_DB", "")
		t.Setenv("SYNC_PROBE_INTERVAL", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, StoreFile, cfg.Store)
		assert.Equal(t, dir, cfg.DataDir)
		assert.Equal(t, filepath.Join(dir, "kanso.db"), cfg.SQLitePath)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 0, cfg.RedisDB)
		assert.Equal(t, kv.DefaultTable, cfg.DBTable)
		assert.Equal(t, 30*time.Second, cfg.SyncProbeInterval)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("KANSO_STORE", "SQLite")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("SYNC_PROBE_INTERVAL", "5s")
		t.Setenv("DB_USER", "kanso")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("DB_NAME", "habits")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, StoreSQLite, cfg.Store)
		assert.Equal(t, 3, cfg.RedisDB)
		assert.Equal(t, 5*time.Second, cfg.SyncProbeInterval)
		assert.Equal(t, "postgres://kanso:secret@db:6543/habits?sslmode=disable", cfg.PostgresDSN())
	})

	t.Run("Rejects unknown store", func(t *testing.T) {
		t.Setenv("KANSO_STORE", "etcd")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("Rejects malformed numbers", func(t *testing.T) {
		t.Setenv("KANSO_STORE", "memory")
		t.Setenv("REDIS_DB", "one")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory", func(t *testing.T) {
		store, closeFn, err := OpenStore(ctx, Config{Store: StoreMemory})
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, store.Set(ctx, "k", []byte("v")))
		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("File", func(t *testing.T) {
		cfg := Config{Store: StoreFile, DataDir: t.TempDir()}

		store, closeFn, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()

		require.NoError(t, store.Set(ctx, "@habit_tracker/habits", []byte("[]")))

		reopened, _, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		got, err := reopened.Get(ctx, "@habit_tracker/habits")
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), got)
	})

	t.Run("SQLite", func(t *testing.T) {
		cfg := Config{Store: StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "nested", "kanso.db")}

		store, closeFn, err := OpenStore(ctx, cfg)
		require.NoError(t, err)
		defer closeFn()

		keys, err := store.Keys(ctx)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := OpenStore(ctx, Config{Store: "tape"})
		assert.Error(t, err)
	})
}
