package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/comitanigiacomo/kanso-local/internal/adapters/kv"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	Store      string
	DataDir    string
	SQLitePath string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBTable    string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	Port     string
	LogLevel string
	LogFile  string

	SyncProbeAddr     string
	SyncProbeInterval time.Duration
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "kanso")
	}
	return ".kanso"
}

// Load reads the configuration from the environment. A .env file in the
// working directory, if present, fills variables that are not already set.
func Load() (Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("KANSO_DATA_DIR", defaultDataDir())

	cfg := Config{
		Store:      strings.ToLower(getEnv("KANSO_STORE", StoreFile)),
		DataDir:    dataDir,
		SQLitePath: getEnv("KANSO_SQLITE_PATH", filepath.Join(dataDir, "kanso.db")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBTable:    getEnv("DB_TABLE", kv.DefaultTable),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisPrefix:   getEnv("REDIS_PREFIX", kv.DefaultRedisPrefix),

		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),

		SyncProbeAddr: os.Getenv("SYNC_PROBE_ADDR"),
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	interval, err := time.ParseDuration(getEnv("SYNC_PROBE_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid SYNC_PROBE_INTERVAL: %w", err)
	}
	cfg.SyncProbeInterval = interval

	switch cfg.Store {
	case StoreMemory, StoreFile, StoreSQLite, StorePostgres, StoreRedis:
	default:
		return Config{}, fmt.Errorf("unknown KANSO_STORE %q", cfg.Store)
	}

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// OpenStore builds the configured key-value backend. The returned function
// releases it.
func OpenStore(ctx context.Context, cfg Config) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case StoreMemory:
		return kv.NewMemoryStore(), noop, nil

	case StoreFile:
		store, err := kv.NewFileStore(filepath.Join(cfg.DataDir, "store"))
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case StoreSQLite:
		store, err := kv.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case StorePostgres:
		store, err := kv.OpenPostgres(ctx, cfg.PostgresDSN(), cfg.DBTable)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	case StoreRedis:
		client, err := kv.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		store := kv.NewRedisStore(client, cfg.RedisPrefix)
		return store, store.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store type %q", cfg.Store)
}
