package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=account_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultDataDir = "data"
const defaultHTTPAddr = ":8080"
const defaultJWTSecret = "ledger-dev-secret"
const defaultSessionTTL = time.Hour

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"

	HashSHA256 = "sha256"
	HashBcrypt = "bcrypt"
)

type Config struct {
	DataDir        string
	HTTPAddr       string
	StorageBackend string
	DatabaseDSN    string
	MigrationsDir  string
	JWTSecret      string
	SessionTTL     time.Duration
	HashScheme     string
	LogFile        string
}

// SnapshotPath is the account index file inside the data directory.
func (c Config) SnapshotPath() string {
	return filepath.Join(c.DataDir, "accounts.db")
}

// TransactionsDir holds one <username>.log per account.
func (c Config) TransactionsDir() string {
	return filepath.Join(c.DataDir, "transactions")
}

func Load() (Config, error) {
	storage := strings.ToLower(envOr("STORAGE_BACKEND", StorageFile))
	if storage != StorageFile && storage != StoragePostgres {
		return Config{}, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageFile, StoragePostgres, storage)
	}

	hashScheme := strings.ToLower(envOr("HASH_SCHEME", HashSHA256))
	if hashScheme != HashSHA256 && hashScheme != HashBcrypt {
		return Config{}, fmt.Errorf("HASH_SCHEME must be %q or %q, got %q", HashSHA256, HashBcrypt, hashScheme)
	}

	ttl := defaultSessionTTL
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SESSION_TTL: %w", err)
		}
		if parsed <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL must be positive")
		}
		ttl = parsed
	}

	return Config{
		DataDir:        envOr("LEDGER_DATA_DIR", defaultDataDir),
		HTTPAddr:       envOr("HTTP_ADDR", defaultHTTPAddr),
		StorageBackend: storage,
		DatabaseDSN:    normalizeConnectionString(envOr("DATABASE_DSN", defaultConnectionString)),
		MigrationsDir:  envOr("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		JWTSecret:      envOr("JWT_SECRET", defaultJWTSecret),
		SessionTTL:     ttl,
		HashScheme:     hashScheme,
		LogFile:        strings.TrimSpace(os.Getenv("LOG_FILE")),
	}, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// normalizeConnectionString turns an ADO-style "Key=Value;..." string into a
// lib/pq keyword string. URLs are passed through.
func normalizeConnectionString(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
