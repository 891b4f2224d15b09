package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=alpha_bank_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"

type Config struct {
	ServerPort    string
	DatabaseDSN   string
	MigrationsDir string
	ChannelID     string
	ChannelKey    string

	// WithdrawalReserve is the minimum balance a withdrawal must leave
	// behind, institution-wide.
	WithdrawalReserve decimal.Decimal

	MaxPageSize         int
	DefaultPageSize     int
	ReferenceRetryLimit int
	ConflictRetryLimit  int
}

func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DATABASE_DSN", defaultConnectionString)
	v.SetDefault("MIGRATIONS_DIR", "migrations")
	v.SetDefault("CHANNEL_ID", "AlphaGateway")
	v.SetDefault("CHANNEL_KEY", "AlphaGatewayKey001")
	v.SetDefault("WITHDRAWAL_MINIMUM_RESERVE", "10.00")
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("REFERENCE_RETRY_LIMIT", 5)
	v.SetDefault("CONFLICT_RETRY_LIMIT", 3)

	reserveRaw := strings.TrimSpace(v.GetString("WITHDRAWAL_MINIMUM_RESERVE"))
	reserve, err := decimal.NewFromString(reserveRaw)
	if err != nil {
		return Config{}, fmt.Errorf("parse WITHDRAWAL_MINIMUM_RESERVE %q: %w", reserveRaw, err)
	}
	if reserve.IsNegative() {
		return Config{}, fmt.Errorf("WITHDRAWAL_MINIMUM_RESERVE must not be negative, got %s", reserve)
	}

	cfg := Config{
		ServerPort:          strings.TrimSpace(v.GetString("SERVER_PORT")),
		DatabaseDSN:         normalizeConnectionString(strings.TrimSpace(v.GetString("DATABASE_DSN"))),
		MigrationsDir:       filepath.Clean(strings.TrimSpace(v.GetString("MIGRATIONS_DIR"))),
		ChannelID:           strings.TrimSpace(v.GetString("CHANNEL_ID")),
		ChannelKey:          strings.TrimSpace(v.GetString("CHANNEL_KEY")),
		WithdrawalReserve:   reserve,
		MaxPageSize:         v.GetInt("MAX_PAGE_SIZE"),
		DefaultPageSize:     v.GetInt("DEFAULT_PAGE_SIZE"),
		ReferenceRetryLimit: v.GetInt("REFERENCE_RETRY_LIMIT"),
		ConflictRetryLimit:  v.GetInt("CONFLICT_RETRY_LIMIT"),
	}

	if cfg.ReferenceRetryLimit < 1 {
		cfg.ReferenceRetryLimit = 1
	}
	if cfg.ConflictRetryLimit < 1 {
		cfg.ConflictRetryLimit = 1
	}

	return cfg, nil
}

// normalizeConnectionString accepts both libpq keyword DSNs and the
// semicolon-separated form used by the ops tooling, returning a libpq DSN.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
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
