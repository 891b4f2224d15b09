package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, "migrations", cfg.MigrationsDir)
	require.Equal(t, "AlphaGateway", cfg.ChannelID)
	require.True(t, cfg.WithdrawalReserve.Equal(decimal.RequireFromString("10.00")))
	require.Equal(t, 100, cfg.MaxPageSize)
	require.Equal(t, 20, cfg.DefaultPageSize)
	require.Equal(t, 5, cfg.ReferenceRetryLimit)
	require.Equal(t, 3, cfg.ConflictRetryLimit)
}

func TestLoadRejectsNegativeReserve(t *testing.T) {
	t.Setenv("WITHDRAWAL_MINIMUM_RESERVE", "-5.00")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRetryLimitsHaveFloorOfOne(t *testing.T) {
	t.Setenv("REFERENCE_RETRY_LIMIT", "0")
	t.Setenv("CONFLICT_RETRY_LIMIT", "-2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 1, cfg.ReferenceRetryLimit)
	require.Equal(t, 1, cfg.ConflictRetryLimit)
}

func TestNormalizeConnectionStringSemicolonForm(t *testing.T) {
	dsn := normalizeConnectionString("Host=db;Port=5432;Database=alpha_bank_db;Username=app;Password=secret;Timeout=30")
	require.Equal(t, "host=db port=5432 dbname=alpha_bank_db user=app password=secret connect_timeout=30 sslmode=disable", dsn)
}

func TestNormalizeConnectionStringKeywordFormPassesThrough(t *testing.T) {
	dsn := "host=db port=5432 dbname=alpha_bank_db sslmode=require"
	require.Equal(t, dsn, normalizeConnectionString(dsn))
}

func TestNormalizeConnectionStringKeepsExplicitSSLMode(t *testing.T) {
	dsn := normalizeConnectionString("Host=db;Database=alpha_bank_db;SSLMode=require")
	require.Equal(t, "host=db dbname=alpha_bank_db sslmode=require", dsn)
}
