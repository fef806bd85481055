package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ZEEBE_ADDRESS", "zeebe:26500")
	t.Setenv("DB_HOST", "postgres")
	t.Setenv("DB_USER", "gigs")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("PAYMENT_SIGNATURE_SECRET", "whsec")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
camunda:
  broker_address: zeebe:26500
database:
  postgres:
    host: postgres
    database: campus_gigs
    user: gigs
  redis:
    address: redis:6379
payments:
  signature_secret: whsec
`

func TestLoadFromFile_ShippedConfig(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "postgres", cfg.Database.Postgres.Host)
	assert.Equal(t, "gigs", cfg.Database.Postgres.User)
	assert.Equal(t, "whsec", cfg.Payments.SignatureSecret)
	assert.Equal(t, AuthModeDirectory, cfg.Auth.Mode)
	assert.Equal(t, CandidateSourcePostgres, cfg.Ranking.CandidateSource)
	assert.Equal(t, LockBackendRedis, cfg.Escrow.LockBackend)
	assert.Len(t, cfg.Workers, 13)

	lde := GetWorkerConfig(cfg, "lock-direct-escrow")
	assert.True(t, lde.Enabled)
	assert.Equal(t, 30000, lde.Timeout)
	assert.Equal(t, 3, lde.MaxRetries)
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 10, cfg.Ranking.DefaultLimit)
	assert.Equal(t, 5.0, cfg.Ranking.RadiusKm)
	assert.Equal(t, 500, cfg.Ranking.MaxCandidates)
	assert.Equal(t, "gigs", cfg.Database.Elasticsearch.GigIndex)
	assert.Equal(t, 100, cfg.Payments.Gateway.MinorUnits)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.True(t, cfg.Wallet.MinWithdrawalAmount().IsZero())
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		extra   string
		wantErr string
	}{
		{name: "unknown lock backend", extra: "escrow:\n  lock_backend: etcd\n", wantErr: "escrow.lock_backend"},
		{name: "unknown candidate source", extra: "ranking:\n  candidate_source: solr\n", wantErr: "ranking.candidate_source"},
		{name: "elasticsearch without address", extra: "ranking:\n  candidate_source: elasticsearch\n", wantErr: "elasticsearch"},
		{name: "keycloak without realm", extra: "auth:\n  mode: keycloak\n", wantErr: "auth.keycloak"},
		{name: "negative radius", extra: "ranking:\n  radius_km: -1\n", wantErr: "radius_km"},
		{name: "bad min withdrawal", extra: "wallet:\n  min_withdrawal: lots\n", wantErr: "wallet.min_withdrawal"},
		{name: "negative min withdrawal", extra: "wallet:\n  min_withdrawal: \"-5\"\n", wantErr: "wallet.min_withdrawal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, minimal+tt.extra))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingSecret(t *testing.T) {
	t.Setenv("PAYMENT_SIGNATURE_SECRET", "")
	body := `
camunda:
  broker_address: zeebe:26500
database:
  postgres:
    host: postgres
    database: campus_gigs
    user: gigs
  redis:
    address: redis:6379
`
	_, err := LoadFromFile(writeConfig(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payments.signature_secret")
}

func TestWalletConfig_MinWithdrawalAmount(t *testing.T) {
	assert.Equal(t, "25.5", WalletConfig{MinWithdrawal: "25.50"}.MinWithdrawalAmount().String())
	assert.True(t, WalletConfig{}.MinWithdrawalAmount().IsZero())
}

func TestWorkerLookups(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"get-balance": {Enabled: false, MaxJobsActive: 1, Timeout: 1000, MaxRetries: 1},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "get-balance"))
	assert.True(t, IsWorkerEnabled(cfg, "search-gigs"))

	fallback := GetWorkerConfig(cfg, "search-gigs")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 5, fallback.MaxJobsActive)
	assert.Equal(t, 30000, fallback.Timeout)
}
