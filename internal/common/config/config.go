// internal/common/config/config.go
package config

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Auth     AuthConfig              `mapstructure:"auth"`
	Payments PaymentsConfig          `mapstructure:"payments"`
	Ranking  RankingConfig           `mapstructure:"ranking"`
	Escrow   EscrowConfig            `mapstructure:"escrow"`
	Wallet   WalletConfig            `mapstructure:"wallet"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Server   ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
	GigIndex  string   `mapstructure:"gig_index"`
	UserIndex string   `mapstructure:"user_index"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	ProfileTTL int    `mapstructure:"profile_ttl"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// Identity resolution backends.
const (
	AuthModeKeycloak  = "keycloak"
	AuthModeDirectory = "directory"
)

// AuthConfig selects how callers are resolved to {id, role}.
type AuthConfig struct {
	Mode     string `mapstructure:"mode"`
	Keycloak struct {
		URL          string `mapstructure:"url"`
		Realm        string `mapstructure:"realm"`
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		AdminRole    string `mapstructure:"admin_role"`
		PosterRole   string `mapstructure:"poster_role"`
	} `mapstructure:"keycloak"`
}

// PaymentsConfig holds the payment gateway settings.
type PaymentsConfig struct {
	SignatureSecret string `mapstructure:"signature_secret"`
	Gateway         struct {
		BaseURL   string `mapstructure:"base_url"`
		KeyID     string `mapstructure:"key_id"`
		KeySecret string `mapstructure:"key_secret"`
		Timeout   int    `mapstructure:"timeout"` // milliseconds
		// MinorUnits is the number of minor units per major unit the gateway reports amounts in.
		MinorUnits int `mapstructure:"minor_units"`
	} `mapstructure:"gateway"`
}

// Candidate sources for ranking workers.
const (
	CandidateSourcePostgres      = "postgres"
	CandidateSourceElasticsearch = "elasticsearch"
)

type RankingConfig struct {
	DefaultLimit    int     `mapstructure:"default_limit"`
	RadiusKm        float64 `mapstructure:"radius_km"`
	CandidateSource string  `mapstructure:"candidate_source"`
	MaxCandidates   int     `mapstructure:"max_candidates"`
}

// Lock backends for ledger serialization.
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

type EscrowConfig struct {
	LockBackend string `mapstructure:"lock_backend"`
	LockTTL     int    `mapstructure:"lock_ttl"`  // milliseconds
	LockWait    int    `mapstructure:"lock_wait"` // milliseconds
}

type WalletConfig struct {
	// MinWithdrawal is a decimal string; empty means no floor.
	MinWithdrawal string `mapstructure:"min_withdrawal"`
}

// MinWithdrawalAmount parses MinWithdrawal. Callers run after validateConfig,
// so a parse failure cannot happen here and yields zero.
func (w WalletConfig) MinWithdrawalAmount() decimal.Decimal {
	if w.MinWithdrawal == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(w.MinWithdrawal)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}
