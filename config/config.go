package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Freight   FreightConfig   `mapstructure:"freight"`
	Guardrail GuardrailConfig `mapstructure:"guardrail"`
	Escrow    EscrowConfig    `mapstructure:"escrow"`
	Audit     AuditConfig     `mapstructure:"audit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// Enabled switches the order and intent repositories between
	// PostgreSQL and the in-memory fallback.
	Enabled bool `mapstructure:"enabled"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// LedgerConfig points at the Ledger Service that moves money between
// wallets.
type LedgerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FreightConfig points at the Freight Service that tracks shipments.
type FreightConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GuardrailConfig carries the payment guardrail caps. A zero value
// disables the corresponding check.
type GuardrailConfig struct {
	MaxPerTxnMinor      int64         `mapstructure:"max_per_txn_minor"`
	WalletVelocityLimit int           `mapstructure:"wallet_velocity_limit"`
	WalletWindow        time.Duration `mapstructure:"wallet_window"`
	DeviceVelocityLimit int           `mapstructure:"device_velocity_limit"`
	DeviceWindow        time.Duration `mapstructure:"device_window"`
}

type EscrowConfig struct {
	WalletID string `mapstructure:"wallet_id"`
	// PendingAge is how old a pending settlement intent must be before
	// the resumer re-drives it.
	PendingAge time.Duration `mapstructure:"pending_age"`
	// ResumeInterval is how often the resumer sweeps for stuck intents.
	ResumeInterval time.Duration `mapstructure:"resume_interval"`
}

type AuditConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: ESE_ (Escrow
// Settlement Engine). Nested keys use underscore: ESE_DATABASE_HOST,
// ESE_JWT_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "escrow_settlement")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "escrow-settlement-engine")
	v.SetDefault("ledger.base_url", "http://localhost:8090")
	v.SetDefault("ledger.timeout", "5s")
	v.SetDefault("freight.base_url", "http://localhost:8091")
	v.SetDefault("freight.timeout", "5s")
	v.SetDefault("guardrail.max_per_txn_minor", 0)
	v.SetDefault("guardrail.wallet_velocity_limit", 0)
	v.SetDefault("guardrail.wallet_window", "1m")
	v.SetDefault("guardrail.device_velocity_limit", 0)
	v.SetDefault("guardrail.device_window", "1m")
	v.SetDefault("escrow.wallet_id", "escrow")
	v.SetDefault("escrow.pending_age", "5m")
	v.SetDefault("escrow.resume_interval", "1m")
	v.SetDefault("audit.capacity", 2000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: ESE_DATABASE_HOST -> database.host
	v.SetEnvPrefix("ESE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
