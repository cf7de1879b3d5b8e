package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g. SHOP_SYNC_CRON_SECRET.
const EnvPrefix = "SHOP"

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds the Postgres connection and pool settings
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"dbname"`
	SSLMode         string `mapstructure:"sslmode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	LogLevel        string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds the settings used to verify admin access tokens
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"` // stdout, stderr, or a file path rotated by size
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
}

// SyncConfig holds settings for the integration sync trigger
type SyncConfig struct {
	CronSecret     string        `mapstructure:"cron_secret"`
	BatchSize      int           `mapstructure:"batch_size"`
	RunLockEnabled bool          `mapstructure:"run_lock_enabled"`
	RunLockTTL     time.Duration `mapstructure:"run_lock_ttl"`
}

// AdminConfig holds settings for the admin API. Role is the claim required
// in the access token when auth is enabled.
type AdminConfig struct {
	AuthEnabled bool   `mapstructure:"auth_enabled"`
	Role        string `mapstructure:"role"`
}

// ProvidersConfig holds settings shared by outbound provider adapters
type ProvidersConfig struct {
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	TakealotBaseURL string        `mapstructure:"takealot_base_url"`
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	CollectorEndpoint string        `mapstructure:"collector_endpoint"`
	ServiceName       string        `mapstructure:"service_name"`
	Insecure          bool          `mapstructure:"insecure"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	SamplingRatio     float64       `mapstructure:"sampling_ratio"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
}

// defaults registers every key so that environment overrides reach Unmarshal
// even when no config file mentions them.
var defaults = map[string]any{
	"app.name": "shopsync",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "shop",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,
	"database.log_level":          "warn",

	"redis.host":     "localhost",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret": "",
	"jwt.issuer": "shop-admin",

	"log.level":        "info",
	"log.format":       "console",
	"log.output":       "stdout",
	"log.max_size_mb":  100,
	"log.max_backups":  5,
	"log.max_age_days": 30,
	"log.compress":     false,

	"http.read_timeout": 15 * time.Second,
	// a sync run makes one outbound call per due integration
	"http.write_timeout":      5 * time.Minute,
	"http.idle_timeout":       time.Minute,
	"http.max_header_bytes":   1 << 20,
	"http.cors_allow_origins": []string{},
	"http.trusted_proxies":    []string{},

	"sync.cron_secret":      "",
	"sync.batch_size":       50,
	"sync.run_lock_enabled": false,
	"sync.run_lock_ttl":     5 * time.Minute,

	"admin.auth_enabled": false,
	"admin.role":         "admin",

	"providers.http_timeout":      30 * time.Second,
	"providers.takealot_base_url": "https://seller-api.takealot.com",

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.service_name":       "",
	"telemetry.insecure":           false,
	"telemetry.metrics_interval":   time.Minute,
	"telemetry.sampling_ratio":     1.0,
	"telemetry.db_trace_enabled":   false,
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	return &cfg, nil
}

// Load loads configuration. Priority, highest first:
//  1. environment variables with the SHOP_ prefix
//  2. a .env file in the working directory
//  3. config.toml in . or /app
//  4. built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	db := c.Database
	switch {
	case db.MaxOpenConns <= 0:
		return errors.New("database.max_open_conns must be positive")
	case db.MaxIdleConns < 0:
		return errors.New("database.max_idle_conns cannot be negative")
	case db.MaxIdleConns > db.MaxOpenConns:
		return fmt.Errorf("database.max_idle_conns (%d) exceeds database.max_open_conns (%d)",
			db.MaxIdleConns, db.MaxOpenConns)
	case c.Sync.BatchSize < 0:
		return errors.New("sync.batch_size cannot be negative")
	case c.Admin.AuthEnabled && c.JWT.Secret == "":
		return errors.New("jwt.secret is required when admin.auth_enabled is set")
	}
	if c.App.Env != "production" {
		return nil
	}

	switch {
	case len(c.Sync.CronSecret) < 16:
		return errors.New("sync.cron_secret must be at least 16 characters in production")
	case db.Password == "":
		return errors.New("database.password is required in production")
	case !c.Admin.AuthEnabled:
		return errors.New("admin.auth_enabled must be true in production")
	case len(c.JWT.Secret) < 32:
		return errors.New("jwt.secret must be at least 32 characters in production")
	case slices.Contains(c.HTTP.CORSAllowOrigins, "*"):
		return errors.New("http.cors_allow_origins cannot contain '*' in production")
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
