package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds Postgres connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
	RefreshSecret          string
	MaxRefreshCount        int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	MaxHeaderBytes        int
	MaxBodySize           int64
	RateLimitEnabled      bool
	RateLimitRequests     int
	RateLimitWindow       time.Duration
	AuthRateLimitEnabled  bool          // stricter limiting on login/refresh
	AuthRateLimitRequests int           // max auth attempts per window
	AuthRateLimitWindow   time.Duration
	CORSAllowOrigins      []string
	CORSAllowMethods      []string
	CORSAllowHeaders      []string
	TrustedProxies        []string
}

// orDefault substitutes def when value is the zero value. Zero means
// "not configured" throughout this package, so an explicit 0 in config
// falls back to the default rather than disabling the setting.
func orDefault[T comparable](value, def T) T {
	var zero T
	if value == zero {
		return def
	}
	return value
}

func orDefaultSlice(value, def []string) []string {
	if len(value) == 0 {
		return def
	}
	return value
}

// Load reads configuration in priority order: environment variables with
// the MKT_ prefix (e.g. MKT_DATABASE_PASSWORD) over config.toml over
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults carry us.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MKT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: orDefault(v.GetString("app.name"), "marketplace-backend"),
			Env:  orDefault(v.GetString("app.env"), "development"),
			Port: orDefault(v.GetString("app.port"), "8080"),
		},
		Database: DatabaseConfig{
			Host:            orDefault(v.GetString("database.host"), "localhost"),
			Port:            orDefault(v.GetInt("database.port"), 5432),
			User:            orDefault(v.GetString("database.user"), "postgres"),
			Password:        v.GetString("database.password"),
			DBName:          orDefault(v.GetString("database.dbname"), "marketplace"),
			SSLMode:         orDefault(v.GetString("database.sslmode"), "disable"),
			MaxOpenConns:    orDefault(v.GetInt("database.max_open_conns"), 25),
			MaxIdleConns:    orDefault(v.GetInt("database.max_idle_conns"), 5),
			ConnMaxLifetime: orDefault(v.GetInt("database.conn_max_lifetime"), 60),
			ConnMaxIdleTime: orDefault(v.GetInt("database.conn_max_idle_time"), 30),
		},
		Redis: RedisConfig{
			Host:     orDefault(v.GetString("redis.host"), "localhost"),
			Port:     orDefault(v.GetInt("redis.port"), 6379),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  orDefault(v.GetDuration("jwt.access_token_expiration"), time.Hour),
			RefreshTokenExpiration: orDefault(v.GetDuration("jwt.refresh_token_expiration"), 30*24*time.Hour),
			Issuer:                 orDefault(v.GetString("jwt.issuer"), "marketplace-backend"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			MaxRefreshCount:        orDefault(v.GetInt("jwt.max_refresh_count"), 10),
		},
		Log: LogConfig{
			Level:  orDefault(v.GetString("log.level"), "info"),
			Format: orDefault(v.GetString("log.format"), "console"),
			Output: orDefault(v.GetString("log.output"), "stdout"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:           orDefault(v.GetDuration("http.read_timeout"), 15*time.Second),
			WriteTimeout:          orDefault(v.GetDuration("http.write_timeout"), 15*time.Second),
			IdleTimeout:           orDefault(v.GetDuration("http.idle_timeout"), 60*time.Second),
			MaxHeaderBytes:        orDefault(v.GetInt("http.max_header_bytes"), 1<<20),
			MaxBodySize:           orDefault(v.GetInt64("http.max_body_size"), 10<<20),
			RateLimitEnabled:      v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:     orDefault(v.GetInt("http.rate_limit_requests"), 100),
			RateLimitWindow:       orDefault(v.GetDuration("http.rate_limit_window"), time.Minute),
			AuthRateLimitEnabled:  v.GetBool("http.auth_rate_limit_enabled"),
			AuthRateLimitRequests: orDefault(v.GetInt("http.auth_rate_limit_requests"), 5),
			AuthRateLimitWindow:   orDefault(v.GetDuration("http.auth_rate_limit_window"), time.Minute),
			// CORS origins deliberately have no fallback: an empty list
			// means no cross-origin requests until explicitly configured.
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: orDefaultSlice(v.GetStringSlice("http.cors_allow_methods"),
				[]string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}),
			CORSAllowHeaders: orDefaultSlice(v.GetStringSlice("http.cors_allow_headers"),
				[]string{"Content-Type", "Authorization", "X-Request-ID", "X-Tenant-ID", "X-Idempotency-Key"}),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.validatePool(); err != nil {
		return err
	}
	if c.App.Env == "production" {
		return c.validateProduction()
	}
	return nil
}

func (c *Config) validatePool() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	return nil
}

func (c *Config) validateProduction() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("jwt.secret must be at least 32 characters in production")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database.password is required in production")
	}
	if c.Database.SSLMode == "disable" {
		return fmt.Errorf("database.sslmode cannot be 'disable' in production")
	}
	for _, origin := range c.HTTP.CORSAllowOrigins {
		if origin == "*" {
			return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
		}
	}
	return nil
}

// DSN returns the Postgres connection URL with escaped credentials.
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
