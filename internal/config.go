package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security"`
	Redis         RedisConfig         `mapstructure:"redis"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Currency      CurrencyConfig      `mapstructure:"currency"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IsDevelopment     bool          `mapstructure:"is_development"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// SecurityConfig holds the shared secret and expected claims of tokens issued
// by the identity provider.
type SecurityConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	JWTIssuer       string        `mapstructure:"jwt_issuer"`
	JWTAudience     string        `mapstructure:"jwt_audience"`
	DevTokenTTL     time.Duration `mapstructure:"dev_token_ttl"`
	ClockSkewLeeway time.Duration `mapstructure:"clock_skew_leeway"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	// Backend is "memory" or "redis".
	Backend     string        `mapstructure:"backend"`
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
	// PerIPPerMinute caps unauthenticated traffic at the router.
	PerIPPerMinute int `mapstructure:"per_ip_per_minute"`
}

type CurrencyConfig struct {
	Reference string             `mapstructure:"reference"`
	Rates     map[string]float64 `mapstructure:"rates"`
	Language  string             `mapstructure:"language"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfigFromEnv builds the configuration from plain environment variables.
// Used in container deployments where no config file is mounted.
func LoadConfigFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			JWTIssuer:       getEnv("JWT_ISSUER", ""),
			JWTAudience:     getEnv("JWT_AUDIENCE", ""),
			DevTokenTTL:     getEnvAsDuration("DEV_TOKEN_TTL", time.Hour),
			ClockSkewLeeway: getEnvAsDuration("JWT_LEEWAY", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Backend:        getEnv("RATE_LIMIT_BACKEND", "memory"),
			Window:         getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
			MaxRequests:    getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 30),
			PerIPPerMinute: getEnvAsInt("RATE_LIMIT_PER_IP_PER_MINUTE", 120),
		},
		Currency: CurrencyConfig{
			Reference: getEnv("CURRENCY_REFERENCE", "DKK"),
			Language:  getEnv("CURRENCY_LANGUAGE", "da"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// Validate checks every section and reports all failures at once.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"server config", c.Server.Validate()},
		{"database config", c.Database.Validate()},
		{"security config", c.Security.Validate()},
		{"rate limit config", c.RateLimit.Validate(c.Redis)},
		{"currency config", c.Currency.Validate()},
		{"logging config", c.Observability.Logging.Validate()},
	}

	var errs []error
	for _, ch := range checks {
		if ch.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.section, ch.err))
		}
	}
	return errors.Join(errs...)
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	return nil
}

func (c *RateLimitConfig) Validate(redis RedisConfig) error {
	switch c.Backend {
	case "", "memory":
	case "redis":
		if redis.Addr == "" {
			return errors.New("redis.addr is required when backend is redis")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.MaxRequests < 0 {
		return errors.New("max_requests cannot be negative")
	}
	return nil
}

func (c *CurrencyConfig) Validate() error {
	for code, rate := range c.Rates {
		if len(code) != 3 {
			return fmt.Errorf("invalid currency code %q", code)
		}
		if rate <= 0 {
			return fmt.Errorf("rate for %s must be positive", code)
		}
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Format) {
	case "", "json", "text":
		return nil
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
}
