package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Secrets     SecretsConfig
	Gateway     GatewayConfig
	Logger      LoggerConfig
	Processors  []ProcessorConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int

	// TrustProxy honours X-Forwarded-For for client and customer IPs
	TrustProxy     bool
	RateLimitRPS   float64
	RateLimitBurst int

	// CronSecret authenticates the scheduler; the cron route is disabled when empty
	CronSecret string
	// AdminSecret marks back-office callers on billing info updates
	AdminSecret string

	// FallbackIP is sent as the customer IP when none is known (scheduled charges)
	FallbackIP string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	QueryTimeout time.Duration
	AutoMigrate  bool
}

// RedisConfig holds the idempotency cache configuration; empty URL disables it
type RedisConfig struct {
	URL         string
	ResponseTTL time.Duration
}

// SecretsConfig selects the backend processor passwords are read from
type SecretsConfig struct {
	Backend  string // local, aws, vault
	CacheTTL time.Duration

	LocalPath string

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string

	VaultAddress   string
	VaultToken     string
	VaultRoleID    string
	VaultSecretID  string
	VaultMountPath string
	VaultKVVersion string
}

// GatewayConfig holds iATS client settings shared by all processors
type GatewayConfig struct {
	Timeout    time.Duration
	MaxRetries int
	// BaseURL overrides https://{domain}; for sandboxes and tests
	BaseURL string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// ProcessorConfig is one configured iATS processor
type ProcessorConfig struct {
	Key                string
	Name               string
	Mode               domain.ProcessorMode
	SiteURL            string
	AgentCode          string
	Password           string
	PasswordSecretPath string
	AllowedDays        string
	// SelfServiceBillingUpdate lets contributors update their own card
	SelfServiceBillingUpdate bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	env := getEnv("ENVIRONMENT", "development")

	cfg := &Config{
		Environment: env,
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			TrustProxy:     getEnvAsBool("TRUST_PROXY", false),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
			CronSecret:     getEnv("CRON_SECRET", ""),
			AdminSecret:    getEnv("ADMIN_SECRET", ""),
			FallbackIP:     getEnv("FALLBACK_IP_ADDRESS", "127.0.0.1"),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "recurring_payments"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxConns:     int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			MinConns:     int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 2*time.Second),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", ""),
			ResponseTTL: getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRETS_BACKEND", "local"),
			CacheTTL:       getEnvAsDuration("SECRETS_CACHE_TTL", 5*time.Minute),
			LocalPath:      getEnv("SECRETS_LOCAL_PATH", "./secrets"),
			AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_SECRETS_ENDPOINT", ""),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultRoleID:    getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:  getEnv("VAULT_SECRET_ID", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
			VaultKVVersion: getEnv("VAULT_KV_VERSION", "v2"),
		},
		Gateway: GatewayConfig{
			Timeout:    getEnvAsDuration("IATS_TIMEOUT", 30*time.Second),
			MaxRetries: getEnvAsInt("IATS_MAX_RETRIES", 2),
			BaseURL:    getEnv("IATS_BASE_URL", ""),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", env != "production"),
		},
	}

	keys := splitList(getEnv("IATS_PROCESSORS", "default"))
	for _, key := range keys {
		cfg.Processors = append(cfg.Processors, loadProcessor(key))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadProcessor reads IATS_{KEY}_* variables. The "default" processor reads
// unprefixed IATS_* variables so a single-processor deployment stays short.
func loadProcessor(key string) ProcessorConfig {
	prefix := "IATS_"
	if key != "default" {
		prefix = "IATS_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_")) + "_"
	}

	return ProcessorConfig{
		Key:                      key,
		Name:                     getEnv(prefix+"NAME", "iATS "+key),
		Mode:                     domain.ProcessorMode(getEnv(prefix+"MODE", string(domain.ProcessorModeLive))),
		SiteURL:                  getEnv(prefix+"SITE_URL", "https://www.iatspayments.com/"),
		AgentCode:                getEnv(prefix+"AGENT_CODE", ""),
		Password:                 getEnv(prefix+"PASSWORD", ""),
		PasswordSecretPath:       getEnv(prefix+"PASSWORD_SECRET_PATH", ""),
		AllowedDays:              getEnv(prefix+"ALLOWED_DAYS", "-1"),
		SelfServiceBillingUpdate: getEnvAsBool(prefix+"SELF_SERVICE_BILLING_UPDATE", false),
	}
}

// Validate checks required fields
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required")
	}

	switch c.Secrets.Backend {
	case "local", "aws", "vault":
	default:
		return fmt.Errorf("SECRETS_BACKEND must be local, aws or vault, got %q", c.Secrets.Backend)
	}

	if len(c.Processors) == 0 {
		return fmt.Errorf("at least one processor must be configured")
	}
	seen := make(map[string]bool)
	for _, p := range c.Processors {
		if seen[p.Key] {
			return fmt.Errorf("processor %q configured twice", p.Key)
		}
		seen[p.Key] = true

		if p.AgentCode == "" {
			return fmt.Errorf("processor %q: agent code is required", p.Key)
		}
		if p.Password == "" && p.PasswordSecretPath == "" {
			return fmt.Errorf("processor %q: password or password secret path is required", p.Key)
		}
		if p.Mode != domain.ProcessorModeLive && p.Mode != domain.ProcessorModeTest {
			return fmt.Errorf("processor %q: mode must be live or test", p.Key)
		}
		if _, err := domain.ParseScheduleConfig(p.AllowedDays); err != nil {
			return fmt.Errorf("processor %q: %w", p.Key, err)
		}
	}
	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ConnectionString returns the PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
