package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Campaigns   CampaignsConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	AI          AIConfig
	Saga        SagaConfig
	Events      EventsConfig
}

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// AI providers.
const (
	AIProviderStatic = "static"
	AIProviderGenAI  = "genai"
)

type HTTPConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	MaxConn       int
	EnablePprof   bool
	EnableMetrics bool
}

type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

// RedisConfig is optional; an empty URL keeps the campaign request guard in memory.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool { return c.URL != "" }

type JWTConfig struct {
	Secret string
	Issuer string
}

// CampaignsConfig drives the social media campaign job queue.
type CampaignsConfig struct {
	QueuePath      string
	GuardTTL       time.Duration
	DrainInterval  time.Duration
	BatchSize      int
	MaxRetry       int
	Workers        int
	JobTimeout     time.Duration
	RetentionHours int
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

type AIConfig struct {
	Provider       string
	APIKey         string
	Model          string
	Timeout        time.Duration
	MaxConcurrency int
}

// SagaConfig tunes optimistic-concurrency retries of aggregate updates.
type SagaConfig struct {
	ConflictRetries int
	ConflictBackoff time.Duration
}

// EventsConfig controls event bus startup checks.
type EventsConfig struct {
	Strict bool
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "ideaflow"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:          getString("SERVER_HOST", "0.0.0.0"),
			Port:          getString("SERVER_PORT", "8080"),
			ReadTimeout:   getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:   getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:       getInt("SERVER_MAX_CONN", 0),
			EnablePprof:   getBool("SERVER_ENABLE_PPROF", false),
			EnableMetrics: getBool("SERVER_ENABLE_METRICS", false),
		},
		Storage: StorageConfig{
			Driver: getString("STORAGE_DRIVER", StoragePostgres),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "ideaflow"),
			User:            getString("DB_USER", "ideaflow"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "ideaflow"),
		},
		Campaigns: CampaignsConfig{
			QueuePath:      getString("BOLTDB_PATH", "./data/campaigns.db"),
			GuardTTL:       getDuration("CAMPAIGN_GUARD_TTL", 30*time.Minute),
			DrainInterval:  getDuration("SYNC_INTERVAL_SECONDS", 10*time.Second),
			BatchSize:      getInt("CAMPAIGN_BATCH_SIZE", 20),
			MaxRetry:       getInt("MAX_RETRY_ATTEMPTS", 3),
			Workers:        getInt("CAMPAIGN_WORKERS", 2),
			JobTimeout:     getDuration("CAMPAIGN_JOB_TIMEOUT", 2*time.Minute),
			RetentionHours: getInt("BUFFER_RETENTION_HOURS", 24),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
		AI: AIConfig{
			Provider:       getString("AI_PROVIDER", AIProviderStatic),
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			Model:          getString("AI_MODEL", "gemini-2.5-flash"),
			Timeout:        getDuration("AI_TIMEOUT", 60*time.Second),
			MaxConcurrency: getInt("AI_MAX_CONCURRENCY", 4),
		},
		Saga: SagaConfig{
			ConflictRetries: getInt("SAGA_CONFLICT_RETRIES", 3),
			ConflictBackoff: getDuration("SAGA_CONFLICT_BACKOFF", 20*time.Millisecond),
		},
		Events: EventsConfig{
			Strict: getBool("EVENTS_STRICT", false),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects combinations the application cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER: unsupported value %q", c.Storage.Driver))
	}
	switch c.AI.Provider {
	case AIProviderStatic:
	case AIProviderGenAI:
		if c.AI.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the genai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("AI_PROVIDER: unsupported value %q", c.AI.Provider))
	}
	if c.AI.MaxConcurrency < 1 {
		errs = append(errs, errors.New("AI_MAX_CONCURRENCY must be positive"))
	}
	if c.Saga.ConflictRetries < 1 {
		errs = append(errs, errors.New("SAGA_CONFLICT_RETRIES must be positive"))
	}
	if c.Campaigns.MaxRetry < 1 {
		errs = append(errs, errors.New("MAX_RETRY_ATTEMPTS must be positive"))
	}
	if c.Campaigns.QueuePath == "" {
		errs = append(errs, errors.New("BOLTDB_PATH must not be empty"))
	}
	if c.Environment == "production" && c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	return errors.Join(errs...)
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
