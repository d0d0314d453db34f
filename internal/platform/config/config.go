package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "sepacheck/pkg/platform/strings"
	"sepacheck/pkg/sepa/schema"
	"sepacheck/pkg/sepa/translit"
)

// Environment names accepted in SEPACHECK_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Server captures process level configuration.
type Server struct {
	Addr     string
	Env      string
	LogLevel string

	Validation ValidationConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Kafka      KafkaConfig
	Audit      AuditConfig
}

// IsProduction selects JSON logs and hides debug endpoints.
func (s Server) IsProduction() bool {
	return s.Env == EnvProduction
}

// ValidationConfig holds the defaults applied to requests that omit them.
type ValidationConfig struct {
	DefaultVersion   schema.Version
	SanitizeFlags    translit.Flags
	BatchConcurrency int
	ReportTTL        time.Duration
}

// RedisConfig configures the report store. An empty URL keeps reports in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the audit store. An empty URL keeps audit events in memory.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures the audit stream. No brokers disables it.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
	ClientID   string
}

// AuditConfig tunes the audit publisher. A zero AsyncBuffer delivers
// events synchronously.
type AuditConfig struct {
	AsyncBuffer     int
	FieldSampleRate float64
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	version, err := schema.ParseVersion(os.Getenv("SEPACHECK_DEFAULT_VERSION"))
	if err != nil {
		return Server{}, fmt.Errorf("SEPACHECK_DEFAULT_VERSION: %w", err)
	}
	flags, err := translit.ParseFlags(listEnv("SEPACHECK_SANITIZE_FLAGS")...)
	if err != nil {
		return Server{}, fmt.Errorf("SEPACHECK_SANITIZE_FLAGS: %w", err)
	}

	var parseErr error
	intVar := func(key string, def int) int {
		v, err := intEnv(key, def)
		if err != nil && parseErr == nil {
			parseErr = err
		}
		return v
	}
	floatVar := func(key string, def float64) float64 {
		v, err := floatEnv(key, def)
		if err != nil && parseErr == nil {
			parseErr = err
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := durationEnv(key, def)
		if err != nil && parseErr == nil {
			parseErr = err
		}
		return v
	}

	cfg := Server{
		Addr:     stringEnv("SEPACHECK_ADDR", ":8080"),
		Env:      stringEnv("SEPACHECK_ENV", EnvDevelopment),
		LogLevel: stringEnv("SEPACHECK_LOG_LEVEL", "info"),
		Validation: ValidationConfig{
			DefaultVersion:   version,
			SanitizeFlags:    flags,
			BatchConcurrency: intVar("SEPACHECK_BATCH_CONCURRENCY", 8),
			ReportTTL:        durationVar("SEPACHECK_REPORT_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intVar("REDIS_POOL_SIZE", 10),
			MinIdleConns: intVar("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationVar("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationVar("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationVar("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    intVar("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    intVar("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: durationVar("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:    listEnv("KAFKA_BROKERS"),
			AuditTopic: stringEnv("KAFKA_AUDIT_TOPIC", "sepacheck.audit"),
			ClientID:   stringEnv("KAFKA_CLIENT_ID", "sepacheck"),
		},
		Audit: AuditConfig{
			AsyncBuffer:     intVar("SEPACHECK_AUDIT_BUFFER", 1024),
			FieldSampleRate: floatVar("SEPACHECK_AUDIT_FIELD_SAMPLE_RATE", 1),
		},
	}
	if parseErr != nil {
		return Server{}, parseErr
	}
	if cfg.Validation.BatchConcurrency < 1 {
		return Server{}, fmt.Errorf("SEPACHECK_BATCH_CONCURRENCY must be positive, got %d", cfg.Validation.BatchConcurrency)
	}
	if cfg.Audit.AsyncBuffer < 0 {
		return Server{}, fmt.Errorf("SEPACHECK_AUDIT_BUFFER must not be negative, got %d", cfg.Audit.AsyncBuffer)
	}
	if r := cfg.Audit.FieldSampleRate; r < 0 || r > 1 {
		return Server{}, fmt.Errorf("SEPACHECK_AUDIT_FIELD_SAMPLE_RATE must be within [0, 1], got %v", r)
	}
	return cfg, nil
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func floatEnv(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func listEnv(key string) []string {
	return platformstrings.SplitList(os.Getenv(key))
}
