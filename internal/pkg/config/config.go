// Package config loads service configuration from an optional YAML file and
// COACH_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tjfontaine/interview-coach/internal/adapters/archive/s3"
	"github.com/tjfontaine/interview-coach/internal/llm"
)

const (
	envPrefix = "COACH_"
	// PathEnv overrides the config file location.
	PathEnv     = "COACH_CONFIG"
	defaultPath = "config.yaml"
)

// Storage kinds.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Event publisher kinds.
const (
	EventsNone     = "none"
	EventsDirect   = "direct"
	EventsRabbitMQ = "rabbitmq"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Interview InterviewConfig `koanf:"interview"`
	LLM       llm.Config      `koanf:"llm"`
	Storage   StorageConfig   `koanf:"storage"`
	Events    EventsConfig    `koanf:"events"`
	Archive   ArchiveConfig   `koanf:"archive"`
	Auth      AuthConfig      `koanf:"auth"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// RateLimitPerMinute is per client IP; 0 disables limiting.
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
	RateLimitBurst     int `koanf:"rate_limit_burst"`
}

type LoggingConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error
	// File, when set, receives a rotated copy of the log stream.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

type InterviewConfig struct {
	QuestionCount int `koanf:"question_count"`
	// Seed makes question selection reproducible; 0 seeds from the clock.
	Seed              int64         `koanf:"seed"`
	AnswerTokenBudget int           `koanf:"answer_token_budget"`
	EvaluatorTimeout  time.Duration `koanf:"evaluator_timeout"`
	Summary           bool          `koanf:"summary"`
	// GenerateQuestions asks the language model to write questions, falling
	// back to the catalog per question.
	GenerateQuestions bool          `koanf:"generate_questions"`
	GeneratorTimeout  time.Duration `koanf:"generator_timeout"`
	// IdleTimeout expires active sessions with no submissions; 0 disables.
	IdleTimeout    time.Duration `koanf:"idle_timeout"`
	PersistTimeout time.Duration `koanf:"persist_timeout"`
}

type StorageConfig struct {
	Kind     string `koanf:"kind"` // memory, sqlite, postgres, mongo
	Path     string `koanf:"path"` // sqlite
	DSN      string `koanf:"dsn"`  // postgres
	URI      string `koanf:"uri"`  // mongo
	Database string `koanf:"database"`
}

type EventsConfig struct {
	Kind     string `koanf:"kind"` // none, direct, rabbitmq
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

type ArchiveConfig struct {
	Enabled bool      `koanf:"enabled"`
	S3      s3.Config `koanf:"s3"`
}

type AuthConfig struct {
	Enabled bool `koanf:"enabled"`
	// Required rejects anonymous requests; otherwise a token is optional.
	Required bool          `koanf:"required"`
	Secret   string        `koanf:"secret"`
	Issuer   string        `koanf:"issuer"`
	TTL      time.Duration `koanf:"ttl"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

var defaults = map[string]interface{}{
	"server.port":                   8080,
	"server.request_timeout":        "30s",
	"server.rate_limit_per_minute":  0,
	"server.rate_limit_burst":       10,
	"logging.level":                 "info",
	"logging.max_size_mb":           100,
	"logging.max_backups":           3,
	"logging.max_age_days":          28,
	"interview.question_count":      5,
	"interview.evaluator_timeout":   "5s",
	"interview.answer_token_budget": 1500,
	"interview.generator_timeout":   "8s",
	"interview.idle_timeout":        "2h",
	"interview.persist_timeout":     "10s",
	"llm.provider":                  llm.ProviderNone,
	"llm.timeout":                   "30s",
	"storage.kind":                  StorageSQLite,
	"storage.path":                  "./data/interview-coach.db",
	"storage.database":              "interview_coach",
	"events.kind":                   EventsDirect,
	"events.exchange":               "interview.events",
	"archive.s3.prefix":             "reports",
	"archive.s3.region":             "auto",
	"auth.issuer":                   "interview-coach",
	"auth.ttl":                      "24h",
	"telemetry.enabled":             true,
	"telemetry.service_name":        "interview-coach",
}

// Load reads config.yaml (or the file named by COACH_CONFIG), then applies
// environment overrides such as COACH_SERVER__PORT=9000.
func Load() (*Config, error) {
	if path := os.Getenv(PathEnv); path != "" {
		return load(path, true)
	}
	return load(defaultPath, false)
}

func load(path string, required bool) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// A missing default file is fine; env vars and defaults still apply.
		if required || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		if s == PathEnv {
			return ""
		}
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("set default %s: %w", key, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.LLM.APIKey = substituteEnvVars(cfg.LLM.APIKey)
	cfg.Storage.DSN = substituteEnvVars(cfg.Storage.DSN)
	cfg.Storage.URI = substituteEnvVars(cfg.Storage.URI)
	cfg.Events.URL = substituteEnvVars(cfg.Events.URL)
	cfg.Archive.S3.AccessKey = substituteEnvVars(cfg.Archive.S3.AccessKey)
	cfg.Archive.S3.SecretKey = substituteEnvVars(cfg.Archive.S3.SecretKey)
	cfg.Auth.Secret = substituteEnvVars(cfg.Auth.Secret)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Interview.QuestionCount <= 0 {
		return fmt.Errorf("interview.question_count must be positive, got %d", c.Interview.QuestionCount)
	}

	switch c.Storage.Kind {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for sqlite")
		}
	case StoragePostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for postgres")
		}
	case StorageMongo:
		if c.Storage.URI == "" {
			return errors.New("storage.uri is required for mongo")
		}
	default:
		return fmt.Errorf("unknown storage.kind %q", c.Storage.Kind)
	}

	switch c.Events.Kind {
	case EventsNone, EventsDirect:
	case EventsRabbitMQ:
		if c.Events.URL == "" {
			return errors.New("events.url is required for rabbitmq")
		}
	default:
		return fmt.Errorf("unknown events.kind %q", c.Events.Kind)
	}

	switch c.LLM.Provider {
	case "", llm.ProviderNone, llm.ProviderOpenAI, llm.ProviderOllama, llm.ProviderPerplexity, llm.ProviderGemini:
	default:
		return fmt.Errorf("unknown llm.provider %q", c.LLM.Provider)
	}

	if c.Archive.Enabled && c.Archive.S3.Bucket == "" {
		return errors.New("archive.s3.bucket is required when archive is enabled")
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return errors.New("auth.secret is required when auth is enabled")
	}
	return nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
