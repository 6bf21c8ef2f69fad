package config

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/joho/godotenv"
)

var ErrRegistry = errx.NewRegistry("CONFIG")

var (
	CodeMissingEnv   = ErrRegistry.Register("MISSING_ENV", errx.TypeValidation, http.StatusInternalServerError, "Required environment variable is not set")
	CodeInvalidValue = ErrRegistry.Register("INVALID_VALUE", errx.TypeValidation, http.StatusInternalServerError, "Environment variable has an invalid value")
	CodeEnvFile      = ErrRegistry.Register("ENV_FILE", errx.TypeInternal, http.StatusInternalServerError, "Failed to load .env file")
)

// Store drivers
const (
	DriverAirtable = "airtable"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memstore"
)

type StoreConfig struct {
	Driver          string
	AirtableAPIKey  string
	AirtableBaseID  string
	AirtableBaseURL string
	DSN             string
}

type EvaluatorConfig struct {
	Provider   string
	APIKey     string
	Model      string
	MaxRetries int
	StubDelay  time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	Queue    string
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type ArchiveConfig struct {
	Bucket string
	Prefix string
	Region string
}

func (a ArchiveConfig) Enabled() bool { return a.Bucket != "" }

type ServerConfig struct {
	Port      string
	JWTSecret string
}

type Config struct {
	Store     StoreConfig
	Evaluator EvaluatorConfig
	Redis     RedisConfig
	Archive   ArchiveConfig
	Server    ServerConfig
	LogLevel  string
}

// Load reads .env (when present) into the environment, then builds the config
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, ErrRegistry.NewWithCause(CodeEnvFile, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates the config from a variable lookup
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Store: StoreConfig{
			Driver:          strings.ToLower(env("STORE_DRIVER", DriverAirtable)),
			AirtableAPIKey:  env("AIRTABLE_API_KEY", ""),
			AirtableBaseID:  env("AIRTABLE_BASE_ID", ""),
			AirtableBaseURL: env("AIRTABLE_BASE_URL", ""),
			DSN:             env("STORE_DSN", ""),
		},
		Evaluator: EvaluatorConfig{
			Provider: strings.ToLower(env("EVALUATOR_PROVIDER", "openai")),
			APIKey:   env("OPENAI_API_KEY", ""),
			Model:    env("EVALUATOR_MODEL", "gpt-4o-mini"),
		},
		Redis: RedisConfig{
			Addr:     env("REDIS_ADDR", ""),
			Password: env("REDIS_PASS", ""),
			Queue:    env("DECOMPRESS_QUEUE", "shortlist:decompress"),
		},
		Archive: ArchiveConfig{
			Bucket: env("ARCHIVE_BUCKET", ""),
			Prefix: env("ARCHIVE_PREFIX", "snapshots"),
			Region: env("AWS_REGION", "us-east-1"),
		},
		Server: ServerConfig{
			Port:      env("PORT", "8080"),
			JWTSecret: env("API_JWT_SECRET", ""),
		},
		LogLevel: env("LOG_LEVEL", "info"),
	}

	retries, err := strconv.Atoi(env("EVALUATOR_MAX_RETRIES", "3"))
	if err != nil || retries < 0 {
		return nil, ErrRegistry.New(CodeInvalidValue).
			WithDetail("variable", "EVALUATOR_MAX_RETRIES").
			WithDetail("value", getenv("EVALUATOR_MAX_RETRIES"))
	}
	cfg.Evaluator.MaxRetries = retries

	delay, err := time.ParseDuration(env("EVALUATOR_STUB_DELAY", "1s"))
	if err != nil || delay < 0 {
		return nil, ErrRegistry.New(CodeInvalidValue).
			WithDetail("variable", "EVALUATOR_STUB_DELAY").
			WithDetail("value", getenv("EVALUATOR_STUB_DELAY"))
	}
	cfg.Evaluator.StubDelay = delay

	if err := cfg.validateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case DriverAirtable:
		return require(map[string]string{
			"AIRTABLE_API_KEY": c.Store.AirtableAPIKey,
			"AIRTABLE_BASE_ID": c.Store.AirtableBaseID,
		})
	case DriverPostgres, DriverSQLite:
		return require(map[string]string{"STORE_DSN": c.Store.DSN})
	case DriverMemory:
		return nil
	default:
		return ErrRegistry.New(CodeInvalidValue).
			WithDetail("variable", "STORE_DRIVER").
			WithDetail("value", c.Store.Driver)
	}
}

// RequireEvaluator checks what the processor needs beyond the store.
// The evaluation key is required with either provider.
func (c *Config) RequireEvaluator() error {
	switch c.Evaluator.Provider {
	case "openai", "stub":
		return require(map[string]string{"OPENAI_API_KEY": c.Evaluator.APIKey})
	default:
		return ErrRegistry.New(CodeInvalidValue).
			WithDetail("variable", "EVALUATOR_PROVIDER").
			WithDetail("value", c.Evaluator.Provider)
	}
}

// RequireServer checks what the admin API needs
func (c *Config) RequireServer() error {
	return require(map[string]string{"API_JWT_SECRET": c.Server.JWTSecret})
}

func require(vars map[string]string) error {
	missing := make([]string, 0)
	for _, name := range []string{"AIRTABLE_API_KEY", "AIRTABLE_BASE_ID", "STORE_DSN", "OPENAI_API_KEY", "API_JWT_SECRET"} {
		if v, ok := vars[name]; ok && v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return ErrRegistry.New(CodeMissingEnv).WithDetail("variables", missing)
	}
	return nil
}
