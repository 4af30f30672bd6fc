package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	LogLevel                    logging.Level
	DBURL                       string
	DBDisablePreparedBinary     bool
	CacheEnabled                bool
	CacheTTL                    time.Duration
	CORSAllowedOrigins          []string
	SwaggerEnabled              bool
	DefaultGameVersion          string
	AnubisBaseURL               string
	AnubisIntrospectURL         string
	AnubisAdminKey              string
	AnubisTimeout               time.Duration
	AnubisCircuitEnabled        bool
	AnubisCircuitFailureCount   int
	AnubisCircuitOpenTimeout    time.Duration
	AnubisCircuitHalfOpenMaxReq int
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	PprofEnabled                bool
	PprofAddr                   string
	InternalJobToken            string
	QStashEnabled               bool
	QStashBaseURL               string
	QStashToken                 string
	QStashTargetBaseURL         string
	QStashRetries               int
	QStashCircuitEnabled        bool
	QStashCircuitFailureCount   int
	QStashCircuitOpenTimeout    time.Duration
	QStashCircuitHalfOpenMaxReq int
	CompletionSweepEnabled      bool
	CompletionSweepInterval     time.Duration
	CompletionWorkers           int
}

// UsesMemoryStore reports whether the service runs without a database.
func (c Config) UsesMemoryStore() bool {
	return strings.TrimSpace(c.DBURL) == ""
}

// Load reads configuration from the environment. A .env file in the working
// directory (or APP_ENV_FILE) is applied first without overriding variables
// that are already set.
func Load() (Config, error) {
	if err := loadDotEnv(getEnv("APP_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	p := &envParser{}
	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "futalyst-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                 p.duration("APP_READ_TIMEOUT", "10s"),
		WriteTimeout:                p.duration("APP_WRITE_TIMEOUT", "15s"),
		LogLevel:                    logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		DBURL:                       strings.TrimSpace(os.Getenv("DB_URL")),
		DBDisablePreparedBinary:     p.bool("DB_DISABLE_PREPARED_BINARY_RESULT", "true"),
		CacheEnabled:                p.bool("CACHE_ENABLED", "true"),
		CacheTTL:                    p.duration("CACHE_TTL", "60s"),
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:              p.bool("SWAGGER_ENABLED", swaggerDefault),
		DefaultGameVersion:          strings.TrimSpace(getEnv("DEFAULT_GAME_VERSION", "fc25")),
		AnubisBaseURL:               getEnv("ANUBIS_BASE_URL", "http://localhost:8081"),
		AnubisIntrospectURL:         getEnv("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"),
		AnubisAdminKey:              getEnv("ANUBIS_ADMIN_KEY", ""),
		AnubisTimeout:               p.duration("ANUBIS_TIMEOUT", "3s"),
		AnubisCircuitEnabled:        p.bool("ANUBIS_CIRCUIT_ENABLED", "true"),
		AnubisCircuitFailureCount:   p.int("ANUBIS_CIRCUIT_FAILURE_COUNT", 5, 1),
		AnubisCircuitOpenTimeout:    p.duration("ANUBIS_CIRCUIT_OPEN_TIMEOUT", "15s"),
		AnubisCircuitHalfOpenMaxReq: p.int("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1),
		UptraceEnabled:              p.bool("UPTRACE_ENABLED", "false"),
		UptraceLogsEnabled:          p.bool("UPTRACE_LOGS_ENABLED", "true"),
		PyroscopeEnabled:            p.bool("PYROSCOPE_ENABLED", "false"),
		PyroscopeServerAddress:      strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         p.duration("PYROSCOPE_UPLOAD_RATE", "15s"),
		PprofEnabled:                p.bool("PPROF_ENABLED", "false"),
		PprofAddr:                   strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		InternalJobToken:            strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		QStashEnabled:               p.bool("QSTASH_ENABLED", "false"),
		QStashBaseURL:               strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io")),
		QStashToken:                 strings.TrimSpace(getEnv("QSTASH_TOKEN", "")),
		QStashTargetBaseURL:         strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", "")),
		QStashRetries:               p.int("QSTASH_RETRIES", 3, 0),
		QStashCircuitEnabled:        p.bool("QSTASH_CIRCUIT_ENABLED", "true"),
		QStashCircuitFailureCount:   p.int("QSTASH_CIRCUIT_FAILURE_COUNT", 5, 1),
		QStashCircuitOpenTimeout:    p.duration("QSTASH_CIRCUIT_OPEN_TIMEOUT", "15s"),
		QStashCircuitHalfOpenMaxReq: p.int("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ", 2, 1),
		CompletionSweepEnabled:      p.bool("COMPLETION_SWEEP_ENABLED", "true"),
		CompletionSweepInterval:     p.duration("COMPLETION_SWEEP_INTERVAL", "5m"),
		CompletionWorkers:           p.int("COMPLETION_WORKERS", 4, 1),
	}
	if p.err != nil {
		return Config{}, p.err
	}

	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if c.DefaultGameVersion == "" {
		return fmt.Errorf("DEFAULT_GAME_VERSION cannot be empty")
	}
	if c.UptraceEnabled && c.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if c.PyroscopeEnabled {
		if c.PyroscopeServerAddress == "" {
			return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
		}
		if c.PyroscopeAppName == "" {
			return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
		}
	}
	if c.PprofEnabled && c.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if c.QStashEnabled {
		if c.QStashToken == "" {
			return fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if c.QStashTargetBaseURL == "" {
			return fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if c.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	return nil
}

func loadDotEnv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// envParser keeps the first parse failure so Load can read every key in one
// pass.
type envParser struct {
	err error
}

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
}

func (p *envParser) bool(key, fallback string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.fail(key, err)
	}
	return v
}

// duration parses a strictly positive duration.
func (p *envParser) duration(key, fallback string) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.fail(key, err)
		return 0
	}
	if v <= 0 {
		p.fail(key, fmt.Errorf("must be > 0"))
	}
	return v
}

func (p *envParser) int(key string, fallback, min int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return 0
	}
	if v < min {
		p.fail(key, fmt.Errorf("must be >= %d", min))
	}
	return v
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
