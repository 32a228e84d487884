package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/razorbill/livematch/internal/platform/logging"
)

// Config stores runtime configuration for the client.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string

	StreamedBaseURL             string
	StreamedBearerToken         string
	StreamedTimeout             time.Duration
	StreamedCircuitEnabled      bool
	StreamedCircuitFailureCount int
	StreamedCircuitOpenTimeout  time.Duration
	StreamedCircuitHalfOpenMax  int

	FeedMaxRetries   int
	FeedRetryBackoff time.Duration
	FeedMaxWorkers   int

	StoragePath  string
	ReminderLead time.Duration

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	streamedTimeout, err := time.ParseDuration(getEnv("STREAMED_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_TIMEOUT: %w", err)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("STREAMED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("STREAMED_CIRCUIT_FAILURE_COUNT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("STREAMED_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpenMax, err := getEnvAsInt("STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse STREAMED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}

	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_RETRIES: %w", err)
	}
	feedRetryBackoff, err := time.ParseDuration(getEnv("FEED_RETRY_BACKOFF", "1500ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_RETRY_BACKOFF: %w", err)
	}
	feedMaxWorkers, err := getEnvAsInt("FEED_MAX_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_WORKERS: %w", err)
	}

	reminderLead, err := time.ParseDuration(getEnv("REMINDER_LEAD", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REMINDER_LEAD: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	serviceName := getEnv("SERVICE_NAME", "livematch")

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    serviceName,
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),

		StreamedBaseURL:             strings.TrimRight(strings.TrimSpace(getEnv("STREAMED_BASE_URL", "https://streamed.su")), "/"),
		StreamedBearerToken:         strings.TrimSpace(getEnv("STREAMED_BEARER_TOKEN", "")),
		StreamedTimeout:             streamedTimeout,
		StreamedCircuitEnabled:      circuitEnabled,
		StreamedCircuitFailureCount: circuitFailureCount,
		StreamedCircuitOpenTimeout:  circuitOpenTimeout,
		StreamedCircuitHalfOpenMax:  circuitHalfOpenMax,

		FeedMaxRetries:   feedMaxRetries,
		FeedRetryBackoff: feedRetryBackoff,
		FeedMaxWorkers:   feedMaxWorkers,

		StoragePath:  getEnv("STORAGE_PATH", defaultStoragePath()),
		ReminderLead: reminderLead,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAppName:       getEnv("PYROSCOPE_APP_NAME", serviceName),
		PyroscopeAuthToken:     getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.FeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("FEED_MAX_RETRIES must be >= 0")
	}
	if cfg.FeedMaxWorkers < 1 {
		return Config{}, fmt.Errorf("FEED_MAX_WORKERS must be >= 1")
	}
	if cfg.PyroscopeEnabled && strings.TrimSpace(cfg.PyroscopeServerAddress) == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "livematch.json"
	}
	return home + "/.livematch/store.json"
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return out, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
