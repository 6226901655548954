package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Reconstruction engine (GPlates Web Service deployment).
	GWSBaseURL   string
	GWSTimeout   time.Duration
	GWSCacheSize int

	// Dataset cache.
	CacheDir string

	// Reconstruction model manifest (YAML).
	ModelManifest string

	// Kafka sink.
	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Convergence export window: steps from ExportStartMa (older) down to
	// ExportEndMa (younger) in ExportStepMa increments.
	ExportStartMa     float64
	ExportEndMa       float64
	ExportStepMa      float64
	ExportAnchorPlate int
	ExportDeltaTime   float64
	ExportSamplingDeg float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	gwsTimeout, err := parseDurationEnv("GWS_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	startMa, err := parseFloatEnv("EXPORT_START_MA", 200)
	if err != nil {
		return nil, err
	}
	endMa, err := parseFloatEnv("EXPORT_END_MA", 0)
	if err != nil {
		return nil, err
	}
	stepMa, err := parseFloatEnv("EXPORT_STEP_MA", 1)
	if err != nil {
		return nil, err
	}
	deltaTime, err := parseFloatEnv("EXPORT_DELTA_TIME", 1)
	if err != nil {
		return nil, err
	}
	samplingDeg, err := parseFloatEnv("EXPORT_SAMPLING_DEG", 0.5)
	if err != nil {
		return nil, err
	}
	anchorPlate, err := parseIntEnv("EXPORT_ANCHOR_PLATE", 0)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseIntEnv("GWS_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GWSBaseURL:   envOrDefault("GWS_BASE_URL", "https://gws.gplates.org"),
		GWSTimeout:   gwsTimeout,
		GWSCacheSize: cacheSize,

		CacheDir:      envOrDefault("CACHE_DIR", defaultCacheDir()),
		ModelManifest: os.Getenv("MODEL_MANIFEST"),

		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "subduction-convergence"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ExportStartMa:     startMa,
		ExportEndMa:       endMa,
		ExportStepMa:      stepMa,
		ExportAnchorPlate: anchorPlate,
		ExportDeltaTime:   deltaTime,
		ExportSamplingDeg: samplingDeg,
	}

	if cfg.GWSBaseURL == "" {
		return nil, errors.New("GWS_BASE_URL is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.GWSCacheSize <= 0 {
		return nil, errors.New("GWS_CACHE_SIZE must be positive")
	}
	if cfg.ExportStepMa <= 0 {
		return nil, errors.New("EXPORT_STEP_MA must be positive")
	}
	if cfg.ExportStartMa < cfg.ExportEndMa {
		return nil, errors.New("EXPORT_START_MA must be >= EXPORT_END_MA (times are ages in Ma)")
	}
	if cfg.ExportEndMa < 0 {
		return nil, errors.New("EXPORT_END_MA must be >= 0")
	}

	return cfg, nil
}

// envOrDefault returns the environment variable value, or def when unset or empty.
func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseBrokers splits a comma-separated broker list, trimming whitespace and
// dropping empty entries.
func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseFloatEnv(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

// defaultCacheDir is the per-user dataset cache, mirroring the conventional
// OS cache location.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "plate-kinematics")
	}
	return filepath.Join(base, "plate-kinematics")
}
