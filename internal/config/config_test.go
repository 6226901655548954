package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://gws.gplates.org", cfg.GWSBaseURL)
	assert.Equal(t, 60*time.Second, cfg.GWSTimeout)
	assert.Equal(t, 256, cfg.GWSCacheSize)
	assert.NotEmpty(t, cfg.CacheDir)
	assert.Empty(t, cfg.ModelManifest)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "subduction-convergence", cfg.KafkaSinkTopic)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 200.0, cfg.ExportStartMa)
	assert.Equal(t, 0.0, cfg.ExportEndMa)
	assert.Equal(t, 1.0, cfg.ExportStepMa)
	assert.Equal(t, 0, cfg.ExportAnchorPlate)
	assert.Equal(t, 1.0, cfg.ExportDeltaTime)
	assert.Equal(t, 0.5, cfg.ExportSamplingDeg)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("GWS_BASE_URL", "http://gws.internal:8888")
	t.Setenv("GWS_TIMEOUT", "2m")
	t.Setenv("GWS_CACHE_SIZE", "32")
	t.Setenv("CACHE_DIR", "/var/cache/plates")
	t.Setenv("MODEL_MANIFEST", "/etc/plates/model.yaml")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("EXPORT_START_MA", "410")
	t.Setenv("EXPORT_END_MA", "10")
	t.Setenv("EXPORT_STEP_MA", "5")
	t.Setenv("EXPORT_ANCHOR_PLATE", "701")
	t.Setenv("EXPORT_DELTA_TIME", "2")
	t.Setenv("EXPORT_SAMPLING_DEG", "0.25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://gws.internal:8888", cfg.GWSBaseURL)
	assert.Equal(t, 2*time.Minute, cfg.GWSTimeout)
	assert.Equal(t, 32, cfg.GWSCacheSize)
	assert.Equal(t, "/var/cache/plates", cfg.CacheDir)
	assert.Equal(t, "/etc/plates/model.yaml", cfg.ModelManifest)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 410.0, cfg.ExportStartMa)
	assert.Equal(t, 10.0, cfg.ExportEndMa)
	assert.Equal(t, 5.0, cfg.ExportStepMa)
	assert.Equal(t, 701, cfg.ExportAnchorPlate)
	assert.Equal(t, 2.0, cfg.ExportDeltaTime)
	assert.Equal(t, 0.25, cfg.ExportSamplingDeg)
}

func TestLoad_BrokerListTrimsWhitespace(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " broker1:9092 , ,broker2:9092,")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeGWSTimeout(t *testing.T) {
	t.Setenv("GWS_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GWS_TIMEOUT")
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	t.Setenv("GWS_CACHE_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GWS_CACHE_SIZE")
}

func TestLoad_InvalidStepMa(t *testing.T) {
	t.Setenv("EXPORT_STEP_MA", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_STEP_MA")
}

func TestLoad_StartOlderThanEnd(t *testing.T) {
	t.Setenv("EXPORT_START_MA", "10")
	t.Setenv("EXPORT_END_MA", "100")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_START_MA")
}

func TestLoad_NegativeEndMa(t *testing.T) {
	t.Setenv("EXPORT_START_MA", "100")
	t.Setenv("EXPORT_END_MA", "-5")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_END_MA")
}

func TestLoad_InvalidStartMa(t *testing.T) {
	t.Setenv("EXPORT_START_MA", "abc")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EXPORT_START_MA")
}
