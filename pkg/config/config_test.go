package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("TONSTORE_TEST_STR", "value")
	t.Setenv("TONSTORE_TEST_INT", "42")
	t.Setenv("TONSTORE_TEST_BAD_INT", "forty-two")
	t.Setenv("TONSTORE_TEST_DUR", "3s")

	assert.Equal(t, "value", EnvDefault("TONSTORE_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("TONSTORE_TEST_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("TONSTORE_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("TONSTORE_TEST_BAD_INT", 1))
	assert.Equal(t, 3*time.Second, EnvDurationDefault("TONSTORE_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("TONSTORE_TEST_MISSING", time.Second))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()
	assert.Equal(t, "iphones_catalog.db", cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "products", cfg.ESIndex)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}
