package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{DefaultDatasetURL}, cfg.DatasetURLs)
	assert.Equal(t, "http", cfg.FetchMode)
	assert.Equal(t, 60*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3, cfg.MaxConcurrency)
	assert.Equal(t, 5, cfg.TopBusinessTypes)
	assert.Equal(t, 10, cfg.TopRatedLimit)
	assert.Equal(t, "none", cfg.StoreDriver)
	assert.Nil(t, cfg.PriorSeed)
	assert.NotEmpty(t, cfg.OutputDir)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "authority_insights.csv"), cfg.CSVOutputPath())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATASET_URLS", "https://example.org/a.json, https://example.org/b.json")
	t.Setenv("PRIOR_SEED", "42")
	t.Setenv("OUTPUT_DIR", "/tmp/hygiene")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("FETCH_TIMEOUT", "5s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.org/a.json", "https://example.org/b.json"}, cfg.DatasetURLs)
	require.NotNil(t, cfg.PriorSeed)
	assert.Equal(t, uint64(42), *cfg.PriorSeed)
	assert.Equal(t, "/tmp/hygiene", cfg.OutputDir)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TOP_RATED_LIMIT=3\nLOG_LEVEL=debug\n"), 0o600))
	// godotenv does not override variables that are already set, so make
	// sure these keys start out unset and are restored afterwards.
	t.Setenv("TOP_RATED_LIMIT", "")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("TOP_RATED_LIMIT")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.TopRatedLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"FETCH_MODE":      "carrier-pigeon",
		"MAX_CONCURRENCY": "0",
		"STORE_DRIVER":    "mongo",
		"DATASET_URLS":    "not a url",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestFileModeNeedsInput(t *testing.T) {
	cfg := &Config{FetchMode: "file", FetchTimeout: time.Second, MaxConcurrency: 1, MaxRetries: 1,
		TopBusinessTypes: 5, TopRatedLimit: 10, StoreDriver: "none", LogLevel: "info", ServerAddr: ":8080"}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg.InputFile = "establishments.json"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := &Config{PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", cfg.DSN())
}

func TestPriorSeedZeroIsKept(t *testing.T) {
	t.Setenv("PRIOR_SEED", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.NotNil(t, cfg.PriorSeed)
	assert.Equal(t, uint64(0), *cfg.PriorSeed)
}

func TestReadDefersValidation(t *testing.T) {
	t.Setenv("FETCH_MODE", "file")

	cfg, err := Read(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg.InputFile = "FHRS529en-GB.json"
	assert.NoError(t, cfg.Validate())
}
