package config

import (
	"testing"
	"time"

	"github.com/Abraxas-365/shortlist/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"AIRTABLE_API_KEY": "key",
		"AIRTABLE_BASE_ID": "app1",
	}))

	require.NoError(t, err)
	assert.Equal(t, DriverAirtable, cfg.Store.Driver)
	assert.Equal(t, "openai", cfg.Evaluator.Provider)
	assert.Equal(t, 3, cfg.Evaluator.MaxRetries)
	assert.Equal(t, time.Second, cfg.Evaluator.StubDelay)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "snapshots", cfg.Archive.Prefix)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Archive.Enabled())
}

func TestFromEnv_MissingAirtableCredentials(t *testing.T) {
	_, err := FromEnv(lookup(map[string]string{"AIRTABLE_API_KEY": "key"}))

	require.True(t, errx.IsCode(err, CodeMissingEnv))
	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, []string{"AIRTABLE_BASE_ID"}, e.Details["variables"])
}

func TestFromEnv_SQLDriverNeedsDSN(t *testing.T) {
	_, err := FromEnv(lookup(map[string]string{"STORE_DRIVER": "sqlite"}))
	assert.True(t, errx.IsCode(err, CodeMissingEnv))

	cfg, err := FromEnv(lookup(map[string]string{"STORE_DRIVER": "SQLite", "STORE_DSN": "file:dev.db"}))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	testCases := map[string]map[string]string{
		"driver":  {"STORE_DRIVER": "excel"},
		"retries": {"STORE_DRIVER": "memstore", "EVALUATOR_MAX_RETRIES": "many"},
		"delay":   {"STORE_DRIVER": "memstore", "EVALUATOR_STUB_DELAY": "soon"},
	}

	for name, vars := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(lookup(vars))
			assert.True(t, errx.IsCode(err, CodeInvalidValue))
		})
	}
}

func TestRequireEvaluator(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{"STORE_DRIVER": "memstore"}))
	require.NoError(t, err)
	assert.True(t, errx.IsCode(cfg.RequireEvaluator(), CodeMissingEnv))

	cfg.Evaluator.APIKey = "sk"
	assert.NoError(t, cfg.RequireEvaluator())

	cfg.Evaluator.Provider = "stub"
	assert.NoError(t, cfg.RequireEvaluator())

	cfg.Evaluator.APIKey = ""
	assert.True(t, errx.IsCode(cfg.RequireEvaluator(), CodeMissingEnv))
}

func TestRequireServer(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{"STORE_DRIVER": "memstore", "API_JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireServer())

	cfg.Server.JWTSecret = ""
	assert.True(t, errx.IsCode(cfg.RequireServer(), CodeMissingEnv))
}
