package app

import (
	"context"
	"testing"

	"github.com/Abraxas-365/shortlist/internal/config"
	"github.com/Abraxas-365/shortlist/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.FromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)
	cfg.LogLevel = "error"
	logx.SetLevel(logx.LevelError)
	return cfg
}

func TestNewContainer_MemoryStoreWithStub(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"STORE_DRIVER":         "memstore",
		"EVALUATOR_PROVIDER":   "stub",
		"OPENAI_API_KEY":       "sk-test",
		"EVALUATOR_STUB_DELAY": "0s",
		"API_JWT_SECRET":       "secret",
	})

	c, err := NewContainer(context.Background(), cfg, Options{Evaluator: true, Queue: true, Server: true})
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Processor)
	assert.NotNil(t, c.Decompressor)
	assert.NotNil(t, c.ApplicantHandlers)
	assert.NotNil(t, c.UnifiedAuthMiddleware)
	assert.Nil(t, c.Queue)
	assert.Nil(t, c.Worker)
	assert.Nil(t, c.Archive)

	report, err := c.Processor.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Total)

	health := c.Health(context.Background())
	assert.Equal(t, true, health["store_ok"])
	assert.Equal(t, false, health["archive"])
}

func TestNewContainer_SQLite(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"STORE_DRIVER": "sqlite",
		"STORE_DSN":    ":memory:",
	})

	c, err := NewContainer(context.Background(), cfg, Options{})
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.SQL)
	assert.Nil(t, c.Processor)
	assert.Equal(t, true, c.Health(context.Background())["store_ok"])
}

func TestNewContainer_ServerNeedsSecret(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"STORE_DRIVER":       "memstore",
		"EVALUATOR_PROVIDER": "stub",
		"OPENAI_API_KEY":     "sk-test",
	})

	_, err := NewContainer(context.Background(), cfg, Options{Evaluator: true, Server: true})
	assert.Error(t, err)
}

