package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
market_data:
  api_key: yaml-key
analysis:
  symbols: [AAPL, MSFT]
  mode: technical
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, "test", c.Environment)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Analysis.Symbols)
	assert.Equal(t, "yaml-key", c.MarketData.APIKey)
}

func TestLoadRejectsMissingSymbols(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
market_data:
  api_key: k
`))
	assert.Error(t, err)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
market_data:
  api_key: k
analysis:
  symbols: [AAPL]
  mode: hybrid
`))
	assert.Error(t, err)
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, minimalYAML+`
kafka:
  enabled: true
`))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MARKET_DATA_API_KEY", "env-key")
	t.Setenv("SYMBOLS", "TSLA,AMD")
	t.Setenv("ANALYSIS_MODE", "sentiment")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, "env-key", c.MarketData.APIKey)
	assert.Equal(t, []string{"TSLA", "AMD"}, c.Analysis.Symbols)
	assert.Equal(t, "sentiment", c.Analysis.Mode)
}

func TestLoadWithEnvSuppliesRequiredKey(t *testing.T) {
	// Secrets can live only in the environment: validation runs after
	// overrides.
	t.Setenv("MARKET_DATA_API_KEY", "env-only")

	c, err := LoadWithEnv(writeConfig(t, `
environment: test
analysis:
  symbols: [AAPL]
`))
	require.NoError(t, err)
	assert.Equal(t, "env-only", c.MarketData.APIKey)
}
