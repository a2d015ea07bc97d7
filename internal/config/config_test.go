package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 7, cfg.DataSource.DefaultDays)
	assert.Equal(t, "public", cfg.Output.Dir)
	assert.Equal(t, []string{"json"}, cfg.Output.Formats)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.GenerateTimeout)
	assert.Equal(t, 7, cfg.Schedule.Days)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
data_source:
  provider: http-csv
  base_url: https://example.test/{symbol}.csv
  default_days: 10
output:
  dir: out
  formats: [json, parquet]
server:
  generate_timeout: 5s
schedule:
  tickers: [" aapl", msft]
`)
	t.Setenv("OUTPUT_DIR", "from-env")
	t.Setenv("PORT", "8080")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http-csv", cfg.DataSource.Provider)
	assert.Equal(t, 10, cfg.DataSource.DefaultDays)
	assert.Equal(t, "from-env", cfg.Output.Dir)
	assert.Equal(t, []string{"json", "parquet"}, cfg.Output.Formats)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.GenerateTimeout)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Schedule.Tickers)
	assert.Equal(t, 10, cfg.Schedule.Days)
	require.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "log: ["))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"http-csv without url", func(c *Config) { c.DataSource.Provider = "http-csv" }},
		{"file without dir", func(c *Config) { c.DataSource.Provider = "file" }},
		{"unknown format", func(c *Config) { c.Output.Formats = []string{"xml"} }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}
