package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
		Format string `yaml:"format" validate:"omitempty,oneof=json console pretty"`
	} `yaml:"log"`
	DataSource struct {
		Provider    string  `yaml:"provider" validate:"oneof=yahoo http-csv file mock"`
		BaseURL     string  `yaml:"base_url" validate:"required_if=Provider http-csv"`
		APIKey      string  `yaml:"api_key"`
		Dir         string  `yaml:"dir" validate:"required_if=Provider file"`
		RatePerSec  float64 `yaml:"rate_per_sec" validate:"gte=0"`
		DefaultDays int     `yaml:"default_days" validate:"gt=0"`
	} `yaml:"data_source"`
	Output struct {
		Dir        string   `yaml:"dir" validate:"required"`
		Formats    []string `yaml:"formats" validate:"dive,oneof=json parquet"`
		SQLitePath string   `yaml:"sqlite_path"`
	} `yaml:"output"`
	Server struct {
		Addr            string        `yaml:"addr" validate:"required"`
		GenerateTimeout time.Duration `yaml:"generate_timeout" validate:"gt=0"`
	} `yaml:"server"`
	Schedule struct {
		Cron    string   `yaml:"cron"`
		Tickers []string `yaml:"tickers"`
		Days    int      `yaml:"days" validate:"gte=0"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Tracing struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"tracing"`
	Proxy string `yaml:"proxy"`
}

// Load reads .env, then the YAML file at path, then applies environment
// variable overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataSource.Dir = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("OUTPUT_FORMATS"); v != "" {
		cfg.Output.Formats = splitList(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Output.SQLitePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Schedule.Tickers = splitList(v)
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TRACING_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tracing.Enabled = b
		}
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.RatePerSec == 0 {
		cfg.DataSource.RatePerSec = 2
	}
	if cfg.DataSource.DefaultDays == 0 {
		cfg.DataSource.DefaultDays = 7
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "public"
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{"json"}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Server.GenerateTimeout == 0 {
		cfg.Server.GenerateTimeout = 30 * time.Second
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.Days == 0 {
		cfg.Schedule.Days = cfg.DataSource.DefaultDays
	}
	for i, t := range cfg.Schedule.Tickers {
		cfg.Schedule.Tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
