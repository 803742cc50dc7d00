package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/SheenyxX/Trading-Project/internal/calculate"
)

// Config holds all application configuration.
type Config struct {
	Symbol       string `yaml:"symbol"`
	LookbackDays int    `yaml:"lookback_days"`

	MACD struct {
		Fast   int `yaml:"fast"`
		Slow   int `yaml:"slow"`
		Signal int `yaml:"signal"`
	} `yaml:"macd"`
	PercentileWindow int `yaml:"percentile_window"`
	ATRWindow        int `yaml:"atr_window"`
	MinHistory       int `yaml:"min_history"`

	DataSource struct {
		BaseURL        string `yaml:"base_url"`
		RequestTimeout int    `yaml:"request_timeout"` // seconds
		RequestsPerSec int    `yaml:"requests_per_sec"`
	} `yaml:"data_source"`

	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	Database struct {
		SQLitePath  string `yaml:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn"`
	} `yaml:"database"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`

	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides (a .env file is honored if present) and fills in defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}

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

	// Environment variable overrides
	cfg.Symbol = getEnvWithDefault("SYMBOL", cfg.Symbol)
	cfg.LookbackDays = getEnvIntWithDefault("LOOKBACK_DAYS", cfg.LookbackDays)
	cfg.MACD.Fast = getEnvIntWithDefault("MACD_FAST_PERIOD", cfg.MACD.Fast)
	cfg.MACD.Slow = getEnvIntWithDefault("MACD_SLOW_PERIOD", cfg.MACD.Slow)
	cfg.MACD.Signal = getEnvIntWithDefault("MACD_SIGNAL_PERIOD", cfg.MACD.Signal)
	cfg.PercentileWindow = getEnvIntWithDefault("PERCENTILE_WINDOW", cfg.PercentileWindow)
	cfg.ATRWindow = getEnvIntWithDefault("ATR_WINDOW", cfg.ATRWindow)
	cfg.MinHistory = getEnvIntWithDefault("MIN_HISTORY", cfg.MinHistory)
	cfg.DataSource.BaseURL = getEnvWithDefault("BINANCE_BASE_URL", cfg.DataSource.BaseURL)
	cfg.Output.Dir = getEnvWithDefault("OUTPUT_DIR", cfg.Output.Dir)
	cfg.Database.SQLitePath = getEnvWithDefault("SQLITE_PATH", cfg.Database.SQLitePath)
	cfg.Database.PostgresDSN = getEnvWithDefault("POSTGRES_DSN", cfg.Database.PostgresDSN)
	cfg.Telegram.BotToken = getEnvWithDefault("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)
	cfg.Schedule.DailyCron = getEnvWithDefault("CRON_DAILY", cfg.Schedule.DailyCron)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)

	// Defaults
	if cfg.Symbol == "" {
		cfg.Symbol = "BTCUSDT"
	}
	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = 365
	}
	if cfg.MACD.Fast == 0 {
		cfg.MACD.Fast = 12
	}
	if cfg.MACD.Slow == 0 {
		cfg.MACD.Slow = 26
	}
	if cfg.MACD.Signal == 0 {
		cfg.MACD.Signal = 9
	}
	if cfg.PercentileWindow == 0 {
		cfg.PercentileWindow = 30
	}
	if cfg.ATRWindow == 0 {
		cfg.ATRWindow = 14
	}
	if cfg.MinHistory == 0 {
		cfg.MinHistory = 30
	}
	if cfg.DataSource.RequestTimeout == 0 {
		cfg.DataSource.RequestTimeout = 30
	}
	if cfg.DataSource.RequestsPerSec == 0 {
		cfg.DataSource.RequestsPerSec = 5
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "data"
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 5 0 * * *" // shortly after the daily close
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.LookbackDays < c.PercentileWindow {
		return fmt.Errorf("lookback_days %d is shorter than percentile_window %d",
			c.LookbackDays, c.PercentileWindow)
	}
	if c.MinHistory < 0 {
		return fmt.Errorf("min_history must not be negative")
	}
	return c.Params().Validate()
}

// Params maps the configuration onto the indicator engine parameters.
func (c *Config) Params() calculate.Params {
	return calculate.Params{
		FastPeriod:       c.MACD.Fast,
		SlowPeriod:       c.MACD.Slow,
		SignalPeriod:     c.MACD.Signal,
		PercentileWindow: c.PercentileWindow,
		ATRWindow:        c.ATRWindow,
	}
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
