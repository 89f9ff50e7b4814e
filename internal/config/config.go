package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	MarketData struct {
		BaseURL    string `yaml:"base_url"`
		VsCurrency string `yaml:"vs_currency"`
		PerPage    int    `yaml:"per_page"`
	} `yaml:"market_data"`
	Google struct {
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetName string `yaml:"spreadsheet_name"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		DocumentID      string `yaml:"document_id"`
	} `yaml:"google"`
	Schedule struct {
		SheetRefresh  string        `yaml:"sheet_refresh"`
		ReportRefresh string        `yaml:"report_refresh"`
		Tick          time.Duration `yaml:"tick"`
		RunOnStart    bool          `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults and the environment still apply.
func Load(path string) (*Config, error) {
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
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		cfg.MarketData.BaseURL = v
	}
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		cfg.Google.CredentialsFile = v
	}
	if v := os.Getenv("SPREADSHEET_NAME"); v != "" {
		cfg.Google.SpreadsheetName = v
	}
	if v := os.Getenv("SPREADSHEET_ID"); v != "" {
		cfg.Google.SpreadsheetID = v
	}
	if v := os.Getenv("DOCUMENT_ID"); v != "" {
		cfg.Google.DocumentID = v
	}
	if v := os.Getenv("SHEET_REFRESH"); v != "" {
		cfg.Schedule.SheetRefresh = v
	}
	if v := os.Getenv("REPORT_REFRESH"); v != "" {
		cfg.Schedule.ReportRefresh = v
	}
	if os.Getenv("RUN_ON_START") == "true" {
		cfg.Schedule.RunOnStart = true
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.MarketData.BaseURL == "" {
		cfg.MarketData.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.MarketData.VsCurrency == "" {
		cfg.MarketData.VsCurrency = "usd"
	}
	if cfg.MarketData.PerPage == 0 {
		cfg.MarketData.PerPage = 50
	}
	if cfg.Google.CredentialsFile == "" {
		cfg.Google.CredentialsFile = "credentials.json"
	}
	if cfg.Google.SpreadsheetName == "" {
		cfg.Google.SpreadsheetName = "Crypto Live Data"
	}
	if cfg.Schedule.SheetRefresh == "" {
		cfg.Schedule.SheetRefresh = "@every 5m"
	}
	if cfg.Schedule.ReportRefresh == "" {
		cfg.Schedule.ReportRefresh = "@every 24h"
	}
	if cfg.Schedule.Tick == 0 {
		cfg.Schedule.Tick = time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Google.DocumentID == "" {
		return fmt.Errorf("google.document_id is required")
	}
	if c.Google.SpreadsheetID == "" && c.Google.SpreadsheetName == "" {
		return fmt.Errorf("google.spreadsheet_name or google.spreadsheet_id is required")
	}
	if c.MarketData.PerPage < 1 || c.MarketData.PerPage > 250 {
		return fmt.Errorf("market_data.per_page must be between 1 and 250")
	}
	if c.Schedule.Tick <= 0 {
		return fmt.Errorf("schedule.tick must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether failure alerts and commands are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
