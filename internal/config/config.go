package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/openclaw/reward-poller/internal/util"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error"}
	validDisplayModes = []string{DisplayModeAuto, DisplayModeTTY, DisplayModePlain}
)

const (
	DisplayModeAuto  = "auto"
	DisplayModeTTY   = "tty"
	DisplayModePlain = "plain"
)

type Config struct {
	Port                  int    `env:"PORT" envDefault:"8080"`
	HTTPEnabled           bool   `env:"HTTP_ENABLED" envDefault:"true"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
	AccountsPath          string `env:"ACCOUNTS_PATH" envDefault:"./accounts.json"`
	RewardBaseURL         string `env:"REWARD_BASE_URL" envDefault:"https://testnet.humanity.org/api/rewards/daily"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	RenderIntervalSeconds int    `env:"RENDER_INTERVAL_SECONDS" envDefault:"5"`
	DisplayMode           string `env:"DISPLAY_MODE" envDefault:"auto"`
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) RenderInterval() time.Duration {
	return time.Duration(c.RenderIntervalSeconds) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) Validate() error {
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.RenderIntervalSeconds <= 0 {
		return fmt.Errorf("RENDER_INTERVAL_SECONDS must be positive")
	}
	if !strings.HasPrefix(c.RewardBaseURL, "http://") && !strings.HasPrefix(c.RewardBaseURL, "https://") {
		return fmt.Errorf("REWARD_BASE_URL must be an http(s) URL")
	}
	if !util.IsValidEnum(c.LogLevel, validLogLevels) {
		return fmt.Errorf("LOG_LEVEL must be one of %s", strings.Join(validLogLevels, ", "))
	}
	if !util.IsValidEnum(c.DisplayMode, validDisplayModes) {
		return fmt.Errorf("DISPLAY_MODE must be one of %s", strings.Join(validDisplayModes, ", "))
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.RewardBaseURL = strings.TrimRight(cfg.RewardBaseURL, "/")
	return &cfg, nil
}
