// Package config loads runtime settings from GAMEMODE_* environment
// variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"gamemode/internal/gaming"
	"gamemode/internal/gaming/profiles"
	"gamemode/internal/logging"
	"gamemode/internal/tweaks"
)

// Prefix is prepended to every variable name.
const Prefix = "gamemode"

// Config holds all application configuration.
type Config struct {
	Session  SessionConfig
	Hardware HardwareConfig
	Monitor  MonitorConfig
	Logging  LogConfig
}

// SessionConfig holds the default session options. A non-empty Preset
// replaces them with the named profile.
type SessionConfig struct {
	Preset           string `envconfig:"PRESET"`
	SuspendShell     bool   `envconfig:"SUSPEND_SHELL" default:"true"`
	SuspendBrowsers  bool   `envconfig:"SUSPEND_BROWSERS" default:"false"`
	SuspendLaunchers bool   `envconfig:"SUSPEND_LAUNCHERS" default:"false"`
	IsolateNetwork   bool   `envconfig:"ISOLATE_NETWORK" default:"false"`
	AdvancedTweaks   bool   `envconfig:"ADVANCED_TWEAKS" default:"false"`
}

// HardwareConfig selects the hardware tunables.
type HardwareConfig struct {
	CoreParking     bool `envconfig:"CORE_PARKING" default:"true"`
	MMCSS           bool `envconfig:"MMCSS" default:"true"`
	LargePages      bool `envconfig:"LARGE_PAGES" default:"false"`
	HAGS            bool `envconfig:"HAGS" default:"false"`
	ProcessDemotion bool `envconfig:"PROCESS_DEMOTION" default:"false"`
	Bufferbloat     bool `envconfig:"BUFFERBLOAT" default:"false"`
}

// MonitorConfig controls the session monitor.
type MonitorConfig struct {
	AutoDisable bool `envconfig:"AUTO_DISABLE" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LEVEL" default:"info"`
	Development bool   `envconfig:"DEV" default:"false"`
	Output      string `envconfig:"OUTPUT" default:"stderr"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Session.Preset != "" && profiles.GetProfileByID(cfg.Session.Preset) == nil {
		return nil, fmt.Errorf("unknown preset %q", cfg.Session.Preset)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			SuspendShell: true,
		},
		Hardware: HardwareConfig{
			CoreParking: true,
			MMCSS:       true,
		},
		Monitor: MonitorConfig{
			AutoDisable: true,
		},
		Logging: LogConfig{
			Level:  "info",
			Output: "stderr",
		},
	}
}

// Options returns the session options the configuration describes.
func (c *Config) Options() gaming.Options {
	if p := profiles.GetProfileByID(c.Session.Preset); p != nil {
		return p.Options
	}
	return gaming.Options{
		SuspendTargetShell: c.Session.SuspendShell,
		SuspendBrowsers:    c.Session.SuspendBrowsers,
		SuspendLaunchers:   c.Session.SuspendLaunchers,
		IsolateNetwork:     c.Session.IsolateNetwork,
		AdvancedTweaks:     c.Session.AdvancedTweaks,
		Hardware: tweaks.Flags{
			CoreParking:     c.Hardware.CoreParking,
			MMCSS:           c.Hardware.MMCSS,
			LargePages:      c.Hardware.LargePages,
			HAGS:            c.Hardware.HAGS,
			ProcessDemotion: c.Hardware.ProcessDemotion,
			Bufferbloat:     c.Hardware.Bufferbloat,
		},
	}
}

// LoggerConfig converts the logging section for logging.New.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Development: c.Logging.Development,
		OutputPaths: []string{c.Logging.Output},
	}
}
