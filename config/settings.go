package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSelenium = "selenium"
	BackendChromedp = "chromedp"

	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"

	envPrefix = "PROXYSCRAPE"
)

type TimeoutConfig struct {
	Implicit     time.Duration `mapstructure:"implicit"`
	Login        time.Duration `mapstructure:"login"`
	Navigation   time.Duration `mapstructure:"navigation"`
	Table        time.Duration `mapstructure:"table"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type LoggerConfig struct {
	Level       string `mapstructure:"level"`
	Format      string `mapstructure:"format"`
	File        string `mapstructure:"file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	ServiceName string `mapstructure:"service_name"`
}

type Settings struct {
	Backend    string        `mapstructure:"backend"`
	Browser    string        `mapstructure:"browser"`
	DriverPath string        `mapstructure:"driver_path"`
	Headless   bool          `mapstructure:"headless"`
	Timeouts   TimeoutConfig `mapstructure:"timeouts"`
	Log        LoggerConfig  `mapstructure:"log"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendSelenium)
	v.SetDefault("browser", BrowserChrome)
	v.SetDefault("driver_path", "")
	v.SetDefault("headless", false)

	v.SetDefault("timeouts.implicit", 10*time.Second)
	v.SetDefault("timeouts.login", 5*time.Second)
	v.SetDefault("timeouts.navigation", 10*time.Second)
	v.SetDefault("timeouts.table", 10*time.Second)
	v.SetDefault("timeouts.poll_interval", 500*time.Millisecond)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.service_name", "proxyscrape")
}

// NewViper returns a viper instance with defaults and PROXYSCRAPE_* environment
// overrides, e.g. PROXYSCRAPE_TIMEOUTS_LOGIN=8s.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func DefaultSettings() Settings {
	settings, err := Load(NewViper())
	if err != nil {
		panic(fmt.Errorf("default settings are invalid: %w", err))
	}
	return settings
}

func Load(v *viper.Viper) (Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	settings.Backend = strings.ToLower(strings.TrimSpace(settings.Backend))
	settings.Browser = strings.ToLower(strings.TrimSpace(settings.Browser))
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s Settings) Validate() error {
	switch s.Backend {
	case BackendSelenium, BackendChromedp:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", s.Backend, BackendSelenium, BackendChromedp)
	}
	switch s.Browser {
	case BrowserChrome, BrowserFirefox:
	default:
		return fmt.Errorf("unknown browser %q (want %s or %s)", s.Browser, BrowserChrome, BrowserFirefox)
	}
	if s.Backend == BackendChromedp && s.Browser != BrowserChrome {
		return fmt.Errorf("backend %s only drives %s", BackendChromedp, BrowserChrome)
	}

	timeouts := map[string]time.Duration{
		"implicit":      s.Timeouts.Implicit,
		"login":         s.Timeouts.Login,
		"navigation":    s.Timeouts.Navigation,
		"table":         s.Timeouts.Table,
		"poll_interval": s.Timeouts.PollInterval,
	}
	for name, timeout := range timeouts {
		if timeout <= 0 {
			return fmt.Errorf("timeouts.%s must be positive, got %v", name, timeout)
		}
	}
	return nil
}
