// ABOUTME: Application configuration loaded from file, environment and .env
// ABOUTME: Resolves timezone, database path, default strategy, HTTP and holiday settings
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harperreed/speedrun/calendar"
	"github.com/harperreed/speedrun/models"
)

// AppName names the XDG directories and the charm KV database.
const AppName = "speedrun"

// EnvPrefix is prepended to every environment override, e.g. SPEEDRUN_TIMEZONE.
const EnvPrefix = "SPEEDRUN"

// Defaults.
const (
	DefaultTimezone   = "America/New_York"
	DefaultQueueLimit = 50
	DefaultHTTPAddr   = ":8080"
	DefaultCharmHost  = "charm.2389.dev"
)

// Config is the top-level speedrun configuration.
type Config struct {
	Timezone string          `mapstructure:"timezone"`
	DBPath   string          `mapstructure:"db_path"`
	UserID   string          `mapstructure:"user_id"`
	Strategy models.Strategy `mapstructure:"strategy"`
	Queue    Queue           `mapstructure:"queue"`
	HTTP     HTTP            `mapstructure:"http"`
	Holidays Holidays        `mapstructure:"holidays"`
	Charm    Charm           `mapstructure:"charm"`
}

// Queue holds speedrun queue settings.
type Queue struct {
	Limit int `mapstructure:"limit"`
}

// HTTP holds API server settings.
type HTTP struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Holidays lists company days off on top of the federal calendar, as ISO dates.
type Holidays struct {
	Extra []string `mapstructure:"extra"`
}

// Charm holds profile sync settings.
type Charm struct {
	Host string `mapstructure:"host"`
}

// DefaultDBPath is the database location under XDG data home.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, AppName+".db")
}

// ConfigDir is where config.yaml is looked up.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Load reads configuration from cfgFile (or the default location), the
// environment and a .env file in the working directory. A missing config file
// is not an error.
func Load(cfgFile string) (*Config, error) {
	// .env carries GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET for holiday sync.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("user_id", "default")
	v.SetDefault("strategy", string(models.StrategyBalanced))
	v.SetDefault("queue.limit", DefaultQueueLimit)
	v.SetDefault("http.addr", DefaultHTTPAddr)
	v.SetDefault("http.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("holidays.extra", []string{})
	v.SetDefault("charm.host", DefaultCharmHost)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Queue.Limit < 0 {
		cfg.Queue.Limit = 0
	}
	if _, err := models.PresetProfile(cfg.Strategy); err != nil {
		return nil, fmt.Errorf("invalid strategy in config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExtraHolidays converts the configured extra dates into calendar holidays.
func (c *Config) ExtraHolidays() []calendar.Holiday {
	out := make([]calendar.Holiday, 0, len(c.Holidays.Extra))
	for _, d := range c.Holidays.Extra {
		d = strings.TrimSpace(d)
		if _, err := time.Parse(calendar.DateLayout, d); err != nil {
			continue
		}
		out = append(out, calendar.Holiday{Date: d, Name: "Company holiday"})
	}
	return out
}
