package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ERPDASH"

// Config groups the application settings.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Log     LogConfig     `mapstructure:"log"`
	Charts  ChartConfig   `mapstructure:"charts"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig holds general settings.
type AppConfig struct {
	Env      string `mapstructure:"env" validate:"oneof=development staging production test"`
	Name     string `mapstructure:"name" validate:"required"`
	Currency string `mapstructure:"currency" validate:"len=3"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"min=1,max=65535"`
	BasePath string `mapstructure:"base_path" validate:"startswith=/"`
}

// Addr returns host:port.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
}

// ChartConfig configures server-rendered charts.
type ChartConfig struct {
	CacheTTL   time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	Theme      string        `mapstructure:"theme"`
	AssetsHost string        `mapstructure:"assets_host" validate:"omitempty,url"`
}

// SeedConfig points at data files replacing the embedded ones.
type SeedConfig struct {
	File     string `mapstructure:"file"`
	Manifest string `mapstructure:"manifest"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"startswith=/"`
}

var defaults = map[string]any{
	"app.env":            "development",
	"app.name":           "erp-dashboard",
	"app.currency":       "USD",
	"http.host":          "0.0.0.0",
	"http.port":          8080,
	"http.base_path":     "/erp",
	"log.level":          "info",
	"charts.cache_ttl":   5 * time.Minute,
	"charts.theme":       "westeros",
	"charts.assets_host": "https://go-echarts.github.io/go-echarts-assets/assets/",
	"seed.file":          "",
	"seed.manifest":      "",
	"metrics.enabled":    true,
	"metrics.path":       "/metrics",
}

// Load reads configuration from defaults, an optional file, and ERPDASH_*
// environment variables, in increasing priority. An empty path looks for
// config.yaml in the working directory and ./config, ignoring its absence.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.App.Currency = strings.ToUpper(cfg.App.Currency)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}

// Development reports whether the app runs in development mode.
func (c *Config) Development() bool {
	return c.App.Env == "development"
}
