package config

import (
	"fmt"
	"strings"

	"github.com/MarcoPoloResearchLab/gripmetrics/internal/ids"
	"github.com/spf13/viper"
)

const (
	envPrefix              = "GRIPMETRICS"
	defaultHTTPAddress     = "127.0.0.1:8080"
	defaultDatabasePath    = "gripmetrics.db"
	defaultLogLevel        = "info"
	defaultExportDirectory = "."
	defaultIDStrategy      = ids.StrategyBase36
	defaultSliderMin       = 0.0
	defaultSliderMax       = 10.0
)

// AppConfig captures runtime configuration for the server and the CLI.
type AppConfig struct {
	HTTPAddress     string
	DatabasePath    string
	LogLevel        string
	ExportDirectory string
	IDStrategy      string
	SliderMin       float64
	SliderMax       float64
	AllowedOrigins  []string
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("export.directory", defaultExportDirectory)
	configViper.SetDefault("ids.strategy", defaultIDStrategy)
	configViper.SetDefault("limits.slider_min", defaultSliderMin)
	configViper.SetDefault("limits.slider_max", defaultSliderMax)
	configViper.SetDefault("cors.allowed_origins", []string{"*"})
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:     configViper.GetString("http.address"),
		DatabasePath:    configViper.GetString("database.path"),
		LogLevel:        configViper.GetString("log.level"),
		ExportDirectory: configViper.GetString("export.directory"),
		IDStrategy:      strings.ToLower(strings.TrimSpace(configViper.GetString("ids.strategy"))),
		SliderMin:       configViper.GetFloat64("limits.slider_min"),
		SliderMax:       configViper.GetFloat64("limits.slider_max"),
		AllowedOrigins:  splitOrigins(configViper.GetStringSlice("cors.allowed_origins")),
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// splitOrigins accepts both list values and a single comma-separated env value.
func splitOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, origin := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}
	return origins
}

func (c AppConfig) validate() error {
	if strings.TrimSpace(c.HTTPAddress) == "" {
		return fmt.Errorf("http.address is required")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.IDStrategy {
	case ids.StrategyBase36, ids.StrategyUUID:
	default:
		return fmt.Errorf("ids.strategy %q is not one of %s, %s", c.IDStrategy, ids.StrategyBase36, ids.StrategyUUID)
	}
	if c.SliderMin >= c.SliderMax {
		return fmt.Errorf("limits.slider_min (%g) must be below limits.slider_max (%g)", c.SliderMin, c.SliderMax)
	}
	return nil
}
