package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Schedule ScheduleConfig `yaml:"schedule" mapstructure:"schedule"`
	Funnel   FunnelConfig   `yaml:"funnel" mapstructure:"funnel"`
	Import   ImportConfig   `yaml:"import" mapstructure:"import"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// ScheduleConfig configures plan generation.
type ScheduleConfig struct {
	BufferPct float64 `yaml:"buffer_pct" mapstructure:"buffer_pct"`
}

// FunnelConfig configures candidate aggregation and wait-time analysis.
type FunnelConfig struct {
	Cumulative       bool    `yaml:"cumulative" mapstructure:"cumulative"`
	CriticalWaitDays float64 `yaml:"critical_wait_days" mapstructure:"critical_wait_days"`
}

// ImportConfig configures bulk candidate import.
type ImportConfig struct {
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"`
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	SkipRows  int    `yaml:"skip_rows" mapstructure:"skip_rows"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ALIGNOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "alignops.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("schedule.buffer_pct", 0)
	v.SetDefault("funnel.cumulative", true)
	v.SetDefault("funnel.critical_wait_days", 10)
	v.SetDefault("import.batch_size", 500)
	v.SetDefault("import.skip_rows", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the configuration needed for a given run mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}
	if c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}
	if c.Schedule.BufferPct < 0 || c.Schedule.BufferPct > 100 {
		problems = append(problems, "schedule.buffer_pct must be between 0 and 100")
	}

	switch mode {
	case "cli":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.RatePerSecond <= 0 {
			problems = append(problems, "server.rate_per_second must be > 0")
		}
	case "import":
		if c.Import.BatchSize < 1 || c.Import.BatchSize > 10000 {
			problems = append(problems, "import.batch_size must be between 1 and 10000")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
