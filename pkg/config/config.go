package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "NECTARBOOKS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names, exported so tests and docs stay in sync.
const (
	EnvAppEnv      = "NECTARBOOKS_APP_ENV"
	EnvLogLevel    = "NECTARBOOKS_LOG_LEVEL"
	EnvDBPath      = "NECTARBOOKS_DB_PATH"
	EnvAutoMigrate = "NECTARBOOKS_AUTO_MIGRATE"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return nil, fmt.Errorf("%s must not be empty", EnvDBPath)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NECTARBOOKS_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"NECTARBOOKS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NECTARBOOKS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Path          string `envconfig:"NECTARBOOKS_DB_PATH" default:"nectarbooks.db"`
	BusyTimeoutMS int    `envconfig:"NECTARBOOKS_DB_BUSY_TIMEOUT_MS" default:"5000"`
}

// DSN renders the sqlite connection string, including the busy timeout pragma.
func (d DBConfig) DSN() string {
	q := url.Values{}
	if d.BusyTimeoutMS > 0 {
		q.Set("_busy_timeout", fmt.Sprintf("%d", d.BusyTimeoutMS))
	}
	if len(q) == 0 {
		return d.Path
	}
	return fmt.Sprintf("file:%s?%s", d.Path, q.Encode())
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NECTARBOOKS_AUTO_MIGRATE" default:"true"`
}
