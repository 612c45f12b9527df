package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "tillpos"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	Sale    SaleConfig
	Catalog CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.Sale.TaxRate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TILLPOS_APP_ENV" default:"dev"`
	Port         string `envconfig:"TILLPOS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TILLPOS_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"TILLPOS_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"TILLPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SaleConfig carries the sale arithmetic settings. The tax rate is injected
// into the register at startup rather than read from a package global, so
// tests can run the pipeline under varying rates.
type SaleConfig struct {
	TaxRatePercent string `envconfig:"TILLPOS_TAX_RATE_PERCENT" default:"8.5"`
}

// TaxRate parses the configured flat tax percentage. Values outside [0,100]
// are rejected at startup.
func (s SaleConfig) TaxRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(s.TaxRatePercent))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing tax rate %q: %w", s.TaxRatePercent, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("tax rate %s out of range [0,100]", rate)
	}
	return rate, nil
}

type CatalogConfig struct {
	SeedDemo bool `envconfig:"TILLPOS_CATALOG_SEED_DEMO" default:"true"`
}
