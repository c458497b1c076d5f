package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingProviderAPIKey  = errors.New("missing_provider_api_key")
	ErrMissingProductMapping  = errors.New("missing_product_mapping")
	ErrMissingDatabaseDSN     = errors.New("missing_database_dsn")
	ErrInvalidProviderTimeout = errors.New("invalid_provider_timeout")
)

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProviderConfig holds credentials and catalog mappings for the external
// billing provider. MonthlyProductID and YearlyProductID key the billing-period
// transition table; VariantProducts maps each sellable variant to its product
// so a requested variant can be resolved to a family. The name maps are
// display data for the subscription view.
type ProviderConfig struct {
	APIKey           string           `mapstructure:"api_key"`
	BaseURL          string           `mapstructure:"base_url"`
	Timeout          time.Duration    `mapstructure:"timeout"`
	MonthlyProductID int64            `mapstructure:"monthly_product_id"`
	YearlyProductID  int64            `mapstructure:"yearly_product_id"`
	CheckoutBaseURL  string           `mapstructure:"checkout_base_url"`
	VariantProducts  map[int64]int64  `mapstructure:"variant_products"`
	ProductNames     map[int64]string `mapstructure:"product_names"`
	VariantNames     map[int64]string `mapstructure:"variant_names"`
}

type BillingConfig struct {
	FreeTierSeats      int   `mapstructure:"free_tier_seats"`
	GraduatedThreshold int   `mapstructure:"graduated_threshold"`
	SeatPriceYearCents int64 `mapstructure:"seat_price_year_cents"`
}

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Provider ProviderConfig `mapstructure:"provider"`
	Billing  BillingConfig  `mapstructure:"billing"`
}

func Load() (Config, error) {
	// Local dev convenience; missing file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("BREEZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Catalog maps (variant/product ids and names) come from an optional
	// config file; everything scalar can be overridden by environment.
	v.SetConfigName("breeze")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/breeze")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
	}

	v.SetDefault("env", "development")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("provider.base_url", "https://api.lemonsqueezy.com/v1")
	v.SetDefault("provider.timeout", 15*time.Second)
	v.SetDefault("billing.free_tier_seats", 3)
	v.SetDefault("billing.graduated_threshold", 4)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate enforces the settings the billing engine cannot run without.
// Called from the serve path, not from Load, so tooling like migrate can run
// with a partial environment.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return ErrMissingDatabaseDSN
	}
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return ErrMissingProviderAPIKey
	}
	if c.Provider.MonthlyProductID <= 0 || c.Provider.YearlyProductID <= 0 {
		return ErrMissingProductMapping
	}
	if c.Provider.Timeout <= 0 {
		return ErrInvalidProviderTimeout
	}
	return nil
}
