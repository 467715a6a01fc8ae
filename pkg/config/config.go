package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "storeops"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App         AppConfig
	EntityStore EntityStoreConfig
	Identity    IdentityConfig
	Redis       RedisConfig
	Revenue     RevenueConfig
	Cron        CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Revenue.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREOPS_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREOPS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREOPS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREOPS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// EntityStoreConfig points at the remote entity-storage service that owns
// the Store, OrderItem and DailyStoreRevenue collections.
type EntityStoreConfig struct {
	BaseURL string        `envconfig:"STOREOPS_ENTITY_STORE_URL" required:"true"`
	APIKey  string        `envconfig:"STOREOPS_ENTITY_STORE_API_KEY"`
	Timeout time.Duration `envconfig:"STOREOPS_ENTITY_STORE_TIMEOUT" default:"30s"`
}

type IdentityConfig struct {
	BaseURL string        `envconfig:"STOREOPS_IDENTITY_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREOPS_IDENTITY_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREOPS_REDIS_URL"`
	Address      string        `envconfig:"STOREOPS_REDIS_ADDR"`
	Password     string        `envconfig:"STOREOPS_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREOPS_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"STOREOPS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREOPS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREOPS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RevenueConfig tunes the daily store-revenue aggregation job.
//
// ChannelStores maps POS channel codes to the display name of the store
// the channel's terminals belong to. The default mirrors the production
// terminal layout; tests inject synthetic tables.
type RevenueConfig struct {
	FetchLimit    int               `envconfig:"STOREOPS_REVENUE_FETCH_LIMIT" default:"10000"`
	Timezone      string            `envconfig:"STOREOPS_REVENUE_TIMEZONE" default:"Local"`
	ChannelStores map[string]string `envconfig:"STOREOPS_REVENUE_CHANNEL_STORES" default:"lct_21684:Ticinese,lct_21350:Lanino"`
}

func (r RevenueConfig) validate() error {
	if r.FetchLimit <= 0 {
		return fmt.Errorf("STOREOPS_REVENUE_FETCH_LIMIT must be positive, got %d", r.FetchLimit)
	}
	if _, err := r.Location(); err != nil {
		return fmt.Errorf("STOREOPS_REVENUE_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves the configured timezone. Both the default-date logic
// and the day-window filter use this single reference.
func (r RevenueConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

type CronConfig struct {
	Interval time.Duration `envconfig:"STOREOPS_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"STOREOPS_CRON_LOCK_TTL" default:"25h"`
}
