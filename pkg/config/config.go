package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/lanort/pedidos/pkg/enums"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Catalog CatalogConfig
	Orders  OrdersConfig
	Storage StorageConfig
	Redis   RedisConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LANORT_APP_ENV" default:"dev"`
	Port         string `envconfig:"LANORT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LANORT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LANORT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"LANORT_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"LANORT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points at the spreadsheet-backed backend.
type APIConfig struct {
	URL          string        `envconfig:"LANORT_API_URL" required:"true"`
	Timeout      time.Duration `envconfig:"LANORT_API_TIMEOUT" default:"30s"`
	ProbeTimeout time.Duration `envconfig:"LANORT_API_PROBE_TIMEOUT" default:"5s"`
}

// CatalogConfig tunes reference loading and search. PageSize is descriptive only.
type CatalogConfig struct {
	PageSize        int           `envconfig:"LANORT_CATALOG_PAGE_SIZE" default:"10000"`
	Debounce        time.Duration `envconfig:"LANORT_CATALOG_DEBOUNCE" default:"300ms"`
	SynthesizeStock bool          `envconfig:"LANORT_CATALOG_SYNTHESIZE_STOCK" default:"true"`
	FallbackSample  bool          `envconfig:"LANORT_CATALOG_FALLBACK_SAMPLE" default:"false"`
}

type OrdersConfig struct {
	Strategy         string        `envconfig:"LANORT_ORDERS_STRATEGY" default:"aggregated"`
	ItemDelay        time.Duration `envconfig:"LANORT_ORDERS_ITEM_DELAY" default:"200ms"`
	VersionThreshold float64       `envconfig:"LANORT_ORDERS_VERSION_THRESHOLD" default:"2"`
	Numbering        string        `envconfig:"LANORT_ORDERS_NUMBERING" default:"client"`
	BatchMode        bool          `envconfig:"LANORT_ORDERS_BATCH_MODE" default:"false"`
}

// StrategyKind returns the parsed submission strategy.
func (o OrdersConfig) StrategyKind() enums.StrategyKind {
	kind, err := enums.ParseStrategyKind(strings.ToLower(strings.TrimSpace(o.Strategy)))
	if err != nil {
		return enums.StrategyAggregated
	}
	return kind
}

// ServerNumbering reports whether order numbers are assigned by the backend.
func (o OrdersConfig) ServerNumbering() bool {
	return strings.EqualFold(strings.TrimSpace(o.Numbering), NumberingServer)
}

// StorageConfig selects the key-value backend that replaces browser local storage.
type StorageConfig struct {
	Driver          string        `envconfig:"LANORT_STORAGE_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"LANORT_STORAGE_DSN" default:"lanort.db"`
	Namespace       string        `envconfig:"LANORT_STORAGE_NAMESPACE" default:"lanort"`
	MaxOpenConns    int           `envconfig:"LANORT_STORAGE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"LANORT_STORAGE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"LANORT_STORAGE_CONN_MAX_LIFETIME" default:"1h"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LANORT_REDIS_URL"`
	Address      string        `envconfig:"LANORT_REDIS_ADDR"`
	Password     string        `envconfig:"LANORT_REDIS_PASSWORD"`
	DB           int           `envconfig:"LANORT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LANORT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LANORT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LANORT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LANORT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LANORT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"LANORT_METRICS_ENABLED" default:"true"`
}

func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(strings.TrimSpace(c.API.URL)); err != nil {
		return fmt.Errorf("%s must be an absolute url: %w", EnvAPIURL, err)
	}
	if _, err := enums.ParseStrategyKind(strings.ToLower(strings.TrimSpace(c.Orders.Strategy))); err != nil {
		return fmt.Errorf("%s: %w", EnvOrdersStrategy, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Orders.Numbering)) {
	case NumberingClient, NumberingServer:
	default:
		return fmt.Errorf("%s must be %q or %q", EnvOrdersNumbering, NumberingClient, NumberingServer)
	}
	driver, err := enums.ParseStorageDriver(strings.ToLower(strings.TrimSpace(c.Storage.Driver)))
	if err != nil {
		return fmt.Errorf("%s: %w", EnvStorageDriver, err)
	}
	if driver == enums.StorageDriverRedis && c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("either %s or %s is required for the redis driver", EnvRedisURL, EnvRedisAddr)
	}
	if (driver == enums.StorageDriverSQLite || driver == enums.StorageDriverPostgres) && strings.TrimSpace(c.Storage.DSN) == "" {
		return fmt.Errorf("%s is required for the %s driver", EnvStorageDSN, driver)
	}
	if c.Orders.ItemDelay < 0 {
		return fmt.Errorf("%s cannot be negative", EnvOrdersItemDelay)
	}
	return nil
}
