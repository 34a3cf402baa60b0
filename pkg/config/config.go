package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	API           APIConfig
	Storage       StorageConfig
	Redis         RedisConfig
	SQLite        SQLiteConfig
	Cart          CartConfig
	Catalog       CatalogConfig
	Workspace     WorkspaceConfig
	Notifications NotificationsConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points at the remote marketplace API.
type APIConfig struct {
	BaseURL   string        `envconfig:"STOREFRONT_API_BASE_URL" default:"http://localhost:5078/api"`
	AssetURL  string        `envconfig:"STOREFRONT_API_ASSET_URL" default:"http://localhost:5078"`
	Timeout   time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"15s"`
	UserAgent string        `envconfig:"STOREFRONT_API_USER_AGENT" default:"storefront-bff/1"`
}

func (a APIConfig) validate() error {
	parsed, err := url.Parse(strings.TrimSpace(a.BaseURL))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", EnvAPIBaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) url", EnvAPIBaseURL)
	}
	return nil
}

type StorageConfig struct {
	Driver      string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"memory"`
	KeyPrefix   string `envconfig:"STOREFRONT_STORAGE_KEY_PREFIX" default:"NHC_MP_"`
	LanguageKey string `envconfig:"STOREFRONT_STORAGE_LANGUAGE_KEY" default:"lang"`
}

func (s StorageConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverMemory, StorageDriverSQLite:
		return nil
	case StorageDriverRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("%s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
		return nil
	}
	return fmt.Errorf("unsupported %s %q", EnvStorageDriver, s.Driver)
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	StateTTL     time.Duration `envconfig:"STOREFRONT_REDIS_STATE_TTL" default:"720h"`
}

type SQLiteConfig struct {
	Path string `envconfig:"STOREFRONT_SQLITE_PATH" default:"storefront.db"`
}

// CartConfig carries the display-side shipping policy.
type CartConfig struct {
	FreeShippingThreshold string `envconfig:"STOREFRONT_CART_FREE_SHIPPING_THRESHOLD" default:"200"`
	ShippingFee           string `envconfig:"STOREFRONT_CART_SHIPPING_FEE" default:"25"`
}

// Threshold parses the free shipping threshold, falling back to 200.
func (c CartConfig) Threshold() decimal.Decimal {
	return parseAmount(c.FreeShippingThreshold, decimal.NewFromInt(200))
}

// Fee parses the flat shipping fee, falling back to 25.
func (c CartConfig) Fee() decimal.Decimal {
	return parseAmount(c.ShippingFee, decimal.NewFromInt(25))
}

type CatalogConfig struct {
	PageSize         int           `envconfig:"STOREFRONT_CATALOG_PAGE_SIZE" default:"9"`
	SearchDebounce   time.Duration `envconfig:"STOREFRONT_CATALOG_SEARCH_DEBOUNCE" default:"350ms"`
	CategoryCacheTTL time.Duration `envconfig:"STOREFRONT_CATEGORY_CACHE_TTL" default:"0s"`
}

type WorkspaceConfig struct {
	CookieName    string        `envconfig:"STOREFRONT_WORKSPACE_COOKIE" default:"sf_session"`
	CookieMaxAge  time.Duration `envconfig:"STOREFRONT_WORKSPACE_COOKIE_MAX_AGE" default:"720h"`
	IdleTTL       time.Duration `envconfig:"STOREFRONT_WORKSPACE_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_WORKSPACE_SWEEP_INTERVAL" default:"1m"`
}

type NotificationsConfig struct {
	TTL      time.Duration `envconfig:"STOREFRONT_TOAST_TTL" default:"3s"`
	Capacity int           `envconfig:"STOREFRONT_TOAST_CAPACITY" default:"20"`
}

// AuthRateLimitConfig throttles login and register. Counters live in redis, so
// limits only apply with the redis storage driver.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"STOREFRONT_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func parseAmount(raw string, fallback decimal.Decimal) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return fallback
	}
	return value
}
