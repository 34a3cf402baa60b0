package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverSQLite = "sqlite"
)

const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvPort           = "STOREFRONT_APP_PORT"
	EnvAPIBaseURL     = "STOREFRONT_API_BASE_URL"
	EnvStorageDriver  = "STOREFRONT_STORAGE_DRIVER"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRedisAddr      = "STOREFRONT_REDIS_ADDR"
	EnvSQLitePath     = "STOREFRONT_SQLITE_PATH"
	EnvCartThreshold  = "STOREFRONT_CART_FREE_SHIPPING_THRESHOLD"
	EnvCartFee        = "STOREFRONT_CART_SHIPPING_FEE"
	EnvSearchDebounce = "STOREFRONT_CATALOG_SEARCH_DEBOUNCE"
)
