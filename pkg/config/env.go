package config

const (
	EnvPrefix = "LANORT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	NumberingClient = "client"
	NumberingServer = "server"

	EnvAppEnv             = "LANORT_APP_ENV"
	EnvPort               = "LANORT_APP_PORT"
	EnvCORSOrigins        = "LANORT_CORS_ORIGINS"
	EnvAPIURL             = "LANORT_API_URL"
	EnvAPITimeout         = "LANORT_API_TIMEOUT"
	EnvCatalogDebounce    = "LANORT_CATALOG_DEBOUNCE"
	EnvCatalogSynthesize  = "LANORT_CATALOG_SYNTHESIZE_STOCK"
	EnvOrdersStrategy     = "LANORT_ORDERS_STRATEGY"
	EnvOrdersItemDelay    = "LANORT_ORDERS_ITEM_DELAY"
	EnvOrdersNumbering    = "LANORT_ORDERS_NUMBERING"
	EnvOrdersVersionFloor = "LANORT_ORDERS_VERSION_THRESHOLD"
	EnvStorageDriver      = "LANORT_STORAGE_DRIVER"
	EnvStorageDSN         = "LANORT_STORAGE_DSN"
	EnvRedisURL           = "LANORT_REDIS_URL"
	EnvRedisAddr          = "LANORT_REDIS_ADDR"
)
