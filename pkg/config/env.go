package config

const EnvPrefix = "SKATEPARKS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv              = "SKATEPARKS_APP_ENV"
	EnvPort                = "SKATEPARKS_APP_PORT"
	EnvStorageDriver       = "SKATEPARKS_STORAGE_DRIVER"
	EnvDBDSN               = "SKATEPARKS_DB_DSN"
	EnvDBHost              = "SKATEPARKS_DB_HOST"
	EnvDBPort              = "SKATEPARKS_DB_PORT"
	EnvDBUser              = "SKATEPARKS_DB_USER"
	EnvDBPassword          = "SKATEPARKS_DB_PASSWORD"
	EnvDBName              = "SKATEPARKS_DB_NAME"
	EnvRedisURL            = "SKATEPARKS_REDIS_URL"
	EnvNearbyDefaultRadius = "SKATEPARKS_NEARBY_DEFAULT_RADIUS_KM"
	EnvNearbyMaxRadius     = "SKATEPARKS_NEARBY_MAX_RADIUS_KM"
	EnvGCPProjectID        = "SKATEPARKS_GCP_PROJECT_ID"
	EnvModerationTopic     = "SKATEPARKS_PUBSUB_MODERATION_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
