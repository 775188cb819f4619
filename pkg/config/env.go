package config

const EnvPrefix = "LLANERO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "LLANERO_APP_ENV"
	EnvPort     = "LLANERO_APP_PORT"
	EnvLogLevel = "LLANERO_LOG_LEVEL"

	EnvDBDSN  = "LLANERO_DB_DSN"
	EnvDBHost = "LLANERO_DB_HOST"
	EnvDBUser = "LLANERO_DB_USER"
	EnvDBName = "LLANERO_DB_NAME"

	EnvRedisURL = "LLANERO_REDIS_URL"

	EnvAuthURL            = "LLANERO_AUTH_URL"
	EnvAuthAnonKey        = "LLANERO_AUTH_ANON_KEY"
	EnvAuthServiceRoleKey = "LLANERO_AUTH_SERVICE_ROLE_KEY"
	EnvAuthJWTSecret      = "LLANERO_AUTH_JWT_SECRET"

	EnvCORSAllowedOrigins = "LLANERO_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
