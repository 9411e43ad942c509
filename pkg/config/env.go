package config

const (
	EnvPrefix = "SIEVO"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "SIEVO_APP_ENV"
	EnvPort                   = "SIEVO_APP_PORT"
	EnvDBDSN                  = "SIEVO_DB_DSN"
	EnvDBHost                 = "SIEVO_DB_HOST"
	EnvDBUser                 = "SIEVO_DB_USER"
	EnvDBName                 = "SIEVO_DB_NAME"
	EnvRedisURL               = "SIEVO_REDIS_URL"
	EnvJWTSecret              = "SIEVO_JWT_SECRET"
	EnvJWTIssuer              = "SIEVO_JWT_ISSUER"
	EnvJWTExpMins             = "SIEVO_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SIEVO_REFRESH_TOKEN_TTL_MINUTES"
	EnvCORSAllowedOrigins     = "SIEVO_CORS_ALLOWED_ORIGINS"
)
