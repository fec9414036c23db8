package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "STORERATINGS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "STORERATINGS_APP_ENV"
	EnvPort     = "STORERATINGS_APP_PORT"
	EnvDBDSN    = "STORERATINGS_DB_DSN"
	EnvDBHost   = "STORERATINGS_DB_HOST"
	EnvDBUser   = "STORERATINGS_DB_USER"
	EnvDBName   = "STORERATINGS_DB_NAME"
	EnvRedisURL = "STORERATINGS_REDIS_URL"

	EnvJWTSecret   = "STORERATINGS_JWT_SECRET"
	EnvJWTIssuer   = "STORERATINGS_JWT_ISSUER"
	EnvJWTTokenTTL = "STORERATINGS_JWT_TOKEN_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
