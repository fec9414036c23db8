package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"STORERATINGS_APP_ENV" required:"true"`
	Port         string   `envconfig:"STORERATINGS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"STORERATINGS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"STORERATINGS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"STORERATINGS_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"STORERATINGS_DB_DSN"`
	Driver string `envconfig:"STORERATINGS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"STORERATINGS_DB_HOST"`
	LegacyPort     int    `envconfig:"STORERATINGS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"STORERATINGS_DB_USER"`
	LegacyPassword string `envconfig:"STORERATINGS_DB_PASSWORD"`
	LegacyName     string `envconfig:"STORERATINGS_DB_NAME"`
	LegacySSLMode  string `envconfig:"STORERATINGS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"STORERATINGS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STORERATINGS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STORERATINGS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STORERATINGS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STORERATINGS_REDIS_URL"`
	Address      string        `envconfig:"STORERATINGS_REDIS_ADDR"`
	Password     string        `envconfig:"STORERATINGS_REDIS_PASSWORD"`
	DB           int           `envconfig:"STORERATINGS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STORERATINGS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STORERATINGS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STORERATINGS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STORERATINGS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STORERATINGS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. Rate limiting
// is skipped entirely when it was not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret   string        `envconfig:"STORERATINGS_JWT_SECRET" required:"true"`
	Issuer   string        `envconfig:"STORERATINGS_JWT_ISSUER" required:"true"`
	TokenTTL time.Duration `envconfig:"STORERATINGS_JWT_TOKEN_TTL" default:"168h"`
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"STORERATINGS_BCRYPT_COST" default:"10"`
}

type AuthRateLimitConfig struct {
	SigninWindow     time.Duration `envconfig:"STORERATINGS_AUTH_RATE_LIMIT_SIGNIN_WINDOW" default:"1m"`
	SigninEmailLimit int           `envconfig:"STORERATINGS_AUTH_RATE_LIMIT_SIGNIN_EMAIL_LIMIT" default:"5"`
	SigninIPLimit    int           `envconfig:"STORERATINGS_AUTH_RATE_LIMIT_SIGNIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"STORERATINGS_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"STORERATINGS_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"STORERATINGS_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"STORERATINGS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"STORERATINGS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
