package config

import (
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Cookie        CookieConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	Cron          CronConfig
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
	Env          string `envconfig:"SIEVO_APP_ENV" required:"true"`
	Port         string `envconfig:"SIEVO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SIEVO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SIEVO_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"SIEVO_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"SIEVO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SIEVO_DB_DSN"`
	Driver string `envconfig:"SIEVO_DB_DRIVER" default:"postgres"`

	// Postgres DSN parts, used when DSN is empty.
	Host     string `envconfig:"SIEVO_DB_HOST"`
	Port     int    `envconfig:"SIEVO_DB_PORT" default:"5432"`
	User     string `envconfig:"SIEVO_DB_USER"`
	Password string `envconfig:"SIEVO_DB_PASSWORD"`
	Name     string `envconfig:"SIEVO_DB_NAME"`
	SSLMode  string `envconfig:"SIEVO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SIEVO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SIEVO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SIEVO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SIEVO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SIEVO_REDIS_URL"`
	Address      string        `envconfig:"SIEVO_REDIS_ADDR"`
	Password     string        `envconfig:"SIEVO_REDIS_PASSWORD"`
	DB           int           `envconfig:"SIEVO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SIEVO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SIEVO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SIEVO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SIEVO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SIEVO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SIEVO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SIEVO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SIEVO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SIEVO_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// CookieConfig controls how session tokens are written to the browser.
type CookieConfig struct {
	AccessName  string `envconfig:"SIEVO_COOKIE_ACCESS_NAME" default:"sievo_access"`
	RefreshName string `envconfig:"SIEVO_COOKIE_REFRESH_NAME" default:"sievo_refresh"`
	Domain      string `envconfig:"SIEVO_COOKIE_DOMAIN"`
	Path        string `envconfig:"SIEVO_COOKIE_PATH" default:"/"`
	Secure      bool   `envconfig:"SIEVO_COOKIE_SECURE" default:"true"`
	SameSite    string `envconfig:"SIEVO_COOKIE_SAMESITE" default:"lax"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SIEVO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SIEVO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SIEVO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SIEVO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SIEVO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SIEVO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SIEVO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SIEVO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SIEVO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SIEVO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SIEVO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate     bool `envconfig:"SIEVO_AUTO_MIGRATE" default:"false"`
	AllowSelfSignup bool `envconfig:"SIEVO_ALLOW_SELF_SIGNUP" default:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SIEVO_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type CronConfig struct {
	Interval                  time.Duration `envconfig:"SIEVO_CRON_INTERVAL" default:"1h"`
	NotificationRetentionDays int           `envconfig:"SIEVO_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

// ensureDSN assembles a postgres URL from the DSN parts when no DSN is set.
func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	var missing []string
	for env, v := range map[string]string{EnvDBHost: db.Host, EnvDBUser: db.User, EnvDBName: db.Name} {
		if v == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%s is empty and %s not set", EnvDBDSN, strings.Join(missing, ", "))
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.User(db.User),
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	}
	if db.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {db.SSLMode}}.Encode()
	}
	db.DSN = u.String()
	return nil
}
