package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the envconfig prefix shared by every HerbLink binary.
	EnvPrefix = "herblink"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "HERBLINK_DB_DSN"
	EnvDBHost = "HERBLINK_DB_HOST"
	EnvDBUser = "HERBLINK_DB_USER"
	EnvDBName = "HERBLINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"HERBLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"HERBLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HERBLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HERBLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HERBLINK_DB_DSN"`
	Driver string `envconfig:"HERBLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HERBLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"HERBLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HERBLINK_DB_USER"`
	LegacyPassword string `envconfig:"HERBLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"HERBLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"HERBLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HERBLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HERBLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HERBLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HERBLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HERBLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HERBLINK_REDIS_ADDR"`
	Password     string        `envconfig:"HERBLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"HERBLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HERBLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HERBLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HERBLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HERBLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HERBLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"HERBLINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"HERBLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"HERBLINK_JWT_EXPIRATION_MINUTES" required:"true"`
}

type RateLimitConfig struct {
	WriteLimit  int64         `envconfig:"HERBLINK_RATE_LIMIT_WRITES" default:"120"`
	WriteWindow time.Duration `envconfig:"HERBLINK_RATE_LIMIT_WINDOW" default:"1m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HERBLINK_AUTO_MIGRATE" default:"false"`
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
