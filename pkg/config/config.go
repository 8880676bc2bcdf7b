package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "shopopti"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SHOPOPTI_DB_DSN"
	EnvDBHost = "SHOPOPTI_DB_HOST"
	EnvDBUser = "SHOPOPTI_DB_USER"
	EnvDBName = "SHOPOPTI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Fulfillment  FulfillmentConfig
	Suppliers    SuppliersConfig
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
	Env          string `envconfig:"SHOPOPTI_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPOPTI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPOPTI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPOPTI_LOG_WARN_STACK" default:"false"`

	RateLimitPerMinute int `envconfig:"SHOPOPTI_APP_RATE_LIMIT_PER_MINUTE" default:"120"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPOPTI_DB_DSN"`
	Driver string `envconfig:"SHOPOPTI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPOPTI_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPOPTI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPOPTI_DB_USER"`
	LegacyPassword string `envconfig:"SHOPOPTI_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPOPTI_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPOPTI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPOPTI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPOPTI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPOPTI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPOPTI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPOPTI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPOPTI_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPOPTI_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPOPTI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPOPTI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPOPTI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPOPTI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPOPTI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPOPTI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SHOPOPTI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SHOPOPTI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SHOPOPTI_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FulfillmentConfig struct {
	MaxRetries          int           `envconfig:"SHOPOPTI_FULFILLMENT_MAX_RETRIES" default:"3"`
	PendingBatchSize    int           `envconfig:"SHOPOPTI_FULFILLMENT_PENDING_BATCH_SIZE" default:"50"`
	DispatchConcurrency int           `envconfig:"SHOPOPTI_FULFILLMENT_DISPATCH_CONCURRENCY" default:"4"`
	RulesFailOpen       bool          `envconfig:"SHOPOPTI_FULFILLMENT_RULES_FAIL_OPEN" default:"false"`
	PendingLockTTL      time.Duration `envconfig:"SHOPOPTI_FULFILLMENT_PENDING_LOCK_TTL" default:"10m"`
	PendingPollInterval time.Duration `envconfig:"SHOPOPTI_FULFILLMENT_PENDING_POLL_INTERVAL" default:"1m"`
}

type SuppliersConfig struct {
	CJBaseURL     string        `envconfig:"SHOPOPTI_SUPPLIERS_CJ_BASE_URL" default:"https://developers.cjdropshipping.com/api2.0/v1"`
	BigBuyBaseURL string        `envconfig:"SHOPOPTI_SUPPLIERS_BIGBUY_BASE_URL" default:"https://api.bigbuy.eu"`
	HTTPTimeout   time.Duration `envconfig:"SHOPOPTI_SUPPLIERS_HTTP_TIMEOUT" default:"15s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPOPTI_AUTO_MIGRATE" default:"false"`
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
