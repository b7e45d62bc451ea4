package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "vendemais"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
	Reservation  ReservationConfig
	Internal     InternalConfig
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
	Env          string `envconfig:"VENDEMAIS_APP_ENV" required:"true"`
	Port         string `envconfig:"VENDEMAIS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"VENDEMAIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VENDEMAIS_LOG_WARN_STACK" default:"false"`
	// BaseDomain is the apex under which store subdomains resolve, e.g.
	// "vendemais.app" serves "loja.vendemais.app".
	BaseDomain string `envconfig:"VENDEMAIS_BASE_DOMAIN" default:"vendemais.app"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VENDEMAIS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VENDEMAIS_DB_DSN"`
	Driver string `envconfig:"VENDEMAIS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"VENDEMAIS_DB_HOST"`
	Port     int    `envconfig:"VENDEMAIS_DB_PORT" default:"5432"`
	User     string `envconfig:"VENDEMAIS_DB_USER"`
	Password string `envconfig:"VENDEMAIS_DB_PASSWORD"`
	Name     string `envconfig:"VENDEMAIS_DB_NAME"`
	SSLMode  string `envconfig:"VENDEMAIS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VENDEMAIS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VENDEMAIS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VENDEMAIS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VENDEMAIS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either VENDEMAIS_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"VENDEMAIS_REDIS_URL"`
	Address      string        `envconfig:"VENDEMAIS_REDIS_ADDR"`
	Password     string        `envconfig:"VENDEMAIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"VENDEMAIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VENDEMAIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VENDEMAIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VENDEMAIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VENDEMAIS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VENDEMAIS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"VENDEMAIS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"VENDEMAIS_JWT_ISSUER" default:"vendemais"`
	ExpirationMinutes int    `envconfig:"VENDEMAIS_JWT_EXPIRATION_MINUTES" default:"720"`
}

// TokenTTL returns the configured access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VENDEMAIS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VENDEMAIS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VENDEMAIS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VENDEMAIS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VENDEMAIS_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	// SessionTTL bounds how long an untouched session cart or wishlist
	// document survives in redis.
	SessionTTL time.Duration `envconfig:"VENDEMAIS_CART_SESSION_TTL" default:"720h"`
}

// ReservationConfig carries the stock hold parameters. The hold TTL and the
// sweep cadence are deployment decisions, not code constants.
type ReservationConfig struct {
	HoldTTL       time.Duration `envconfig:"VENDEMAIS_RESERVATION_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"VENDEMAIS_RESERVATION_SWEEP_INTERVAL" default:"5m"`
}

type InternalConfig struct {
	// Token guards the internal maintenance endpoints (reservation sweep).
	Token string `envconfig:"VENDEMAIS_INTERNAL_TOKEN"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VENDEMAIS_AUTO_MIGRATE" default:"false"`
}
