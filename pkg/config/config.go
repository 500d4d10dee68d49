package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BUAHSEGAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Payment       PaymentConfig
	Cloudinary    CloudinaryConfig
	Shipping      ShippingConfig
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
	Env          string `envconfig:"BUAHSEGAR_APP_ENV" required:"true"`
	Port         string `envconfig:"BUAHSEGAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BUAHSEGAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUAHSEGAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BUAHSEGAR_DB_DSN"`
	Driver string `envconfig:"BUAHSEGAR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BUAHSEGAR_DB_HOST"`
	Port     int    `envconfig:"BUAHSEGAR_DB_PORT" default:"5432"`
	User     string `envconfig:"BUAHSEGAR_DB_USER"`
	Password string `envconfig:"BUAHSEGAR_DB_PASSWORD"`
	Name     string `envconfig:"BUAHSEGAR_DB_NAME"`
	SSLMode  string `envconfig:"BUAHSEGAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUAHSEGAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUAHSEGAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUAHSEGAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUAHSEGAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the SQLite driver was selected (dev/tests).
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"BUAHSEGAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BUAHSEGAR_REDIS_ADDR"`
	Password     string        `envconfig:"BUAHSEGAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUAHSEGAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUAHSEGAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUAHSEGAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUAHSEGAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUAHSEGAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUAHSEGAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BUAHSEGAR_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BUAHSEGAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BUAHSEGAR_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BUAHSEGAR_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BUAHSEGAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BUAHSEGAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BUAHSEGAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BUAHSEGAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BUAHSEGAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BUAHSEGAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BUAHSEGAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BUAHSEGAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BUAHSEGAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BUAHSEGAR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BUAHSEGAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// PaymentConfig holds the Snap gateway credentials.
type PaymentConfig struct {
	ServerKey string `envconfig:"BUAHSEGAR_PAYMENT_SERVER_KEY" required:"true"`
	ClientKey string `envconfig:"BUAHSEGAR_PAYMENT_CLIENT_KEY"`
	Env       string `envconfig:"BUAHSEGAR_PAYMENT_ENV" default:"sandbox"`
}

// Environment returns the normalized gateway environment (sandbox/production).
func (p PaymentConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(p.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// CloudinaryConfig holds the unsigned-upload settings for the asset host.
type CloudinaryConfig struct {
	CloudName    string `envconfig:"BUAHSEGAR_CLOUDINARY_CLOUD_NAME"`
	UploadPreset string `envconfig:"BUAHSEGAR_CLOUDINARY_UPLOAD_PRESET"`
	MaxUploadMB  int    `envconfig:"BUAHSEGAR_CLOUDINARY_MAX_UPLOAD_MB" default:"5"`
}

// ShippingConfig defines the static delivery tiers offered at checkout.
// Costs are rupiah.
type ShippingConfig struct {
	RegularCost int64 `envconfig:"BUAHSEGAR_SHIPPING_REGULAR_COST" default:"15000"`
	ExpressCost int64 `envconfig:"BUAHSEGAR_SHIPPING_EXPRESS_COST" default:"30000"`
	InstantCost int64 `envconfig:"BUAHSEGAR_SHIPPING_INSTANT_COST" default:"50000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BUAHSEGAR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("BUAHSEGAR_DB_DSN is required for the sqlite driver")
	}

	missing := []string{}
	required := map[string]string{
		"BUAHSEGAR_DB_HOST": db.Host,
		"BUAHSEGAR_DB_USER": db.User,
		"BUAHSEGAR_DB_NAME": db.Name,
	}
	for _, key := range []string{"BUAHSEGAR_DB_HOST", "BUAHSEGAR_DB_USER", "BUAHSEGAR_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either BUAHSEGAR_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
