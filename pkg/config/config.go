package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Service   ServiceConfig
	DB        DBConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Realtime  RealtimeConfig
	Cron      CronConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
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
	Env          string `envconfig:"LLANERO_APP_ENV" required:"true"`
	Port         string `envconfig:"LLANERO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LLANERO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LLANERO_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"LLANERO_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"LLANERO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"LLANERO_DB_DSN"`

	LegacyHost     string `envconfig:"LLANERO_DB_HOST"`
	LegacyPort     int    `envconfig:"LLANERO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LLANERO_DB_USER"`
	LegacyPassword string `envconfig:"LLANERO_DB_PASSWORD"`
	LegacyName     string `envconfig:"LLANERO_DB_NAME"`
	LegacySSLMode  string `envconfig:"LLANERO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LLANERO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LLANERO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LLANERO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LLANERO_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs statements that take longer; zero turns it off.
	SlowQueryThreshold time.Duration `envconfig:"LLANERO_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

// RedisConfig is optional; leaving both URL and address empty disables idempotency,
// gateway rate limiting and the cron lock.
type RedisConfig struct {
	URL          string        `envconfig:"LLANERO_REDIS_URL"`
	Address      string        `envconfig:"LLANERO_REDIS_ADDR"`
	Password     string        `envconfig:"LLANERO_REDIS_PASSWORD"`
	DB           int           `envconfig:"LLANERO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LLANERO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LLANERO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LLANERO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LLANERO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LLANERO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// AuthConfig points at the hosted auth provider.
type AuthConfig struct {
	ProviderURL    string        `envconfig:"LLANERO_AUTH_URL"`
	AnonKey        string        `envconfig:"LLANERO_AUTH_ANON_KEY"`
	ServiceRoleKey string        `envconfig:"LLANERO_AUTH_SERVICE_ROLE_KEY"`
	JWTSecret      string        `envconfig:"LLANERO_AUTH_JWT_SECRET"`
	JWTAudience    string        `envconfig:"LLANERO_AUTH_JWT_AUDIENCE" default:"authenticated"`
	InviteRedirect string        `envconfig:"LLANERO_AUTH_INVITE_REDIRECT_URL"`
	Timeout        time.Duration `envconfig:"LLANERO_AUTH_TIMEOUT" default:"10s"`
}

// ProtectionEnabled is false when the provider URL or anon key is missing. Route
// protection then degrades to an open-access warning instead of failing closed.
func (a AuthConfig) ProtectionEnabled() bool {
	return strings.TrimSpace(a.ProviderURL) != "" && strings.TrimSpace(a.AnonKey) != ""
}

// GatewayEnabled reports whether privileged provider calls can be made.
func (a AuthConfig) GatewayEnabled() bool {
	return strings.TrimSpace(a.ProviderURL) != "" && strings.TrimSpace(a.ServiceRoleKey) != ""
}

type RealtimeConfig struct {
	Channel           string        `envconfig:"LLANERO_REALTIME_CHANNEL" default:"llanero_changes"`
	BufferSize        int           `envconfig:"LLANERO_REALTIME_BUFFER_SIZE" default:"32"`
	HeartbeatInterval time.Duration `envconfig:"LLANERO_REALTIME_HEARTBEAT" default:"25s"`
	ReconnectDelay    time.Duration `envconfig:"LLANERO_REALTIME_RECONNECT_DELAY" default:"3s"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"LLANERO_CRON_INTERVAL" default:"24h"`
	NotificationRetention time.Duration `envconfig:"LLANERO_NOTIFICATION_RETENTION" default:"720h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"LLANERO_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type RateLimitConfig struct {
	GatewayWindow time.Duration `envconfig:"LLANERO_RATE_LIMIT_GATEWAY_WINDOW" default:"1m"`
	GatewayLimit  int           `envconfig:"LLANERO_RATE_LIMIT_GATEWAY_LIMIT" default:"10"`
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
