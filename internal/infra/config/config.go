package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	Session   SessionSettings   `mapstructure:"session"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	Argon2    Argon2Settings    `mapstructure:"argon2"`
	Password  PasswordSettings  `mapstructure:"password"`
}

type AppSettings struct {
	Name        string   `mapstructure:"name"`
	Env         string   `mapstructure:"env"`
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
	MigrateOnStart    bool          `mapstructure:"migrate_on_start"`
}

// RedisSettings configures the Redis connection. When Enabled is false the
// service falls back to process-local stores, which only suits a single
// replica.
type RedisSettings struct {
	Enabled             bool   `mapstructure:"enabled"`
	Host                string `mapstructure:"host"`
	Port                int    `mapstructure:"port"`
	DB                  int    `mapstructure:"db"`
	Password            string `mapstructure:"password"`
	TLSEnabled          bool   `mapstructure:"tls_enabled"`
	SessionPrefix       string `mapstructure:"session_prefix"`
	RememberTokenPrefix string `mapstructure:"remember_token_prefix"`
	RateLimitPrefix     string `mapstructure:"rate_limit_prefix"`
}

// KafkaSettings configures the audit event producer. An empty broker list
// swaps in the logging stub publisher.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// SessionSettings configures login session and remember-me lifetimes.
type SessionSettings struct {
	TTL                time.Duration `mapstructure:"ttl"`
	CookieName         string        `mapstructure:"cookie_name"`
	RememberTTL        time.Duration `mapstructure:"remember_ttl"`
	RememberCookieName string        `mapstructure:"remember_cookie_name"`
	CookieSecure       bool          `mapstructure:"cookie_secure"`
	CookieDomain       string        `mapstructure:"cookie_domain"`
}

// RateLimitSettings configures the login throttle and the transport-level
// per-IP limit.
type RateLimitSettings struct {
	LoginMaxAttempts int           `mapstructure:"login_max_attempts"`
	LoginWindow      time.Duration `mapstructure:"login_window"`
	IPMaxAttempts    int           `mapstructure:"ip_max_attempts"`
	IPWindow         time.Duration `mapstructure:"ip_window"`
}

// Argon2Settings configures Argon2id password hashing parameters
type Argon2Settings struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
	SaltLength  uint32 `mapstructure:"salt_length"`
	KeyLength   uint32 `mapstructure:"key_length"`
}

// PasswordSettings configures password acceptance rules beyond the base
// length and composition checks. MinStrength is a zxcvbn score; zero keeps
// the strength estimator off.
type PasswordSettings struct {
	MinLength   int `mapstructure:"min_length"`
	MinStrength int `mapstructure:"min_strength"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("CATERING")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.cors_origins",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"postgres.migrate_on_start",
		"redis.enabled",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.session_prefix",
		"redis.remember_token_prefix",
		"redis.rate_limit_prefix",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"session.ttl",
		"session.cookie_name",
		"session.remember_ttl",
		"session.remember_cookie_name",
		"session.cookie_secure",
		"session.cookie_domain",
		"rate_limit.login_max_attempts",
		"rate_limit.login_window",
		"rate_limit.ip_max_attempts",
		"rate_limit.ip_window",
		"argon2.memory",
		"argon2.iterations",
		"argon2.parallelism",
		"argon2.salt_length",
		"argon2.key_length",
		"password.min_length",
		"password.min_strength",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "catering-auth")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.cors_origins", []string{"*"})

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "catering")
	v.SetDefault("postgres.password", "catering_password")
	v.SetDefault("postgres.database", "catering")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")
	v.SetDefault("postgres.migrate_on_start", true)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.tls_enabled", false)
	v.SetDefault("redis.session_prefix", "catering:session")
	v.SetDefault("redis.remember_token_prefix", "catering:remember")
	v.SetDefault("redis.rate_limit_prefix", "catering:rate_limit")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "catering")
	v.SetDefault("kafka.async", true)

	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_name", "catering_session")
	v.SetDefault("session.remember_ttl", "720h")
	v.SetDefault("session.remember_cookie_name", "catering_remember")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.cookie_domain", "")

	v.SetDefault("rate_limit.login_max_attempts", 5)
	v.SetDefault("rate_limit.login_window", "15m")
	v.SetDefault("rate_limit.ip_max_attempts", 60)
	v.SetDefault("rate_limit.ip_window", "1m")

	v.SetDefault("argon2.memory", 65536) // 64 MB
	v.SetDefault("argon2.iterations", 3)
	v.SetDefault("argon2.parallelism", 4)
	v.SetDefault("argon2.salt_length", 16)
	v.SetDefault("argon2.key_length", 32)

	v.SetDefault("password.min_length", 8)
	v.SetDefault("password.min_strength", 0)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "CATERING_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
