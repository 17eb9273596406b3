package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Safety   SafetyConfig   `yaml:"safety"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// RateLimitPerMinute caps requests per client IP. Zero disables limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds the reference-data cache settings. The cache is optional:
// with Enabled=false the engine reads reference tables straight from Postgres.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"  env:"REDIS_ENABLED"  env-default:"false"`
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// AuthConfig holds bearer-token verification settings. Token issuance is
// handled elsewhere; this service only verifies already-issued tokens to
// resolve an optional user identity.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"foodsafe"`
}

// SafetyConfig holds evaluation-engine policy knobs.
type SafetyConfig struct {
	// DictionaryPath optionally overrides the embedded keyword dictionaries
	// (sugar terms, allergen synonym groups) with a YAML file.
	DictionaryPath string `yaml:"dictionary_path" env:"SAFETY_DICTIONARY_PATH"`

	// Sugar-warning severity policy. The diabetic level applies when the
	// profile declares a diabetes-class disease, the default level otherwise.
	SugarDiabeticLevel string `yaml:"sugar_diabetic_level" env:"SAFETY_SUGAR_DIABETIC_LEVEL" env-default:"WARN"`
	SugarDefaultLevel  string `yaml:"sugar_default_level"  env:"SAFETY_SUGAR_DEFAULT_LEVEL"  env-default:"INFO"`

	// ProfileRetryAttempts bounds profile/reference fetch retries before the
	// engine degrades (profile) or fails the call (reference data).
	ProfileRetryAttempts int           `yaml:"profile_retry_attempts" env:"SAFETY_PROFILE_RETRY_ATTEMPTS" env-default:"2"`
	RetryInitialBackoff  time.Duration `yaml:"retry_initial_backoff"  env:"SAFETY_RETRY_INITIAL_BACKOFF"  env-default:"100ms"`

	// BatchParallelism caps concurrent per-candidate evaluations in a batch.
	BatchParallelism int `yaml:"batch_parallelism" env:"SAFETY_BATCH_PARALLELISM" env-default:"8"`

	// SearchLimit caps catalog hits annotated per search request.
	SearchLimit int `yaml:"search_limit" env:"SAFETY_SEARCH_LIMIT" env-default:"50"`

	// RecommendLimit is the default candidate count for the recommend feed.
	RecommendLimit int `yaml:"recommend_limit" env:"SAFETY_RECOMMEND_LIMIT" env-default:"6"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
