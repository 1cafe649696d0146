package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Sequence backends.
const (
	SequenceMemory = "memory"
	SequenceRedis  = "redis"
)

// Sync backends.
const (
	SyncNone     = "none"
	SyncFile     = "file"
	SyncPostgres = "postgres"
	SyncRedis    = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Sequence  SequenceConfig
	Sync      SyncConfig
	Passwords PasswordConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SequenceConfig selects where id counters live.
type SequenceConfig struct {
	Backend   string
	KeyPrefix string
}

// SyncConfig governs the course persistence hook and its background worker.
type SyncConfig struct {
	Backend           string
	Interval          time.Duration
	WorkerConcurrency int
	WorkerRetries     int
	SnapshotDir       string
	SnapshotRetention time.Duration
	RedisKey          string
}

// PasswordConfig tunes password hashing.
type PasswordConfig struct {
	BcryptCost int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = strings.TrimRight(v.GetString("API_PREFIX"), "/")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sequence = SequenceConfig{
		Backend:   strings.ToLower(v.GetString("SEQUENCE_BACKEND")),
		KeyPrefix: v.GetString("SEQUENCE_KEY_PREFIX"),
	}

	cfg.Sync = SyncConfig{
		Backend:           strings.ToLower(v.GetString("SYNC_BACKEND")),
		Interval:          parseDuration(v.GetString("SYNC_INTERVAL"), 0),
		WorkerConcurrency: v.GetInt("SYNC_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("SYNC_WORKER_RETRIES"),
		SnapshotDir:       v.GetString("SYNC_SNAPSHOT_DIR"),
		SnapshotRetention: parseDuration(v.GetString("SYNC_SNAPSHOT_RETENTION"), 7*24*time.Hour),
		RedisKey:          v.GetString("SYNC_REDIS_KEY"),
	}

	cfg.Passwords = PasswordConfig{
		BcryptCost: v.GetInt("PASSWORD_BCRYPT_COST"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "minicanvas")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SEQUENCE_BACKEND", SequenceMemory)
	v.SetDefault("SEQUENCE_KEY_PREFIX", "minicanvas:seq")

	v.SetDefault("SYNC_BACKEND", SyncNone)
	v.SetDefault("SYNC_INTERVAL", "0s")
	v.SetDefault("SYNC_WORKER_CONCURRENCY", 1)
	v.SetDefault("SYNC_WORKER_RETRIES", 3)
	v.SetDefault("SYNC_SNAPSHOT_DIR", "./snapshots")
	v.SetDefault("SYNC_SNAPSHOT_RETENTION", "168h")
	v.SetDefault("SYNC_REDIS_KEY", "minicanvas:courses")

	v.SetDefault("PASSWORD_BCRYPT_COST", 10)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
