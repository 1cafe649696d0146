package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/minicanvas-api/pkg/config"
)

const (
	applicationName = "minicanvas-api"
	connectTimeout  = 5
	connMaxLifetime = time.Hour
	connMaxIdleTime = 30 * time.Minute
	pingTimeout     = 2 * time.Second
)

// DSN renders a lib/pq keyword/value connection string. Empty fields are omitted
// so lib/pq falls back to its PG* environment defaults.
func DSN(cfg config.DatabaseConfig) string {
	parts := []string{
		"host=" + cfg.Host,
		fmt.Sprintf("port=%d", cfg.Port),
		"user=" + cfg.User,
		"password=" + cfg.Password,
		"dbname=" + cfg.Name,
		"sslmode=" + cfg.SSLMode,
	}
	kept := parts[:0]
	for _, p := range parts {
		if !strings.HasSuffix(p, "=") && p != "port=0" {
			kept = append(kept, p)
		}
	}
	kept = append(kept,
		"application_name="+applicationName,
		fmt.Sprintf("connect_timeout=%d", connectTimeout),
	)
	return strings.Join(kept, " ")
}

// NewPostgres opens the pool, applies the configured limits and verifies connectivity.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	if err := Readiness(db)(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Readiness returns a check that pings db under a short deadline.
func Readiness(db *sqlx.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		return nil
	}
}
