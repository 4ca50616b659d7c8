// Package db opens the application database and applies versioned migrations
// at startup.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"time"

	"github.com/geocoder89/accounthub/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to Postgres via the pgx stdlib driver, merging the configured
// credentials into the URL, and verifies connectivity with a short ping.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := connString(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return conn, nil
}

// Migrate applies the embedded migrations once, in order, recording progress
// in goose's version table.
func Migrate(ctx context.Context, conn *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, conn, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

func connString(cfg config.Config) (string, error) {
	u, err := url.Parse(cfg.DBURL)
	if err != nil {
		return "", fmt.Errorf("parse db url: %w", err)
	}

	if cfg.DBUser != "" {
		u.User = url.UserPassword(cfg.DBUser, cfg.DBPassword)
	}

	return u.String(), nil
}
