package postgres

import (
	"context"
	"embed"
	"fmt"
	"net"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host     string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port     string `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	Username string `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	NameDB   string `yaml:"dbname" envconfig:"DB_NAME" default:"library"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `yaml:"maxConns" envconfig:"DB_MAX_CONNS" default:"10"`
}

func (cfg *DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, cfg.Port),
		Path:     cfg.NameDB,
		RawQuery: "sslmode=" + cfg.SSLMode,
	}
	return u.String()
}

// NewPostgresDB opens a pool and applies every pending migration found in migrationFiles.
func NewPostgresDB(ctx context.Context, cfg *DB, migrationFiles embed.FS) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := MigrateUp(pool, migrationFiles); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func NewPool(ctx context.Context, cfg *DB) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.ParseConfig")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.NewWithConfig")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Host, err)
	}
	return pool, nil
}

func MigrateUp(pool *pgxpool.Pool, migrationFiles embed.FS) error {
	return Migrate(pool, migrationFiles, "up")
}

// Migrate runs a goose command (up, down, status, ...) over the embedded sql files.
func Migrate(pool *pgxpool.Pool, migrationFiles embed.FS, command string) error {
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	db := stdlib.OpenDB(*pool.Config().ConnConfig)
	defer db.Close()

	if err := goose.Run(command, db, "."); err != nil {
		return errors.Wrapf(err, "goose %s", command)
	}
	return nil
}
