package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

// Client holds the handle to the database that owns the profiles table
type Client struct {
	DB *sql.DB
}

// Config describes how to reach PostgreSQL
type Config struct {
	URL         string
	SSLMode     string // disable, require, verify-ca, verify-full; empty keeps the URL's
	SSLRootCert string
	Pool        PoolConfig
	PingTimeout time.Duration
}

// PoolConfig holds connection pool limits
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig sizes the pool for one profile read and at most one
// write per request
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    15,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// DSN returns cfg.URL with the SSL settings applied to its query string
func (cfg Config) DSN() (string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	if cfg.SSLMode == "" && cfg.SSLRootCert == "" {
		return cfg.URL, nil
	}

	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.SSLRootCert != "" {
		q.Set("sslrootcert", cfg.SSLRootCert)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Open connects to PostgreSQL and verifies the connection
func Open(cfg Config) (*Client, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	if cfg.Pool == (PoolConfig{}) {
		cfg.Pool = DefaultPoolConfig()
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 5 * time.Second
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening connection to postgres: %w", err)
	}
	client := Wrap(db, cfg.Pool)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed connecting to postgres: %w", err)
	}

	if cfg.SSLMode != "" && cfg.SSLMode != "disable" {
		log.Printf("🔒 Database SSL enabled (mode: %s)", cfg.SSLMode)
	}
	log.Printf("✅ Database connected (max_open: %d, max_idle: %d)", cfg.Pool.MaxOpenConns, cfg.Pool.MaxIdleConns)

	return client, nil
}

// Wrap applies pool limits to an opened handle
func Wrap(db *sql.DB, pool PoolConfig) *Client {
	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	return &Client{DB: db}
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.DB.Close()
}

// Ping checks the connection, used by /health
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}
