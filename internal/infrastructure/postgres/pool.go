package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phuong1932/logistics-deploy/pkg/config"
	"github.com/rs/zerolog/log"
)

const (
	pingAttempts = 5
	pingDelay    = 2 * time.Second
)

// NewPool crea el pool de conexiones PostgreSQL y espera a que la base responda.
// Con DATABASE_URL se usa tal cual; si no, el DSN se arma desde DB_HOST, DB_PORT, etc.
// El host se resuelve a IPv4 cuando es posible (los contenedores suelen no tener IPv6).
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := preferIPv4(cfg.ConnectionString())

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// NUMERIC <-> shopspring/decimal en todas las conexiones del pool.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func ping(ctx context.Context, pool *pgxpool.Pool) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("base de datos no disponible, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pingDelay):
		}
	}
	return fmt.Errorf("ping DB: %w", err)
}

// preferIPv4 reemplaza el hostname de la URL por su IPv4 si la resolución lo permite.
func preferIPv4(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Hostname() == "" {
		return dsn
	}
	host := u.Hostname()
	if ip := net.ParseIP(host); ip != nil {
		return dsn
	}
	ips, err := net.LookupIP(host)
	if err != nil {
		return dsn
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	for _, ip := range ips {
		if ip.To4() != nil {
			u.Host = net.JoinHostPort(ip.String(), port)
			return u.String()
		}
	}
	return dsn
}
