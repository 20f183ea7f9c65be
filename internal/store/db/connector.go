// Package db is the persistence adapter of the catalog: it hands out one
// connection per operation and classifies driver errors.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the statement surface shared by *pgx.Conn and *pgxpool.Conn.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Conn is a connection owned by a single operation. Release must be called on every exit path.
type Conn interface {
	DBTX
	Release()
}

// Connector hands out connections.
type Connector interface {
	Acquire(ctx context.Context) (Conn, error)
	Close()
}

// DirectConnector dials a new connection for every Acquire and closes it on Release.
type DirectConnector struct {
	config *pgx.ConnConfig
}

var _ Connector = (*DirectConnector)(nil)

// NewDirectConnector parses url once; connectTimeout bounds every dial.
func NewDirectConnector(url string, connectTimeout time.Duration) (*DirectConnector, error) {
	cfg, err := pgx.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.ConnectTimeout = connectTimeout
	return &DirectConnector{config: cfg}, nil
}

func (c *DirectConnector) Acquire(ctx context.Context) (Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, c.config)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to connect: %w", err))
	}
	return &directConn{Conn: conn}, nil
}

// Close is a no-op, every connection is closed by its own Release.
func (c *DirectConnector) Close() {}

type directConn struct {
	*pgx.Conn
}

func (c *directConn) Release() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.Close(ctx)
}

// PoolConnector borrows connections from a pgxpool.Pool.
type PoolConnector struct {
	pool *pgxpool.Pool
}

var _ Connector = (*PoolConnector)(nil)

func NewPoolConnector(pool *pgxpool.Pool) *PoolConnector {
	return &PoolConnector{pool: pool}
}

func (c *PoolConnector) Acquire(ctx context.Context) (Conn, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, Classify(fmt.Errorf("failed to acquire connection: %w", err))
	}
	return conn, nil
}

func (c *PoolConnector) Close() {
	c.pool.Close()
}

// Ping acquires and releases one connection.
func Ping(ctx context.Context, c Connector) error {
	conn, err := c.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	if _, err := conn.Exec(ctx, "SELECT 1"); err != nil {
		return Classify(err)
	}
	return nil
}
