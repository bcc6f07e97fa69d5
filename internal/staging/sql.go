package staging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// SQLClientConfig configures the SQL staging database client.
type SQLClientConfig struct {
	// Addr is the host:port of the staging database server.
	Addr string

	// User and Password authenticate against the server.
	User     string
	Password string

	// ConnectTimeout bounds connection establishment.
	// If zero, defaults to 10 seconds.
	ConnectTimeout time.Duration
}

// SQLClient implements the Client interface over a MySQL-protocol staging
// database. Batches rely on multi-statement execution, enabled on the
// connection.
type SQLClient struct {
	db *sql.DB
}

// NewSQLClient opens a connection pool to the staging database.
func NewSQLClient(cfg SQLClientConfig) (*SQLClient, error) {
	if cfg.Addr == "" {
		return nil, errors.New("staging: database address is required")
	}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	dsnCfg := mysql.NewConfig()
	dsnCfg.Net = "tcp"
	dsnCfg.Addr = cfg.Addr
	dsnCfg.User = cfg.User
	dsnCfg.Passwd = cfg.Password
	dsnCfg.Timeout = timeout
	dsnCfg.MultiStatements = true

	db, err := sql.Open("mysql", dsnCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("staging: open database: %w", err)
	}

	// One reconciliation run is sequential; a small pool suffices.
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(time.Minute)

	return &SQLClient{db: db}, nil
}

// ListTables returns the names of all tables in the given database.
func (c *SQLClient) ListTables(ctx context.Context, database string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SHOW TABLES FROM "+database)
	if err != nil {
		return nil, fmt.Errorf("staging: list tables in %s: %w", database, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("staging: scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("staging: list tables in %s: %w", database, err)
	}
	return names, nil
}

// ExecBatch executes the statements as one multi-statement command.
func (c *SQLClient) ExecBatch(ctx context.Context, statements []string) error {
	if len(statements) == 0 {
		return nil
	}

	if _, err := c.db.ExecContext(ctx, strings.Join(statements, " ")); err != nil {
		return &BatchError{Statements: len(statements), Err: err}
	}
	return nil
}

// Close releases the connection pool.
func (c *SQLClient) Close() error {
	return c.db.Close()
}
