// Package sqlconn provides a reference txmanager.Connection implementation
// over database/sql, for use in tests and the demo binary. It is not part
// of the core library's public contract: embedders are expected to bring
// their own Connection over whatever driver they use.
package sqlconn

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the sqlite3 driver under database/sql.
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/AEATech/transaction-manager-core/plan"
	"github.com/AEATech/transaction-manager-core/txmanager"
)

// SQLiteConnection adapts a *sql.DB to txmanager.Connection. SQLite has no
// server-side isolation levels beyond what database/sql's own
// sql.TxOptions expresses, so isolationToSQL maps txmanager's
// IsolationLevel onto the closest sql.IsolationLevel.
//
// Close does not permanently kill the connection: database/sql never
// allows a closed *sql.DB to be reused, so Close only tears down the
// current *sql.DB and remembers dsn; the next BeginTransactionWithOptions
// lazily reopens a fresh one, giving Close the "fresh physical session on
// the next call" behaviour txmanager.Connection requires.
type SQLiteConnection struct {
	dsn string
	db  *sql.DB
	tx  *sql.Tx
}

// Open opens a sqlite3 database at dsn (":memory:" for an in-memory
// database, matching the teacher's own node/open_test.go convention).
func Open(dsn string) (*SQLiteConnection, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite3 database: %w", err)
	}
	return &SQLiteConnection{dsn: dsn, db: db}, nil
}

// BeginTransactionWithOptions implements txmanager.Connection.
func (c *SQLiteConnection) BeginTransactionWithOptions(ctx context.Context, options txmanager.TxOptions) error {
	if c.tx != nil {
		return fmt.Errorf("a transaction is already active on this connection")
	}

	if err := c.ensureOpen(); err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{Isolation: isolationToSQL(options.IsolationLevel)})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	c.tx = tx
	return nil
}

// ExecuteQuery implements txmanager.Connection.
func (c *SQLiteConnection) ExecuteQuery(ctx context.Context, q plan.Query) (int64, error) {
	result, err := c.tx.ExecContext(ctx, q.SQL, q.Params...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return rows, nil
}

// Commit implements txmanager.Connection.
func (c *SQLiteConnection) Commit(context.Context) error {
	err := c.tx.Commit()
	c.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollBack implements txmanager.Connection.
func (c *SQLiteConnection) RollBack(context.Context) error {
	if c.tx == nil {
		return nil
	}
	err := c.tx.Rollback()
	c.tx = nil
	return err
}

// Close implements txmanager.Connection. It closes the current *sql.DB but
// keeps dsn around so ensureOpen can reopen a fresh one on the next begin,
// since database/sql itself never lets a closed *sql.DB be reused. Calling
// Close when already closed is a no-op, matching the interface contract.
func (c *SQLiteConnection) Close() error {
	c.tx = nil
	if c.db == nil {
		return nil
	}

	logrus.WithField("dsn", c.dsn).Debug("closing sqlite connection")
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("failed to close sqlite3 database: %w", err)
	}
	return nil
}

// ensureOpen reopens the underlying *sql.DB if a previous Close tore it
// down, so a Connection-kind recovery can proceed on the same
// SQLiteConnection value instead of leaving it permanently closed.
func (c *SQLiteConnection) ensureOpen() error {
	if c.db != nil {
		return nil
	}

	logrus.WithField("dsn", c.dsn).Debug("reopening sqlite connection")
	db, err := sql.Open("sqlite3", c.dsn)
	if err != nil {
		return fmt.Errorf("failed to reopen sqlite3 database: %w", err)
	}
	c.db = db
	return nil
}

// QueryRowContext exposes the active transaction's QueryRowContext for
// read paths that need a single scanned row. It is not part of the
// txmanager.Connection contract, which only needs affected-row counts.
func (c *SQLiteConnection) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.tx.QueryRowContext(ctx, query, args...)
}

func isolationToSQL(level txmanager.IsolationLevel) sql.IsolationLevel {
	switch level {
	case txmanager.IsolationReadUncommitted:
		return sql.LevelReadUncommitted
	case txmanager.IsolationReadCommitted:
		return sql.LevelReadCommitted
	case txmanager.IsolationRepeatableRead:
		return sql.LevelRepeatableRead
	case txmanager.IsolationSerializable:
		return sql.LevelSerializable
	default:
		return sql.LevelDefault
	}
}
