// Package postgres provides the shared PostgreSQL connection and the
// serialisable transaction runner the draw commit executes inside.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	libLog "github.com/LerianStudio/lib-commons/v2/commons/log"
	"github.com/jackc/pgx/v5/pgconn"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connection wraps the pgx-backed *sql.DB shared by all repositories.
type Connection struct {
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	Logger           libLog.Logger

	db        *sql.DB
	connected bool
}

// Connect opens and pings the database.
func (c *Connection) Connect() error {
	db, err := sql.Open("pgx", c.ConnectionString)
	if err != nil {
		c.Logger.Errorf("failed to open postgres connection: %v", err)

		return err
	}

	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}

	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}

	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		c.Logger.Errorf("failed to ping postgres: %v", err)

		return err
	}

	c.db = db
	c.connected = true

	c.Logger.Info("Connected to postgres ✅")

	return nil
}

// GetDB returns the live handle, connecting lazily on first use.
func (c *Connection) GetDB() (*sql.DB, error) {
	if !c.connected {
		if err := c.Connect(); err != nil {
			return nil, err
		}
	}

	return c.db, nil
}

// TransactionManager runs a function inside one database transaction. The
// draw commit and the ledger operations are its only users.
type TransactionManager interface {
	// WithinSerializable runs fn inside a serialisable transaction,
	// committing on nil and rolling back otherwise. Cancellation of the
	// caller's context is ignored once the transaction has begun, so a
	// timed-out caller never leaves partial state behind.
	WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error
}

func (c *Connection) WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	db, err := c.GetDB()
	if err != nil {
		return err
	}

	txCtx := context.WithoutCancel(ctx)

	tx, err := db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// IsUniqueViolation reports whether err is a unique-index violation. The
// unique indexes on (business_type, business_key) and
// (user_id, idempotency_key) are the idempotency source of truth; callers
// translate a violation into the replay path.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}

// IsSerializationFailure reports a serialisable-isolation conflict, which the
// orchestrator surfaces as a retryable error.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001"
	}

	return false
}
