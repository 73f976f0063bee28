package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// defaultTxAttempts bounds transaction retries when the caller does not configure them.
const defaultTxAttempts = 3

// inTx runs fn in a transaction and retries the whole transaction when the
// store reports a transient conflict (deadlock, lock wait, serialization).
// Retries live here only; HTTP handlers never retry.
func inTx(ctx context.Context, database *gorm.DB, attempts int, fn func(tx *gorm.DB) error) error {
	if attempts <= 0 {
		attempts = defaultTxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = database.WithContext(ctx).Transaction(fn)
		if err == nil || !isTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 10 * time.Millisecond):
		}
	}
	return err
}

// isDuplicate reports a unique/primary key violation on any supported driver.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// isForeignKeyViolation reports a reference to a missing parent row.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1452
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// isTransient reports errors worth retrying the whole transaction for.
func isTransient(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// 1213 deadlock, 1205 lock wait timeout
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}
