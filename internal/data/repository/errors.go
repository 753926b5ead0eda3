package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrOverlap: the exclusion constraint on court_slots rejected an interval.
	ErrOverlap = errors.New("slot overlapped")
	// ErrDuplicate: a unique constraint rejected the row.
	ErrDuplicate = errors.New("duplicate row")
	// ErrReferenced: a foreign key still points at the row being deleted.
	ErrReferenced = errors.New("row still referenced")
	// ErrRetryable: lock timeout, serialization failure or deadlock. The whole
	// transaction may be retried.
	ErrRetryable = errors.New("transaction retryable")
)

const (
	pgExclusionViolation   = "23P01"
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// classify maps Postgres error codes onto repository sentinels, keeping the
// original error in the chain.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgExclusionViolation:
		return errors.Join(ErrOverlap, err)
	case pgUniqueViolation:
		return errors.Join(ErrDuplicate, err)
	case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
		return errors.Join(ErrRetryable, err)
	default:
		return err
	}
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
