package pg

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"rfq-market/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("operation failed after max retries")
)

// WithRetry re-issues fn transparently whenever it fails with a
// serialization failure or deadlock, up to maxRetries extra attempts with
// exponential backoff plus jitter. Any other error passes straight through.
// Past the bound the last error is marked with ErrMaxRetriesExceeded.
func WithRetry[T any](ctx context.Context, maxRetries int, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	base := 100 * time.Millisecond

	for attempt := 0; ; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		if !IsRetryable(err) {
			return zero, err
		}

		if attempt >= maxRetries {
			slog.Error("operation failed after max retries",
				"attempts", attempt+1,
				"error", err.Error())
			return zero, errs.Mark(err, ErrMaxRetriesExceeded)
		}

		waitTime := calculateBackoff(attempt, base)
		slog.Warn("retrying after serialization conflict",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds())

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(waitTime):
		}
	}
}

// RunInTx executes fn inside a transaction, committing on success and
// rolling back on error.
func RunInTx[T any](ctx context.Context, db Beginner, fn func(tx pgx.Tx) (T, error)) (T, error) {
	var zero T

	tx, err := db.Begin(ctx)
	if err != nil {
		return zero, errs.Mark(err, ErrTransactionBegin)
	}

	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback transaction", "error", rollbackErr.Error())
			}
		}
	}()

	result, err := fn(tx)
	if err != nil {
		return zero, err
	}

	if err = tx.Commit(ctx); err != nil {
		return zero, errs.Mark(err, ErrTransactionCommit)
	}

	return result, nil
}

// RunInTxWithRetry wraps RunInTx in WithRetry so multi-statement flows get
// the same transparent conflict handling as single statements.
func RunInTxWithRetry[T any](ctx context.Context, db Beginner, maxRetries int, fn func(tx pgx.Tx) (T, error)) (T, error) {
	return WithRetry(ctx, maxRetries, func(ctx context.Context) (T, error) {
		return RunInTx(ctx, db, fn)
	})
}

func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	// Mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	return int64(uval) % n
}
