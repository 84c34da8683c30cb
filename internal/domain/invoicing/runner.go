package invoicing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/osteoclinic/clinic/internal/platform/db"
)

// TxRunner runs a function atomically. Everything the function persists
// through the repositories commits or rolls back as one unit.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const txMaxAttempts = 3

// PGTxRunner executes the function in a database transaction, retrying a
// bounded number of times when the transaction loses a serialization or
// deadlock conflict.
type PGTxRunner struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPGTxRunner(pool *pgxpool.Pool, logger zerolog.Logger) *PGTxRunner {
	return &PGTxRunner{pool: pool, logger: logger}
}

func (r *PGTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		lastErr = db.InTx(ctx, r.pool, fn)
		if lastErr == nil {
			return nil
		}
		if !db.IsRetryable(lastErr) {
			return lastErr
		}
		r.logger.Warn().Err(lastErr).Int("attempt", attempt).
			Msg("invoicing transaction conflict, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return ErrConflict
}

// MemoryTxRunner is a pass-through runner for tests.
type MemoryTxRunner struct{}

func (MemoryTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
