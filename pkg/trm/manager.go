package trm

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Manager implements a transaction manager on top of pgx. The transaction
// travels in the context so repositories can join it transparently.
type Manager struct {
	db *pgxpool.Pool
}

// New returns a new transaction manager.
func New(db *pgxpool.Pool) *Manager {
	return &Manager{db: db}
}

type ctxKeyTx struct{}
type ctxTxOptions struct{}

var TxKey = ctxKeyTx{}
var txOptions = ctxTxOptions{}

// Do executes fn within a transaction. It joins an existing transaction
// from the context if present, otherwise begins a new one. On error or
// panic the transaction is rolled back, otherwise committed.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Join an outer transaction if one exists; the outer Do owns commit.
	if tx := ctx.Value(TxKey); tx != nil {
		if _, ok := tx.(pgx.Tx); ok {
			return fn(ctx)
		}
		return fmt.Errorf("invalid transaction type in context")
	}

	var tx pgx.Tx
	if opt, ok := ctx.Value(txOptions).(pgx.TxOptions); ok {
		tx, err = m.db.BeginTx(ctx, opt)
	} else {
		tx, err = m.db.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	ctx = context.WithValue(ctx, TxKey, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = fmt.Errorf("failed to rollback tx: %v (original error: %w)", rbErr, err)
			}
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("failed to commit tx: %w", commitErr)
			}
		}
	}()

	err = fn(ctx)

	return err
}

// DoReadOnly executes fn within a read-only transaction.
func (m *Manager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := pgx.TxOptions{
		AccessMode: pgx.ReadOnly,
	}

	ctx = WithOptionsCtx(ctx, opts)

	return m.Do(ctx, fn)
}

func WithOptionsCtx(ctx context.Context, opt pgx.TxOptions) context.Context {
	return context.WithValue(ctx, txOptions, opt)
}
