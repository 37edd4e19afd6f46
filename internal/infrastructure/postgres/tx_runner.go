package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// RetryObserver cuenta los reintentos por conflicto de transacción.
type RetryObserver interface {
	ObserveTxRetry()
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool     *pgxpool.Pool
	log      zerolog.Logger
	observer RetryObserver
}

// NewTxRunner construye el runner con el pool. observer puede ser nil.
func NewTxRunner(pool *pgxpool.Pool, log zerolog.Logger, observer RetryObserver) *TxRunner {
	return &TxRunner{
		pool:     pool,
		log:      log.With().Str("component", "tx_runner").Logger(),
		observer: observer,
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Ante un conflicto transitorio (40001/40P01) reintenta una sola vez; si vuelve a fallar
// devuelve domain.ErrConflict.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return retryOnConflict(r.log, r.observer, func() error {
		return r.runOnce(ctx, fn)
	})
}

// retryOnConflict ejecuta attempt y lo repite una vez ante un conflicto transitorio.
// Un segundo conflicto se devuelve como domain.ErrConflict; cualquier otro error pasa tal cual.
func retryOnConflict(log zerolog.Logger, observer RetryObserver, attempt func() error) error {
	err := attempt()
	if err == nil || !isRetryable(err) {
		return err
	}

	log.Warn().Err(err).Msg("conflicto de transacción, reintentando")
	if observer != nil {
		observer.ObserveTxRetry()
	}
	err = attempt()
	if err != nil && isRetryable(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewStockMovementRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(movRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
