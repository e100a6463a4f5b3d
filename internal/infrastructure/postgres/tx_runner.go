package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// ledgerLockKey clave del advisory lock que serializa escritores del ledger.
const ledgerLockKey int64 = 0x65737471 // "estq"

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, toma el lock del ledger, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, ledgerLockKey); err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}

	itemRepo := NewItemRepository(tx)
	batchRepo := NewBatchRepository(tx)
	movRepo := NewMovementRepository(tx)

	if err := fn(itemRepo, batchRepo, movRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories repositorios atados al pool (lecturas fuera de transacción).
func Repositories(pool *pgxpool.Pool) inventory.Repositories {
	return inventory.Repositories{
		Items:     NewItemRepository(pool),
		Batches:   NewBatchRepository(pool),
		Movements: NewMovementRepository(pool),
	}
}
