package inventory

import (
	"context"

	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Las implementaciones serializan escritores concurrentes del ledger.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// Repositories repositorios de lectura fuera de transacción (reportes).
type Repositories struct {
	Items     repository.ItemRepository
	Batches   repository.BatchRepository
	Movements repository.MovementRepository
}
