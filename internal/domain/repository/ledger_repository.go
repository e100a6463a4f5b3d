package repository

import (
	"context"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para ítems (insumos).
type ItemRepository interface {
	List(ctx context.Context) ([]entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// Upsert crea el ítem o actualiza sus campos descriptivos y política de compra.
	Upsert(ctx context.Context, item *entity.Item) error
}

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	List(ctx context.Context) ([]entity.Batch, error)
	Create(ctx context.Context, batch *entity.Batch) error
	UpdateQuantity(ctx context.Context, batch *entity.Batch) error
}

// MovementRepository define el puerto de persistencia para movimientos (append-only) y sus asignaciones a lotes.
type MovementRepository interface {
	// List devuelve todos los movimientos en orden de registro, con sus asignaciones.
	List(ctx context.Context) ([]entity.Movement, error)
	Create(ctx context.Context, movement *entity.Movement) error
}
