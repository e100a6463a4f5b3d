package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-clinica/internal/domain/ledger"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

// LoadLedger reconstruye el ledger completo desde los repositorios.
func LoadLedger(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	opts ...ledger.Option,
) (*ledger.Ledger, error) {
	items, err := itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar ítems: %w", err)
	}
	batches, err := batchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar lotes: %w", err)
	}
	movements, err := movRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar movimientos: %w", err)
	}
	l := ledger.New(opts...)
	if err := l.Load(items, batches, movements); err != nil {
		return nil, fmt.Errorf("reconstruir ledger: %w", err)
	}
	return l, nil
}

// SaveChanges persiste los cambios pendientes del ledger. Debe llamarse con repos atados a una tx.
func SaveChanges(
	ctx context.Context,
	c ledger.Changes,
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
) error {
	for i := range c.Items {
		if err := itemRepo.Upsert(ctx, &c.Items[i]); err != nil {
			return err
		}
	}
	for i := range c.NewBatches {
		if err := batchRepo.Create(ctx, &c.NewBatches[i]); err != nil {
			return err
		}
	}
	for i := range c.UpdatedBatches {
		if err := batchRepo.UpdateQuantity(ctx, &c.UpdatedBatches[i]); err != nil {
			return err
		}
	}
	for i := range c.Movements {
		if err := movRepo.Create(ctx, &c.Movements[i]); err != nil {
			return err
		}
	}
	return nil
}
