package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
	"github.com/jhoicas/estoque-clinica/internal/infrastructure/memory"
)

func TestStore_RunDescartaCambiosSiFalla(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	boom := errors.New("boom")

	err := st.Run(ctx, func(items repository.ItemRepository, batches repository.BatchRepository, _ repository.MovementRepository) error {
		require.NoError(t, items.Upsert(ctx, &entity.Item{Code: "A"}))
		require.NoError(t, batches.Create(ctx, &entity.Batch{ID: "b1", ItemCode: "A", Code: "L1", Quantity: decimal.NewFromInt(5)}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := st.Repositories().Items.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_RunPublicaCambios(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()

	err := st.Run(ctx, func(items repository.ItemRepository, batches repository.BatchRepository, movs repository.MovementRepository) error {
		require.NoError(t, items.Upsert(ctx, &entity.Item{Code: "A", Name: "Seringa"}))
		require.NoError(t, batches.Create(ctx, &entity.Batch{ID: "b1", ItemCode: "A", Code: "L1", Quantity: decimal.NewFromInt(5)}))
		return movs.Create(ctx, &entity.Movement{ID: "m1", Type: entity.MovementTypeEntry, ItemCode: "A", Quantity: decimal.NewFromInt(5),
			Allocations: []entity.Allocation{{BatchID: "b1", BatchCode: "L1", Quantity: decimal.NewFromInt(5)}}})
	})
	require.NoError(t, err)

	repos := st.Repositories()
	it, err := repos.Items.GetByCode(ctx, "A")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, "Seringa", it.Name)

	movs, err := repos.Movements.List(ctx)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Len(t, movs[0].Allocations, 1)

	missing, err := repos.Items.GetByCode(ctx, "Z")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBatchRepo_Restricciones(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	require.NoError(t, repos.Items.Upsert(ctx, &entity.Item{Code: "A"}))

	b := &entity.Batch{ID: "b1", ItemCode: "A", Code: "L1", Quantity: decimal.NewFromInt(5)}
	require.NoError(t, repos.Batches.Create(ctx, b))

	err := repos.Batches.Create(ctx, &entity.Batch{ID: "b2", ItemCode: "A", Code: "L1", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrDuplicateBatch)

	err = repos.Batches.Create(ctx, &entity.Batch{ID: "b3", ItemCode: "NOPE", Code: "L1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	b.Quantity = decimal.NewFromInt(-1)
	assert.ErrorIs(t, repos.Batches.UpdateQuantity(ctx, b), domain.ErrInvalidQuantity)

	assert.ErrorIs(t, repos.Batches.UpdateQuantity(ctx, &entity.Batch{ID: "x"}), domain.ErrNotFound)
}

func TestParamsRepo_Versiona(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Params()

	cur, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)

	for _, ns := range []float64{0.9, 0.95, 0.99} {
		p := entity.GlobalParameters{ServiceLevel: ns, LeadTimeMean: 6, LeadTimeStdev: 1}
		require.NoError(t, repo.Save(ctx, &p))
	}

	cur, err = repo.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, cur.Version)
	assert.InDelta(t, 0.99, cur.ServiceLevel, 1e-9)

	hist, err := repo.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, 3, hist[0].Version)
	assert.Equal(t, 2, hist[1].Version)
}
