package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `code, name, category, unit, order_multiple, min_order, created_at`

// List devuelve todos los ítems ordenados por código.
func (r *ItemRepo) List(ctx context.Context) ([]entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetByCode obtiene un ítem por código; nil si no existe.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

// Upsert crea el ítem o actualiza campos descriptivos y política de compra (created_at se conserva).
func (r *ItemRepo) Upsert(ctx context.Context, item *entity.Item) error {
	if item.Code == "" {
		return fmt.Errorf("upsert item: %w", domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO items (code, name, category, unit, order_multiple, min_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			unit = EXCLUDED.unit,
			order_multiple = EXCLUDED.order_multiple,
			min_order = EXCLUDED.min_order
		RETURNING created_at`
	var createdAt any
	if !item.CreatedAt.IsZero() {
		createdAt = item.CreatedAt
	}
	err := r.q.QueryRow(ctx, query,
		item.Code, item.Name, item.Category, item.Unit, item.OrderMultiple, item.MinOrder, createdAt,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.Code, &it.Name, &it.Category, &it.Unit, &it.OrderMultiple, &it.MinOrder, &it.CreatedAt)
	return it, err
}
