package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// List devuelve todos los lotes (también los agotados).
func (r *BatchRepo) List(ctx context.Context) ([]entity.Batch, error) {
	query := `
		SELECT id, item_code, code, quantity, expires_on, received_at
		FROM batches ORDER BY item_code, received_at, code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []entity.Batch
	for rows.Next() {
		var b entity.Batch
		var expires *time.Time
		if err := rows.Scan(&b.ID, &b.ItemCode, &b.Code, &b.Quantity, &expires, &b.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if expires != nil {
			b.ExpiresOn = entity.DateOf(*expires)
		}
		b.ReceivedAt = b.ReceivedAt.UTC()
		list = append(list, b)
	}
	return list, rows.Err()
}

// Create inserta un lote nuevo.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO batches (id, item_code, code, quantity, expires_on, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	var expires *time.Time
	if b.HasExpiry() {
		expires = &b.ExpiresOn
	}
	_, err := r.q.Exec(ctx, query, b.ID, b.ItemCode, b.Code, b.Quantity, expires, b.ReceivedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("create batch %s/%s: %w", b.ItemCode, b.Code, domain.ErrDuplicateBatch)
		case isForeignKeyViolation(err):
			return fmt.Errorf("create batch %s/%s: item: %w", b.ItemCode, b.Code, domain.ErrNotFound)
		case isCheckViolation(err):
			return fmt.Errorf("create batch %s/%s: %w", b.ItemCode, b.Code, domain.ErrInvalidQuantity)
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// UpdateQuantity actualiza el saldo del lote.
func (r *BatchRepo) UpdateQuantity(ctx context.Context, b *entity.Batch) error {
	tag, err := r.q.Exec(ctx, `UPDATE batches SET quantity = $2 WHERE id = $1`, b.ID, b.Quantity)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update batch %s: %w", b.ID, domain.ErrInvalidQuantity)
		}
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch %s: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}
