package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx). Movimientos y
// asignaciones son append-only.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// List devuelve todos los movimientos en orden de registro con sus asignaciones.
func (r *MovementRepo) List(ctx context.Context) ([]entity.Movement, error) {
	query := `
		SELECT id, type, item_code, quantity, at, discard, note, created_at
		FROM movements ORDER BY seq`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []entity.Movement
	index := make(map[string]int)
	for rows.Next() {
		var m entity.Movement
		var note *string
		if err := rows.Scan(&m.ID, &m.Type, &m.ItemCode, &m.Quantity, &m.At, &m.Discard, &note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if note != nil {
			m.Note = *note
		}
		m.At, m.CreatedAt = m.At.UTC(), m.CreatedAt.UTC()
		index[m.ID] = len(list)
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	allocs, err := r.q.Query(ctx, `
		SELECT a.movement_id, a.batch_id, b.code, a.quantity
		FROM movement_allocations a
		JOIN batches b ON b.id = a.batch_id
		ORDER BY a.movement_id, a.position`)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer allocs.Close()
	for allocs.Next() {
		var movID string
		var a entity.Allocation
		if err := allocs.Scan(&movID, &a.BatchID, &a.BatchCode, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		if i, ok := index[movID]; ok {
			list[i].Allocations = append(list[i].Allocations, a)
		}
	}
	return list, allocs.Err()
}

// Create persiste un movimiento y sus asignaciones.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, type, item_code, quantity, at, discard, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.ItemCode, m.Quantity, m.At, m.Discard, nullIfEmpty(m.Note), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	for i, a := range m.Allocations {
		_, err := r.q.Exec(ctx, `
			INSERT INTO movement_allocations (movement_id, position, batch_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			m.ID, i, a.BatchID, a.Quantity,
		)
		if err != nil {
			return fmt.Errorf("create allocation: %w", err)
		}
	}
	return nil
}
