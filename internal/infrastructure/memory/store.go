// Package memory implementa los repositorios y el TxRunner en memoria. Se usa en tests
// y con STORAGE=memory; replica las restricciones del esquema Postgres.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
)

var (
	_ inventory.TxRunner            = (*Store)(nil)
	_ repository.ItemRepository     = (*ItemRepo)(nil)
	_ repository.BatchRepository    = (*BatchRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.ParamsRepository   = (*ParamsRepo)(nil)
)

type state struct {
	items     map[string]entity.Item
	batches   []entity.Batch
	movements []entity.Movement
	params    []entity.GlobalParameters
}

func (s *state) clone() *state {
	c := &state{
		items:   maps.Clone(s.items),
		batches: slices.Clone(s.batches),
		params:  slices.Clone(s.params),
	}
	c.movements = make([]entity.Movement, len(s.movements))
	for i, m := range s.movements {
		m.Allocations = slices.Clone(m.Allocations)
		c.movements[i] = m
	}
	return c
}

// Store base de datos en memoria. Run serializa escritores y aplica copy-on-write:
// si fn falla el estado anterior queda intacto.
type Store struct {
	mu   sync.RWMutex
	data *state
	now  func() time.Time
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{data: &state{items: make(map[string]entity.Item)}, now: time.Now}
}

// Run ejecuta fn sobre una copia del estado y la publica si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	v := view{s: s, tx: tx}
	if err := fn(&ItemRepo{v}, &BatchRepo{v}, &MovementRepo{v}); err != nil {
		return err
	}
	s.data = tx
	return nil
}

// Repositories repositorios de lectura/escritura fuera de transacción.
func (s *Store) Repositories() inventory.Repositories {
	v := view{s: s}
	return inventory.Repositories{Items: &ItemRepo{v}, Batches: &BatchRepo{v}, Movements: &MovementRepo{v}}
}

// Params repositorio de parámetros globales.
func (s *Store) Params() *ParamsRepo {
	return &ParamsRepo{view{s: s}}
}

// view acceso al estado: dentro de una tx usa la copia; fuera, el estado publicado con lock.
type view struct {
	s  *Store
	tx *state
}

func (v view) read(fn func(*state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	fn(v.s.data)
}

func (v view) write(fn func(*state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

// ItemRepo ítems en memoria.
type ItemRepo struct{ v view }

func (r *ItemRepo) List(_ context.Context) ([]entity.Item, error) {
	var out []entity.Item
	r.v.read(func(st *state) {
		for _, code := range slices.Sorted(maps.Keys(st.items)) {
			out = append(out, st.items[code])
		}
	})
	return out, nil
}

func (r *ItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	var out *entity.Item
	r.v.read(func(st *state) {
		if it, ok := st.items[code]; ok {
			out = &it
		}
	})
	return out, nil
}

func (r *ItemRepo) Upsert(_ context.Context, item *entity.Item) error {
	if item.Code == "" {
		return fmt.Errorf("upsert item: %w", domain.ErrInvalidInput)
	}
	return r.v.write(func(st *state) error {
		if cur, ok := st.items[item.Code]; ok && !cur.CreatedAt.IsZero() {
			item.CreatedAt = cur.CreatedAt
		}
		st.items[item.Code] = *item
		return nil
	})
}

// BatchRepo lotes en memoria.
type BatchRepo struct{ v view }

func (r *BatchRepo) List(_ context.Context) ([]entity.Batch, error) {
	var out []entity.Batch
	r.v.read(func(st *state) { out = slices.Clone(st.batches) })
	return out, nil
}

func (r *BatchRepo) Create(_ context.Context, b *entity.Batch) error {
	if b.Quantity.IsNegative() {
		return fmt.Errorf("create batch %s: %w", b.Code, domain.ErrInvalidQuantity)
	}
	return r.v.write(func(st *state) error {
		if _, ok := st.items[b.ItemCode]; !ok {
			return fmt.Errorf("create batch %s: item %s: %w", b.Code, b.ItemCode, domain.ErrNotFound)
		}
		for _, cur := range st.batches {
			if cur.ID == b.ID || (cur.ItemCode == b.ItemCode && cur.Code == b.Code) {
				return fmt.Errorf("create batch %s: %w", b.Code, domain.ErrDuplicateBatch)
			}
		}
		st.batches = append(st.batches, *b)
		return nil
	})
}

func (r *BatchRepo) UpdateQuantity(_ context.Context, b *entity.Batch) error {
	if b.Quantity.IsNegative() {
		return fmt.Errorf("update batch %s: %w", b.Code, domain.ErrInvalidQuantity)
	}
	return r.v.write(func(st *state) error {
		for i := range st.batches {
			if st.batches[i].ID == b.ID {
				st.batches[i].Quantity = b.Quantity
				return nil
			}
		}
		return fmt.Errorf("update batch %s: %w", b.ID, domain.ErrNotFound)
	})
}

// MovementRepo movimientos en memoria (append-only).
type MovementRepo struct{ v view }

func (r *MovementRepo) List(_ context.Context) ([]entity.Movement, error) {
	var out []entity.Movement
	r.v.read(func(st *state) {
		out = make([]entity.Movement, len(st.movements))
		for i, m := range st.movements {
			m.Allocations = slices.Clone(m.Allocations)
			out[i] = m
		}
	})
	return out, nil
}

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.v.write(func(st *state) error {
		if slices.ContainsFunc(st.movements, func(cur entity.Movement) bool { return cur.ID == m.ID }) {
			return fmt.Errorf("create movement %s: duplicado", m.ID)
		}
		cp := *m
		cp.Allocations = slices.Clone(m.Allocations)
		st.movements = append(st.movements, cp)
		return nil
	})
}

// ParamsRepo parámetros globales versionados en memoria.
type ParamsRepo struct{ v view }

func (r *ParamsRepo) Current(_ context.Context) (*entity.GlobalParameters, error) {
	var out *entity.GlobalParameters
	r.v.read(func(st *state) {
		if n := len(st.params); n > 0 {
			p := st.params[n-1]
			out = &p
		}
	})
	return out, nil
}

func (r *ParamsRepo) Save(_ context.Context, p *entity.GlobalParameters) error {
	return r.v.write(func(st *state) error {
		p.Version = len(st.params) + 1
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = r.v.s.now()
		}
		st.params = append(st.params, *p)
		return nil
	})
}

func (r *ParamsRepo) History(_ context.Context, limit int) ([]entity.GlobalParameters, error) {
	var out []entity.GlobalParameters
	r.v.read(func(st *state) {
		out = slices.Clone(st.params)
	})
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
