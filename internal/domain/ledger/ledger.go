// Package ledger implementa el libro de lotes y movimientos de la clínica:
// entradas crean lotes, salidas los consumen en orden FEFO (primero en vencer, primero en salir).
//
// El Ledger es un servicio de dominio en memoria. La capa de aplicación lo reconstruye
// desde el repositorio (Load), aplica operaciones y persiste Changes() en una transacción.
package ledger

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// EntryInput datos de una entrada (recordEntry).
type EntryInput struct {
	ItemCode   string
	BatchCode  string
	Quantity   decimal.Decimal
	ExpiresOn  time.Time // cero = sin vencimiento
	ReceivedAt time.Time // cero = reloj del ledger
	Note       string
}

// ExitInput datos de una salida (recordExit). BatchCode opcional fija la salida a un lote.
type ExitInput struct {
	ItemCode  string
	BatchCode string
	Quantity  decimal.Decimal
	At        time.Time // cero = reloj del ledger
	Discard   bool
	Note      string
}

// Changes cambios acumulados desde el último Load/MarkCommitted, para persistir en una transacción.
type Changes struct {
	Items          []entity.Item
	NewBatches     []entity.Batch
	UpdatedBatches []entity.Batch
	Movements      []entity.Movement
}

// Empty indica si no hay nada que persistir.
func (c Changes) Empty() bool {
	return len(c.Items) == 0 && len(c.NewBatches) == 0 && len(c.UpdatedBatches) == 0 && len(c.Movements) == 0
}

// Option configura el Ledger.
type Option func(*Ledger)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option { return func(l *Ledger) { l.now = now } }

// WithIDGenerator reemplaza el generador de IDs (tests).
func WithIDGenerator(gen func() string) Option { return func(l *Ledger) { l.newID = gen } }

type batchKey struct{ item, code string }

// Ledger libro append-only de lotes y movimientos. No es seguro para uso concurrente:
// el acceso multi-proceso se serializa en la capa de persistencia.
type Ledger struct {
	items     map[string]entity.Item
	batches   map[string][]*entity.Batch // por ítem, ordenados FEFO
	byCode    map[batchKey]*entity.Batch
	movements []entity.Movement
	byItem    map[string][]int // índices en movements por ítem

	newItems   map[string]bool
	newBatches map[string]bool
	touched    map[string]bool
	committed  int // movimientos ya persistidos

	now   func() time.Time
	newID func() string
}

// New construye un ledger vacío.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		items:      make(map[string]entity.Item),
		batches:    make(map[string][]*entity.Batch),
		byCode:     make(map[batchKey]*entity.Batch),
		byItem:     make(map[string][]int),
		newItems:   make(map[string]bool),
		newBatches: make(map[string]bool),
		touched:    make(map[string]bool),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reconstruye el estado desde persistencia. Los movimientos deben venir en orden
// cronológico de registro. Reinicia el seguimiento de cambios.
func (l *Ledger) Load(items []entity.Item, batches []entity.Batch, movements []entity.Movement) error {
	for _, it := range items {
		l.items[it.Code] = it
	}
	for i := range batches {
		b := batches[i]
		if b.Quantity.IsNegative() {
			return fmt.Errorf("lote %s/%s con cantidad negativa: %w", b.ItemCode, b.Code, domain.ErrInvalidQuantity)
		}
		key := batchKey{b.ItemCode, b.Code}
		if _, dup := l.byCode[key]; dup {
			return fmt.Errorf("lote %s/%s: %w", b.ItemCode, b.Code, domain.ErrDuplicateBatch)
		}
		if _, ok := l.items[b.ItemCode]; !ok {
			l.items[b.ItemCode] = entity.Item{Code: b.ItemCode}
		}
		l.insertBatch(&b)
	}
	for _, m := range movements {
		l.appendMovement(m)
	}
	l.MarkCommitted()
	return nil
}

// MarkCommitted descarta el seguimiento de cambios (después de persistir).
func (l *Ledger) MarkCommitted() {
	clear(l.newItems)
	clear(l.newBatches)
	clear(l.touched)
	l.committed = len(l.movements)
}

// Changes devuelve lo creado o modificado desde el último commit, en orden determinista.
func (l *Ledger) Changes() Changes {
	var c Changes
	for _, code := range sortedKeys(l.newItems) {
		c.Items = append(c.Items, l.items[code])
	}
	for _, code := range sortedKeys(l.items) {
		for _, b := range l.batches[code] {
			switch {
			case l.newBatches[b.ID]:
				c.NewBatches = append(c.NewBatches, *b)
			case l.touched[b.ID]:
				c.UpdatedBatches = append(c.UpdatedBatches, *b)
			}
		}
	}
	c.Movements = slices.Clone(l.movements[l.committed:])
	return c
}

// EnsureItem registra el ítem si no existe; si existe, completa campos descriptivos vacíos
// y reemplaza la política de compra cuando viene informada (valores positivos).
func (l *Ledger) EnsureItem(it entity.Item) error {
	it.Code = strings.TrimSpace(it.Code)
	if it.Code == "" {
		return fmt.Errorf("código de ítem vacío: %w", domain.ErrInvalidInput)
	}
	if it.OrderMultiple.IsNegative() || it.MinOrder.IsNegative() {
		return fmt.Errorf("ítem %s: lote_mult %s / lote_min %s: %w", it.Code, it.OrderMultiple, it.MinOrder, domain.ErrInvalidInput)
	}
	cur, ok := l.items[it.Code]
	if !ok {
		if it.CreatedAt.IsZero() {
			it.CreatedAt = l.now()
		}
		l.items[it.Code] = it.WithOrderDefaults()
		l.newItems[it.Code] = true
		return nil
	}
	changed := false
	if cur.Name == "" && it.Name != "" {
		cur.Name, changed = it.Name, true
	}
	if cur.Unit == "" && it.Unit != "" {
		cur.Unit, changed = it.Unit, true
	}
	if it.OrderMultiple.IsPositive() && !it.OrderMultiple.Equal(cur.OrderMultiple) {
		cur.OrderMultiple, changed = it.OrderMultiple, true
	}
	if it.MinOrder.IsPositive() && !it.MinOrder.Equal(cur.MinOrder) {
		cur.MinOrder, changed = it.MinOrder, true
	}
	if changed {
		l.items[it.Code] = cur
		l.newItems[it.Code] = true
	}
	return nil
}

// Item devuelve el ítem por código.
func (l *Ledger) Item(code string) (entity.Item, bool) {
	it, ok := l.items[code]
	return it, ok
}

// Items devuelve todos los ítems ordenados por código.
func (l *Ledger) Items() []entity.Item {
	out := make([]entity.Item, 0, len(l.items))
	for _, code := range sortedKeys(l.items) {
		out = append(out, l.items[code])
	}
	return out
}

// RecordEntry crea un lote nuevo con la cantidad recibida.
func (l *Ledger) RecordEntry(in EntryInput) (*entity.Movement, error) {
	itemCode := strings.TrimSpace(in.ItemCode)
	batchCode := strings.TrimSpace(in.BatchCode)
	if itemCode == "" {
		return nil, fmt.Errorf("código de ítem vacío: %w", domain.ErrInvalidInput)
	}
	if batchCode == "" {
		return nil, fmt.Errorf("código de lote vacío: %w", domain.ErrInvalidBatch)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("entrada %s/%s con cantidad %s: %w", itemCode, batchCode, in.Quantity, domain.ErrInvalidQuantity)
	}
	if _, dup := l.byCode[batchKey{itemCode, batchCode}]; dup {
		return nil, fmt.Errorf("entrada %s/%s: %w", itemCode, batchCode, domain.ErrDuplicateBatch)
	}
	if err := l.EnsureItem(entity.Item{Code: itemCode}); err != nil {
		return nil, err
	}

	at := in.ReceivedAt
	if at.IsZero() {
		at = l.now()
	}
	b := &entity.Batch{
		ID:         l.newID(),
		ItemCode:   itemCode,
		Code:       batchCode,
		Quantity:   in.Quantity,
		ReceivedAt: at,
	}
	if !in.ExpiresOn.IsZero() {
		b.ExpiresOn = entity.DateOf(in.ExpiresOn)
	}
	l.insertBatch(b)
	l.newBatches[b.ID] = true

	mov := entity.Movement{
		ID:       l.newID(),
		Type:     entity.MovementTypeEntry,
		ItemCode: itemCode,
		Quantity: in.Quantity,
		At:       at,
		Note:     in.Note,
		Allocations: []entity.Allocation{
			{BatchID: b.ID, BatchCode: b.Code, Quantity: in.Quantity},
		},
		CreatedAt: l.now(),
	}
	l.appendMovement(mov)
	return &mov, nil
}

// RecordExit consume qty de los lotes del ítem en orden FEFO. Todo o nada: si el
// disponible no alcanza no se modifica ningún lote.
func (l *Ledger) RecordExit(in ExitInput) (*entity.Movement, error) {
	itemCode := strings.TrimSpace(in.ItemCode)
	if itemCode == "" {
		return nil, fmt.Errorf("código de ítem vacío: %w", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("salida %s con cantidad %s: %w", itemCode, in.Quantity, domain.ErrInvalidQuantity)
	}

	candidates := l.batches[itemCode]
	if code := strings.TrimSpace(in.BatchCode); code != "" {
		b, ok := l.byCode[batchKey{itemCode, code}]
		if !ok {
			return nil, fmt.Errorf("salida %s lote %s: %w", itemCode, code, domain.ErrInvalidBatch)
		}
		candidates = []*entity.Batch{b}
	}

	available := decimal.Zero
	for _, b := range candidates {
		available = available.Add(b.Quantity)
	}
	if available.LessThan(in.Quantity) {
		return nil, fmt.Errorf("salida %s: solicitado %s, disponible %s: %w",
			itemCode, in.Quantity, available, domain.ErrInsufficientStock)
	}

	allocs := allocateFEFO(candidates, in.Quantity)
	for i, a := range allocs {
		b := candidates[a.index]
		b.Quantity = b.Quantity.Sub(a.qty)
		l.touched[b.ID] = true
		allocs[i].batch = b
	}

	at := in.At
	if at.IsZero() {
		at = l.now()
	}
	mov := entity.Movement{
		ID:        l.newID(),
		Type:      entity.MovementTypeExit,
		ItemCode:  itemCode,
		Quantity:  in.Quantity.Neg(),
		At:        at,
		Discard:   in.Discard,
		Note:      in.Note,
		CreatedAt: l.now(),
	}
	for _, a := range allocs {
		mov.Allocations = append(mov.Allocations, entity.Allocation{
			BatchID: a.batch.ID, BatchCode: a.batch.Code, Quantity: a.qty,
		})
	}
	l.appendMovement(mov)
	return &mov, nil
}

// AvailableQuantity suma bruta de los lotes del ítem (vencidos incluidos; el reporte decide).
func (l *Ledger) AvailableQuantity(itemCode string) decimal.Decimal {
	total := decimal.Zero
	for _, b := range l.batches[itemCode] {
		total = total.Add(b.Quantity)
	}
	return total
}

// BatchesFor secuencia perezosa y reiniciable de los lotes del ítem en orden FEFO.
// Entrega copias: el consumidor no puede alterar el ledger.
func (l *Ledger) BatchesFor(itemCode string) iter.Seq[entity.Batch] {
	return func(yield func(entity.Batch) bool) {
		for _, b := range l.batches[itemCode] {
			if !yield(*b) {
				return
			}
		}
	}
}

// AllBatches todos los lotes, por código de ítem y luego FEFO.
func (l *Ledger) AllBatches() iter.Seq[entity.Batch] {
	return func(yield func(entity.Batch) bool) {
		for _, code := range sortedKeys(l.items) {
			for _, b := range l.batches[code] {
				if !yield(*b) {
					return
				}
			}
		}
	}
}

// Movements todos los movimientos en orden de registro.
func (l *Ledger) Movements() iter.Seq[entity.Movement] {
	return func(yield func(entity.Movement) bool) {
		for _, m := range l.movements {
			if !yield(m) {
				return
			}
		}
	}
}

// MovementsFor movimientos de un ítem en orden de registro.
func (l *Ledger) MovementsFor(itemCode string) iter.Seq[entity.Movement] {
	return func(yield func(entity.Movement) bool) {
		for _, idx := range l.byItem[itemCode] {
			if !yield(l.movements[idx]) {
				return
			}
		}
	}
}

// Totals devuelve total ingresado, total retirado y disponible del ítem.
// Ley de conservación: entered - exited == available.
func (l *Ledger) Totals(itemCode string) (entered, exited, available decimal.Decimal) {
	entered, exited = decimal.Zero, decimal.Zero
	for m := range l.MovementsFor(itemCode) {
		if m.IsExit() {
			exited = exited.Add(m.AbsQuantity())
		} else {
			entered = entered.Add(m.Quantity)
		}
	}
	return entered, exited, l.AvailableQuantity(itemCode)
}

func (l *Ledger) insertBatch(b *entity.Batch) {
	list := l.batches[b.ItemCode]
	idx, _ := slices.BinarySearchFunc(list, b, compareFEFO)
	l.batches[b.ItemCode] = slices.Insert(list, idx, b)
	l.byCode[batchKey{b.ItemCode, b.Code}] = b
}

func (l *Ledger) appendMovement(m entity.Movement) {
	l.byItem[m.ItemCode] = append(l.byItem[m.ItemCode], len(l.movements))
	l.movements = append(l.movements, m)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
