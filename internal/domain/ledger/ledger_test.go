package ledger_test

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newLedger() *ledger.Ledger {
	seq := 0
	return ledger.New(
		ledger.WithClock(func() time.Time { return t0 }),
		ledger.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%04d", seq)
		}),
	)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func entry(t *testing.T, l *ledger.Ledger, item, batch string, qty int64, expires time.Time, received time.Time) {
	t.Helper()
	_, err := l.RecordEntry(ledger.EntryInput{
		ItemCode: item, BatchCode: batch, Quantity: dec(qty), ExpiresOn: expires, ReceivedAt: received,
	})
	require.NoError(t, err)
}

func quantities(l *ledger.Ledger, item string) map[string]string {
	out := map[string]string{}
	for b := range l.BatchesFor(item) {
		out[b.Code] = b.Quantity.String()
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// recordEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_CreaLoteYMovimiento(t *testing.T) {
	l := newLedger()
	mov, err := l.RecordEntry(ledger.EntryInput{
		ItemCode: "DIPI-500", BatchCode: "L1", Quantity: dec(30),
		ExpiresOn: time.Date(2026, 1, 31, 15, 30, 0, 0, time.UTC), ReceivedAt: t0,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeEntry, mov.Type)
	assert.True(t, mov.Quantity.Equal(dec(30)))
	require.Len(t, mov.Allocations, 1)
	assert.Equal(t, "L1", mov.Allocations[0].BatchCode)

	batches := slices.Collect(l.BatchesFor("DIPI-500"))
	require.Len(t, batches, 1)
	assert.Equal(t, day(2026, 1, 31), batches[0].ExpiresOn, "la validez se guarda sólo como fecha")
	assert.True(t, l.AvailableQuantity("DIPI-500").Equal(dec(30)))

	_, ok := l.Item("DIPI-500")
	assert.True(t, ok, "el ítem se registra automáticamente en la primera entrada")
}

func TestRecordEntry_Errores(t *testing.T) {
	tests := []struct {
		name    string
		in      ledger.EntryInput
		wantErr error
	}{
		{"cantidad cero", ledger.EntryInput{ItemCode: "A", BatchCode: "L1", Quantity: decimal.Zero}, domain.ErrInvalidQuantity},
		{"cantidad negativa", ledger.EntryInput{ItemCode: "A", BatchCode: "L1", Quantity: dec(-3)}, domain.ErrInvalidQuantity},
		{"lote vacío", ledger.EntryInput{ItemCode: "A", BatchCode: "  ", Quantity: dec(3)}, domain.ErrInvalidBatch},
		{"ítem vacío", ledger.EntryInput{ItemCode: "", BatchCode: "L1", Quantity: dec(3)}, domain.ErrInvalidInput},
		{"lote duplicado", ledger.EntryInput{ItemCode: "A", BatchCode: "DUP", Quantity: dec(3)}, domain.ErrDuplicateBatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger()
			entry(t, l, "A", "DUP", 5, time.Time{}, t0)
			_, err := l.RecordEntry(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, l.AvailableQuantity("A").Equal(dec(5)), "un error no altera el ledger")
		})
	}
}

func TestRecordEntry_MismoLoteEnOtroItemEsValido(t *testing.T) {
	l := newLedger()
	entry(t, l, "A", "L1", 5, time.Time{}, t0)
	entry(t, l, "B", "L1", 7, time.Time{}, t0)
	assert.True(t, l.AvailableQuantity("B").Equal(dec(7)))
}

// ──────────────────────────────────────────────────────────────────────────────
// recordExit (FEFO)
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordExit_ConsumeFEFO(t *testing.T) {
	l := newLedger()
	entry(t, l, "SF-500", "TARDE", 10, day(2026, 6, 1), t0)
	entry(t, l, "SF-500", "PRONTO", 4, day(2025, 12, 1), t0.Add(time.Hour))
	entry(t, l, "SF-500", "MEDIO", 6, day(2026, 1, 15), t0)

	mov, err := l.RecordExit(ledger.ExitInput{ItemCode: "SF-500", Quantity: dec(7), At: t0.Add(48 * time.Hour)})
	require.NoError(t, err)

	require.Len(t, mov.Allocations, 2)
	assert.Equal(t, "PRONTO", mov.Allocations[0].BatchCode)
	assert.True(t, mov.Allocations[0].Quantity.Equal(dec(4)))
	assert.Equal(t, "MEDIO", mov.Allocations[1].BatchCode)
	assert.True(t, mov.Allocations[1].Quantity.Equal(dec(3)))
	assert.True(t, mov.Quantity.Equal(dec(-7)), "la salida se registra con signo negativo")

	assert.Equal(t, map[string]string{"PRONTO": "0", "MEDIO": "3", "TARDE": "10"}, quantities(l, "SF-500"))
}

func TestRecordExit_EmpateDeValidezPorRecepcion(t *testing.T) {
	l := newLedger()
	exp := day(2026, 2, 1)
	entry(t, l, "GAZE", "NUEVO", 5, exp, t0.Add(24*time.Hour))
	entry(t, l, "GAZE", "VIEJO", 5, exp, t0)

	mov, err := l.RecordExit(ledger.ExitInput{ItemCode: "GAZE", Quantity: dec(2)})
	require.NoError(t, err)
	require.Len(t, mov.Allocations, 1)
	assert.Equal(t, "VIEJO", mov.Allocations[0].BatchCode)
}

func TestRecordExit_SinValidezSeConsumeAlFinal(t *testing.T) {
	l := newLedger()
	entry(t, l, "LUVA", "SEMVAL", 5, time.Time{}, t0.Add(-time.Hour))
	entry(t, l, "LUVA", "COMVAL", 5, day(2030, 1, 1), t0)

	mov, err := l.RecordExit(ledger.ExitInput{ItemCode: "LUVA", Quantity: dec(6)})
	require.NoError(t, err)
	assert.Equal(t, "COMVAL", mov.Allocations[0].BatchCode)
	assert.Equal(t, "SEMVAL", mov.Allocations[1].BatchCode)
}

func TestRecordExit_StockInsuficienteNoAlteraNada(t *testing.T) {
	l := newLedger()
	entry(t, l, "A", "L1", 3, day(2026, 1, 1), t0)
	entry(t, l, "A", "L2", 4, day(2026, 2, 1), t0)
	before := quantities(l, "A")
	movsBefore := len(slices.Collect(l.Movements()))

	_, err := l.RecordExit(ledger.ExitInput{ItemCode: "A", Quantity: dec(8)})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, before, quantities(l, "A"))
	assert.Len(t, slices.Collect(l.Movements()), movsBefore)
	assert.Empty(t, l.Changes().UpdatedBatches)
}

func TestRecordExit_ItemDesconocido(t *testing.T) {
	l := newLedger()
	_, err := l.RecordExit(ledger.ExitInput{ItemCode: "NADA", Quantity: dec(1)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRecordExit_CantidadInvalida(t *testing.T) {
	l := newLedger()
	entry(t, l, "A", "L1", 3, time.Time{}, t0)
	_, err := l.RecordExit(ledger.ExitInput{ItemCode: "A", Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestRecordExit_LoteFijado(t *testing.T) {
	l := newLedger()
	entry(t, l, "A", "L1", 3, day(2026, 1, 1), t0)
	entry(t, l, "A", "L2", 4, day(2026, 2, 1), t0)

	mov, err := l.RecordExit(ledger.ExitInput{ItemCode: "A", BatchCode: "L2", Quantity: dec(2)})
	require.NoError(t, err)
	assert.Equal(t, "L2", mov.Allocations[0].BatchCode)
	assert.Equal(t, map[string]string{"L1": "3", "L2": "2"}, quantities(l, "A"))

	_, err = l.RecordExit(ledger.ExitInput{ItemCode: "A", BatchCode: "L2", Quantity: dec(3)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "el lote fijado no toma de otros lotes")

	_, err = l.RecordExit(ledger.ExitInput{ItemCode: "A", BatchCode: "L9", Quantity: dec(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidBatch)
}

// FEFO: después de cada salida ningún lote posterior fue tocado mientras uno anterior tiene saldo.
func TestRecordExit_PropiedadFEFO(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		l := newLedger()
		n := 2 + rng.Intn(6)
		initial := map[string]decimal.Decimal{}
		for i := 0; i < n; i++ {
			code := fmt.Sprintf("L%02d", i)
			qty := int64(1 + rng.Intn(20))
			entry(t, l, "X", code, qty, day(2026, time.Month(1+rng.Intn(12)), 1+rng.Intn(28)), t0.Add(time.Duration(i)*time.Minute))
			initial[code] = dec(qty)
		}
		req := dec(int64(1 + rng.Intn(40)))
		_, err := l.RecordExit(ledger.ExitInput{ItemCode: "X", Quantity: req})
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			continue
		}
		seenRemaining := false
		for b := range l.BatchesFor("X") {
			touched := !b.Quantity.Equal(initial[b.Code])
			if touched {
				assert.False(t, seenRemaining, "ronda %d: lote %s consumido antes que uno de validez anterior", round, b.Code)
			}
			if b.Quantity.IsPositive() {
				seenRemaining = true
			}
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación
// ──────────────────────────────────────────────────────────────────────────────

func TestConservacion_SecuenciasAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := newLedger()
	items := []string{"A", "B", "C"}
	for i := 0; i < 400; i++ {
		item := items[rng.Intn(len(items))]
		if rng.Intn(3) == 0 {
			_, err := l.RecordEntry(ledger.EntryInput{
				ItemCode: item, BatchCode: fmt.Sprintf("L%d", i), Quantity: dec(int64(1 + rng.Intn(50))),
				ExpiresOn: day(2026, time.Month(1+rng.Intn(12)), 1),
			})
			require.NoError(t, err)
			continue
		}
		_, err := l.RecordExit(ledger.ExitInput{ItemCode: item, Quantity: dec(int64(1 + rng.Intn(30)))})
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}

	for _, item := range items {
		entered, exited, available := l.Totals(item)
		assert.True(t, entered.Sub(exited).Equal(available), "ítem %s: %s - %s != %s", item, entered, exited, available)

		sum := decimal.Zero
		for b := range l.BatchesFor(item) {
			assert.False(t, b.Quantity.IsNegative())
			sum = sum.Add(b.Quantity)
		}
		assert.True(t, sum.Equal(available))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Secuencias, cambios y carga
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchesFor_ReiniciableYOrdenada(t *testing.T) {
	l := newLedger()
	entry(t, l, "A", "L2", 1, day(2026, 2, 1), t0)
	entry(t, l, "A", "L1", 1, day(2026, 1, 1), t0)

	seq := l.BatchesFor("A")
	var first, second []string
	for b := range seq {
		first = append(first, b.Code)
	}
	for b := range seq {
		second = append(second, b.Code)
	}
	assert.Equal(t, []string{"L1", "L2"}, first)
	assert.Equal(t, first, second)

	for b := range seq {
		b.Quantity = dec(999)
		_ = b
		break
	}
	assert.True(t, l.AvailableQuantity("A").Equal(dec(2)), "las copias no alteran el ledger")
}

func TestChanges_YLoad(t *testing.T) {
	l := newLedger()
	entry(t, l, "A", "L1", 10, day(2026, 1, 1), t0)
	l.MarkCommitted()

	_, err := l.RecordExit(ledger.ExitInput{ItemCode: "A", Quantity: dec(4)})
	require.NoError(t, err)
	entry(t, l, "B", "X1", 2, time.Time{}, t0)

	ch := l.Changes()
	require.Len(t, ch.Items, 1)
	assert.Equal(t, "B", ch.Items[0].Code)
	require.Len(t, ch.NewBatches, 1)
	assert.Equal(t, "X1", ch.NewBatches[0].Code)
	require.Len(t, ch.UpdatedBatches, 1)
	assert.True(t, ch.UpdatedBatches[0].Quantity.Equal(dec(6)))
	assert.Len(t, ch.Movements, 2)

	reloaded := newLedger()
	require.NoError(t, reloaded.Load(l.Items(), slices.Collect(l.AllBatches()), slices.Collect(l.Movements())))
	assert.True(t, reloaded.Changes().Empty())
	assert.True(t, reloaded.AvailableQuantity("A").Equal(dec(6)))
	entered, exited, _ := reloaded.Totals("A")
	assert.True(t, entered.Equal(dec(10)))
	assert.True(t, exited.Equal(dec(4)))
}

func TestLoad_RechazaLotesInvalidos(t *testing.T) {
	l := newLedger()
	err := l.Load(nil, []entity.Batch{{ID: "1", ItemCode: "A", Code: "L1", Quantity: dec(-1)}}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	l = newLedger()
	err = l.Load(nil, []entity.Batch{
		{ID: "1", ItemCode: "A", Code: "L1", Quantity: dec(1)},
		{ID: "2", ItemCode: "A", Code: "L1", Quantity: dec(1)},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrDuplicateBatch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems y política de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureItem_PoliticaDeCompra(t *testing.T) {
	l := newLedger()

	entry(t, l, "A", "L1", 10, time.Time{}, t0)
	it, ok := l.Item("A")
	require.True(t, ok)
	assert.True(t, it.OrderMultiple.Equal(dec(1)), "ítem creado por una entrada compra de a una unidad")
	assert.True(t, it.MinOrder.Equal(dec(1)))

	require.NoError(t, l.EnsureItem(entity.Item{Code: "A", OrderMultiple: dec(12)}))
	it, _ = l.Item("A")
	assert.True(t, it.OrderMultiple.Equal(dec(12)))
	assert.True(t, it.MinOrder.Equal(dec(1)), "lote_min no informado se conserva")

	require.NoError(t, l.EnsureItem(entity.Item{Code: "A", Name: "Luvas"}))
	it, _ = l.Item("A")
	assert.True(t, it.OrderMultiple.Equal(dec(12)), "cero no pisa la política vigente")
	assert.Equal(t, "Luvas", it.Name)

	err := l.EnsureItem(entity.Item{Code: "A", MinOrder: dec(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ch := l.Changes()
	require.Len(t, ch.Items, 1)
	assert.True(t, ch.Items[0].OrderMultiple.Equal(dec(12)))
}
