package ledger

import (
	"cmp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// compareFEFO orden de consumo: validez ascendente (sin validez al final),
// luego recepción ascendente y código de lote como desempate estable.
func compareFEFO(a, b *entity.Batch) int {
	switch {
	case a.HasExpiry() && !b.HasExpiry():
		return -1
	case !a.HasExpiry() && b.HasExpiry():
		return 1
	}
	if c := a.ExpiresOn.Compare(b.ExpiresOn); c != 0 {
		return c
	}
	if c := a.ReceivedAt.Compare(b.ReceivedAt); c != 0 {
		return c
	}
	return cmp.Compare(strings.ToUpper(a.Code), strings.ToUpper(b.Code))
}

type allocation struct {
	index int
	qty   decimal.Decimal
	batch *entity.Batch
}

// allocateFEFO reparte qty sobre batches (ya ordenados FEFO) sin mutarlos.
// El llamador garantiza que la suma disponible cubre qty.
func allocateFEFO(batches []*entity.Batch, qty decimal.Decimal) []allocation {
	var out []allocation
	remaining := qty
	for i, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		if !b.Quantity.IsPositive() {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		out = append(out, allocation{index: i, qty: take})
		remaining = remaining.Sub(take)
	}
	return out
}
