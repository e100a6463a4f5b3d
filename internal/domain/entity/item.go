package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un insumo de la clínica (una sola unidad de medida por ítem).
// OrderMultiple y MinOrder son la política de compra (lote_mult / lote_min); un ítem nuevo
// nace con ambos en 1 para que la sugerencia de compra sea en unidades enteras.
type Item struct {
	Code          string
	Name          string
	Category      string
	Unit          string // unidad de medida (FR, AMP, ML, UN...)
	OrderMultiple decimal.Decimal
	MinOrder      decimal.Decimal
	CreatedAt     time.Time
}

// DefaultOrderUnit lote mínimo y múltiplo de compra de un ítem creado sin política explícita.
var DefaultOrderUnit = decimal.NewFromInt(1)

// WithOrderDefaults completa con DefaultOrderUnit la política de compra no informada (cero).
func (it Item) WithOrderDefaults() Item {
	if !it.OrderMultiple.IsPositive() {
		it.OrderMultiple = DefaultOrderUnit
	}
	if !it.MinOrder.IsPositive() {
		it.MinOrder = DefaultOrderUnit
	}
	return it
}
