package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote recibido de un ítem. Se crea con una entrada y sólo se
// drena con salidas; nunca se elimina (queda para auditoría y reporte de vencimientos).
type Batch struct {
	ID         string
	ItemCode   string
	Code       string          // código de lote del fabricante
	Quantity   decimal.Decimal // cantidad en mano, nunca negativa
	ExpiresOn  time.Time       // fecha de validez (sólo fecha); cero = sin vencimiento
	ReceivedAt time.Time
}

// HasExpiry indica si el lote tiene fecha de validez.
func (b Batch) HasExpiry() bool { return !b.ExpiresOn.IsZero() }

// ExpiredAt indica si el lote ya venció en la fecha dada (vence al final del día de validez).
func (b Batch) ExpiredAt(day time.Time) bool {
	if !b.HasExpiry() {
		return false
	}
	return DateOf(b.ExpiresOn).Before(DateOf(day))
}

// DateOf trunca un instante a la fecha (medianoche UTC) para comparar validez.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
