package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeEntry = "ENTRY" // entrada: crea un lote
	MovementTypeExit  = "EXIT"  // salida: consume uno o más lotes (FEFO)
)

// Allocation par (lote, cantidad) afectado por un movimiento. Cantidad siempre positiva.
type Allocation struct {
	BatchID   string
	BatchCode string
	Quantity  decimal.Decimal
}

// Movement registro inmutable de entrada o salida. Append-only.
type Movement struct {
	ID          string
	Type        string
	ItemCode    string
	Quantity    decimal.Decimal // positivo entrada, negativo salida
	At          time.Time
	Discard     bool // salida por descarte (no cuenta como consumo)
	Note        string
	Allocations []Allocation
	CreatedAt   time.Time
}

// IsExit indica si el movimiento es una salida.
func (m Movement) IsExit() bool { return m.Type == MovementTypeExit }

// IsConsumption indica si la salida cuenta como demanda (excluye descartes).
func (m Movement) IsConsumption() bool { return m.IsExit() && !m.Discard }

// AbsQuantity cantidad movida sin signo.
func (m Movement) AbsQuantity() decimal.Decimal { return m.Quantity.Abs() }
