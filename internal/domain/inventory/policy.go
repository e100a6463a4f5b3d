package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// Status clasificación del ítem frente a SS y ROP.
type Status string

const (
	StatusCritical Status = "CRITICO"   // disponible <= SS
	StatusReorder  Status = "REPOR"     // disponible <= ROP
	StatusOK       Status = "OK"        // disponible > ROP
	StatusVerify   Status = "VERIFICAR" // sin historial de demanda
)

// Priority orden de urgencia para listados (menor = más urgente).
func (s Status) Priority() int {
	switch s {
	case StatusCritical:
		return 0
	case StatusReorder:
		return 1
	case StatusOK:
		return 2
	default:
		return 3
	}
}

// Suggestion evaluación de reposición de un ítem.
type Suggestion struct {
	ItemCode     string          `json:"codigo"`
	ItemName     string          `json:"nome,omitempty"`
	Unit         string          `json:"unidade,omitempty"`
	Available    decimal.Decimal `json:"estoque_atual"`
	Shortfall    decimal.Decimal `json:"necessidade"`
	SuggestedQty decimal.Decimal `json:"q_sugerida"`
	CoverageDays *float64        `json:"cobertura_dias"`
	Flagged      bool            `json:"repor"`
	Status       Status          `json:"status"`
	SafetyStock
}

// Evaluate compara el disponible con el ROP. El faltante se redondea hacia arriba al
// múltiplo de compra del ítem y luego se eleva al mínimo de compra.
func Evaluate(item entity.Item, available decimal.Decimal, ss SafetyStock) Suggestion {
	rop := decimal.NewFromFloat(ss.ReorderPoint)
	shortfall := decimal.Max(decimal.Zero, rop.Sub(available))

	qty := RoundUpToMultiple(shortfall, item.OrderMultiple)
	if qty.IsPositive() && item.MinOrder.IsPositive() {
		qty = decimal.Max(qty, item.MinOrder)
	}

	s := Suggestion{
		ItemCode:     item.Code,
		ItemName:     item.Name,
		Unit:         item.Unit,
		Available:    available,
		Shortfall:    shortfall,
		SuggestedQty: qty,
		Flagged:      available.LessThan(rop),
		Status:       classify(available, decimal.NewFromFloat(ss.SafetyStock), rop),
		SafetyStock:  ss,
	}
	if ss.DemandMean > 0 {
		c := available.InexactFloat64() / ss.DemandMean
		s.CoverageDays = &c
	}
	return s
}

// Unverified ítem sin historial de demanda: no hay base para SS/ROP.
func Unverified(item entity.Item, available decimal.Decimal) Suggestion {
	return Suggestion{
		ItemCode:     item.Code,
		ItemName:     item.Name,
		Unit:         item.Unit,
		Available:    available,
		Shortfall:    decimal.Zero,
		SuggestedQty: decimal.Zero,
		Status:       StatusVerify,
	}
}

func classify(available, ss, rop decimal.Decimal) Status {
	switch {
	case available.LessThanOrEqual(ss):
		return StatusCritical
	case available.LessThanOrEqual(rop):
		return StatusReorder
	default:
		return StatusOK
	}
}

// RoundUpToMultiple ceil(x/mult)·mult. Con mult <= 0 devuelve x sin cambios.
func RoundUpToMultiple(x, mult decimal.Decimal) decimal.Decimal {
	if !mult.IsPositive() {
		return x
	}
	return x.Div(mult).Ceil().Mul(mult)
}
