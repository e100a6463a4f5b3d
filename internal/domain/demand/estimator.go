// Package demand deriva estadísticas de consumo por ítem a partir del historial de salidas.
// Es una proyección de sólo lectura: se recalcula en cada consulta, sin caché.
package demand

import (
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// Source historial de movimientos por ítem (el Ledger lo implementa).
type Source interface {
	MovementsFor(itemCode string) iter.Seq[entity.Movement]
}

// Period consumo agregado de un período (día hábil o mes).
type Period struct {
	Start    time.Time       `json:"start"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Window ventana móvil de N días hábiles que termina en AsOf (inclusive).
type Window struct {
	AsOf time.Time
	Days int
}

// Stats media y desvío estándar muestral del consumo por día hábil.
// Degenerate = menos de dos períodos observados (desvío forzado a cero, no es error).
type Stats struct {
	Mean       float64   `json:"mean"`
	StdDev     float64   `json:"std_dev"`
	Observed   int       `json:"observed_periods"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Degenerate bool      `json:"degenerate"`
}

// Estimator calcula demanda mensual, diaria y sus estadísticas.
type Estimator struct {
	src Source
}

// NewEstimator construye el estimador sobre un historial.
func NewEstimator(src Source) *Estimator {
	return &Estimator{src: src}
}

// MonthlyDemand consumo por mes calendario en [from, to], inclusive y con meses sin consumo en cero.
func (e *Estimator) MonthlyDemand(itemCode string, from, to entity.YearMonth) ([]Period, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("demanda mensual %s..%s: %w", from, to, domain.ErrInvalidRange)
	}
	totals := make(map[entity.YearMonth]decimal.Decimal)
	for m := range e.src.MovementsFor(itemCode) {
		if !m.IsConsumption() || !entity.Contains(from, to, m.At) {
			continue
		}
		ym := entity.YearMonthOf(m.At)
		totals[ym] = totals[ym].Add(m.AbsQuantity())
	}
	var out []Period
	for ym := from; !to.Before(ym); ym = ym.Next() {
		out = append(out, Period{Start: ym.Start(), Quantity: totals[ym]})
	}
	return out, nil
}

// DailyDemand consumo por día hábil en [from, to]. El consumo de fin de semana se imputa al viernes anterior.
func (e *Estimator) DailyDemand(itemCode string, from, to time.Time) ([]Period, error) {
	from, to = entity.DateOf(from), entity.DateOf(to)
	if to.Before(from) {
		return nil, fmt.Errorf("demanda diaria %s..%s: %w", from.Format(time.DateOnly), to.Format(time.DateOnly), domain.ErrInvalidRange)
	}
	totals := e.dailyTotals(itemCode)
	var out []Period
	for d := NextBusinessDay(from); !d.After(to); d = AddBusinessDays(d, 1) {
		out = append(out, Period{Start: d, Quantity: totals[d]})
	}
	return out, nil
}

// MeanAndStdDev media y desvío muestral del consumo diario en la ventana. La serie
// comienza en el primer movimiento del ítem (si es posterior al inicio de la ventana)
// para no diluir la demanda de ítems recién incorporados.
func (e *Estimator) MeanAndStdDev(itemCode string, w Window) (Stats, error) {
	if w.Days <= 0 {
		return Stats{}, fmt.Errorf("ventana de %d días: %w", w.Days, domain.ErrInvalidRange)
	}
	end := BusinessDayOf(w.AsOf)
	start := AddBusinessDays(end, -(w.Days - 1))

	totals := make(map[time.Time]float64)
	var first time.Time
	for m := range e.src.MovementsFor(itemCode) {
		d := BusinessDayOf(m.At)
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if m.IsConsumption() && !d.Before(start) && !d.After(end) {
			totals[d] += m.AbsQuantity().InexactFloat64()
		}
	}

	st := Stats{From: start, To: end}
	if first.IsZero() || first.After(end) {
		st.Degenerate = true
		return st, nil
	}
	if first.After(start) {
		st.From = first
	}

	var series []float64
	for d := st.From; !d.After(end); d = AddBusinessDays(d, 1) {
		series = append(series, totals[d])
	}
	st.Observed = len(series)
	if st.Observed < 2 {
		st.Mean = stat.Mean(series, nil)
		st.Degenerate = true
		return st, nil
	}
	st.Mean, st.StdDev = stat.MeanStdDev(series, nil)
	return st, nil
}

func (e *Estimator) dailyTotals(itemCode string) map[time.Time]decimal.Decimal {
	totals := make(map[time.Time]decimal.Decimal)
	for m := range e.src.MovementsFor(itemCode) {
		if !m.IsConsumption() {
			continue
		}
		d := BusinessDayOf(m.At)
		totals[d] = totals[d].Add(m.AbsQuantity())
	}
	return totals
}
