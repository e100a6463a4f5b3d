// Package report produce los reportes operativos sobre un snapshot del ledger:
// ruptura, vencimentos, top-consumo, reposição y el tablero de verificación.
package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/demand"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/inventory"
	"github.com/jhoicas/estoque-clinica/internal/domain/ledger"
)

// DefaultDemandWindowDays ventana de demanda (días hábiles) si no se configura otra.
const DefaultDemandWindowDays = 90

// Config opciones del motor de reportes.
type Config struct {
	DemandWindowDays int
	Now              func() time.Time
}

// Engine calcula reportes sobre un ledger ya cargado y los parámetros vigentes.
type Engine struct {
	ledger *ledger.Ledger
	params entity.GlobalParameters
	est    *demand.Estimator
	window int
	now    func() time.Time
}

// NewEngine construye el motor.
func NewEngine(l *ledger.Ledger, p entity.GlobalParameters, cfg Config) *Engine {
	e := &Engine{
		ledger: l,
		params: p,
		est:    demand.NewEstimator(l),
		window: cfg.DemandWindowDays,
		now:    cfg.Now,
	}
	if e.window <= 0 {
		e.window = DefaultDemandWindowDays
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Params parámetros con los que se evalúa.
func (e *Engine) Params() entity.GlobalParameters { return e.params }

// RupturaRow ítem con riesgo de quiebre dentro del horizonte.
type RupturaRow struct {
	ItemCode      string          `json:"codigo"`
	ItemName      string          `json:"nome,omitempty"`
	Unit          string          `json:"unidade,omitempty"`
	Available     decimal.Decimal `json:"estoque_atual"`
	DailyDemand   float64         `json:"mu_d"`
	CoverageDays  float64         `json:"cobertura_dias"`
	DepletionDate time.Time       `json:"data_ruptura"`
}

// Ruptura lista los ítems cuya cobertura (disponible / demanda diaria, en días hábiles)
// es menor o igual al horizonte. Ítems sin demanda no se agotan y no aparecen.
func (e *Engine) Ruptura(horizonDays int) ([]RupturaRow, error) {
	if err := validateHorizon(horizonDays); err != nil {
		return nil, err
	}
	today := demand.BusinessDayOf(e.now())
	out := []RupturaRow{}
	for _, it := range e.ledger.Items() {
		st, err := e.stats(it.Code)
		if err != nil {
			return nil, err
		}
		if st.Mean <= 0 {
			continue
		}
		available := e.ledger.AvailableQuantity(it.Code)
		coverage := available.InexactFloat64() / st.Mean
		if coverage > float64(horizonDays) {
			continue
		}
		out = append(out, RupturaRow{
			ItemCode:      it.Code,
			ItemName:      it.Name,
			Unit:          it.Unit,
			Available:     available,
			DailyDemand:   st.Mean,
			CoverageDays:  coverage,
			DepletionDate: demand.AddBusinessDays(today, int(math.Floor(coverage))),
		})
	}
	slices.SortFunc(out, func(a, b RupturaRow) int {
		if c := cmp.Compare(a.CoverageDays, b.CoverageDays); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemCode, b.ItemCode)
	})
	return out, nil
}

// VencimentosOptions filtros del reporte de vencimientos.
type VencimentosOptions struct {
	WindowDays     int
	PerBatch       bool
	IncludeExpired bool // incluye lotes ya vencidos con saldo
}

// ExpiringBatch lote con saldo que vence dentro de la ventana.
type ExpiringBatch struct {
	ItemCode     string          `json:"codigo"`
	ItemName     string          `json:"nome,omitempty"`
	BatchCode    string          `json:"lote"`
	Quantity     decimal.Decimal `json:"quantidade"`
	ExpiresOn    time.Time       `json:"validade"`
	DaysToExpiry int             `json:"dias_para_vencer"`
	Expired      bool            `json:"vencido"`
}

// ExpiringItem agregado por ítem de los lotes que vencen en la ventana.
type ExpiringItem struct {
	ItemCode       string          `json:"codigo"`
	ItemName       string          `json:"nome,omitempty"`
	Quantity       decimal.Decimal `json:"quantidade"`
	Batches        int             `json:"lotes"`
	EarliestExpiry time.Time       `json:"primeira_validade"`
	DaysToExpiry   int             `json:"dias_para_vencer"`
}

// Vencimentos resultado: Batches con detalle por lote o Items agregado por ítem.
type Vencimentos struct {
	From    time.Time       `json:"desde"`
	To      time.Time       `json:"ate"`
	Batches []ExpiringBatch `json:"lotes,omitempty"`
	Items   []ExpiringItem  `json:"itens,omitempty"`
}

// Vencimentos lista lotes con saldo y validade en [hoy, hoy+D] (días corridos).
func (e *Engine) Vencimentos(opts VencimentosOptions) (*Vencimentos, error) {
	if err := validateWindow(opts.WindowDays); err != nil {
		return nil, err
	}
	today := entity.DateOf(e.now())
	limit := today.AddDate(0, 0, opts.WindowDays)

	var batches []ExpiringBatch
	for b := range e.ledger.AllBatches() {
		if !b.Quantity.IsPositive() || !b.HasExpiry() || b.ExpiresOn.After(limit) {
			continue
		}
		expired := b.ExpiredAt(today)
		if expired && !opts.IncludeExpired {
			continue
		}
		it, _ := e.ledger.Item(b.ItemCode)
		batches = append(batches, ExpiringBatch{
			ItemCode:     b.ItemCode,
			ItemName:     it.Name,
			BatchCode:    b.Code,
			Quantity:     b.Quantity,
			ExpiresOn:    b.ExpiresOn,
			DaysToExpiry: daysBetween(today, b.ExpiresOn),
			Expired:      expired,
		})
	}
	slices.SortFunc(batches, func(a, b ExpiringBatch) int {
		if c := a.ExpiresOn.Compare(b.ExpiresOn); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ItemCode, b.ItemCode); c != 0 {
			return c
		}
		return cmp.Compare(a.BatchCode, b.BatchCode)
	})

	res := &Vencimentos{From: today, To: limit}
	if opts.PerBatch {
		res.Batches = batches
		if res.Batches == nil {
			res.Batches = []ExpiringBatch{}
		}
		return res, nil
	}

	// batches ya viene por validade: el primer lote de cada ítem es el más próximo a vencer.
	byItem := make(map[string]int)
	res.Items = []ExpiringItem{}
	for _, b := range batches {
		idx, ok := byItem[b.ItemCode]
		if !ok {
			byItem[b.ItemCode] = len(res.Items)
			res.Items = append(res.Items, ExpiringItem{
				ItemCode:       b.ItemCode,
				ItemName:       b.ItemName,
				Quantity:       b.Quantity,
				Batches:        1,
				EarliestExpiry: b.ExpiresOn,
				DaysToExpiry:   b.DaysToExpiry,
			})
			continue
		}
		agg := &res.Items[idx]
		agg.Quantity = agg.Quantity.Add(b.Quantity)
		agg.Batches++
	}
	return res, nil
}

// ConsumptionRank posición en el ranking de consumo.
type ConsumptionRank struct {
	Rank     int             `json:"posicao"`
	ItemCode string          `json:"codigo"`
	ItemName string          `json:"nome,omitempty"`
	Unit     string          `json:"unidade,omitempty"`
	Quantity decimal.Decimal `json:"consumo"`
}

// TopConsumo ranking por consumo (salidas sin descartes) en [from, to] meses inclusive.
// Empates por código ascendente; topN <= 0 devuelve todos.
func (e *Engine) TopConsumo(from, to entity.YearMonth, topN int) ([]ConsumptionRank, error) {
	if err := validateMonths(from, to); err != nil {
		return nil, err
	}
	out := []ConsumptionRank{}
	for _, it := range e.ledger.Items() {
		periods, err := e.est.MonthlyDemand(it.Code, from, to)
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for _, p := range periods {
			total = total.Add(p.Quantity)
		}
		if !total.IsPositive() {
			continue
		}
		out = append(out, ConsumptionRank{ItemCode: it.Code, ItemName: it.Name, Unit: it.Unit, Quantity: total})
	}
	slices.SortFunc(out, func(a, b ConsumptionRank) int {
		if c := b.Quantity.Cmp(a.Quantity); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemCode, b.ItemCode)
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// Reposicao ítems con disponible < ROP, por faltante descendente y código.
func (e *Engine) Reposicao() ([]inventory.Suggestion, error) {
	all, err := e.evaluateAll()
	if err != nil {
		return nil, err
	}
	out := []inventory.Suggestion{}
	for _, s := range all {
		if s.Flagged {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b inventory.Suggestion) int {
		if c := b.Shortfall.Cmp(a.Shortfall); c != 0 {
			return c
		}
		return cmp.Compare(a.ItemCode, b.ItemCode)
	})
	return out, nil
}

// Verificar tablero completo por ítem: criticidad y luego menor cobertura.
func (e *Engine) Verificar() ([]inventory.Suggestion, error) {
	out, err := e.evaluateAll()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(out, func(a, b inventory.Suggestion) int {
		if c := cmp.Compare(a.Status.Priority(), b.Status.Priority()); c != 0 {
			return c
		}
		return cmp.Compare(coverageKey(a), coverageKey(b))
	})
	return out, nil
}

func (e *Engine) evaluateAll() ([]inventory.Suggestion, error) {
	if err := e.params.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidParameters)
	}
	out := []inventory.Suggestion{}
	for _, it := range e.ledger.Items() {
		available := e.ledger.AvailableQuantity(it.Code)
		st, err := e.stats(it.Code)
		if err != nil {
			return nil, err
		}
		if st.Mean <= 0 {
			out = append(out, inventory.Unverified(it, available))
			continue
		}
		ss, err := inventory.Calculate(e.params, st.Mean, st.StdDev)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", it.Code, err)
		}
		out = append(out, inventory.Evaluate(it, available, ss))
	}
	return out, nil
}

func (e *Engine) stats(itemCode string) (demand.Stats, error) {
	return e.est.MeanAndStdDev(itemCode, demand.Window{AsOf: e.now(), Days: e.window})
}

func coverageKey(s inventory.Suggestion) float64 {
	if s.CoverageDays == nil {
		return math.Inf(1)
	}
	return *s.CoverageDays
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(entity.DateOf(to).Sub(entity.DateOf(from)).Hours() / 24))
}
