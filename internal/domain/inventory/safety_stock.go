// Package inventory contiene los servicios de dominio del cálculo de reposición:
// estoque de segurança (SS), ponto de pedido (ROP) y la política de sugerencia de compra.
package inventory

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// SafetyStock resultado del cálculo SS/ROP para un ítem. Todas las magnitudes en
// unidades del ítem y días hábiles.
type SafetyStock struct {
	DemandMean     float64 `json:"mu_d"`
	DemandStdDev   float64 `json:"sigma_d"`
	Z              float64 `json:"z"`
	LeadTimeDemand float64 `json:"mu_dl"`
	SigmaLeadTime  float64 `json:"sigma_dl"`
	SafetyStock    float64 `json:"ss"`
	ReorderPoint   float64 `json:"rop"`
}

// ServiceLevelZ devuelve z = Φ⁻¹(ns) para un nivel de servicio en (0,1).
func ServiceLevelZ(ns float64) (float64, error) {
	if math.IsNaN(ns) || ns <= 0 || ns >= 1 {
		return 0, fmt.Errorf("nivel de servicio %v fuera de (0,1): %w", ns, domain.ErrInvalidParameters)
	}
	return distuv.UnitNormal.Quantile(ns), nil
}

// Calculate aplica el modelo de demanda y lead time inciertos:
//
//	σDL = sqrt(MU·σd² + d̄²·ST²)
//	SS  = z·σDL
//	ROP = d̄·MU + SS
func Calculate(p entity.GlobalParameters, meanDemand, sdDemand float64) (SafetyStock, error) {
	if err := p.Validate(); err != nil {
		return SafetyStock{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidParameters)
	}
	if math.IsNaN(meanDemand) || meanDemand < 0 || math.IsNaN(sdDemand) || sdDemand < 0 {
		return SafetyStock{}, fmt.Errorf("demanda media %v / desvío %v: %w", meanDemand, sdDemand, domain.ErrInvalidParameters)
	}
	z, err := ServiceLevelZ(p.ServiceLevel)
	if err != nil {
		return SafetyStock{}, err
	}

	sigmaDL := math.Sqrt(p.LeadTimeMean*sdDemand*sdDemand + meanDemand*meanDemand*p.LeadTimeStdev*p.LeadTimeStdev)
	ss := z * sigmaDL
	muDL := meanDemand * p.LeadTimeMean
	return SafetyStock{
		DemandMean:     meanDemand,
		DemandStdDev:   sdDemand,
		Z:              z,
		LeadTimeDemand: muDL,
		SigmaLeadTime:  sigmaDL,
		SafetyStock:    ss,
		ReorderPoint:   muDL + ss,
	}, nil
}
