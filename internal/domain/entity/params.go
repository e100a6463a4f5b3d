package entity

import (
	"fmt"
	"math"
	"time"
)

// Valores por defecto de los parámetros globales.
const (
	DefaultServiceLevel  = 0.95
	DefaultLeadTimeMean  = 6.0 // días hábiles
	DefaultLeadTimeStdev = 1.0 // días hábiles
)

// GlobalParameters parámetros globales del cálculo de SS/ROP. Un único valor vigente,
// versionado por actualización para auditoría.
type GlobalParameters struct {
	ServiceLevel  float64 // NS, probabilidad en (0,1)
	LeadTimeMean  float64 // MU, días hábiles
	LeadTimeStdev float64 // ST, días hábiles
	Version       int
	UpdatedAt     time.Time
	UpdatedBy     string
}

// DefaultParameters devuelve los parámetros de fábrica (versión 0, nunca persistida).
func DefaultParameters() GlobalParameters {
	return GlobalParameters{
		ServiceLevel:  DefaultServiceLevel,
		LeadTimeMean:  DefaultLeadTimeMean,
		LeadTimeStdev: DefaultLeadTimeStdev,
	}
}

// Validate verifica 0<NS<1, MU>=0 y ST>=0.
func (p GlobalParameters) Validate() error {
	if math.IsNaN(p.ServiceLevel) || p.ServiceLevel <= 0 || p.ServiceLevel >= 1 {
		return fmt.Errorf("nivel de servicio %v fuera de (0,1)", p.ServiceLevel)
	}
	if math.IsNaN(p.LeadTimeMean) || p.LeadTimeMean < 0 {
		return fmt.Errorf("lead time medio %v negativo", p.LeadTimeMean)
	}
	if math.IsNaN(p.LeadTimeStdev) || p.LeadTimeStdev < 0 {
		return fmt.Errorf("desvío del lead time %v negativo", p.LeadTimeStdev)
	}
	return nil
}
