package dto

import (
	"time"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// ParamsDTO parámetros globales vigentes o de una versión del historial.
type ParamsDTO struct {
	ServiceLevel  float64    `json:"nivel_servico"`
	LeadTimeMean  float64    `json:"mu_t_dias_uteis"`
	LeadTimeStdev float64    `json:"sigma_t_dias_uteis"`
	Version       int        `json:"versao"`
	UpdatedAt     *time.Time `json:"atualizado_em,omitempty"`
	UpdatedBy     string     `json:"atualizado_por,omitempty"`
}

// ParamsFromEntity mapea los parámetros. La versión 0 (defaults) no tiene fecha.
func ParamsFromEntity(p entity.GlobalParameters) ParamsDTO {
	out := ParamsDTO{
		ServiceLevel:  p.ServiceLevel,
		LeadTimeMean:  p.LeadTimeMean,
		LeadTimeStdev: p.LeadTimeStdev,
		Version:       p.Version,
		UpdatedBy:     p.UpdatedBy,
	}
	if !p.UpdatedAt.IsZero() {
		at := p.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

// UpdateParamsRequest body para PUT /api/params. Campos ausentes conservan su valor.
type UpdateParamsRequest struct {
	ServiceLevel  *float64 `json:"nivel_servico,omitempty"`
	LeadTimeMean  *float64 `json:"mu_t_dias_uteis,omitempty"`
	LeadTimeStdev *float64 `json:"sigma_t_dias_uteis,omitempty"`
}
