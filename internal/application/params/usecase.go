// Package params gestiona los parámetros globales del cálculo de reposición (NS, MU, ST).
package params

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/estoque-clinica/internal/domain"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
	"github.com/jhoicas/estoque-clinica/pkg/logger"
)

// Claves de los parámetros (mismos nombres que la configuración y la CLI).
const (
	KeyServiceLevel  = "nivel_servico"
	KeyLeadTimeMean  = "mu_t_dias_uteis"
	KeyLeadTimeStdev = "sigma_t_dias_uteis"
)

// UseCase lectura y actualización versionada de parámetros globales.
type UseCase struct {
	repo     repository.ParamsRepository
	defaults entity.GlobalParameters
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso. defaults se usa mientras no haya versiones guardadas.
func NewUseCase(repo repository.ParamsRepository, defaults entity.GlobalParameters, log *logger.Logger) *UseCase {
	return &UseCase{repo: repo, defaults: defaults, log: log.Component("params"), now: time.Now}
}

// UpdateRequest actualización parcial: los campos nil conservan el valor vigente.
type UpdateRequest struct {
	ServiceLevel  *float64
	LeadTimeMean  *float64
	LeadTimeStdev *float64
	UpdatedBy     string
}

// Current devuelve los parámetros vigentes (o los de configuración si no hay versiones).
func (uc *UseCase) Current(ctx context.Context) (entity.GlobalParameters, error) {
	p, err := uc.repo.Current(ctx)
	if err != nil {
		return entity.GlobalParameters{}, fmt.Errorf("leer parámetros: %w", err)
	}
	if p == nil {
		return uc.defaults, nil
	}
	return *p, nil
}

// Update valida y guarda una versión nueva.
func (uc *UseCase) Update(ctx context.Context, req UpdateRequest) (entity.GlobalParameters, error) {
	p, err := uc.Current(ctx)
	if err != nil {
		return entity.GlobalParameters{}, err
	}
	if req.ServiceLevel != nil {
		p.ServiceLevel = *req.ServiceLevel
	}
	if req.LeadTimeMean != nil {
		p.LeadTimeMean = *req.LeadTimeMean
	}
	if req.LeadTimeStdev != nil {
		p.LeadTimeStdev = *req.LeadTimeStdev
	}
	if err := p.Validate(); err != nil {
		return entity.GlobalParameters{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidParameters)
	}
	p.UpdatedAt = uc.now()
	p.UpdatedBy = req.UpdatedBy
	if err := uc.repo.Save(ctx, &p); err != nil {
		return entity.GlobalParameters{}, fmt.Errorf("guardar parámetros: %w", err)
	}
	uc.log.Info().
		Int("version", p.Version).
		Float64("ns", p.ServiceLevel).
		Float64("mu_t", p.LeadTimeMean).
		Float64("sigma_t", p.LeadTimeStdev).
		Str("by", p.UpdatedBy).
		Msg("parámetros actualizados")
	return p, nil
}

// Get valor de un parámetro por clave.
func (uc *UseCase) Get(ctx context.Context, key string) (float64, error) {
	p, err := uc.Current(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := Values(p)[normalizeKey(key)]
	if !ok {
		return 0, fmt.Errorf("parámetro %q desconocido (%s): %w", key, strings.Join(Keys(), ", "), domain.ErrInvalidInput)
	}
	return v, nil
}

// Set actualiza un único parámetro por clave.
func (uc *UseCase) Set(ctx context.Context, key string, value float64, by string) (entity.GlobalParameters, error) {
	req := UpdateRequest{UpdatedBy: by}
	switch normalizeKey(key) {
	case KeyServiceLevel:
		req.ServiceLevel = &value
	case KeyLeadTimeMean:
		req.LeadTimeMean = &value
	case KeyLeadTimeStdev:
		req.LeadTimeStdev = &value
	default:
		return entity.GlobalParameters{}, fmt.Errorf("parámetro %q desconocido (%s): %w", key, strings.Join(Keys(), ", "), domain.ErrInvalidInput)
	}
	return uc.Update(ctx, req)
}

// History versiones guardadas, de la más reciente a la más antigua.
func (uc *UseCase) History(ctx context.Context, limit int) ([]entity.GlobalParameters, error) {
	list, err := uc.repo.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("historial de parámetros: %w", err)
	}
	return list, nil
}

// Values mapa clave → valor de los parámetros.
func Values(p entity.GlobalParameters) map[string]float64 {
	return map[string]float64{
		KeyServiceLevel:  p.ServiceLevel,
		KeyLeadTimeMean:  p.LeadTimeMean,
		KeyLeadTimeStdev: p.LeadTimeStdev,
	}
}

// Keys claves válidas ordenadas.
func Keys() []string {
	keys := []string{KeyServiceLevel, KeyLeadTimeMean, KeyLeadTimeStdev}
	sort.Strings(keys)
	return keys
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), "-", "_")
}
