package report

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/inventory"
	"github.com/jhoicas/estoque-clinica/internal/domain/ledger"
)

// LedgerSource entrega un snapshot de sólo lectura del ledger.
type LedgerSource interface {
	Snapshot(ctx context.Context) (*ledger.Ledger, error)
}

// ParamsSource entrega los parámetros globales vigentes.
type ParamsSource interface {
	Current(ctx context.Context) (entity.GlobalParameters, error)
}

// Service carga snapshot y parámetros en cada consulta (sin caché) y delega en Engine.
type Service struct {
	ledger LedgerSource
	params ParamsSource
	cfg    Config
}

// NewService construye el servicio de reportes.
func NewService(l LedgerSource, p ParamsSource, cfg Config) *Service {
	return &Service{ledger: l, params: p, cfg: cfg}
}

// Engine construye un motor sobre el estado actual.
func (s *Service) Engine(ctx context.Context) (*Engine, error) {
	l, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.params.Current(ctx)
	if err != nil {
		return nil, err
	}
	return NewEngine(l, p, s.cfg), nil
}

// Ruptura ver Engine.Ruptura.
func (s *Service) Ruptura(ctx context.Context, horizonDays int) ([]RupturaRow, error) {
	if err := validateHorizon(horizonDays); err != nil {
		return nil, err
	}
	e, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	return e.Ruptura(horizonDays)
}

// Vencimentos ver Engine.Vencimentos.
func (s *Service) Vencimentos(ctx context.Context, opts VencimentosOptions) (*Vencimentos, error) {
	if err := validateWindow(opts.WindowDays); err != nil {
		return nil, err
	}
	e, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	return e.Vencimentos(opts)
}

// TopConsumo ver Engine.TopConsumo.
func (s *Service) TopConsumo(ctx context.Context, from, to entity.YearMonth, topN int) ([]ConsumptionRank, error) {
	if err := validateMonths(from, to); err != nil {
		return nil, err
	}
	e, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	return e.TopConsumo(from, to, topN)
}

// Reposicao ver Engine.Reposicao.
func (s *Service) Reposicao(ctx context.Context) ([]inventory.Suggestion, error) {
	e, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	return e.Reposicao()
}

// Verificar ver Engine.Verificar.
func (s *Service) Verificar(ctx context.Context) ([]inventory.Suggestion, error) {
	e, err := s.Engine(ctx)
	if err != nil {
		return nil, err
	}
	return e.Verificar()
}

// Now reloj del servicio (encabezados de PDF).
func (s *Service) Now() time.Time {
	if s.cfg.Now != nil {
		return s.cfg.Now()
	}
	return time.Now()
}
