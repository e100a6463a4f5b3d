package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/internal/application/params"
	"github.com/jhoicas/estoque-clinica/internal/application/report"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/repository"
	"github.com/jhoicas/estoque-clinica/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/estoque-clinica/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-clinica/internal/infrastructure/postgres"
)

// services casos de uso armados sobre el almacenamiento configurado.
type services struct {
	movements *inventory.MovementUseCase
	params    *params.UseCase
	reports   *report.Service
	pdf       *report.PDFUseCase
	close     func()
}

func (c *cli) services(ctx context.Context) (*services, error) {
	var (
		txRunner   inventory.TxRunner
		read       inventory.Repositories
		paramsRepo repository.ParamsRepository
		closeFn    = func() {}
	)
	switch c.cfg.Storage {
	case "postgres":
		pool, err := postgres.NewPool(ctx, c.cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		txRunner = postgres.NewTxRunner(pool)
		read = postgres.Repositories(pool)
		paramsRepo = postgres.NewParamsRepository(pool)
		closeFn = pool.Close
	case "memory":
		c.log.Warn().Msg("almacenamiento en memoria: los datos se pierden al terminar el proceso")
		st := memory.NewStore()
		txRunner, read, paramsRepo = st, st.Repositories(), st.Params()
	default:
		return nil, fmt.Errorf("STORAGE=%q no soportado", c.cfg.Storage)
	}

	defaults := entity.GlobalParameters{
		ServiceLevel:  c.cfg.Stock.ServiceLevel,
		LeadTimeMean:  c.cfg.Stock.LeadTimeMean,
		LeadTimeStdev: c.cfg.Stock.LeadTimeStdev,
	}
	movements := inventory.NewMovementUseCase(txRunner, read, c.log)
	paramsUC := params.NewUseCase(paramsRepo, defaults, c.log)
	reports := report.NewService(movements, paramsUC, report.Config{DemandWindowDays: c.cfg.Stock.DemandWindowDays})

	return &services{
		movements: movements,
		params:    paramsUC,
		reports:   reports,
		pdf:       report.NewPDFUseCase(reports, infrapdf.NewMarotoReportGenerator(c.cfg.App.Name)),
		close:     closeFn,
	}, nil
}

// withServices arma los servicios, ejecuta fn y libera el pool.
func (c *cli) withServices(ctx context.Context, fn func(*services) error) error {
	svc, err := c.services(ctx)
	if err != nil {
		return err
	}
	defer svc.close()
	return fn(svc)
}
