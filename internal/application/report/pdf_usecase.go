package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
	"github.com/jhoicas/estoque-clinica/internal/domain/inventory"
)

// PDFMeta datos de encabezado comunes a los reportes impresos.
type PDFMeta struct {
	Title       string
	GeneratedAt time.Time
	Params      entity.GlobalParameters
}

// PDFGenerator genera la versión imprimible de los reportes.
type PDFGenerator interface {
	GenerateReposicaoPDF(ctx context.Context, rows []inventory.Suggestion, meta PDFMeta) ([]byte, error)
	GenerateVencimentosPDF(ctx context.Context, v *Vencimentos, meta PDFMeta) ([]byte, error)
}

// PDFUseCase arma los reportes de reposição y vencimentos en PDF.
type PDFUseCase struct {
	svc       *Service
	generator PDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(svc *Service, generator PDFGenerator) *PDFUseCase {
	return &PDFUseCase{svc: svc, generator: generator}
}

// ReposicaoPDF devuelve el PDF y el nombre de archivo sugerido.
func (uc *PDFUseCase) ReposicaoPDF(ctx context.Context) ([]byte, string, error) {
	e, err := uc.svc.Engine(ctx)
	if err != nil {
		return nil, "", err
	}
	rows, err := e.Reposicao()
	if err != nil {
		return nil, "", err
	}
	now := uc.svc.Now()
	doc, err := uc.generator.GenerateReposicaoPDF(ctx, rows, PDFMeta{
		Title:       "Relatório de Reposição",
		GeneratedAt: now,
		Params:      e.Params(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf reposição: %w", err)
	}
	return doc, fmt.Sprintf("reposicao-%s.pdf", now.Format(time.DateOnly)), nil
}

// VencimentosPDF devuelve el PDF de vencimentos y el nombre de archivo sugerido.
func (uc *PDFUseCase) VencimentosPDF(ctx context.Context, opts VencimentosOptions) ([]byte, string, error) {
	if err := validateWindow(opts.WindowDays); err != nil {
		return nil, "", err
	}
	e, err := uc.svc.Engine(ctx)
	if err != nil {
		return nil, "", err
	}
	v, err := e.Vencimentos(opts)
	if err != nil {
		return nil, "", err
	}
	now := uc.svc.Now()
	doc, err := uc.generator.GenerateVencimentosPDF(ctx, v, PDFMeta{
		Title:       fmt.Sprintf("Produtos a vencer em %d dias", opts.WindowDays),
		GeneratedAt: now,
		Params:      e.Params(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf vencimentos: %w", err)
	}
	return doc, fmt.Sprintf("vencimentos-%s.pdf", now.Format(time.DateOnly)), nil
}
