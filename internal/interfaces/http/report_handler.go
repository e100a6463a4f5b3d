package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-clinica/internal/application/report"
	"github.com/jhoicas/estoque-clinica/internal/domain/entity"
)

// ReportDefaults valores por defecto de los filtros cuando no vienen en la query.
type ReportDefaults struct {
	StockoutHorizon  int
	ExpiryWindowDays int
	TopN             int
}

// ReportHandler expone los reportes operativos.
type ReportHandler struct {
	svc      *report.Service
	pdf      *report.PDFUseCase
	defaults ReportDefaults
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *report.Service, pdf *report.PDFUseCase, defaults ReportDefaults) *ReportHandler {
	return &ReportHandler{svc: svc, pdf: pdf, defaults: defaults}
}

// Ruptura godoc
// @Summary      Ítems con riesgo de ruptura en el horizonte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        horizonte  query  int  false  "días hábiles de cobertura máxima"
// @Success      200  {array}  report.RupturaRow
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/ruptura [get]
func (h *ReportHandler) Ruptura(c *fiber.Ctx) error {
	rows, err := h.svc.Ruptura(c.Context(), c.QueryInt("horizonte", h.defaults.StockoutHorizon))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(rows), "itens": rows})
}

// Vencimentos godoc
// @Summary      Lotes con saldo que vencen en la ventana
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        janela            query  int   false  "días corridos"
// @Param        por_lote          query  bool  false  "detalle por lote (default true)"
// @Param        incluir_vencidos  query  bool  false  "incluye lotes ya vencidos"
// @Success      200  {object}  report.Vencimentos
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/vencimentos [get]
func (h *ReportHandler) Vencimentos(c *fiber.Ctx) error {
	v, err := h.svc.Vencimentos(c.Context(), h.vencimentosOptions(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// TopConsumo godoc
// @Summary      Ranking de consumo en un rango de meses
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        inicio  query  string  true   "YYYY-MM"
// @Param        fim     query  string  true   "YYYY-MM"
// @Param        top     query  int     false  "cantidad de ítems"
// @Success      200  {array}  report.ConsumptionRank
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/top-consumo [get]
func (h *ReportHandler) TopConsumo(c *fiber.Ctx) error {
	from, err := entity.ParseYearMonth(c.Query("inicio"))
	if err != nil {
		return badRequest(c, "VALIDATION", fmt.Sprintf("inicio: %v", err))
	}
	to, err := entity.ParseYearMonth(c.Query("fim"))
	if err != nil {
		return badRequest(c, "VALIDATION", fmt.Sprintf("fim: %v", err))
	}
	rows, err := h.svc.TopConsumo(c.Context(), from, to, c.QueryInt("top", h.defaults.TopN))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// Reposicao godoc
// @Summary      Ítems por debajo del punto de pedido con cantidad sugerida
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  inventory.Suggestion
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/reposicao [get]
func (h *ReportHandler) Reposicao(c *fiber.Ctx) error {
	rows, err := h.svc.Reposicao(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(rows), "itens": rows})
}

// Verificar godoc
// @Summary      Estado de todos los ítems (CRITICO, REPOR, OK, VERIFICAR)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  inventory.Suggestion
// @Router       /api/reports/verificar [get]
func (h *ReportHandler) Verificar(c *fiber.Ctx) error {
	rows, err := h.svc.Verificar(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// ReposicaoPDF godoc
// @Summary      Reporte de reposição en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/reposicao.pdf [get]
func (h *ReportHandler) ReposicaoPDF(c *fiber.Ctx) error {
	doc, name, err := h.pdf.ReposicaoPDF(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, doc, name)
}

// VencimentosPDF godoc
// @Summary      Reporte de vencimentos en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/vencimentos.pdf [get]
func (h *ReportHandler) VencimentosPDF(c *fiber.Ctx) error {
	doc, name, err := h.pdf.VencimentosPDF(c.Context(), h.vencimentosOptions(c))
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, doc, name)
}

func (h *ReportHandler) vencimentosOptions(c *fiber.Ctx) report.VencimentosOptions {
	return report.VencimentosOptions{
		WindowDays:     c.QueryInt("janela", h.defaults.ExpiryWindowDays),
		PerBatch:       c.QueryBool("por_lote", true),
		IncludeExpired: c.QueryBool("incluir_vencidos", false),
	}
}

func sendPDF(c *fiber.Ctx, doc []byte, name string) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(doc)
}
