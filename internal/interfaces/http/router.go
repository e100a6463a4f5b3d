package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
	"github.com/jhoicas/estoque-clinica/internal/application/params"
	"github.com/jhoicas/estoque-clinica/internal/application/report"
	"github.com/jhoicas/estoque-clinica/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements      *inventory.MovementUseCase
	SheetReader    sheetReader
	Params         *params.UseCase
	Reports        *report.Service
	ReportPDF      *report.PDFUseCase
	ReportDefaults ReportDefaults
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.Roles()...)
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleOperator)
	admin := RequireRole(jwt.RoleAdmin)

	// Movimientos
	movements := api.Group("/movements", writers)
	movementHandler := NewMovementHandler(deps.Movements, deps.SheetReader)
	movements.Post("/entries", movementHandler.RecordEntry)
	movements.Post("/exits", movementHandler.RecordExit)
	movements.Post("/import/:kind", movementHandler.Import)

	// Parámetros globales
	paramsGroup := api.Group("/params")
	paramsHandler := NewParamsHandler(deps.Params)
	paramsGroup.Get("/", anyRole, paramsHandler.Get)
	paramsGroup.Put("/", admin, paramsHandler.Update)
	paramsGroup.Get("/history", anyRole, paramsHandler.History)

	// Reportes
	reports := api.Group("/reports", anyRole)
	reportHandler := NewReportHandler(deps.Reports, deps.ReportPDF, deps.ReportDefaults)
	reports.Get("/ruptura", reportHandler.Ruptura)
	reports.Get("/vencimentos", reportHandler.Vencimentos)
	reports.Get("/vencimentos.pdf", reportHandler.VencimentosPDF)
	reports.Get("/top-consumo", reportHandler.TopConsumo)
	reports.Get("/reposicao", reportHandler.Reposicao)
	reports.Get("/reposicao.pdf", reportHandler.ReposicaoPDF)
	reports.Get("/verificar", reportHandler.Verificar)
}
