package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-clinica/internal/application/dto"
	"github.com/jhoicas/estoque-clinica/internal/application/inventory"
)

// sheetReader interpreta la planilla subida. Lo implementa *spreadsheet.Reader.
type sheetReader interface {
	Read(r io.Reader, kind string) (inventory.ImportRequest, error)
}

// MovementHandler maneja las peticiones HTTP de movimientos (protegido).
type MovementHandler struct {
	uc     *inventory.MovementUseCase
	reader sheetReader
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase, reader sheetReader) *MovementHandler {
	return &MovementHandler{uc: uc, reader: reader}
}

// RecordEntry godoc
// @Summary      Registrar entrada (crea un lote)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntryRequest  true  "codigo, lote, quantidade, validade"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/entries [post]
func (h *MovementHandler) RecordEntry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	req, err := in.ToUseCase()
	if err != nil {
		return writeError(c, err)
	}
	mov, err := h.uc.RecordEntry(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// RecordExit godoc
// @Summary      Registrar salida (FEFO o lote indicado)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExitRequest  true  "codigo, quantidade, lote opcional, descarte"
// @Success      201   {object}  dto.MovementDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/exits [post]
func (h *MovementHandler) RecordExit(c *fiber.Ctx) error {
	var in dto.ExitRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	req, err := in.ToUseCase()
	if err != nil {
		return writeError(c, err)
	}
	mov, err := h.uc.RecordExit(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// Import godoc
// @Summary      Importar planilla XLSX de entradas o salidas (todo o nada)
// @Tags         movements
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        kind     path      string  true   "entries | exits"
// @Param        file     formData  file    true   "planilla XLSX"
// @Param        dry_run  query     bool    false  "sólo validar"
// @Success      200  {object}  inventory.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      422  {object}  inventory.ImportResult
// @Router       /api/movements/import/{kind} [post]
func (h *MovementHandler) Import(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if kind != inventory.ImportEntries && kind != inventory.ImportExits {
		return badRequest(c, "VALIDATION", "tipo de importación: entries | exits")
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "campo multipart 'file' requerido")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "INVALID_FILE", "no se pudo abrir el archivo")
	}
	defer f.Close()

	req, err := h.reader.Read(f, kind)
	if err != nil {
		return writeError(c, err)
	}
	req.DryRun = c.QueryBool("dry_run", false)

	res, err := h.uc.Import(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	if len(res.Errors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res)
	}
	return c.JSON(res)
}
