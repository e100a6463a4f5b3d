package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-clinica/internal/application/dto"
	"github.com/jhoicas/estoque-clinica/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP.
//   - 400 VALIDATION       → entrada, rango o parámetros inválidos.
//   - 404 NOT_FOUND        → recurso inexistente.
//   - 409 CONFLICT         → lote duplicado o stock insuficiente.
//   - 422 INVALID_BATCH    → el lote indicado no pertenece al ítem.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrInvalidParameters):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrDuplicateBatch):
		status, code = fiber.StatusConflict, "DUPLICATE_BATCH"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidBatch):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_BATCH"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
