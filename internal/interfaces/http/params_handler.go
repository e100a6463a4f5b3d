package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-clinica/internal/application/dto"
	"github.com/jhoicas/estoque-clinica/internal/application/params"
)

// ParamsHandler expone los parámetros globales (NS, MU, ST).
type ParamsHandler struct {
	uc *params.UseCase
}

// NewParamsHandler construye el handler.
func NewParamsHandler(uc *params.UseCase) *ParamsHandler {
	return &ParamsHandler{uc: uc}
}

// Get godoc
// @Summary      Parámetros vigentes
// @Tags         params
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ParamsDTO
// @Router       /api/params [get]
func (h *ParamsHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.Current(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ParamsFromEntity(p))
}

// Update godoc
// @Summary      Actualizar parámetros (crea una versión nueva)
// @Tags         params
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateParamsRequest  true  "nivel_servico, mu_t_dias_uteis, sigma_t_dias_uteis"
// @Success      200  {object}  dto.ParamsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/params [put]
func (h *ParamsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateParamsRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	p, err := h.uc.Update(c.Context(), params.UpdateRequest{
		ServiceLevel:  in.ServiceLevel,
		LeadTimeMean:  in.LeadTimeMean,
		LeadTimeStdev: in.LeadTimeStdev,
		UpdatedBy:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ParamsFromEntity(p))
}

// History godoc
// @Summary      Historial de versiones de parámetros
// @Tags         params
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de versiones (default 20)"
// @Success      200  {array}  dto.ParamsDTO
// @Router       /api/params/history [get]
func (h *ParamsHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "limit inválido")
	}
	page.DefaultPage()
	list, err := h.uc.History(c.Context(), page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ParamsDTO, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ParamsFromEntity(p))
	}
	return c.JSON(out)
}
