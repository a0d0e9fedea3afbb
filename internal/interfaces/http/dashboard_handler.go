package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/analytics"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// DashboardHandler resumen del dashboard según el perfil.
type DashboardHandler struct {
	uc  *analytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetSummary godoc
// @Summary      Resumo do dashboard (cliente, contador ou administrador)
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.UserContext(), session(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
