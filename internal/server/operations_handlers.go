package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetOperationsStats returns the reviewer dashboard counters
// @Summary Operations dashboard counters
// @Tags operations
// @Produce json
// @Success 200 {object} models.OperationsStats
// @Security BearerAuth
// @Router /operations/stats [get]
func (s *Server) GetOperationsStats(c *fiber.Ctx) error {
	stats, err := s.operations.Stats(c.Context())
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(stats)
}

// GetBudgetSummary returns the budget approval aggregates
// @Summary Budget approval summary
// @Tags operations
// @Produce json
// @Success 200 {object} models.BudgetSummary
// @Security BearerAuth
// @Router /operations/budget-summary [get]
func (s *Server) GetBudgetSummary(c *fiber.Ctx) error {
	summary, err := s.operations.BudgetSummary(c.Context())
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(summary)
}
