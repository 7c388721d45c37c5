package handlers

import (
	"github.com/connectware/erp-connect-be/internal/core/email"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	emailService *email.Service
}

func NewHealthHandler(emailService *email.Service) *HealthHandler {
	return &HealthHandler{emailService: emailService}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	provider := "none"
	if h.emailService != nil {
		provider = h.emailService.GetProviderName()
	}
	return c.JSON(fiber.Map{
		"status":         "ok",
		"service":        "erp-connect-api",
		"email_provider": provider,
	})
}
