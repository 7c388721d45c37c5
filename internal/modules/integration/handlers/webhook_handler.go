package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/connectware/erp-connect-be/internal/core/webhook"
	"github.com/connectware/erp-connect-be/internal/core/workflow"
	"github.com/connectware/erp-connect-be/internal/modules/integration/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WebhookHandler handles inbound workflow-automation webhooks
type WebhookHandler struct {
	webhookService *services.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
	}
}

// ReceiveWebhook godoc
// @Summary Receive a workflow webhook
// @Description Trigger the workflow reachable at the given webhook slug
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param slug path string true "Webhook slug"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/integrations/pabbly/webhook/{slug} [post]
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Webhook not found",
		})
	}

	companyID := uuid.Nil
	companyIDStr := c.Get("X-Company-ID")
	if companyIDStr == "" {
		companyIDStr = c.Query("company_id")
	}
	if companyIDStr != "" {
		parsed, err := uuid.Parse(companyIDStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid company_id format",
			})
		}
		companyID = parsed
	}

	// Arbitrary JSON objects pass through as the trigger payload; anything
	// else (raw text, arrays, scalars) is wrapped as raw_data
	payload := make(map[string]interface{})
	body := c.Body()
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			payload = map[string]interface{}{"raw_data": string(body)}
		}
	}

	req := services.WebhookRequest{
		Slug:        slug,
		CompanyID:   companyID,
		Payload:     payload,
		IPAddress:   c.IP(),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
		Credentials: webhook.CredentialsFromHeaders(c.Get(webhook.APIKeyHeader), c.Get(fiber.HeaderAuthorization)),
	}

	trace, err := h.webhookService.HandleWebhook(c.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrWebhookNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Webhook not found",
			})
		case errors.Is(err, workflow.ErrAuthenticationFailed):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication failed",
			})
		default:
			log.Printf("❌ Webhook execution failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"result":  trace,
	})
}

// GetWebhookLogs godoc
// @Summary List webhook call logs
// @Description Retrieve recent inbound webhook calls for a company
// @Tags Webhooks
// @Produce json
// @Param company_id query string true "Company ID"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/integrations/webhook-logs [get]
func (h *WebhookHandler) GetWebhookLogs(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	limit := c.QueryInt("limit", 50)

	logs, err := h.webhookService.GetWebhookLogs(companyID, limit)
	if err != nil {
		log.Printf("❌ Failed to list webhook logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to retrieve webhook logs",
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(logs),
		"data":   logs,
	})
}
