package handlers

import (
	"fmt"
	"log"

	"github.com/connectware/erp-connect-be/internal/core/workflow"
	"github.com/connectware/erp-connect-be/internal/modules/integration/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// WorkflowHandler handles workflow-related requests
type WorkflowHandler struct {
	workflowService *services.WorkflowService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowService *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
	}
}

// companyIDFromRequest reads the company scope from the X-Company-ID header
// or the company_id query parameter
func companyIDFromRequest(c *fiber.Ctx) (uuid.UUID, error) {
	companyIDStr := c.Get("X-Company-ID")
	if companyIDStr == "" {
		companyIDStr = c.Query("company_id")
	}
	if companyIDStr == "" {
		return uuid.Nil, fmt.Errorf("company_id is required")
	}

	companyID, err := uuid.Parse(companyIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid company_id format")
	}
	return companyID, nil
}

// CreateWorkflow godoc
// @Summary Create a new workflow
// @Description Create a new automation workflow with its trigger
// @Tags Workflows
// @Accept json
// @Produce json
// @Param workflow body workflow.CreateWorkflowRequest true "Workflow details"
// @Param company_id query string true "Company ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/integrations/workflows [post]
func (h *WorkflowHandler) CreateWorkflow(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var req workflow.CreateWorkflowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "name is required",
		})
	}
	if len(req.Actions) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one action is required",
		})
	}

	createdWorkflow, trigger, err := h.workflowService.CreateWorkflow(c.Context(), companyID, req)
	if err != nil {
		log.Printf("❌ Failed to create workflow: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create workflow",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Workflow created successfully",
		"data": fiber.Map{
			"workflow": createdWorkflow,
			"trigger":  trigger,
		},
	})
}

// ListWorkflows godoc
// @Summary List workflows for a company
// @Description Retrieve all workflows for a specific company
// @Tags Workflows
// @Produce json
// @Param company_id query string true "Company ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/integrations/workflows [get]
func (h *WorkflowHandler) ListWorkflows(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	workflows, err := h.workflowService.ListWorkflows(companyID)
	if err != nil {
		log.Printf("❌ Failed to list workflows: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to retrieve workflows",
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(workflows),
		"data":   workflows,
	})
}

// GetWorkflow godoc
// @Summary Get workflow by ID
// @Description Retrieve a specific workflow by its ID
// @Tags Workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Param company_id query string true "Company ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/integrations/workflows/{id} [get]
func (h *WorkflowHandler) GetWorkflow(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	workflowID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workflow id format",
		})
	}

	wf, err := h.workflowService.GetWorkflow(workflowID, companyID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "workflow not found",
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   wf,
	})
}

// DeactivateWorkflow godoc
// @Summary Deactivate a workflow
// @Description Turn off a workflow and its triggers
// @Tags Workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Param company_id query string true "Company ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/integrations/workflows/{id}/deactivate [post]
func (h *WorkflowHandler) DeactivateWorkflow(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	workflowID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workflow id format",
		})
	}

	if err := h.workflowService.DeactivateWorkflow(c.Context(), workflowID, companyID); err != nil {
		log.Printf("❌ Failed to deactivate workflow: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to deactivate workflow",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Workflow deactivated successfully",
	})
}

// GetWorkflowExecutions godoc
// @Summary Get workflow execution history
// @Description Retrieve execution history for a specific workflow
// @Tags Workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Param company_id query string true "Company ID"
// @Param limit query int false "Limit number of results" default(50)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/integrations/workflows/{id}/executions [get]
func (h *WorkflowHandler) GetWorkflowExecutions(c *fiber.Ctx) error {
	companyID, err := companyIDFromRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	workflowID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid workflow id format",
		})
	}

	limit := c.QueryInt("limit", 50)

	executions, err := h.workflowService.GetExecutions(workflowID, companyID, limit)
	if err != nil {
		log.Printf("❌ Failed to get executions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to retrieve executions",
		})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"count":  len(executions),
		"data":   executions,
	})
}
