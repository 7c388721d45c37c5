package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/connectware/erp-connect-be/internal/core/webhook"
	"github.com/connectware/erp-connect-be/internal/core/workflow"
	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/connectware/erp-connect-be/internal/modules/integration/repositories"
	"github.com/connectware/erp-connect-be/internal/shared/utils"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookRequest carries everything the pipeline needs from an inbound call
type WebhookRequest struct {
	Slug        string
	CompanyID   uuid.UUID // uuid.Nil when the caller did not scope the call
	Payload     map[string]interface{}
	IPAddress   string
	UserAgent   string
	Credentials webhook.Credentials
}

// WebhookService runs the inbound webhook pipeline: resolve the trigger,
// load the company's integration settings, authenticate, log the call, and
// execute the workflow
type WebhookService struct {
	triggerRepo     repositories.TriggerRepo
	workflowRepo    repositories.WorkflowRepo
	settingsRepo    repositories.SettingsRepo
	webhookLogRepo  repositories.WebhookLogRepo
	workflowService *WorkflowService
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	triggerRepo repositories.TriggerRepo,
	workflowRepo repositories.WorkflowRepo,
	settingsRepo repositories.SettingsRepo,
	webhookLogRepo repositories.WebhookLogRepo,
	workflowService *WorkflowService,
) *WebhookService {
	return &WebhookService{
		triggerRepo:     triggerRepo,
		workflowRepo:    workflowRepo,
		settingsRepo:    settingsRepo,
		webhookLogRepo:  webhookLogRepo,
		workflowService: workflowService,
	}
}

// HandleWebhook processes one inbound webhook call and returns the step
// trace. Sentinel errors ErrWebhookNotFound and ErrAuthenticationFailed map
// to 404/401 at the HTTP boundary; everything else is an engine failure (500).
func (s *WebhookService) HandleWebhook(ctx context.Context, req WebhookRequest) ([]workflow.StepResult, error) {
	startTime := time.Now()

	utils.LogInfo("Webhook received", map[string]interface{}{
		"slug": req.Slug,
		"ip":   req.IPAddress,
	})

	trigger, err := s.triggerRepo.ResolveBySlug(req.Slug, req.CompanyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logCall(req, nil, 404, startTime)
			return nil, workflow.ErrWebhookNotFound
		}
		return nil, &workflow.EngineError{Err: fmt.Errorf("failed to resolve webhook: %w", err)}
	}

	settings := s.loadSettings(trigger.CompanyID)
	if !settings.IsEnabled {
		// Disabled integration: the webhook path is unreachable
		s.logCall(req, trigger, 404, startTime)
		return nil, workflow.ErrWebhookNotFound
	}

	authMode := trigger.AuthMode
	if authMode == "" {
		authMode = settings.DefaultAuthMode
	}
	secret := trigger.Secret
	if secret == "" {
		secret = settings.APIKey
	}
	if !webhook.Authenticate(authMode, secret, req.Credentials) {
		s.logCall(req, trigger, 401, startTime)
		return nil, workflow.ErrAuthenticationFailed
	}

	// The call log must be durable before dispatch so accepted-but-failed
	// executions remain auditable
	callLog := s.newCallLog(req, trigger)
	if err := s.webhookLogRepo.Create(callLog); err != nil {
		return nil, &workflow.EngineError{Err: fmt.Errorf("failed to log webhook call: %w", err)}
	}

	wf, err := s.workflowRepo.FindByID(trigger.WorkflowID, trigger.CompanyID)
	if err != nil {
		s.finishCallLog(callLog, 500, startTime)
		return nil, &workflow.EngineError{Err: fmt.Errorf("failed to load workflow %s: %w", trigger.WorkflowID, err)}
	}
	if !wf.IsActive {
		s.finishCallLog(callLog, 500, startTime)
		return nil, &workflow.EngineError{Err: fmt.Errorf("workflow %s is not active", wf.ID)}
	}

	_, trace, err := s.workflowService.RunWorkflow(ctx, wf, req.Payload)
	if err != nil {
		s.finishCallLog(callLog, 500, startTime)
		return trace, err
	}

	s.finishCallLog(callLog, 200, startTime)
	return trace, nil
}

// loadSettings returns the company's integration settings, falling back to
// permissive defaults when no row exists
func (s *WebhookService) loadSettings(companyID uuid.UUID) *models.IntegrationSetting {
	settings, err := s.settingsRepo.FindByCompanyID(companyID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogWarn("Failed to load integration settings", map[string]interface{}{
				"company_id": companyID,
				"error":      err.Error(),
			})
		}
		return &models.IntegrationSetting{
			CompanyID:       companyID,
			IsEnabled:       true,
			DefaultAuthMode: webhook.AuthNone,
		}
	}
	return settings
}

func (s *WebhookService) newCallLog(req WebhookRequest, trigger *models.Trigger) *models.WebhookLog {
	payloadJSON, _ := json.Marshal(req.Payload)
	callLog := &models.WebhookLog{
		CompanyID: req.CompanyID,
		Slug:      req.Slug,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		Payload:   datatypes.JSON(payloadJSON),
	}
	if trigger != nil {
		callLog.CompanyID = trigger.CompanyID
		callLog.TriggerID = &trigger.ID
		callLog.WorkflowID = &trigger.WorkflowID
	}
	return callLog
}

// logCall records a rejected call (404/401) in one shot
func (s *WebhookService) logCall(req WebhookRequest, trigger *models.Trigger, status int, startTime time.Time) {
	callLog := s.newCallLog(req, trigger)
	callLog.ResponseStatus = status
	callLog.DurationMs = int(time.Since(startTime).Milliseconds())
	if err := s.webhookLogRepo.Create(callLog); err != nil {
		utils.LogError("Failed to log webhook call", err, map[string]interface{}{"slug": req.Slug})
	}
}

// finishCallLog stamps the response status and duration on an accepted call's log
func (s *WebhookService) finishCallLog(callLog *models.WebhookLog, status int, startTime time.Time) {
	callLog.ResponseStatus = status
	callLog.DurationMs = int(time.Since(startTime).Milliseconds())
	if err := s.webhookLogRepo.Update(callLog); err != nil {
		utils.LogError("Failed to update webhook call log", err, map[string]interface{}{"slug": callLog.Slug})
	}
}

// GetWebhookLogs retrieves recent webhook call logs for a company
func (s *WebhookService) GetWebhookLogs(companyID uuid.UUID, limit int) ([]models.WebhookLog, error) {
	return s.webhookLogRepo.FindByCompanyID(companyID, limit)
}
