package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/connectware/erp-connect-be/internal/core/audit"
	"github.com/connectware/erp-connect-be/internal/core/webhook"
	"github.com/connectware/erp-connect-be/internal/core/workflow"
	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/connectware/erp-connect-be/internal/modules/integration/repositories"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkflowService handles workflow lifecycle and execution for the
// integration module
type WorkflowService struct {
	workflowRepo  repositories.WorkflowRepo
	triggerRepo   repositories.TriggerRepo
	executionRepo repositories.ExecutionRepo
	auditService  *audit.Service
	engine        *workflow.Engine
	scheduler     *workflow.Scheduler
	timeout       time.Duration // 0 disables the per-run budget
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(
	workflowRepo repositories.WorkflowRepo,
	triggerRepo repositories.TriggerRepo,
	executionRepo repositories.ExecutionRepo,
	auditService *audit.Service,
	executor workflow.Executor,
	timeout time.Duration,
) *WorkflowService {
	return &WorkflowService{
		workflowRepo:  workflowRepo,
		triggerRepo:   triggerRepo,
		executionRepo: executionRepo,
		auditService:  auditService,
		engine:        workflow.NewEngine(executor),
		scheduler:     workflow.NewScheduler(),
		timeout:       timeout,
	}
}

// Initialize loads schedule-type triggers into the cron scheduler and starts it
func (s *WorkflowService) Initialize() error {
	log.Println("🔧 Initializing Workflow Service...")

	if err := s.loadScheduledTriggers(); err != nil {
		return fmt.Errorf("failed to load scheduled triggers: %w", err)
	}
	s.scheduler.Start()

	log.Println("✅ Workflow Service initialized successfully")
	return nil
}

// Shutdown stops the workflow service
func (s *WorkflowService) Shutdown() {
	log.Println("🛑 Shutting down Workflow Service...")
	s.scheduler.Stop()
	log.Println("✅ Workflow Service stopped")
}

// CreateWorkflow persists a new workflow together with its trigger. The
// webhook slug is derived from the workflow name; the action list is fixed
// once saved (redeploy = create a new workflow).
func (s *WorkflowService) CreateWorkflow(ctx context.Context, companyID uuid.UUID, req workflow.CreateWorkflowRequest) (*models.Workflow, *models.Trigger, error) {
	if req.Name == "" {
		return nil, nil, fmt.Errorf("name is required")
	}
	if len(req.Actions) == 0 {
		return nil, nil, fmt.Errorf("at least one action is required")
	}

	triggerType := req.TriggerType
	if triggerType == "" {
		triggerType = "webhook"
	}

	actionsJSON, err := json.Marshal(req.Actions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal actions: %w", err)
	}
	triggerConfigJSON, err := json.Marshal(req.TriggerConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal trigger config: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	slug := ""
	if triggerType == "webhook" {
		slug = webhook.Slugify(req.Name)
		if slug == "" {
			return nil, nil, fmt.Errorf("workflow name produces an empty webhook slug")
		}
	}

	authMode := req.TriggerConfig.AuthMode
	if authMode == "" {
		authMode = webhook.AuthNone
	}

	wf := &models.Workflow{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		Actions:     datatypes.JSON(actionsJSON),
		IsActive:    isActive,
	}
	trigger := &models.Trigger{
		TriggerType: triggerType,
		Config:      datatypes.JSON(triggerConfigJSON),
		AuthMode:    authMode,
		Secret:      req.TriggerConfig.Secret,
		WebhookSlug: slug,
		IsActive:    isActive,
	}

	if err := s.workflowRepo.CreateWithTrigger(wf, trigger); err != nil {
		return nil, nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	if s.auditService != nil {
		if err := s.auditService.LogAction(ctx, companyID, "api", "create", "workflow", wf.ID.String(), map[string]interface{}{
			"name":         wf.Name,
			"trigger_type": triggerType,
			"webhook_slug": slug,
		}); err != nil {
			log.Printf("⚠️ Failed to write audit log: %v", err)
		}
	}

	if triggerType == "schedule" && isActive {
		if err := s.addTriggerToScheduler(trigger); err != nil {
			log.Printf("⚠️ Failed to schedule workflow: %v", err)
		}
	}

	log.Printf("✅ Workflow created: %s (ID: %s, slug: %s)", wf.Name, wf.ID, slug)
	return wf, trigger, nil
}

// ListWorkflows lists all workflows for a company
func (s *WorkflowService) ListWorkflows(companyID uuid.UUID) ([]models.Workflow, error) {
	return s.workflowRepo.FindByCompanyID(companyID)
}

// GetWorkflow retrieves a workflow by ID, scoped to the company
func (s *WorkflowService) GetWorkflow(workflowID, companyID uuid.UUID) (*models.Workflow, error) {
	return s.workflowRepo.FindByID(workflowID, companyID)
}

// DeactivateWorkflow turns off a workflow and its triggers. Action lists are
// never edited in place; deactivation is the only mutation after create.
func (s *WorkflowService) DeactivateWorkflow(ctx context.Context, workflowID, companyID uuid.UUID) error {
	wf, err := s.workflowRepo.FindByID(workflowID, companyID)
	if err != nil {
		return fmt.Errorf("workflow not found: %w", err)
	}

	if err := s.workflowRepo.SetActive(workflowID, companyID, false); err != nil {
		return fmt.Errorf("failed to deactivate workflow: %w", err)
	}
	if err := s.triggerRepo.SetActiveByWorkflowID(workflowID, false); err != nil {
		return fmt.Errorf("failed to deactivate triggers: %w", err)
	}
	s.scheduler.RemoveWorkflow(workflowID.String())

	if s.auditService != nil {
		if err := s.auditService.LogAction(ctx, companyID, "api", "deactivate", "workflow", workflowID.String(), nil); err != nil {
			log.Printf("⚠️ Failed to write audit log: %v", err)
		}
	}

	log.Printf("✅ Workflow deactivated: %s (ID: %s)", wf.Name, wf.ID)
	return nil
}

// GetExecutions retrieves execution history for a workflow
func (s *WorkflowService) GetExecutions(workflowID, companyID uuid.UUID, limit int) ([]models.Execution, error) {
	return s.executionRepo.FindByWorkflowID(workflowID, companyID, limit)
}

// RunWorkflow executes a workflow's action list against the input context.
// An execution record is written with status running before dispatch begins;
// it transitions exactly once to success or error. Individual action failures
// appear in the returned step trace and do not fail the execution.
func (s *WorkflowService) RunWorkflow(ctx context.Context, wf *models.Workflow, input map[string]interface{}) (*models.Execution, []workflow.StepResult, error) {
	startTime := time.Now()
	if input == nil {
		input = make(map[string]interface{})
	}

	inputJSON, _ := json.Marshal(input)
	execution := &models.Execution{
		WorkflowID:   wf.ID,
		CompanyID:    wf.CompanyID,
		Status:       models.ExecutionStatusRunning,
		InputContext: datatypes.JSON(inputJSON),
		StartedAt:    startTime,
	}
	if err := s.executionRepo.Create(execution); err != nil {
		return nil, nil, &workflow.EngineError{Err: fmt.Errorf("failed to create execution record: %w", err)}
	}

	log.Printf("🚀 Executing workflow: %s (ID: %s)", wf.Name, wf.ID)

	var actions []workflow.Action
	if err := json.Unmarshal(wf.Actions, &actions); err != nil {
		return execution, nil, s.failExecution(execution, fmt.Errorf("failed to parse actions: %w", err), nil)
	}

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	trace, err := s.engine.Run(runCtx, wf.CompanyID, actions, input)
	if err != nil {
		return execution, trace, s.failExecution(execution, err, trace)
	}

	completed, failed := 0, 0
	for _, step := range trace {
		if step.Success {
			completed++
		} else {
			failed++
		}
	}

	traceJSON, _ := json.Marshal(trace)
	outputJSON, _ := json.Marshal(input) // input now holds the merged context
	completedAt := time.Now()

	execution.Status = models.ExecutionStatusSuccess
	execution.StepTrace = datatypes.JSON(traceJSON)
	execution.OutputContext = datatypes.JSON(outputJSON)
	execution.ActionsCompleted = completed
	execution.ActionsFailed = failed
	execution.CompletedAt = &completedAt
	execution.DurationMs = int(time.Since(startTime).Milliseconds())

	if err := s.executionRepo.Update(execution); err != nil {
		return execution, trace, &workflow.EngineError{Err: fmt.Errorf("failed to persist execution result: %w", err)}
	}

	log.Printf("✅ Workflow execution completed: %d/%d actions succeeded", completed, len(actions))
	return execution, trace, nil
}

// failExecution flips the execution to its error terminal state
func (s *WorkflowService) failExecution(execution *models.Execution, cause error, trace []workflow.StepResult) error {
	completedAt := time.Now()
	traceJSON, _ := json.Marshal(trace)

	execution.Status = models.ExecutionStatusError
	execution.ErrorMessage = cause.Error()
	execution.StepTrace = datatypes.JSON(traceJSON)
	execution.CompletedAt = &completedAt
	execution.DurationMs = int(time.Since(execution.StartedAt).Milliseconds())

	if err := s.executionRepo.Update(execution); err != nil {
		log.Printf("⚠️ Failed to update execution record: %v", err)
	}

	var engineErr *workflow.EngineError
	if errors.As(cause, &engineErr) {
		return cause
	}
	return &workflow.EngineError{Err: cause}
}

// loadScheduledTriggers registers all active schedule triggers with cron
func (s *WorkflowService) loadScheduledTriggers() error {
	triggers, err := s.triggerRepo.FindActiveByType("schedule")
	if err != nil {
		return err
	}

	log.Printf("   Loading %d scheduled trigger(s)...", len(triggers))
	for i := range triggers {
		if err := s.addTriggerToScheduler(&triggers[i]); err != nil {
			log.Printf("⚠️ Failed to schedule workflow %s: %v", triggers[i].WorkflowID, err)
		}
	}
	return nil
}

// addTriggerToScheduler adds a schedule trigger's workflow to the cron scheduler
func (s *WorkflowService) addTriggerToScheduler(trigger *models.Trigger) error {
	var triggerConfig workflow.TriggerConfig
	if err := json.Unmarshal(trigger.Config, &triggerConfig); err != nil {
		return fmt.Errorf("failed to unmarshal trigger config: %w", err)
	}
	if triggerConfig.Schedule == "" {
		return fmt.Errorf("schedule is empty")
	}

	workflowID := trigger.WorkflowID
	companyID := trigger.CompanyID
	schedule := triggerConfig.Schedule
	job := func() {
		log.Printf("⏰ Scheduled workflow triggered: %s", workflowID)

		wf, err := s.workflowRepo.FindByID(workflowID, companyID)
		if err != nil {
			log.Printf("❌ Failed to load workflow %s: %v", workflowID, err)
			return
		}
		if !wf.IsActive {
			return
		}

		input := map[string]interface{}{
			"triggered_by": "schedule",
			"schedule":     schedule,
			"timestamp":    time.Now().Format(time.RFC3339),
		}
		if _, _, err := s.RunWorkflow(context.Background(), wf, input); err != nil {
			log.Printf("❌ Scheduled workflow execution failed: %v", err)
		}
	}

	return s.scheduler.AddWorkflow(workflowID.String(), schedule, job)
}
