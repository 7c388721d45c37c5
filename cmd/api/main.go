package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/connectware/erp-connect-be/internal/core/audit"
	"github.com/connectware/erp-connect-be/internal/core/email"
	"github.com/connectware/erp-connect-be/internal/core/workflow"
	"github.com/connectware/erp-connect-be/internal/modules/integration/handlers"
	"github.com/connectware/erp-connect-be/internal/modules/integration/repositories"
	"github.com/connectware/erp-connect-be/internal/modules/integration/services"
	"github.com/connectware/erp-connect-be/internal/shared/config"
	"github.com/connectware/erp-connect-be/internal/shared/database"
	"github.com/connectware/erp-connect-be/internal/shared/utils"
)

// @title ERP Connect Workflow Automation API
// @version 1.0
// @description Webhook-triggered workflow automation for the ERP integration module
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger()
	log.Printf("🚀 Starting erp-connect-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories
	workflowRepo := repositories.NewWorkflowRepo(db.GORM)
	triggerRepo := repositories.NewTriggerRepo(db.GORM)
	executionRepo := repositories.NewExecutionRepo(db.GORM)
	webhookLogRepo := repositories.NewWebhookLogRepo(db.GORM)
	taskRepo := repositories.NewTaskRepo(db.GORM)
	settingsRepo := repositories.NewSettingsRepo(db.GORM)

	// Init email service (multi-provider support)
	var emailProvider email.Provider
	switch cfg.EmailProvider {
	case "resend":
		emailProvider = email.NewResendProvider(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	case "brevo":
		emailProvider = email.NewBrevoProvider(cfg.BrevoAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	default:
		if cfg.BrevoAPIKey != "" {
			emailProvider = email.NewBrevoProvider(cfg.BrevoAPIKey, cfg.EmailFrom, cfg.EmailFromName)
		} else if cfg.ResendAPIKey != "" {
			emailProvider = email.NewResendProvider(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailFromName)
		}
	}
	var emailService *email.Service
	if emailProvider != nil {
		emailService = email.NewService(emailProvider)
		log.Printf("📧 Using Email provider: %s", emailService.GetProviderName())
	} else {
		log.Printf("⚠️  Email service not configured, send_email actions will fail")
		emailService = email.NewService(nil)
	}

	// Init audit service
	auditService := audit.NewService(db.GORM)

	// Init the action executor and workflow service
	actionExecutor := workflow.NewActionExecutor(db.GORM, emailService, taskRepo)
	workflowService := services.NewWorkflowService(
		workflowRepo,
		triggerRepo,
		executionRepo,
		auditService,
		actionExecutor,
		time.Duration(cfg.WorkflowTimeoutSeconds)*time.Second,
	)
	if err := workflowService.Initialize(); err != nil {
		log.Fatalf("Failed to initialize workflow service: %v", err)
	}
	defer workflowService.Shutdown()

	// Init webhook service
	webhookService := services.NewWebhookService(triggerRepo, workflowRepo, settingsRepo, webhookLogRepo, workflowService)

	// Init handlers
	healthHandler := handlers.NewHealthHandler(emailService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "ERP Connect Workflow Automation API",
	})

	// Middleware
	app.Use(cors.New())

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Workflow routes
	app.Post("/api/integrations/workflows", workflowHandler.CreateWorkflow)
	app.Get("/api/integrations/workflows", workflowHandler.ListWorkflows)
	app.Get("/api/integrations/workflows/:id", workflowHandler.GetWorkflow)
	app.Post("/api/integrations/workflows/:id/deactivate", workflowHandler.DeactivateWorkflow)
	app.Get("/api/integrations/workflows/:id/executions", workflowHandler.GetWorkflowExecutions)

	// Webhook routes
	app.Post("/api/integrations/pabbly/webhook/:slug", webhookHandler.ReceiveWebhook)
	app.Get("/api/integrations/webhook-logs", webhookHandler.GetWebhookLogs)

	// Start server
	log.Printf("✅ erp-connect-api running at :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
