package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Execution statuses. Running transitions exactly once to a terminal state.
const (
	ExecutionStatusRunning = "running"
	ExecutionStatusSuccess = "success"
	ExecutionStatusError   = "error"
)

// Execution represents a single run of a workflow's action sequence
type Execution struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	WorkflowID       uuid.UUID      `json:"workflow_id" gorm:"type:uuid;not null;index"`
	CompanyID        uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	Status           string         `json:"status" gorm:"type:varchar(50);not null;default:'running';index"`
	InputContext     datatypes.JSON `json:"input_context" gorm:"type:jsonb"`
	OutputContext    datatypes.JSON `json:"output_context" gorm:"type:jsonb"`
	StepTrace        datatypes.JSON `json:"step_trace" gorm:"type:jsonb;default:'[]'"`
	ErrorMessage     string         `json:"error_message,omitempty" gorm:"type:text"`
	ActionsCompleted int            `json:"actions_completed" gorm:"default:0"`
	ActionsFailed    int            `json:"actions_failed" gorm:"default:0"`
	StartedAt        time.Time      `json:"started_at" gorm:"autoCreateTime;index:,sort:desc"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	DurationMs       int            `json:"duration_ms,omitempty"`
}

// TableName specifies the table name for Execution
func (Execution) TableName() string {
	return "integration_executions"
}

// WebhookLog records one inbound HTTP call to a webhook path, independent of
// whether execution succeeded
type WebhookLog struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID      `json:"company_id" gorm:"type:uuid;index"`
	TriggerID      *uuid.UUID     `json:"trigger_id,omitempty" gorm:"type:uuid;index"`
	WorkflowID     *uuid.UUID     `json:"workflow_id,omitempty" gorm:"type:uuid;index"`
	Slug           string         `json:"slug" gorm:"type:varchar(255);index"`
	IPAddress      string         `json:"ip_address" gorm:"type:text"`
	UserAgent      string         `json:"user_agent" gorm:"type:text"`
	Payload        datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	ResponseStatus int            `json:"response_status"`
	DurationMs     int            `json:"duration_ms"`
	CreatedAt      time.Time      `json:"created_at" gorm:"autoCreateTime;index:,sort:desc"`
}

// TableName specifies the table name for WebhookLog
func (WebhookLog) TableName() string {
	return "integration_webhook_logs"
}
