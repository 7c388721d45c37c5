package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Workflow represents a stored automation workflow for one company.
// The action list is fixed once persisted; redeploying creates a new row.
type Workflow struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Actions     datatypes.JSON `json:"actions" gorm:"type:jsonb;not null;default:'[]'"`
	IsActive    bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime;index:,sort:desc"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Workflow
func (Workflow) TableName() string {
	return "integration_workflows"
}

// Trigger represents the event source that starts a workflow. The schema
// allows several triggers per workflow; current behavior is 1:1.
type Trigger struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;uniqueIndex:idx_triggers_company_slug"`
	WorkflowID  uuid.UUID      `json:"workflow_id" gorm:"type:uuid;not null;index"`
	TriggerType string         `json:"trigger_type" gorm:"type:varchar(50);not null;index"` // 'webhook', 'schedule', 'email'
	Config      datatypes.JSON `json:"config" gorm:"type:jsonb;not null;default:'{}'"`
	AuthMode    string         `json:"auth_mode" gorm:"type:varchar(50);not null;default:'none'"` // 'none', 'api_key', 'basic'
	Secret      string         `json:"-" gorm:"type:text"`
	WebhookSlug string         `json:"webhook_slug" gorm:"type:varchar(255);uniqueIndex:idx_triggers_company_slug,where:webhook_slug <> ''"`
	IsActive    bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Trigger
func (Trigger) TableName() string {
	return "integration_triggers"
}
