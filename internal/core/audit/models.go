package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog represents one append-only audit entry
type AuditLog struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// Context
	CompanyID uuid.UUID `json:"company_id" gorm:"type:uuid;index"`
	Actor     string    `json:"actor" gorm:"type:text"` // "api", "scheduler"

	// Action details
	Action   string `json:"action" gorm:"type:text;not null;index"` // create, deactivate, execute
	Entity   string `json:"entity" gorm:"type:text;not null;index"` // workflow, trigger
	EntityID string `json:"entity_id" gorm:"type:text;index"`

	// Additional context
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "integration_audit_logs"
}
