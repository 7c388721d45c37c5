package models

import (
	"time"

	"github.com/google/uuid"
)

// IntegrationSetting is the per-company integration configuration row. It is
// loaded once per webhook request and passed explicitly into the resolver and
// authenticator instead of living in ambient global state.
type IntegrationSetting struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID `json:"company_id" gorm:"type:uuid;not null;uniqueIndex"`
	IsEnabled       bool      `json:"is_enabled" gorm:"default:true"`
	APIKey          string    `json:"-" gorm:"type:text"`                                      // Fallback secret when a trigger has none of its own
	DefaultAuthMode string    `json:"default_auth_mode" gorm:"type:varchar(50);default:'none'"` // Used when a trigger leaves auth_mode empty
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for IntegrationSetting
func (IntegrationSetting) TableName() string {
	return "integration_settings"
}
