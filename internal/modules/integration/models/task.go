package models

import (
	"time"

	"github.com/google/uuid"
)

// Task represents a task record created by the create_task action
type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID  `json:"company_id" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Assignee    string     `json:"assignee" gorm:"type:varchar(255)"`
	Priority    string     `json:"priority" gorm:"type:varchar(50);default:'medium'"`
	Status      string     `json:"status" gorm:"type:varchar(50);not null;default:'open';index"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   string     `json:"created_by" gorm:"type:varchar(50);default:'workflow'"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime;index:,sort:desc"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "integration_tasks"
}
