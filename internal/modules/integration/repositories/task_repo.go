package repositories

import (
	"context"
	"time"

	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskRepo interface for task database operations. CreateTask satisfies the
// action executor's TaskStore contract.
type TaskRepo interface {
	CreateTask(ctx context.Context, companyID uuid.UUID, fields map[string]interface{}) (uuid.UUID, error)
	FindByID(id, companyID uuid.UUID) (*models.Task, error)
}

type taskRepo struct {
	db *gorm.DB
}

// NewTaskRepo creates a new task repository
func NewTaskRepo(db *gorm.DB) TaskRepo {
	return &taskRepo{db: db}
}

func (r *taskRepo) CreateTask(ctx context.Context, companyID uuid.UUID, fields map[string]interface{}) (uuid.UUID, error) {
	task := &models.Task{
		CompanyID: companyID,
		Status:    "open",
		CreatedBy: "workflow",
	}

	if v, ok := fields["title"].(string); ok {
		task.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		task.Description = v
	}
	if v, ok := fields["assignee"].(string); ok {
		task.Assignee = v
	}
	if v, ok := fields["priority"].(string); ok {
		task.Priority = v
	}
	if v, ok := fields["due_date"].(string); ok {
		if due, err := parseDueDate(v); err == nil {
			task.DueDate = &due
		}
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return uuid.Nil, err
	}
	return task.ID, nil
}

func (r *taskRepo) FindByID(id, companyID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.Where("id = ? AND company_id = ?", id, companyID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// parseDueDate accepts RFC3339 timestamps and bare dates
func parseDueDate(value string) (time.Time, error) {
	if due, err := time.Parse(time.RFC3339, value); err == nil {
		return due, nil
	}
	return time.Parse("2006-01-02", value)
}
