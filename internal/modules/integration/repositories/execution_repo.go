package repositories

import (
	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExecutionRepo interface for execution database operations. Executions are
// append-only: created as running, updated exactly once to a terminal state.
type ExecutionRepo interface {
	Create(execution *models.Execution) error
	Update(execution *models.Execution) error
	FindByWorkflowID(workflowID, companyID uuid.UUID, limit int) ([]models.Execution, error)
}

type executionRepo struct {
	db *gorm.DB
}

// NewExecutionRepo creates a new execution repository
func NewExecutionRepo(db *gorm.DB) ExecutionRepo {
	return &executionRepo{db: db}
}

func (r *executionRepo) Create(execution *models.Execution) error {
	return r.db.Create(execution).Error
}

func (r *executionRepo) Update(execution *models.Execution) error {
	return r.db.Save(execution).Error
}

func (r *executionRepo) FindByWorkflowID(workflowID, companyID uuid.UUID, limit int) ([]models.Execution, error) {
	var executions []models.Execution
	query := r.db.Where("workflow_id = ? AND company_id = ?", workflowID, companyID).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&executions).Error
	return executions, err
}
