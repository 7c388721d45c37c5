package repositories

import (
	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowRepo interface for workflow database operations. Every read is
// scoped by company.
type WorkflowRepo interface {
	CreateWithTrigger(workflow *models.Workflow, trigger *models.Trigger) error
	FindByID(id, companyID uuid.UUID) (*models.Workflow, error)
	FindByCompanyID(companyID uuid.UUID) ([]models.Workflow, error)
	SetActive(id, companyID uuid.UUID, active bool) error
}

type workflowRepo struct {
	db *gorm.DB
}

// NewWorkflowRepo creates a new workflow repository
func NewWorkflowRepo(db *gorm.DB) WorkflowRepo {
	return &workflowRepo{db: db}
}

// CreateWithTrigger persists a workflow and its trigger in one transaction
func (r *workflowRepo) CreateWithTrigger(workflow *models.Workflow, trigger *models.Trigger) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workflow).Error; err != nil {
			return err
		}
		trigger.WorkflowID = workflow.ID
		trigger.CompanyID = workflow.CompanyID
		return tx.Create(trigger).Error
	})
}

func (r *workflowRepo) FindByID(id, companyID uuid.UUID) (*models.Workflow, error) {
	var workflow models.Workflow
	err := r.db.Where("id = ? AND company_id = ?", id, companyID).First(&workflow).Error
	if err != nil {
		return nil, err
	}
	return &workflow, nil
}

func (r *workflowRepo) FindByCompanyID(companyID uuid.UUID) ([]models.Workflow, error) {
	var workflows []models.Workflow
	err := r.db.Where("company_id = ?", companyID).Order("created_at DESC").Find(&workflows).Error
	return workflows, err
}

func (r *workflowRepo) SetActive(id, companyID uuid.UUID, active bool) error {
	return r.db.Model(&models.Workflow{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Update("is_active", active).Error
}
