package repositories

import (
	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TriggerRepo interface for trigger database operations
type TriggerRepo interface {
	// ResolveBySlug finds the active webhook trigger reachable at a slug.
	// A nil companyID resolves across companies (slug is unique per company).
	ResolveBySlug(slug string, companyID uuid.UUID) (*models.Trigger, error)
	FindActiveByType(triggerType string) ([]models.Trigger, error)
	SetActiveByWorkflowID(workflowID uuid.UUID, active bool) error
}

type triggerRepo struct {
	db *gorm.DB
}

// NewTriggerRepo creates a new trigger repository
func NewTriggerRepo(db *gorm.DB) TriggerRepo {
	return &triggerRepo{db: db}
}

func (r *triggerRepo) ResolveBySlug(slug string, companyID uuid.UUID) (*models.Trigger, error) {
	query := r.db.Where("webhook_slug = ? AND trigger_type = ? AND is_active = ?", slug, "webhook", true)
	if companyID != uuid.Nil {
		query = query.Where("company_id = ?", companyID)
	}

	var trigger models.Trigger
	if err := query.First(&trigger).Error; err != nil {
		return nil, err
	}
	return &trigger, nil
}

func (r *triggerRepo) FindActiveByType(triggerType string) ([]models.Trigger, error) {
	var triggers []models.Trigger
	err := r.db.Where("trigger_type = ? AND is_active = ?", triggerType, true).Find(&triggers).Error
	return triggers, err
}

func (r *triggerRepo) SetActiveByWorkflowID(workflowID uuid.UUID, active bool) error {
	return r.db.Model(&models.Trigger{}).
		Where("workflow_id = ?", workflowID).
		Update("is_active", active).Error
}
