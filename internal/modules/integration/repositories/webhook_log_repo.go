package repositories

import (
	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookLogRepo interface for webhook call log operations
type WebhookLogRepo interface {
	Create(log *models.WebhookLog) error
	Update(log *models.WebhookLog) error
	FindByCompanyID(companyID uuid.UUID, limit int) ([]models.WebhookLog, error)
}

type webhookLogRepo struct {
	db *gorm.DB
}

// NewWebhookLogRepo creates a new webhook log repository
func NewWebhookLogRepo(db *gorm.DB) WebhookLogRepo {
	return &webhookLogRepo{db: db}
}

func (r *webhookLogRepo) Create(log *models.WebhookLog) error {
	return r.db.Create(log).Error
}

func (r *webhookLogRepo) Update(log *models.WebhookLog) error {
	return r.db.Save(log).Error
}

func (r *webhookLogRepo) FindByCompanyID(companyID uuid.UUID, limit int) ([]models.WebhookLog, error) {
	var logs []models.WebhookLog
	query := r.db.Where("company_id = ?", companyID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&logs).Error
	return logs, err
}
