package repositories

import (
	"github.com/connectware/erp-connect-be/internal/modules/integration/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingsRepo interface for integration settings lookups
type SettingsRepo interface {
	FindByCompanyID(companyID uuid.UUID) (*models.IntegrationSetting, error)
}

type settingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *gorm.DB) SettingsRepo {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) FindByCompanyID(companyID uuid.UUID) (*models.IntegrationSetting, error) {
	var setting models.IntegrationSetting
	err := r.db.Where("company_id = ?", companyID).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}
