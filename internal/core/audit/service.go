package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service provides audit logging functionality
type Service struct {
	db *gorm.DB
}

// NewService creates a new audit service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Log creates a new audit log entry
func (s *Service) Log(ctx context.Context, entry *AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// LogAction records an action against an entity, with optional metadata
func (s *Service) LogAction(ctx context.Context, companyID uuid.UUID, actor, action, entity, entityID string, metadata interface{}) error {
	var metadataJSON datatypes.JSON
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			log.Printf("⚠️ Failed to serialize audit metadata: %v", err)
		} else {
			metadataJSON = raw
		}
	}

	return s.Log(ctx, &AuditLog{
		CompanyID: companyID,
		Actor:     actor,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  metadataJSON,
	})
}
