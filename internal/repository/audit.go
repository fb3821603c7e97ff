package repository

import (
	"context"

	"campushire/internal/models"

	"gorm.io/gorm"
)

// DefaultAuditLimit bounds audit listings when no limit is given.
const DefaultAuditLimit = 100

// AuditRepository is append-only: rows can be created and listed, never
// changed.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, limit int) ([]models.AuditLog, error)
	ListForEntity(ctx context.Context, entityType string, entityID uint) ([]models.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository returns a new AuditRepository implementation.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns the newest entries first.
func (r *auditRepository) List(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	var logs []models.AuditLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return logs, nil
}

func (r *auditRepository) ListForEntity(ctx context.Context, entityType string, entityID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&logs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return logs, nil
}
