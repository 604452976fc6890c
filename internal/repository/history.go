package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"gorm.io/gorm"
)

// HistoryRepo is append-only: there is no update or delete.
type HistoryRepo interface {
	AppendStatusChange(c *audit.StatusChange) error
	ListStatusChanges(entity audit.EntityType, entityID uint) ([]audit.StatusChange, error)
	WithTx(tx *gorm.DB) HistoryRepo
}

type DBHistoryRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) *DBHistoryRepo {
	return &DBHistoryRepo{db: db}
}

func (r *DBHistoryRepo) AppendStatusChange(c *audit.StatusChange) error {
	return r.db.Create(c).Error
}

func (r *DBHistoryRepo) ListStatusChanges(entity audit.EntityType, entityID uint) ([]audit.StatusChange, error) {
	var changes []audit.StatusChange
	err := r.db.Where("entity_type = ? AND entity_id = ?", entity, entityID).
		Order("created_at, id").
		Find(&changes).Error
	return changes, err
}

func (r *DBHistoryRepo) WithTx(tx *gorm.DB) HistoryRepo {
	if tx == nil {
		return r
	}
	return &DBHistoryRepo{db: tx}
}
