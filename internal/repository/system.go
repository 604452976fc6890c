package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/system"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SystemRepo interface {
	GetSystemByID(id uint) (system.System, error)
	ListSystems() ([]system.System, error)
	UpsertSystem(s *system.System) error
	WithTx(tx *gorm.DB) SystemRepo
}

type DBSystemRepo struct {
	db *gorm.DB
}

func NewSystemRepo(db *gorm.DB) *DBSystemRepo {
	return &DBSystemRepo{db: db}
}

func (r *DBSystemRepo) GetSystemByID(id uint) (system.System, error) {
	var s system.System
	err := r.db.First(&s, id).Error
	return s, err
}

func (r *DBSystemRepo) ListSystems() ([]system.System, error) {
	var systems []system.System
	err := r.db.Order("name").Find(&systems).Error
	return systems, err
}

func (r *DBSystemRepo) UpsertSystem(s *system.System) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "number_of_cores"}),
	}).Create(s).Error
}

func (r *DBSystemRepo) WithTx(tx *gorm.DB) SystemRepo {
	if tx == nil {
		return r
	}
	return &DBSystemRepo{db: tx}
}
