package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/funding"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttributionRepo interface {
	GetAttributionByID(id uint) (funding.Attribution, error)
	CreateAttribution(a *funding.Attribution) error
	ListAttributionsByCreator(userID uint) ([]funding.Attribution, error)
	ListAttributionsByProject(projectID uint) ([]funding.Attribution, error)
	AttachToProject(attributionID, projectID uint) error
	WithTx(tx *gorm.DB) AttributionRepo
}

type DBAttributionRepo struct {
	db *gorm.DB
}

func NewAttributionRepo(db *gorm.DB) *DBAttributionRepo {
	return &DBAttributionRepo{db: db}
}

func (r *DBAttributionRepo) GetAttributionByID(id uint) (funding.Attribution, error) {
	var a funding.Attribution
	err := r.db.First(&a, id).Error
	return a, err
}

func (r *DBAttributionRepo) CreateAttribution(a *funding.Attribution) error {
	return r.db.Omit("Projects").Create(a).Error
}

func (r *DBAttributionRepo) ListAttributionsByCreator(userID uint) ([]funding.Attribution, error) {
	var as []funding.Attribution
	err := r.db.Where("created_by_id = ?", userID).Order("id").Find(&as).Error
	return as, err
}

func (r *DBAttributionRepo) ListAttributionsByProject(projectID uint) ([]funding.Attribution, error) {
	var as []funding.Attribution
	err := r.db.
		Joins("JOIN project_attributions pa ON pa.attribution_id = attributions.id").
		Where("pa.project_id = ?", projectID).
		Order("attributions.id").
		Find(&as).Error
	return as, err
}

func (r *DBAttributionRepo) AttachToProject(attributionID, projectID uint) error {
	return r.db.Table("project_attributions").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]any{"attribution_id": attributionID, "project_id": projectID}).Error
}

func (r *DBAttributionRepo) WithTx(tx *gorm.DB) AttributionRepo {
	if tx == nil {
		return r
	}
	return &DBAttributionRepo{db: tx}
}
