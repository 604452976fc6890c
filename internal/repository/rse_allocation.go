package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"gorm.io/gorm"
)

type RSEAllocationRepo interface {
	GetRSEAllocationByID(id uint) (allocation.RSEAllocationRequest, error)
	LockRSEAllocation(id uint) (allocation.RSEAllocationRequest, error)
	CreateRSEAllocation(a *allocation.RSEAllocationRequest) error
	ListRSEAllocations(status *project.Status) ([]allocation.RSEAllocationRequest, error)
	ListRSEAllocationsByProject(projectID uint) ([]allocation.RSEAllocationRequest, error)
	CompareAndSwapStatus(a *allocation.RSEAllocationRequest, from project.Status) (bool, error)
	WithTx(tx *gorm.DB) RSEAllocationRepo
}

type DBRSEAllocationRepo struct {
	db *gorm.DB
}

func NewRSEAllocationRepo(db *gorm.DB) *DBRSEAllocationRepo {
	return &DBRSEAllocationRepo{db: db}
}

func (r *DBRSEAllocationRepo) GetRSEAllocationByID(id uint) (allocation.RSEAllocationRequest, error) {
	var a allocation.RSEAllocationRequest
	err := r.db.Preload("Project").First(&a, id).Error
	return a, err
}

func (r *DBRSEAllocationRepo) LockRSEAllocation(id uint) (allocation.RSEAllocationRequest, error) {
	var a allocation.RSEAllocationRequest
	err := forUpdate(r.db).First(&a, id).Error
	return a, err
}

func (r *DBRSEAllocationRepo) CreateRSEAllocation(a *allocation.RSEAllocationRequest) error {
	return r.db.Omit("Project").Create(a).Error
}

func (r *DBRSEAllocationRepo) ListRSEAllocations(status *project.Status) ([]allocation.RSEAllocationRequest, error) {
	var as []allocation.RSEAllocationRequest
	query := r.db.Preload("Project").Order("created_time DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Find(&as).Error
	return as, err
}

func (r *DBRSEAllocationRepo) ListRSEAllocationsByProject(projectID uint) ([]allocation.RSEAllocationRequest, error) {
	var as []allocation.RSEAllocationRequest
	err := r.db.Where("project_id = ?", projectID).
		Order("created_time DESC").
		Find(&as).Error
	return as, err
}

func (r *DBRSEAllocationRepo) CompareAndSwapStatus(a *allocation.RSEAllocationRequest, from project.Status) (bool, error) {
	res := r.db.Model(&allocation.RSEAllocationRequest{}).
		Where("id = ? AND status = ?", a.ID, from).
		Updates(map[string]any{
			"status":          a.Status,
			"previous_status": a.PreviousStatus,
			"reason_decision": a.ReasonDecision,
			"approved_time":   a.ApprovedTime,
			"modified_time":   a.ModifiedTime,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *DBRSEAllocationRepo) WithTx(tx *gorm.DB) RSEAllocationRepo {
	if tx == nil {
		return r
	}
	return &DBRSEAllocationRepo{db: tx}
}
