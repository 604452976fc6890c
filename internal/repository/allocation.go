package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"gorm.io/gorm"
)

type AllocationRepo interface {
	GetAllocationByID(id uint) (allocation.SystemAllocationRequest, error)
	LockAllocation(id uint) (allocation.SystemAllocationRequest, error)
	CreateAllocation(a *allocation.SystemAllocationRequest) error
	ListAllocations(status *project.Status) ([]allocation.SystemAllocationRequest, error)
	ListAllocationsByProject(projectID uint) ([]allocation.SystemAllocationRequest, error)
	SetDocument(id uint, key string) error
	CompareAndSwapStatus(a *allocation.SystemAllocationRequest, from project.Status) (bool, error)
	WithTx(tx *gorm.DB) AllocationRepo
}

type DBAllocationRepo struct {
	db *gorm.DB
}

func NewAllocationRepo(db *gorm.DB) *DBAllocationRepo {
	return &DBAllocationRepo{db: db}
}

func (r *DBAllocationRepo) GetAllocationByID(id uint) (allocation.SystemAllocationRequest, error) {
	var a allocation.SystemAllocationRequest
	err := r.db.Preload("Project").Preload("System").First(&a, id).Error
	return a, err
}

func (r *DBAllocationRepo) LockAllocation(id uint) (allocation.SystemAllocationRequest, error) {
	var a allocation.SystemAllocationRequest
	err := forUpdate(r.db).First(&a, id).Error
	return a, err
}

func (r *DBAllocationRepo) CreateAllocation(a *allocation.SystemAllocationRequest) error {
	return r.db.Omit("Project", "System").Create(a).Error
}

func (r *DBAllocationRepo) ListAllocations(status *project.Status) ([]allocation.SystemAllocationRequest, error) {
	var as []allocation.SystemAllocationRequest
	query := r.db.Preload("Project").Preload("System").Order("created_time DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Find(&as).Error
	return as, err
}

func (r *DBAllocationRepo) ListAllocationsByProject(projectID uint) ([]allocation.SystemAllocationRequest, error) {
	var as []allocation.SystemAllocationRequest
	err := r.db.Preload("System").
		Where("project_id = ?", projectID).
		Order("created_time DESC").
		Find(&as).Error
	return as, err
}

func (r *DBAllocationRepo) SetDocument(id uint, key string) error {
	return r.db.Model(&allocation.SystemAllocationRequest{}).Where("id = ?", id).Update("document", key).Error
}

func (r *DBAllocationRepo) CompareAndSwapStatus(a *allocation.SystemAllocationRequest, from project.Status) (bool, error) {
	res := r.db.Model(&allocation.SystemAllocationRequest{}).
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

func (r *DBAllocationRepo) WithTx(tx *gorm.DB) AllocationRepo {
	if tx == nil {
		return r
	}
	return &DBAllocationRepo{db: tx}
}
