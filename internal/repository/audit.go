package repository

import (
	"strconv"
	"time"

	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"gorm.io/gorm"
)

// MaxAuditPage caps one page of audit log results.
const MaxAuditPage = 1000

// AuditFilter narrows an audit log query. ProjectID matches every entry
// recorded against the project, including those about its memberships,
// allocations and attached attributions.
type AuditFilter struct {
	UserID    *uint
	ProjectID *uint
	Entity    *audit.EntityType
	EntityID  *uint
	Action    *string
	Since     *time.Time
	Until     *time.Time
	Limit     int
	Offset    int
}

func (f AuditFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.Entity != nil {
		q = q.Where("resource_type = ?", string(*f.Entity))
	}
	if f.EntityID != nil {
		q = q.Where("resource_id = ?", strconv.FormatUint(uint64(*f.EntityID), 10))
	}
	if f.Action != nil {
		q = q.Where("action = ?", *f.Action)
	}
	if f.Since != nil {
		q = q.Where("created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("created_at <= ?", *f.Until)
	}

	limit := f.Limit
	if limit <= 0 || limit > MaxAuditPage {
		limit = MaxAuditPage
	}
	q = q.Limit(limit)
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return q
}

type AuditRepo interface {
	CreateAuditLog(l *audit.AuditLog) error
	ListAuditLogs(f AuditFilter) ([]audit.AuditLog, error)
	DeleteAuditLogsBefore(cutoff time.Time) (int64, error)
	WithTx(tx *gorm.DB) AuditRepo
}

type DBAuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *DBAuditRepo {
	return &DBAuditRepo{db: db}
}

func (r *DBAuditRepo) CreateAuditLog(l *audit.AuditLog) error {
	return r.db.Create(l).Error
}

// ListAuditLogs returns matching entries, newest first.
func (r *DBAuditRepo) ListAuditLogs(f AuditFilter) ([]audit.AuditLog, error) {
	var logs []audit.AuditLog
	err := f.apply(r.db.Model(&audit.AuditLog{})).
		Order("created_at DESC").
		Order("id DESC").
		Find(&logs).Error
	return logs, err
}

// DeleteAuditLogsBefore removes entries older than cutoff and reports how
// many went. The status history is not touched.
func (r *DBAuditRepo) DeleteAuditLogsBefore(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&audit.AuditLog{})
	return res.RowsAffected, res.Error
}

func (r *DBAuditRepo) WithTx(tx *gorm.DB) AuditRepo {
	if tx == nil {
		return r
	}
	return &DBAuditRepo{db: tx}
}
