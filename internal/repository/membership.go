package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"gorm.io/gorm"
)

type MembershipRepo interface {
	GetMembershipByID(id uint) (membership.ProjectUserMembership, error)
	LockMembership(id uint) (membership.ProjectUserMembership, error)
	FindMembership(projectID, userID uint) (membership.ProjectUserMembership, error)
	CreateMembership(m *membership.ProjectUserMembership) error
	ListMembershipsByUser(userID uint) ([]membership.ProjectUserMembership, error)
	ListMembershipsByProject(projectID uint) ([]membership.ProjectUserMembership, error)
	ListAuthorisedByProject(projectID uint) ([]membership.ProjectUserMembership, error)
	ListRequestsForTechLead(techLeadID uint) ([]membership.ProjectUserMembership, error)
	CompareAndSwapStatus(m *membership.ProjectUserMembership, from membership.Status) (bool, error)
	WithTx(tx *gorm.DB) MembershipRepo
}

type DBMembershipRepo struct {
	db *gorm.DB
}

func NewMembershipRepo(db *gorm.DB) *DBMembershipRepo {
	return &DBMembershipRepo{
		db: db,
	}
}

func (r *DBMembershipRepo) GetMembershipByID(id uint) (membership.ProjectUserMembership, error) {
	var m membership.ProjectUserMembership
	err := r.db.Preload("Project").Preload("User").First(&m, id).Error
	return m, err
}

func (r *DBMembershipRepo) LockMembership(id uint) (membership.ProjectUserMembership, error) {
	var m membership.ProjectUserMembership
	err := forUpdate(r.db).First(&m, id).Error
	return m, err
}

func (r *DBMembershipRepo) FindMembership(projectID, userID uint) (membership.ProjectUserMembership, error) {
	var m membership.ProjectUserMembership
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&m).Error
	return m, err
}

func (r *DBMembershipRepo) CreateMembership(m *membership.ProjectUserMembership) error {
	return r.db.Omit("Project", "User").Create(m).Error
}

func (r *DBMembershipRepo) ListMembershipsByUser(userID uint) ([]membership.ProjectUserMembership, error) {
	var ms []membership.ProjectUserMembership
	err := r.db.Preload("Project").
		Where("user_id = ?", userID).
		Order("created_time DESC").
		Find(&ms).Error
	return ms, err
}

func (r *DBMembershipRepo) ListMembershipsByProject(projectID uint) ([]membership.ProjectUserMembership, error) {
	var ms []membership.ProjectUserMembership
	err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("id").
		Find(&ms).Error
	return ms, err
}

func (r *DBMembershipRepo) ListAuthorisedByProject(projectID uint) ([]membership.ProjectUserMembership, error) {
	var ms []membership.ProjectUserMembership
	err := r.db.Preload("User").
		Where("project_id = ? AND status = ?", projectID, membership.StatusAuthorised).
		Order("id").
		Find(&ms).Error
	return ms, err
}

// ListRequestsForTechLead returns join requests on projects led by techLeadID.
func (r *DBMembershipRepo) ListRequestsForTechLead(techLeadID uint) ([]membership.ProjectUserMembership, error) {
	var ms []membership.ProjectUserMembership
	err := r.db.Preload("Project").Preload("User").
		Joins("JOIN projects ON projects.id = project_user_memberships.project_id").
		Where("projects.tech_lead_id = ? AND project_user_memberships.initiated_by_user = ?", techLeadID, true).
		Where("project_user_memberships.user_id <> ?", techLeadID).
		Order("project_user_memberships.created_time DESC").
		Find(&ms).Error
	return ms, err
}

func (r *DBMembershipRepo) CompareAndSwapStatus(m *membership.ProjectUserMembership, from membership.Status) (bool, error) {
	res := r.db.Model(&membership.ProjectUserMembership{}).
		Where("id = ? AND status = ?", m.ID, from).
		Updates(map[string]any{
			"status":          m.Status,
			"previous_status": m.PreviousStatus,
			"approved_time":   m.ApprovedTime,
			"date_left":       m.DateLeft,
			"modified_time":   m.ModifiedTime,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *DBMembershipRepo) WithTx(tx *gorm.DB) MembershipRepo {
	if tx == nil {
		return r
	}
	return &DBMembershipRepo{
		db: tx,
	}
}
