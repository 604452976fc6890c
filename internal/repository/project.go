package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	GetProjectByID(id uint) (project.Project, error)
	GetProjectByCode(code string) (project.Project, error)
	LockProject(id uint) (project.Project, error)
	CreateProject(p *project.Project) error
	ListProjects(status *project.Status) ([]project.Project, error)
	ListProjectsByTechLead(userID uint) ([]project.Project, error)
	CompareAndSwapStatus(p *project.Project, from project.Status) (bool, error)
	SetSupervisorApproved(id uint) error
	AssignGIDNumber(id, gid uint) (bool, error)
	WithTx(tx *gorm.DB) ProjectRepo
}

type DBProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *DBProjectRepo {
	return &DBProjectRepo{
		db: db,
	}
}

func (r *DBProjectRepo) GetProjectByID(id uint) (project.Project, error) {
	var p project.Project
	err := r.db.Preload("Institution").Preload("TechLead").First(&p, id).Error
	return p, err
}

func (r *DBProjectRepo) GetProjectByCode(code string) (project.Project, error) {
	var p project.Project
	err := r.db.Where("code = ?", code).First(&p).Error
	return p, err
}

// LockProject reads the row under a write lock for the rest of the transaction.
func (r *DBProjectRepo) LockProject(id uint) (project.Project, error) {
	var p project.Project
	err := forUpdate(r.db).First(&p, id).Error
	return p, err
}

// CreateProject inserts the project and assigns its code from the new id.
func (r *DBProjectRepo) CreateProject(p *project.Project) error {
	if err := r.db.Omit("Institution", "TechLead").Create(p).Error; err != nil {
		return err
	}
	code := project.CodeFor(p.ID)
	if err := r.db.Model(&project.Project{}).Where("id = ?", p.ID).Update("code", code).Error; err != nil {
		return err
	}
	p.Code = &code
	return nil
}

func (r *DBProjectRepo) ListProjects(status *project.Status) ([]project.Project, error) {
	var projects []project.Project
	query := r.db.Preload("TechLead").Order("id")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Find(&projects).Error
	return projects, err
}

func (r *DBProjectRepo) ListProjectsByTechLead(userID uint) ([]project.Project, error) {
	var projects []project.Project
	err := r.db.Where("tech_lead_id = ?", userID).Order("id").Find(&projects).Error
	return projects, err
}

// CompareAndSwapStatus writes the transition fields only if the row still
// holds `from`. It reports false when another writer got there first.
func (r *DBProjectRepo) CompareAndSwapStatus(p *project.Project, from project.Status) (bool, error) {
	res := r.db.Model(&project.Project{}).
		Where("id = ? AND status = ?", p.ID, from).
		Updates(map[string]any{
			"status":          p.Status,
			"previous_status": p.PreviousStatus,
			"reason_decision": p.ReasonDecision,
			"modified_time":   p.ModifiedTime,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *DBProjectRepo) SetSupervisorApproved(id uint) error {
	return r.db.Model(&project.Project{}).Where("id = ?", id).Update("supervisor_approved", true).Error
}

// AssignGIDNumber sets the gid once. A second call is a no-op returning false.
func (r *DBProjectRepo) AssignGIDNumber(id, gid uint) (bool, error) {
	res := r.db.Model(&project.Project{}).
		Where("id = ? AND gid_number IS NULL", id).
		Update("gid_number", gid)
	return res.RowsAffected == 1, res.Error
}

func (r *DBProjectRepo) WithTx(tx *gorm.DB) ProjectRepo {
	if tx == nil {
		return r
	}
	return &DBProjectRepo{
		db: tx,
	}
}
