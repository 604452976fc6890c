package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InstitutionRepo interface {
	GetInstitutionByID(id uint) (institution.Institution, error)
	GetInstitutionByIdentityProvider(idp string) (institution.Institution, error)
	ListInstitutions() ([]institution.Institution, error)
	UpsertInstitution(inst *institution.Institution) error
	WithTx(tx *gorm.DB) InstitutionRepo
}

type DBInstitutionRepo struct {
	db *gorm.DB
}

func NewInstitutionRepo(db *gorm.DB) *DBInstitutionRepo {
	return &DBInstitutionRepo{db: db}
}

func (r *DBInstitutionRepo) GetInstitutionByID(id uint) (institution.Institution, error) {
	var inst institution.Institution
	err := r.db.First(&inst, id).Error
	return inst, err
}

func (r *DBInstitutionRepo) GetInstitutionByIdentityProvider(idp string) (institution.Institution, error) {
	var inst institution.Institution
	err := r.db.Where("identity_provider = ?", idp).First(&inst).Error
	return inst, err
}

func (r *DBInstitutionRepo) ListInstitutions() ([]institution.Institution, error) {
	var insts []institution.Institution
	err := r.db.Order("name").Find(&insts).Error
	return insts, err
}

// UpsertInstitution inserts or refreshes the policy flags keyed by identity provider.
func (r *DBInstitutionRepo) UpsertInstitution(inst *institution.Institution) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "identity_provider"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "base_domain", "needs_user_approval",
			"needs_supervisor_approval", "allows_rse_requests",
		}),
	}).Create(inst).Error
}

func (r *DBInstitutionRepo) WithTx(tx *gorm.DB) InstitutionRepo {
	if tx == nil {
		return r
	}
	return &DBInstitutionRepo{db: tx}
}
