package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	User        UserRepo
	Institution InstitutionRepo
	System      SystemRepo
	Project     ProjectRepo
	Membership  MembershipRepo
	Allocation  AllocationRepo
	RSE         RSEAllocationRepo
	Attribution AttributionRepo
	History     HistoryRepo
	Audit       AuditRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		User:        NewUserRepo(db),
		Institution: NewInstitutionRepo(db),
		System:      NewSystemRepo(db),
		Project:     NewProjectRepo(db),
		Membership:  NewMembershipRepo(db),
		Allocation:  NewAllocationRepo(db),
		RSE:         NewRSEAllocationRepo(db),
		Attribution: NewAttributionRepo(db),
		History:     NewHistoryRepo(db),
		Audit:       NewAuditRepo(db),
		db:          db,
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		User:        r.User.WithTx(tx),
		Institution: r.Institution.WithTx(tx),
		System:      r.System.WithTx(tx),
		Project:     r.Project.WithTx(tx),
		Membership:  r.Membership.WithTx(tx),
		Allocation:  r.Allocation.WithTx(tx),
		RSE:         r.RSE.WithTx(tx),
		Attribution: r.Attribution.WithTx(tx),
		History:     r.History.WithTx(tx),
		Audit:       r.Audit.WithTx(tx),
		db:          tx,
	}
}

// ExecTx runs fn inside one database transaction. Any error rolls back.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepos := r.WithTx(tx)
		return fn(txRepos)
	})
}
