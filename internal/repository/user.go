package repository

import (
	"github.com/linskybing/hpc-portal/internal/domain/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	GetUserByID(id uint) (user.User, error)
	GetUserByEmail(email string) (user.User, error)
	GetUserByUsername(username string) (user.User, error)
	CreateUser(u *user.User) error
	ListRoles(userID uint) ([]string, error)
	GrantRole(userID uint, role string) error
	RevokeRole(userID uint, role string) error
	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{
		db: db,
	}
}

func (r *DBUserRepo) GetUserByID(id uint) (user.User, error) {
	var u user.User
	err := r.db.First(&u, id).Error
	return u, err
}

func (r *DBUserRepo) GetUserByEmail(email string) (user.User, error) {
	var u user.User
	err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	return u, err
}

func (r *DBUserRepo) GetUserByUsername(username string) (user.User, error) {
	var u user.User
	err := r.db.Where("username = ?", username).First(&u).Error
	return u, err
}

func (r *DBUserRepo) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *DBUserRepo) ListRoles(userID uint) ([]string, error) {
	var roles []string
	err := r.db.Model(&user.RoleGrant{}).
		Where("user_id = ?", userID).
		Order("role").
		Pluck("role", &roles).Error
	return roles, err
}

func (r *DBUserRepo) GrantRole(userID uint, role string) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&user.RoleGrant{UserID: userID, Role: role}).Error
}

func (r *DBUserRepo) RevokeRole(userID uint, role string) error {
	return r.db.Where("user_id = ? AND role = ?", userID, role).Delete(&user.RoleGrant{}).Error
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return &DBUserRepo{
		db: tx,
	}
}
