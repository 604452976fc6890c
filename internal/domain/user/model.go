package user

import (
	"strings"
	"time"
)

// User is an account created on first Shibboleth login.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username      string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	FirstName     string    `gorm:"size:100" json:"first_name"`
	LastName      string    `gorm:"size:100" json:"last_name"`
	InstitutionID *uint     `json:"institution_id"`
	CreatedTime   time.Time `gorm:"autoCreateTime" json:"created_time"`
}

func (User) TableName() string {
	return "users"
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RoleGrant attaches a capability role to a user.
type RoleGrant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_role_grant_user_role" json:"user_id"`
	Role        string    `gorm:"size:64;not null;uniqueIndex:idx_role_grant_user_role" json:"role"`
	CreatedTime time.Time `gorm:"autoCreateTime" json:"created_time"`
}

func (RoleGrant) TableName() string {
	return "role_grants"
}

// UsernameFromEmail derives the directory uid from the local part of an email.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(email)), "@")
	return local
}
