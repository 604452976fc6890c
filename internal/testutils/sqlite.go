package testutils

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/funding"
	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/domain/system"
	"github.com/linskybing/hpc-portal/internal/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table, in dependency order.
func Models() []any {
	return []any{
		&institution.Institution{},
		&user.User{},
		&user.RoleGrant{},
		&system.System{},
		&project.Project{},
		&membership.ProjectUserMembership{},
		&allocation.SystemAllocationRequest{},
		&allocation.RSEAllocationRequest{},
		&funding.Attribution{},
		&audit.AuditLog{},
		&audit.StatusChange{},
	}
}

// NewSQLiteDB opens a private in-memory database with the schema applied.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// Fixture is a small world: one institution, a tech lead, a member and a
// project awaiting approval.
type Fixture struct {
	Institution institution.Institution
	TechLead    user.User
	Member      user.User
	Outsider    user.User
	Project     project.Project
	System      system.System
}

func Seed(t testing.TB, db *gorm.DB) Fixture {
	t.Helper()

	f := Fixture{
		Institution: institution.Institution{
			Name:             "Cardiff University",
			BaseDomain:       "cardiff.ac.uk",
			IdentityProvider: "https://idp.cardiff.ac.uk/shibboleth",
		},
		System: system.System{Name: "hawk", NumberOfCores: 7000},
	}
	mustCreate(t, db, &f.Institution)
	mustCreate(t, db, &f.System)

	instID := f.Institution.ID
	f.TechLead = user.User{Email: "lead@cardiff.ac.uk", Username: "lead", FirstName: "Tess", LastName: "Lead", InstitutionID: &instID}
	f.Member = user.User{Email: "member@cardiff.ac.uk", Username: "member", FirstName: "Max", LastName: "Member", InstitutionID: &instID}
	f.Outsider = user.User{Email: "other@cardiff.ac.uk", Username: "other", InstitutionID: &instID}
	mustCreate(t, db, &f.TechLead)
	mustCreate(t, db, &f.Member)
	mustCreate(t, db, &f.Outsider)

	code := "scw0001"
	f.Project = project.Project{
		Code:           &code,
		Title:          "Ocean modelling",
		Description:    "Coupled ocean models",
		InstitutionID:  instID,
		TechLeadID:     f.TechLead.ID,
		Status:         project.StatusAwaitingApproval,
		PreviousStatus: project.StatusAwaitingApproval,
	}
	if err := db.Omit("Institution", "TechLead").Create(&f.Project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return f
}

// AddMembership inserts a membership directly in the given status.
func AddMembership(t testing.TB, db *gorm.DB, projectID, userID uint, status membership.Status, initiatedByUser bool) membership.ProjectUserMembership {
	t.Helper()
	m := membership.New(projectID, userID, initiatedByUser, time.Now())
	m.Status = status
	if err := db.Omit("Project", "User").Create(m).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	return *m
}

func mustCreate(t testing.TB, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}
