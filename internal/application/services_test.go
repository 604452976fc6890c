package application

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/api/middleware"
	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/funding"
	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/domain/system"
	"github.com/linskybing/hpc-portal/internal/domain/user"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/internal/storage"
	"github.com/linskybing/hpc-portal/internal/testutils"
	"github.com/linskybing/hpc-portal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryDocuments struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memoryDocuments) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[key] = b
	return nil
}

func (m *memoryDocuments) Open(_ context.Context, key string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[key]
	if !ok {
		return nil, 0, storage.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

type staticRoles map[string]bool

func (r staticRoles) KnownRole(role string) bool { return r[role] }

func setupServices(t *testing.T) (*Services, *gorm.DB, testutils.Fixture, *memoryDocuments) {
	t.Helper()
	db := testutils.NewSQLiteDB(t)
	fx := testutils.Seed(t, db)
	docs := &memoryDocuments{}
	svcs := New(repository.NewRepositories(db), Deps{
		Documents: docs,
		Roles:     staticRoles{"allocation_admin": true, "project_applicant": true},
	})

	utils.LogAuditWithConsole = func(c *gin.Context, action string, ref audit.Ref, oldData, newData interface{}, msg string, repos repository.AuditRepo) {
	}
	return svcs, db, fx, docs
}

func testContext() *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", nil)
	return c
}

func TestCreateProject(t *testing.T) {
	svcs, db, fx, _ := setupServices(t)
	c := testContext()

	_, err := svcs.Project.CreateProject(c, actorFor(fx.Member.ID), project.CreateProjectDTO{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrForbidden)

	supervisor := "prof@cardiff.ac.uk"
	p, err := svcs.Project.CreateProject(c, actorFor(fx.Member.ID, lifecycle.CapProjectAdd), project.CreateProjectDTO{
		Title:           " Climate ",
		Description:     "Regional climate runs",
		SupervisorEmail: &supervisor,
	})
	require.NoError(t, err)
	assert.Equal(t, "Climate", p.Title)
	assert.Equal(t, project.CodeFor(p.ID), p.CodeString())
	assert.Equal(t, project.StatusAwaitingApproval, p.Status)
	assert.Equal(t, fx.Institution.ID, p.InstitutionID)

	var lead membership.ProjectUserMembership
	require.NoError(t, db.Where("project_id = ? AND user_id = ?", p.ID, fx.Member.ID).First(&lead).Error)
	assert.Equal(t, membership.StatusAuthorised, lead.Status)
	assert.False(t, lead.InitiatedByUser)

	// The tech lead's own membership is not theirs to end.
	_, err = svcs.Transition.TransitionMembership(context.Background(), actorFor(fx.Member.ID), MembershipTransition{ID: lead.ID, To: membership.StatusSuspended})
	assert.ErrorIs(t, err, lifecycle.ErrUnauthorized)

	// Supervisor sign-off is reserved to the named supervisor.
	_, err = svcs.Project.SupervisorApprove(c, lifecycle.Actor{UserID: fx.Member.ID, Email: fx.Member.Email}, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	approved, err := svcs.Project.SupervisorApprove(c, lifecycle.Actor{UserID: 99, Email: "PROF@cardiff.ac.uk"}, p.ID)
	require.NoError(t, err)
	assert.True(t, approved.SupervisorApproved)
}

func TestListProjectsByCapability(t *testing.T) {
	svcs, _, fx, _ := setupServices(t)

	mine, err := svcs.Project.ListProjects(actorFor(fx.TechLead.ID), nil)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := svcs.Project.ListProjects(actorFor(fx.Member.ID), nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	approved := project.StatusApproved
	all, err := svcs.Project.ListProjects(actorFor(fx.Member.ID, lifecycle.CapProjectApprove), &approved)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAllocationLifecycle(t *testing.T) {
	svcs, _, fx, docs := setupServices(t)
	c := testContext()
	lead := actorFor(fx.TechLead.ID)
	input := allocation.CreateAllocationDTO{
		SystemID:          fx.System.ID,
		StartDate:         "2026-01-01",
		EndDate:           "2026-12-31",
		AllocationCPUTime: 100000,
	}

	_, err := svcs.Allocation.CreateAllocation(c, actorFor(fx.Member.ID), fx.Project.ID, input)
	assert.ErrorIs(t, err, ErrNotTechLead)

	bad := input
	bad.EndDate = "2025-01-01"
	_, err = svcs.Allocation.CreateAllocation(c, lead, fx.Project.ID, bad)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	missing := input
	missing.SystemID = 404
	_, err = svcs.Allocation.CreateAllocation(c, lead, fx.Project.ID, missing)
	assert.ErrorIs(t, err, ErrSystemNotFound)

	a, err := svcs.Allocation.CreateAllocation(c, lead, fx.Project.ID, input)
	require.NoError(t, err)
	assert.Equal(t, project.StatusAwaitingApproval, a.Status)

	_, _, _, err = svcs.Allocation.OpenDocument(context.Background(), lead, a.ID)
	assert.ErrorIs(t, err, ErrNoDocument)

	_, err = svcs.Allocation.UploadDocument(c, actorFor(fx.Member.ID, lifecycle.CapAllocationApprove), a.ID, "x.pdf", strings.NewReader("x"), 1, "application/pdf")
	assert.ErrorIs(t, err, ErrNotTechLead)

	updated, err := svcs.Allocation.UploadDocument(c, lead, a.ID, "../Case for support.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)
	require.NotNil(t, updated.Document)
	assert.Equal(t, a.DocumentKey("Case_for_support.pdf"), *updated.Document)
	assert.Contains(t, docs.files, *updated.Document)

	body, size, key, err := svcs.Allocation.OpenDocument(context.Background(), actorFor(fx.Outsider.ID, lifecycle.CapAllocationApprove), a.ID)
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, int64(4), size)
	assert.Equal(t, *updated.Document, key)

	_, _, _, err = svcs.Allocation.OpenDocument(context.Background(), actorFor(fx.Outsider.ID), a.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svcs.Allocation.ListAllocations(lead, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := svcs.Allocation.ListProjectAllocations(lead, fx.Project.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateProjectWithAllocation(t *testing.T) {
	svcs, db, fx, _ := setupServices(t)
	c := testContext()
	applicant := actorFor(fx.Member.ID, lifecycle.CapProjectAdd)
	input := allocation.CreateProjectAndAllocationDTO{
		Project: project.CreateProjectDTO{Title: "Tidal energy", Description: "Turbine arrays"},
		Allocation: allocation.CreateAllocationDTO{
			SystemID:  fx.System.ID,
			StartDate: "2026-04-01",
			EndDate:   "2027-03-31",
		},
	}

	_, _, err := svcs.Project.CreateProjectWithAllocation(c, actorFor(fx.Member.ID), input)
	assert.ErrorIs(t, err, ErrForbidden)

	countProjects := func() int64 {
		var n int64
		require.NoError(t, db.Model(&project.Project{}).Count(&n).Error)
		return n
	}

	missing := input
	missing.Allocation.SystemID = 404
	_, _, err = svcs.Project.CreateProjectWithAllocation(c, applicant, missing)
	assert.ErrorIs(t, err, ErrSystemNotFound)
	assert.Equal(t, int64(1), countProjects())

	bad := input
	bad.Allocation.EndDate = "2026-01-01"
	_, _, err = svcs.Project.CreateProjectWithAllocation(c, applicant, bad)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	assert.Equal(t, int64(1), countProjects())

	var memberships int64
	require.NoError(t, db.Model(&membership.ProjectUserMembership{}).Where("user_id = ?", fx.Member.ID).Count(&memberships).Error)
	assert.Zero(t, memberships)

	p, a, err := svcs.Project.CreateProjectWithAllocation(c, applicant, input)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countProjects())
	assert.Equal(t, project.CodeFor(p.ID), p.CodeString())
	assert.Equal(t, p.ID, a.ProjectID)
	assert.Equal(t, project.StatusAwaitingApproval, a.Status)

	list, err := svcs.Allocation.ListProjectAllocations(actorFor(fx.Member.ID), p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	var lead membership.ProjectUserMembership
	require.NoError(t, db.Where("project_id = ? AND user_id = ?", p.ID, fx.Member.ID).First(&lead).Error)
	assert.Equal(t, membership.StatusAuthorised, lead.Status)
}

func TestRSEAllocationRequests(t *testing.T) {
	svcs, db, fx, _ := setupServices(t)
	c := testContext()
	lead := actorFor(fx.TechLead.ID)
	input := allocation.CreateRSEAllocationDTO{Title: " Profile the solver ", DurationWeeks: 4, Goals: "Halve runtime"}

	_, err := svcs.Allocation.CreateRSEAllocation(c, lead, fx.Project.ID, input)
	assert.ErrorIs(t, err, ErrRSENotOffered)

	require.NoError(t, db.Model(&institution.Institution{}).Where("id = ?", fx.Institution.ID).
		Update("allows_rse_requests", true).Error)

	_, err = svcs.Allocation.CreateRSEAllocation(c, actorFor(fx.Member.ID), fx.Project.ID, input)
	assert.ErrorIs(t, err, ErrNotTechLead)
	_, err = svcs.Allocation.CreateRSEAllocation(c, lead, 404, input)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	a, err := svcs.Allocation.CreateRSEAllocation(c, lead, fx.Project.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Profile the solver", a.Title)
	assert.Equal(t, project.StatusAwaitingApproval, a.Status)
	assert.True(t, a.ApprovedTime.Equal(project.OpenEnded))

	got, err := svcs.Allocation.GetRSEAllocation(lead, a.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(4), got.DurationWeeks)

	_, err = svcs.Allocation.GetRSEAllocation(actorFor(fx.Outsider.ID), a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svcs.Allocation.GetRSEAllocation(lead, 404)
	assert.ErrorIs(t, err, ErrRSEAllocationNotFound)

	_, err = svcs.Allocation.ListRSEAllocations(lead, nil)
	assert.ErrorIs(t, err, ErrForbidden)
	pending := project.StatusAwaitingApproval
	all, err := svcs.Allocation.ListRSEAllocations(actorFor(fx.Outsider.ID, lifecycle.CapAllocationApprove), &pending)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := svcs.Allocation.ListProjectRSEAllocations(lead, fx.Project.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	_, err = svcs.Allocation.ListProjectRSEAllocations(actorFor(fx.Member.ID), fx.Project.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	history, err := svcs.Audit.History(audit.EntityRSEAllocation, a.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAttributions(t *testing.T) {
	svcs, _, fx, _ := setupServices(t)
	c := testContext()
	lead := actorFor(fx.TechLead.ID)

	a, err := svcs.Attribution.CreateAttribution(c, lead, funding.CreateAttributionDTO{Title: "EPSRC grant", Type: funding.TypeFundingSource, Identifier: "EP/X000001/1"})
	require.NoError(t, err)

	err = svcs.Attribution.AttachToProject(c, actorFor(fx.Member.ID), fx.Project.ID, a.ID)
	assert.ErrorIs(t, err, ErrNotTechLead)

	err = svcs.Attribution.AttachToProject(c, lead, fx.Project.ID, 404)
	assert.ErrorIs(t, err, ErrAttributionNotFound)

	require.NoError(t, svcs.Attribution.AttachToProject(c, lead, fx.Project.ID, a.ID))
	require.NoError(t, svcs.Attribution.AttachToProject(c, lead, fx.Project.ID, a.ID))

	list, err := svcs.Attribution.ListForProject(fx.Project.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "EPSRC grant", list[0].Title)

	mine, err := svcs.Attribution.ListMine(lead)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestLogin(t *testing.T) {
	svcs, _, fx, _ := setupServices(t)
	config.JwtSecret = "test-secret"
	config.TokenLifetime = time.Hour
	middleware.Init()

	_, _, _, err := svcs.User.Login(user.ShibbolethIdentity{RemoteUser: "", IdentityProvider: fx.Institution.IdentityProvider})
	assert.ErrorIs(t, err, ErrMissingIdentity)

	_, _, _, err = svcs.User.Login(user.ShibbolethIdentity{RemoteUser: "x@elsewhere.edu", IdentityProvider: "https://idp.elsewhere.edu"})
	assert.ErrorIs(t, err, ErrUnknownInstitution)

	u, token, roles, err := svcs.User.Login(user.ShibbolethIdentity{
		RemoteUser:       "New.Person@cardiff.ac.uk",
		IdentityProvider: fx.Institution.IdentityProvider,
		GivenName:        "New",
		Surname:          "Person",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.person@cardiff.ac.uk", u.Email)
	assert.Equal(t, "new.person", u.Username)
	assert.Equal(t, fx.Institution.ID, *u.InstitutionID)
	assert.NotEmpty(t, token)
	assert.Empty(t, roles)

	// The seeded "member" username is taken, so a second member@ gets qualified.
	other, _, _, err := svcs.User.Login(user.ShibbolethIdentity{RemoteUser: "member@swansea.ac.uk", IdentityProvider: fx.Institution.IdentityProvider})
	require.NoError(t, err)
	assert.Equal(t, "member.swansea", other.Username)

	again, _, _, err := svcs.User.Login(user.ShibbolethIdentity{RemoteUser: "new.person@cardiff.ac.uk", IdentityProvider: fx.Institution.IdentityProvider})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
}

func TestAdminGrantAndSeed(t *testing.T) {
	svcs, _, fx, _ := setupServices(t)

	assert.ErrorIs(t, svcs.Admin.GrantRole(fx.Member.Email, "superuser"), ErrUnknownRole)
	assert.ErrorIs(t, svcs.Admin.GrantRole("ghost@cardiff.ac.uk", "allocation_admin"), ErrUserNotFound)
	require.NoError(t, svcs.Admin.GrantRole(fx.Member.Email, "allocation_admin"))

	dto, err := svcs.User.GetUser(fx.Member.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"allocation_admin"}, dto.Roles)

	require.NoError(t, svcs.Admin.RevokeRole(fx.Member.Email, "allocation_admin"))
	dto, err = svcs.User.GetUser(fx.Member.ID)
	require.NoError(t, err)
	assert.Empty(t, dto.Roles)

	require.NoError(t, svcs.Admin.SeedInstitutions([]institution.Institution{{
		Name:                    "Swansea University",
		BaseDomain:              "swansea.ac.uk",
		IdentityProvider:        "https://idp.swansea.ac.uk/shibboleth",
		NeedsSupervisorApproval: true,
	}}))
	require.NoError(t, svcs.Admin.SeedSystems([]system.SystemInput{{Name: "sunbird", NumberOfCores: 5000}}))

	systems, err := svcs.Allocation.ListSystems()
	require.NoError(t, err)
	assert.Len(t, systems, 2)
}

func TestHistoryAndAudit(t *testing.T) {
	svcs, _, fx, _ := setupServices(t)

	_, err := svcs.Audit.History(audit.EntityMembership, 404)
	assert.ErrorIs(t, err, ErrMembershipNotFound)

	changes, err := svcs.Audit.History(audit.EntityProject, fx.Project.ID)
	require.NoError(t, err)
	assert.Empty(t, changes)

	_, err = svcs.Audit.QueryAuditLogs(actorFor(fx.Member.ID), repository.AuditFilter{})
	assert.ErrorIs(t, err, ErrForbidden)

	logs, err := svcs.Audit.QueryAuditLogs(actorFor(fx.Member.ID, lifecycle.CapAuditRead), repository.AuditFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
