package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/api/middleware"
	"github.com/linskybing/hpc-portal/internal/application"
	"github.com/linskybing/hpc-portal/internal/config"
	"github.com/linskybing/hpc-portal/internal/domain/allocation"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/domain/institution"
	"github.com/linskybing/hpc-portal/internal/domain/membership"
	"github.com/linskybing/hpc-portal/internal/domain/project"
	"github.com/linskybing/hpc-portal/internal/lifecycle"
	"github.com/linskybing/hpc-portal/internal/repository"
	"github.com/linskybing/hpc-portal/internal/testutils"
	"github.com/linskybing/hpc-portal/pkg/response"
	"github.com/linskybing/hpc-portal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type staticCapabilities map[uint][]lifecycle.Capability

func (s staticCapabilities) Capabilities(_ context.Context, userID uint) (map[lifecycle.Capability]bool, error) {
	caps := map[lifecycle.Capability]bool{}
	for _, c := range s[userID] {
		caps[c] = true
	}
	return caps, nil
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	fx     testutils.Fixture
	caps   staticCapabilities
}

// setupRouter seeds the fixture with its project approved. Capabilities can
// be granted through the returned server's caps map.
func setupRouter(t *testing.T) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JwtSecret = "test-secret"
	config.Issuer = "hpc-portal-test"
	config.TokenLifetime = time.Hour
	middleware.Init()

	utils.LogAuditWithConsole = func(c *gin.Context, action string, ref audit.Ref, oldData, newData interface{}, msg string, repos repository.AuditRepo) {
	}

	db := testutils.NewSQLiteDB(t)
	fx := testutils.Seed(t, db)
	require.NoError(t, db.Model(&project.Project{}).Where("id = ?", fx.Project.ID).
		Update("status", project.StatusApproved).Error)

	caps := staticCapabilities{}
	svcs := application.New(repository.NewRepositories(db), application.Deps{})
	r := gin.New()
	RegisterRoutes(r, svcs, caps)
	return testServer{router: r, db: db, fx: fx, caps: caps}
}

func (s testServer) token(t *testing.T, userID uint, email string) string {
	t.Helper()
	tok, err := middleware.GenerateToken(userID, email, email, time.Hour)
	require.NoError(t, err)
	return tok
}

func (s testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestRoutes_RequireToken(t *testing.T) {
	s := setupRouter(t)

	w := s.do(t, http.MethodGet, "/memberships", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/memberships", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_ShibbolethHeaders(t *testing.T) {
	s := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("REMOTE_USER", "lead@cardiff.ac.uk")
	req.Header.Set("Shib-Identity-Provider", "https://idp.unknown.ac.uk/shibboleth")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("REMOTE_USER", "Lead@Cardiff.ac.uk")
	req.Header.Set("Shib-Identity-Provider", s.fx.Institution.IdentityProvider)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, s.fx.TechLead.ID, resp.UID)
	assert.NotEmpty(t, resp.Token)

	var cookieSet bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" && ck.Value == resp.Token {
			cookieSet = true
		}
	}
	assert.True(t, cookieSet)

	w = s.do(t, http.MethodGet, "/me", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lead@cardiff.ac.uk")
}

func TestMembershipStatus_JoinRequestFlow(t *testing.T) {
	s := setupRouter(t)
	memberTok := s.token(t, s.fx.Member.ID, s.fx.Member.Email)
	leadTok := s.token(t, s.fx.TechLead.ID, s.fx.TechLead.Email)

	w := s.do(t, http.MethodPost, "/memberships/join", memberTok, membership.JoinProjectDTO{ProjectCode: "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/memberships/join", memberTok, membership.JoinProjectDTO{ProjectCode: s.fx.Project.CodeString()})
	require.Equal(t, http.StatusCreated, w.Code)
	var m membership.ProjectUserMembership
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, membership.StatusAwaitingAuthorisation, m.Status)

	w = s.do(t, http.MethodPost, "/memberships/join", memberTok, membership.JoinProjectDTO{ProjectCode: s.fx.Project.CodeString()})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	path := "/memberships/" + itoa(m.ID) + "/status"

	// The requester cannot authorise their own request.
	w = s.do(t, http.MethodPut, path, memberTok, membership.UpdateStatusDTO{Status: membership.StatusAuthorised})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// A third party is not a counterparty.
	outsiderTok := s.token(t, s.fx.Outsider.ID, s.fx.Outsider.Email)
	w = s.do(t, http.MethodPut, path, outsiderTok, membership.UpdateStatusDTO{Status: membership.StatusAuthorised})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, path, leadTok, membership.UpdateStatusDTO{
		Status:         membership.StatusAuthorised,
		ExpectedStatus: membership.StatusAwaitingAuthorisation,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, membership.StatusAuthorised, m.Status)

	// The form was rendered before the change.
	w = s.do(t, http.MethodPut, path, leadTok, membership.UpdateStatusDTO{
		Status:         membership.StatusDeclined,
		ExpectedStatus: membership.StatusAwaitingAuthorisation,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, path, leadTok, membership.UpdateStatusDTO{Status: membership.StatusDeclined})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/memberships/"+itoa(m.ID)+"/history", memberTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var changes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &changes))
	assert.Len(t, changes, 1)

	w = s.do(t, http.MethodGet, "/memberships/"+itoa(m.ID), outsiderTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, "/memberships/9999/status", leadTok, membership.UpdateStatusDTO{Status: membership.StatusAuthorised})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembershipStatus_InvitationFlow(t *testing.T) {
	s := setupRouter(t)
	memberTok := s.token(t, s.fx.Member.ID, s.fx.Member.Email)
	leadTok := s.token(t, s.fx.TechLead.ID, s.fx.TechLead.Email)
	invitePath := "/projects/" + itoa(s.fx.Project.ID) + "/invitations"

	// Only the tech lead invites.
	w := s.do(t, http.MethodPost, invitePath, memberTok, membership.InviteUserDTO{Email: s.fx.Outsider.Email})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, invitePath, leadTok, membership.InviteUserDTO{Email: s.fx.Member.Email})
	require.Equal(t, http.StatusCreated, w.Code)
	var m membership.ProjectUserMembership
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.False(t, m.InitiatedByUser)

	w = s.do(t, http.MethodGet, "/memberships/"+itoa(m.ID), memberTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored membership.ProjectUserMembership
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.False(t, stored.InitiatedByUser)

	path := "/memberships/" + itoa(m.ID) + "/status"

	// The tech lead cannot answer on the invitee's behalf.
	w = s.do(t, http.MethodPut, path, leadTok, membership.UpdateStatusDTO{Status: membership.StatusAuthorised})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, path, memberTok, membership.UpdateStatusDTO{Status: membership.StatusAuthorised})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, membership.StatusAuthorised, m.Status)

	// Once accepted, the member cannot end it; the tech lead can.
	w = s.do(t, http.MethodPut, path, memberTok, membership.UpdateStatusDTO{Status: membership.StatusRevoked})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, path, leadTok, membership.UpdateStatusDTO{Status: membership.StatusSuspended})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, membership.StatusSuspended, m.Status)
}

func TestCapabilityRoutes(t *testing.T) {
	s := setupRouter(t)
	tok := s.token(t, s.fx.Member.ID, s.fx.Member.Email)

	w := s.do(t, http.MethodPost, "/projects", tok, project.CreateProjectDTO{Title: "t", Description: "d"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/audit/logs", tok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/allocations", tok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectRoutes_ApproverFlow(t *testing.T) {
	s := setupRouter(t)
	approverID := s.fx.Outsider.ID
	s.caps[approverID] = []lifecycle.Capability{lifecycle.CapProjectApprove}
	s.caps[s.fx.Member.ID] = []lifecycle.Capability{lifecycle.CapProjectAdd}
	memberTok := s.token(t, s.fx.Member.ID, s.fx.Member.Email)
	approverTok := s.token(t, approverID, s.fx.Outsider.Email)

	w := s.do(t, http.MethodPost, "/projects", memberTok, project.CreateProjectDTO{Title: "Genomics", Description: "Sequencing"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p project.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))

	w = s.do(t, http.MethodGet, "/projects?status=bogus", approverTok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/projects?status=awaiting_approval", approverTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []project.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	path := "/projects/" + itoa(p.ID) + "/status"
	w = s.do(t, http.MethodPut, path, memberTok, project.UpdateStatusDTO{Status: project.StatusApproved})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, path, approverTok, project.UpdateStatusDTO{Status: project.StatusApproved})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, path, approverTok, project.UpdateStatusDTO{Status: project.StatusAwaitingApproval})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/projects/"+itoa(p.ID)+"/history", memberTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProjectRoutes_CreateWithAllocation(t *testing.T) {
	s := setupRouter(t)
	s.caps[s.fx.Member.ID] = []lifecycle.Capability{lifecycle.CapProjectAdd}
	memberTok := s.token(t, s.fx.Member.ID, s.fx.Member.Email)
	outsiderTok := s.token(t, s.fx.Outsider.ID, s.fx.Outsider.Email)
	body := allocation.CreateProjectAndAllocationDTO{
		Project: project.CreateProjectDTO{Title: "Seismic imaging", Description: "Full waveform inversion"},
		Allocation: allocation.CreateAllocationDTO{
			SystemID:          s.fx.System.ID,
			StartDate:         "2026-05-01",
			EndDate:           "2026-11-01",
			AllocationCPUTime: 50000,
		},
	}

	w := s.do(t, http.MethodPost, "/projects/with-allocation", outsiderTok, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	missing := body
	missing.Allocation.SystemID = 404
	w = s.do(t, http.MethodPost, "/projects/with-allocation", memberTok, missing)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/projects/with-allocation", memberTok, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Project    project.Project                    `json:"project"`
		Allocation allocation.SystemAllocationRequest `json:"allocation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, s.fx.Member.ID, created.Project.TechLeadID)
	assert.Equal(t, created.Project.ID, created.Allocation.ProjectID)
	assert.Equal(t, uint64(50000), created.Allocation.AllocationCPUTime)

	var projects int64
	require.NoError(t, s.db.Model(&project.Project{}).Count(&projects).Error)
	assert.Equal(t, int64(2), projects)
}

func TestRSEAllocationRoutes(t *testing.T) {
	s := setupRouter(t)
	adminID := s.fx.Outsider.ID
	s.caps[adminID] = []lifecycle.Capability{lifecycle.CapAllocationApprove}
	leadTok := s.token(t, s.fx.TechLead.ID, s.fx.TechLead.Email)
	memberTok := s.token(t, s.fx.Member.ID, s.fx.Member.Email)
	adminTok := s.token(t, adminID, s.fx.Outsider.Email)
	path := "/projects/" + itoa(s.fx.Project.ID) + "/rse-allocations"
	body := allocation.CreateRSEAllocationDTO{Title: "Refactor I/O", DurationWeeks: 8, Goals: "Parallel HDF5"}

	w := s.do(t, http.MethodPost, path, leadTok, body)
	assert.Equal(t, http.StatusForbidden, w.Code, "institution does not offer rse time")

	require.NoError(t, s.db.Model(&institution.Institution{}).Where("id = ?", s.fx.Institution.ID).
		Update("allows_rse_requests", true).Error)

	w = s.do(t, http.MethodPost, path, memberTok, body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, path, leadTok, allocation.CreateRSEAllocationDTO{Title: "No duration", Goals: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, path, leadTok, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var rse allocation.RSEAllocationRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rse))
	assert.Equal(t, project.StatusAwaitingApproval, rse.Status)

	w = s.do(t, http.MethodGet, path, leadTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []allocation.RSEAllocationRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	w = s.do(t, http.MethodGet, "/rse-allocations", leadTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, "/rse-allocations?status=awaiting_approval", adminTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	statusPath := "/rse-allocations/" + itoa(rse.ID) + "/status"
	w = s.do(t, http.MethodPut, statusPath, leadTok, project.UpdateStatusDTO{Status: project.StatusApproved})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPut, statusPath, adminTok, project.UpdateStatusDTO{Status: project.StatusApproved, ExpectedStatus: project.StatusDeclined})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPut, statusPath, adminTok, project.UpdateStatusDTO{Status: project.StatusApproved, ReasonDecision: "scheduled for June"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rse))
	assert.Equal(t, project.StatusApproved, rse.Status)
	assert.Equal(t, "scheduled for June", rse.ReasonDecision)

	w = s.do(t, http.MethodGet, "/rse-allocations/"+itoa(rse.ID)+"/history", leadTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []audit.StatusChange
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, audit.EntityRSEAllocation, history[0].EntityType)

	w = s.do(t, http.MethodGet, "/rse-allocations/"+itoa(rse.ID), memberTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(t, http.MethodGet, "/rse-allocations/999", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
