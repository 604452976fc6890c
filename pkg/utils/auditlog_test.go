package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/repository/mock"
	"github.com/linskybing/hpc-portal/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogAudit_MarshalsSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditRepo := mock.NewMockAuditRepo(ctrl)

	var saved *audit.AuditLog
	auditRepo.EXPECT().CreateAuditLog(gomock.Any()).DoAndReturn(func(l *audit.AuditLog) error {
		saved = l
		return nil
	})

	before := map[string]string{"status": "awaiting_authorisation"}
	after := map[string]string{"status": "authorised"}
	ref := audit.Ref{Entity: audit.EntityMembership, ID: 9, ProjectID: 3}
	err := LogAudit(4, "10.0.0.1", "curl", "invite", ref, before, after, "", auditRepo)

	assert.NoError(t, err)
	if assert.NotNil(t, saved) {
		assert.Equal(t, uint(4), saved.UserID)
		assert.Equal(t, "invite", saved.Action)
		assert.Equal(t, "membership", saved.ResourceType)
		assert.Equal(t, "9", saved.ResourceID)
		if assert.NotNil(t, saved.ProjectID) {
			assert.Equal(t, uint(3), *saved.ProjectID)
		}

		var got map[string]string
		assert.NoError(t, json.Unmarshal(saved.NewData, &got))
		assert.Equal(t, "authorised", got["status"])
	}
}

func TestLogAudit_NilSnapshots(t *testing.T) {
	ctrl := gomock.NewController(t)
	auditRepo := mock.NewMockAuditRepo(ctrl)
	auditRepo.EXPECT().CreateAuditLog(gomock.Any()).DoAndReturn(func(l *audit.AuditLog) error {
		assert.Nil(t, l.OldData)
		assert.Nil(t, l.NewData)
		assert.Nil(t, l.ProjectID)
		return nil
	})

	assert.NoError(t, LogAudit(1, "", "", "create", audit.Ref{Entity: audit.EntityAttribution, ID: 1}, nil, nil, "", auditRepo))
}

func TestLogAuditWithConsole_WritesBeforeReturning(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("PUT", "/memberships/9/status", nil)
	c.Request.Header.Set("User-Agent", "portal-test")
	c.Set("claims", &types.Claims{UserID: 7})

	ctrl := gomock.NewController(t)
	auditRepo := mock.NewMockAuditRepo(ctrl)
	var saved *audit.AuditLog
	auditRepo.EXPECT().CreateAuditLog(gomock.Any()).DoAndReturn(func(l *audit.AuditLog) error {
		saved = l
		return nil
	})

	LogAuditWithConsole(c, "update", audit.Ref{Entity: audit.EntityMembership, ID: 9, ProjectID: 1}, nil, map[string]string{"status": "revoked"}, "", auditRepo)

	require.NotNil(t, saved)
	assert.Equal(t, uint(7), saved.UserID)
	assert.Equal(t, "portal-test", saved.UserAgent)
}

func TestLogAuditWithConsole_SwallowsWriteError(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", nil)

	ctrl := gomock.NewController(t)
	auditRepo := mock.NewMockAuditRepo(ctrl)
	auditRepo.EXPECT().CreateAuditLog(gomock.Any()).Return(errors.New("db down"))

	assert.NotPanics(t, func() {
		LogAuditWithConsole(c, "create", audit.Ref{Entity: audit.EntityProject, ID: 1, ProjectID: 1}, nil, nil, "", auditRepo)
	})
}
