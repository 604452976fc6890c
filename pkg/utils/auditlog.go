package utils

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/hpc-portal/internal/domain/audit"
	"github.com/linskybing/hpc-portal/internal/repository"
)

var LogAuditWithConsole = func(c *gin.Context, action string, ref audit.Ref, oldData, newData interface{}, msg string, repos repository.AuditRepo) {
	userID, _ := GetUserIDFromContext(c)
	if err := LogAudit(userID, c.ClientIP(), c.GetHeader("User-Agent"), action, ref, oldData, newData, msg, repos); err != nil {
		slog.Error("audit log write failed", "action", action, "entity", ref.Entity, "entity_id", ref.ID, "error", err)
	}
}

var LogAudit = func(
	userID uint,
	ip string,
	ua string,
	action string,
	ref audit.Ref,
	before any,
	after any,
	description string,
	repos repository.AuditRepo,
) error {
	var oldData, newData []byte
	var err error

	if before != nil {
		oldData, err = json.Marshal(before)
		if err != nil {
			slog.Warn("audit marshal old data", "error", err)
		}
	}
	if after != nil {
		newData, err = json.Marshal(after)
		if err != nil {
			slog.Warn("audit marshal new data", "error", err)
		}
	}

	auditLog := &audit.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: string(ref.Entity),
		ResourceID:   strconv.FormatUint(uint64(ref.ID), 10),
		OldData:      oldData,
		NewData:      newData,
		IPAddress:    ip,
		UserAgent:    ua,
		Description:  description,
	}
	if ref.ProjectID != 0 {
		projectID := ref.ProjectID
		auditLog.ProjectID = &projectID
	}

	return repos.CreateAuditLog(auditLog)
}
