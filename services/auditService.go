package services

import (
	"context"

	"github.com/ShepherdBook/initializers"
	"github.com/ShepherdBook/models"
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type AuditEntry struct {
	EntityID   string
	EntityName string
	Details    string
}

// AuditRecorder writes audit entries. Record never fails the caller.
type AuditRecorder interface {
	Record(ctx context.Context, user models.AppUser, action, entityType string, entry AuditEntry)
}

type DBAuditRecorder struct {
	db *goqu.Database
}

func NewDBAuditRecorder(db *goqu.Database) *DBAuditRecorder {
	return &DBAuditRecorder{db: db}
}

func (r *DBAuditRecorder) Record(ctx context.Context, user models.AppUser, action, entityType string, entry AuditEntry) {
	row := models.AuditLog{
		User_Name:   user.Name,
		User_Email:  user.Email,
		Action:      action,
		Entity_Type: entityType,
		Entity_ID:   entry.EntityID,
		Entity_Name: entry.EntityName,
		Details:     entry.Details,
	}
	if user.App_User_ID != 0 {
		id := user.App_User_ID
		row.App_User_ID = &id
	}

	_, err := r.db.Insert("audit_log").Rows(row).Executor().ExecContext(ctx)
	if err != nil {
		initializers.Log.Error("Failed to write audit log",
			zap.String("action", action),
			zap.String("entityType", entityType),
			zap.String("entityId", entry.EntityID),
			zap.Error(err),
		)
	}
}
