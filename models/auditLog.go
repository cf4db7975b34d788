package models

import "time"

const (
	AuditActionCreate = "CREATE"
	AuditActionSend   = "SEND"

	AuditEntityWeeklySelection = "WeeklySelection"
)

type AuditLog struct {
	Audit_Log_ID    int       `json:"auditLogId" db:"audit_log_id" goqu:"skipinsert"`
	App_User_ID     *int      `json:"appUserId" db:"app_user_id"`
	User_Name       string    `json:"userName" db:"user_name"`
	User_Email      string    `json:"userEmail" db:"user_email"`
	Action          string    `json:"action" db:"action"`
	Entity_Type     string    `json:"entityType" db:"entity_type"`
	Entity_ID       string    `json:"entityId" db:"entity_id"`
	Entity_Name     string    `json:"entityName" db:"entity_name"`
	Details         string    `json:"details" db:"details"`
	Datetime_Create time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
}
