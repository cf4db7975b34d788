package models

import "time"

const (
	AppUserRoleAdmin = "admin"
	AppUserRoleStaff = "staff"
)

// AppUser is a staff account allowed to use the records API.
type AppUser struct {
	App_User_ID     int       `json:"appUserId" db:"app_user_id" goqu:"skipinsert"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	Role            string    `json:"role" db:"role"`
	Datetime_Create time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}
