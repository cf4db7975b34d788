package controllers

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ShepherdBook/models"
)

// Test fixture data for use in tests

// MockUser creates a staff account for testing
func MockUser() models.AppUser {
	return models.AppUser{
		App_User_ID:     1,
		Name:            "Test Staff",
		Email:           "staff@example.com",
		Role:            models.AppUserRoleStaff,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockAdminUser creates an admin account for testing
func MockAdminUser() models.AppUser {
	return models.AppUser{
		App_User_ID:     2,
		Name:            "Admin User",
		Email:           "admin@example.com",
		Role:            models.AppUserRoleAdmin,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

var weeklySelectionColumns = []string{
	"weekly_selection_id", "selection_type", "member_id", "family_id", "week_start", "week_end",
	"year", "week_number", "prayer_sent", "sent_count", "datetime_create", "datetime_update",
}

var memberColumns = []string{
	"member_id", "first_name", "last_name", "phone_number", "email",
	"membership_status", "life_status", "datetime_create", "datetime_update",
}

var familyColumns = []string{"family_id", "family_name", "datetime_create", "datetime_update"}

// MockMemberSelectionRows returns one weekly_selection row pointing at member 1
func MockMemberSelectionRows(sentCount int) *sqlmock.Rows {
	start := time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(weeklySelectionColumns).AddRow(
		1, models.SelectionTypeMember, 1, nil, start, start.AddDate(0, 0, 7).Add(-time.Millisecond),
		2025, 42, sentCount > 0, sentCount, start, start,
	)
}

// MockFamilySelectionRows returns one weekly_selection row pointing at family 10
func MockFamilySelectionRows(sentCount int) *sqlmock.Rows {
	start := time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(weeklySelectionColumns).AddRow(
		2, models.SelectionTypeFamily, nil, 10, start, start.AddDate(0, 0, 7).Add(-time.Millisecond),
		2025, 42, sentCount > 0, sentCount, start, start,
	)
}

// MockMemberRows returns member 1 with the given contact values
func MockMemberRows(phone, email interface{}) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(memberColumns).
		AddRow(1, "Grace", "Adeyemi", phone, email, models.MembershipStatusActive, models.LifeStatusAlive, now, now)
}

// MockFamilyRows returns family 10
func MockFamilyRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(familyColumns).AddRow(10, "Adeyemi Family", now, now)
}

// MockFamilyMemberRows returns two members of family 10
func MockFamilyMemberRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(memberColumns).
		AddRow(1, "Grace", "Adeyemi", "2348011111111", "grace@example.com", models.MembershipStatusActive, models.LifeStatusAlive, now, now).
		AddRow(3, "Tunde", "Adeyemi", "2348022222222", nil, models.MembershipStatusActive, models.LifeStatusAlive, now, now)
}

// IntPtr returns a pointer to an int value
func IntPtr(i int) *int {
	return &i
}

// StringPtr returns a pointer to a string value
func StringPtr(s string) *string {
	return &s
}
