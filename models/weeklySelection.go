package models

import "time"

const (
	SelectionTypeMember = "member"
	SelectionTypeFamily = "family"

	// MaxWeeklyPrayerSends caps how many times one selection can be dispatched.
	MaxWeeklyPrayerSends = 2
)

const (
	PrayerChannelSMS   = "sms"
	PrayerChannelEmail = "email"
)

// WeekKey identifies a Monday-start week. It is always embedded in a WeeklySelection.
type WeekKey struct {
	Year       int       `json:"year"`
	WeekNumber int       `json:"weekNumber"`
	WeekStart  time.Time `json:"weekStart"`
	WeekEnd    time.Time `json:"weekEnd"`
}

type WeeklySelection struct {
	Weekly_Selection_ID int       `json:"weeklySelectionId" db:"weekly_selection_id" goqu:"skipinsert"`
	Selection_Type      string    `json:"selectionType" db:"selection_type"`
	Member_ID           *int      `json:"memberId" db:"member_id"`
	Family_ID           *int      `json:"familyId" db:"family_id"`
	Week_Start          time.Time `json:"weekStart" db:"week_start"`
	Week_End            time.Time `json:"weekEnd" db:"week_end"`
	Year                int       `json:"year" db:"year"`
	Week_Number         int       `json:"weekNumber" db:"week_number"`
	Prayer_Sent         bool      `json:"prayerSent" db:"prayer_sent"`
	Sent_Count          int       `json:"sentCount" db:"sent_count"`
	Datetime_Create     time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update     time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

func (s WeeklySelection) WeekKey() WeekKey {
	return WeekKey{
		Year:       s.Year,
		WeekNumber: s.Week_Number,
		WeekStart:  s.Week_Start,
		WeekEnd:    s.Week_End,
	}
}

// SelectionRef is the reference part of a past selection, used to avoid repeats.
type SelectionRef struct {
	Selection_Type string `db:"selection_type"`
	Member_ID      *int   `db:"member_id"`
	Family_ID      *int   `db:"family_id"`
}

// WeeklySelectionDetail is a selection with its member or family resolved for display.
type WeeklySelectionDetail struct {
	Selection   WeeklySelection    `json:"selection"`
	Member      *Member            `json:"member,omitempty"`
	Family      *FamilyWithMembers `json:"family,omitempty"`
	DisplayName string             `json:"displayName"`
	WeekKey     WeekKey            `json:"weekKey"`
}

type SendPrayerRequest struct {
	Channel       string  `json:"channel" binding:"required,oneof=sms email"`
	CustomMessage *string `json:"customMessage"`
}

type SendPrayerResult struct {
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}
