package models

import (
	"strings"
	"time"
)

const (
	MembershipStatusActive   = "Active"
	MembershipStatusVisitor  = "Visitor"
	MembershipStatusInactive = "Inactive"

	LifeStatusAlive    = "Alive"
	LifeStatusDeceased = "Deceased"
)

type Member struct {
	Member_ID         int       `json:"memberId" db:"member_id" goqu:"skipinsert"`
	First_Name        string    `json:"firstName" db:"first_name"`
	Last_Name         string    `json:"lastName" db:"last_name"`
	Phone_Number      *string   `json:"phoneNumber" db:"phone_number"`
	Email             *string   `json:"email" db:"email"`
	Membership_Status string    `json:"membershipStatus" db:"membership_status"`
	Life_Status       string    `json:"lifeStatus" db:"life_status"`
	Datetime_Create   time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update   time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

func (m Member) FullName() string {
	return strings.TrimSpace(m.First_Name + " " + m.Last_Name)
}

// IsEligible reports whether the member may be drawn for the weekly selection.
func (m Member) IsEligible() bool {
	if m.Life_Status != LifeStatusAlive {
		return false
	}
	return m.Membership_Status == MembershipStatusActive || m.Membership_Status == MembershipStatusVisitor
}
