package models

import "time"

type Family struct {
	Family_ID       int       `json:"familyId" db:"family_id" goqu:"skipinsert"`
	Family_Name     string    `json:"familyName" db:"family_name"`
	Datetime_Create time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
	Datetime_Update time.Time `json:"datetimeUpdate" db:"datetime_update" goqu:"skipinsert"`
}

// FamilyMember links a member record into a family.
type FamilyMember struct {
	Family_Member_ID int     `json:"familyMemberId" db:"family_member_id" goqu:"skipinsert"`
	Family_ID        int     `json:"familyId" db:"family_id"`
	Member_ID        int     `json:"memberId" db:"member_id"`
	Relationship     *string `json:"relationship" db:"relationship"`
}

// FamilyWithMembers is the response shape for a family and its member records.
type FamilyWithMembers struct {
	Family
	Members []Member `json:"members"`
}
