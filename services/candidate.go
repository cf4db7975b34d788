package services

import (
	"strings"

	"github.com/ShepherdBook/models"
)

// Contacts is the flattened phone and email list for a candidate's recipients.
type Contacts struct {
	Phones []string
	Emails []string
}

// Candidate is either a single member or a family of members.
type Candidate interface {
	DisplayName() string
	Recipients() []models.Member
}

type MemberCandidate struct {
	Member models.Member
}

func (m MemberCandidate) DisplayName() string { return m.Member.FullName() }

func (m MemberCandidate) Recipients() []models.Member { return []models.Member{m.Member} }

type FamilyCandidate struct {
	Family  models.Family
	Members []models.Member
}

func (f FamilyCandidate) DisplayName() string { return f.Family.Family_Name }

func (f FamilyCandidate) Recipients() []models.Member { return f.Members }

// ResolveContacts collects the non-empty phone numbers and emails across a candidate's recipients.
func ResolveContacts(c Candidate) Contacts {
	var contacts Contacts
	for _, m := range c.Recipients() {
		if m.Phone_Number != nil {
			if phone := strings.TrimSpace(*m.Phone_Number); phone != "" {
				contacts.Phones = append(contacts.Phones, phone)
			}
		}
		if m.Email != nil {
			if email := strings.TrimSpace(*m.Email); email != "" {
				contacts.Emails = append(contacts.Emails, email)
			}
		}
	}
	return contacts
}
