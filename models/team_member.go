package models

import (
	"fmt"
	"strings"
	"time"
)

// TeamMemberKind is the audit kind recorded for team members
const TeamMemberKind = "team member"

// TeamMember represents a team member managed through the API
type TeamMember struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Active    bool      `json:"active" db:"active"`
	DateAdded time.Time `json:"date_added" db:"date_added"`
	AuditFields
}

// AuditFields contains common tracking fields
type AuditFields struct {
	CreatedBy  int64      `json:"created_by,omitempty"`
	ModifiedBy int64      `json:"modified_by,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

func (m *TeamMember) AuditKind() string { return TeamMemberKind }

// AuditID is zero for a nil member
func (m *TeamMember) AuditID() int64 {
	if m == nil {
		return 0
	}
	return m.ID
}

// String returns the member's display name, with the email when known
func (m *TeamMember) String() string {
	if m == nil {
		return ""
	}
	if m.Email == "" {
		return m.Name
	}
	return fmt.Sprintf("%s <%s>", m.Name, m.Email)
}

// TeamMemberForm represents the payload for creating/updating team members
type TeamMemberForm struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active *bool  `json:"active"`
}

// Validate validates the team member form data
func (f *TeamMemberForm) Validate() []string {
	var errors []string

	name := strings.TrimSpace(f.Name)
	if name == "" {
		errors = append(errors, "Name is required")
	}

	if len(name) > 100 {
		errors = append(errors, "Name must be less than 100 characters")
	}

	if f.Email != "" && len(f.Email) > 255 {
		errors = append(errors, "Email must be less than 255 characters")
	}

	if f.Email != "" && !isValidEmail(f.Email) {
		errors = append(errors, "Email format is invalid")
	}

	return errors
}

// IsActive returns the requested active flag, defaulting to true
func (f *TeamMemberForm) IsActive() bool {
	return f.Active == nil || *f.Active
}

// isValidEmail performs basic email validation
func isValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
