package models

import "time"

// User is a local account linked to an OIDC subject. Its ID is the actor id
// written to audit records.
type User struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
