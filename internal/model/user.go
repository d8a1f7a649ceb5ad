package model

import "time"

// User is a directory record. ExternalID is the identity provider's opaque
// user id, which is what callers of the contact endpoint send.
type User struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
