package model

// IssueReport is a problem report submitted through the contact endpoint.
type IssueReport struct {
	Topic       string
	Description string
	UserID      string
}
