package dto

import "mindora.app/gateway/internal/model"

// ContactRequest is the issue report submitted from the contact form.
// Presence of each field is checked by the service so that a missing field
// and a malformed body produce different messages.
type ContactRequest struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
}

func (r ContactRequest) ToIssueReport() model.IssueReport {
	return model.IssueReport{
		Topic:       r.Topic,
		Description: r.Description,
		UserID:      r.UserID,
	}
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
