package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ComplaintOpen     = "Open"
	ComplaintInReview = "InReview"
	ComplaintResolved = "Resolved"
)

type Complaint struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	HackathonID *uuid.UUID `json:"hackathon_id,omitempty"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Response    string     `json:"response"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func IsValidComplaintStatus(status string) bool {
	return status == ComplaintOpen || status == ComplaintInReview || status == ComplaintResolved
}
