package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateComplaintRequest struct {
	Subject     string     `json:"subject" validate:"required,max=255"`
	Message     string     `json:"message" validate:"required,max=5000"`
	HackathonID *uuid.UUID `json:"hackathon_id,omitempty"`
}

type UpdateComplaintRequest struct {
	Status   string `json:"status" validate:"required,oneof=Open InReview Resolved"`
	Response string `json:"response" validate:"max=5000"`
}

type ComplaintResponse struct {
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
