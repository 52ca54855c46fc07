package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAnnouncementRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Body        string     `json:"body" validate:"required,max=10000"`
	HackathonID *uuid.UUID `json:"hackathon_id,omitempty"`
}

type AnnouncementResponse struct {
	ID          uuid.UUID  `json:"id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	HackathonID *uuid.UUID `json:"hackathon_id,omitempty"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"created_at"`
}
