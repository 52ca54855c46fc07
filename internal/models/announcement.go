package models

import (
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID          uuid.UUID  `json:"id"`
	AuthorID    uuid.UUID  `json:"author_id"`
	HackathonID *uuid.UUID `json:"hackathon_id,omitempty"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	CreatedAt   time.Time  `json:"created_at"`
}
