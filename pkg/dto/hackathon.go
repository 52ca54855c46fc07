package dto

import (
	"time"

	"github.com/google/uuid"
)

type HackathonRequest struct {
	Title                string    `json:"title" validate:"required,max=255"`
	Description          string    `json:"description" validate:"max=10000"`
	Location             string    `json:"location" validate:"max=255"`
	StartDate            time.Time `json:"start_date" validate:"required"`
	EndDate              time.Time `json:"end_date" validate:"required"`
	RegistrationDeadline time.Time `json:"registration_deadline" validate:"required"`
	MinTeamSize          int       `json:"min_team_size" validate:"required,min=1,max=10"`
	MaxTeamSize          int       `json:"max_team_size" validate:"required,min=1,max=10"`
}

type HackathonResponse struct {
	ID                   uuid.UUID `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	MinTeamSize          int       `json:"min_team_size"`
	MaxTeamSize          int       `json:"max_team_size"`
	Status               string    `json:"status"`
	OrganizerID          uuid.UUID `json:"organizer_id"`
	CreatedAt            time.Time `json:"created_at"`
}

type UpdateHackathonStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Approved Rejected Suspended"`
}
