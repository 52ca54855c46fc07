package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	HackathonPending   = "Pending"
	HackathonApproved  = "Approved"
	HackathonRejected  = "Rejected"
	HackathonSuspended = "Suspended"
)

const MaxTeamSizeLimit = 10

type Hackathon struct {
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
	UpdatedAt            time.Time `json:"updated_at"`
}

var hackathonTransitions = map[string][]string{
	HackathonPending:   {HackathonApproved, HackathonRejected},
	HackathonApproved:  {HackathonSuspended},
	HackathonSuspended: {HackathonApproved},
	HackathonRejected:  {HackathonPending},
}

func IsValidHackathonStatus(status string) bool {
	_, ok := hackathonTransitions[status]
	return ok
}

// CanTransition reports whether an admin may move a hackathon from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range hackathonTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RegistrationOpen reports whether teams may still form or change for h at now.
func (h *Hackathon) RegistrationOpen(now time.Time) bool {
	return h.Status == HackathonApproved && !now.After(h.RegistrationDeadline)
}

// Editable reports whether the organizer may still change the hackathon's details.
func (h *Hackathon) Editable() bool {
	return h.Status == HackathonPending || h.Status == HackathonApproved
}

// HackathonInput holds the organizer-editable fields.
type HackathonInput struct {
	Title                string
	Description          string
	Location             string
	StartDate            time.Time
	EndDate              time.Time
	RegistrationDeadline time.Time
	MinTeamSize          int
	MaxTeamSize          int
}
