package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTeamRequest struct {
	HackathonID uuid.UUID `json:"hackathon_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=255"`
	Idea        string    `json:"idea" validate:"max=5000"`
}

type UpdateTeamRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Idea string `json:"idea" validate:"max=5000"`
}

type JoinTeamRequest struct {
	Code string `json:"code" validate:"required,max=16"`
}

type JoinCodeResponse struct {
	JoinCode string `json:"join_code"`
}

type TeamResponse struct {
	ID            uuid.UUID            `json:"id"`
	HackathonID   uuid.UUID            `json:"hackathon_id"`
	Name          string               `json:"name"`
	LeaderID      uuid.UUID            `json:"leader_id"`
	Idea          string               `json:"idea"`
	IsRegistered  bool                 `json:"is_registered"`
	JoinCode      *string              `json:"join_code,omitempty"`
	IsShortlisted bool                 `json:"is_shortlisted"`
	IsSuspended   bool                 `json:"is_suspended"`
	MemberCount   int                  `json:"member_count"`
	Members       []TeamMemberResponse `json:"members,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

type TeamMemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Skills    []string  `json:"skills"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// MyTeamResponse carries a null team when the caller has not joined one.
type MyTeamResponse struct {
	Team *TeamResponse `json:"team"`
}

type CreateJoinRequest struct {
	Message string `json:"message" validate:"max=1000"`
}

type JoinRequestResponse struct {
	ID         uuid.UUID `json:"id"`
	TeamID     uuid.UUID `json:"team_id"`
	TeamName   string    `json:"team_name,omitempty"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	UserSkills []string  `json:"user_skills,omitempty"`
	Message    string    `json:"message"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShortlistRequest struct {
	Shortlisted *bool `json:"shortlisted" validate:"required"`
}

type SuspendRequest struct {
	Suspended *bool `json:"suspended" validate:"required"`
}
