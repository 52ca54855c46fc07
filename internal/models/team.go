package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleLeader = "leader"
	RoleMember = "member"
)

type Team struct {
	ID            uuid.UUID    `json:"id"`
	HackathonID   uuid.UUID    `json:"hackathon_id"`
	Name          string       `json:"name"`
	LeaderID      uuid.UUID    `json:"leader_id"`
	Idea          string       `json:"idea"`
	IsRegistered  bool         `json:"is_registered"`
	JoinCode      *string      `json:"join_code,omitempty"`
	IsShortlisted bool         `json:"is_shortlisted"`
	IsSuspended   bool         `json:"is_suspended"`
	MemberCount   int          `json:"member_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Members       []TeamMember `json:"members,omitempty"`
}

type TeamMember struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}

// OpenToJoin reports whether new members may still be added.
func (t *Team) OpenToJoin() bool {
	return !t.IsRegistered && !t.IsSuspended
}

const (
	JoinRequestPending  = "pending"
	JoinRequestAccepted = "accepted"
	JoinRequestRejected = "rejected"
)

type JoinRequest struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	UserID    uuid.UUID `json:"user_id"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `json:"user,omitempty"`
	TeamName  string    `json:"team_name,omitempty"`
}
