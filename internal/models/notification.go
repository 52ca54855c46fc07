package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotifyHackathonStatus   = "hackathon_status"
	NotifyJoinRequest       = "join_request"
	NotifyJoinRequestAnswer = "join_request_answer"
	NotifyTeamShortlisted   = "team_shortlisted"
	NotifyTeamSuspended     = "team_suspended"
	NotifyComplaintUpdated  = "complaint_updated"
	NotifyAnnouncement      = "announcement"
	NotifyTeamMemberJoined  = "team_member_joined"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
