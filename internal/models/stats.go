package models

import "github.com/google/uuid"

type AdminStats struct {
	UsersByRole        map[string]int `json:"users_by_role"`
	HackathonsByStatus map[string]int `json:"hackathons_by_status"`
	TeamsTotal         int            `json:"teams_total"`
	TeamsRegistered    int            `json:"teams_registered"`
	TeamsShortlisted   int            `json:"teams_shortlisted"`
	TeamsSuspended     int            `json:"teams_suspended"`
	ComplaintsByStatus map[string]int `json:"complaints_by_status"`
}

type HackathonStats struct {
	HackathonID  uuid.UUID `json:"hackathon_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Teams        int       `json:"teams"`
	Registered   int       `json:"registered"`
	Shortlisted  int       `json:"shortlisted"`
	Participants int       `json:"participants"`
}

type StudentStats struct {
	TeamsJoined         int `json:"teams_joined"`
	TeamsRegistered     int `json:"teams_registered"`
	TeamsShortlisted    int `json:"teams_shortlisted"`
	PendingJoinRequests int `json:"pending_join_requests"`
	UnreadNotifications int `json:"unread_notifications"`
}
