package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform roles. Admin is only granted out of band by cmd/promote-admin.
const (
	RoleStudent      = "Student"
	RoleOrganization = "Organization"
	RoleAdmin        = "Admin"
	RoleOther        = "Other"
)

const ProviderLocal = "local"

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash *string   `json:"-"`
	Role         string    `json:"role"`
	Bio          string    `json:"bio"`
	Skills       []string  `json:"skills"`
	GithubURL    string    `json:"github_url"`
	LinkedinURL  string    `json:"linkedin_url"`
	PortfolioURL string    `json:"portfolio_url"`
	Organization string    `json:"organization"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Provider     string    `json:"provider"`
	ProviderID   *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileUpdate carries the editable identity fields. Nil means unchanged.
type ProfileUpdate struct {
	Name         *string
	Bio          *string
	Skills       []string
	GithubURL    *string
	LinkedinURL  *string
	PortfolioURL *string
	Organization *string
}

func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleOrganization, RoleAdmin, RoleOther:
		return true
	}
	return false
}

// IsSelfAssignableRole reports whether a user may pick role at signup.
func IsSelfAssignableRole(role string) bool {
	return role == RoleStudent || role == RoleOrganization || role == RoleOther
}
