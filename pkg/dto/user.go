package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email,omitempty"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Bio          string    `json:"bio"`
	Skills       []string  `json:"skills"`
	GithubURL    string    `json:"github_url"`
	LinkedinURL  string    `json:"linkedin_url"`
	PortfolioURL string    `json:"portfolio_url"`
	Organization string    `json:"organization"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	Provider     string    `json:"provider,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateProfileRequest leaves nil fields unchanged. A non-nil empty Skills clears the list.
type UpdateProfileRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Bio          *string  `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Skills       []string `json:"skills,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	GithubURL    *string  `json:"github_url,omitempty" validate:"omitempty,max=500"`
	LinkedinURL  *string  `json:"linkedin_url,omitempty" validate:"omitempty,max=500"`
	PortfolioURL *string  `json:"portfolio_url,omitempty" validate:"omitempty,max=500"`
	Organization *string  `json:"organization,omitempty" validate:"omitempty,max=255"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=Student Organization Admin Other"`
}
