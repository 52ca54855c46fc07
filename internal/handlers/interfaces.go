package handlers

import (
	"context"
	"io"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/oauth"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/internal/sse"
	"github.com/google/uuid"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Signup(ctx context.Context, name, email, password, role string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.User, error)
	ListUsers(ctx context.Context, role string) ([]models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (uuid.UUID, error)
	RefreshExpiry() time.Duration
}

type HackathonServiceInterface interface {
	Create(ctx context.Context, organizerID uuid.UUID, in models.HackathonInput) (*models.Hackathon, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
	List(ctx context.Context, status string) ([]models.Hackathon, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Hackathon, error)
	Update(ctx context.Context, id uuid.UUID, in models.HackathonInput) (*models.Hackathon, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, hackathonID uuid.UUID, status string) (*models.Hackathon, error)
}

type TeamServiceInterface interface {
	Create(ctx context.Context, hackathonID, leaderID uuid.UUID, name, idea string) (*models.Team, error)
	GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	GetUserTeamForHackathon(ctx context.Context, hackathonID, userID uuid.UUID) (*models.Team, error)
	ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Team, error)
	OpenTeams(ctx context.Context, hackathonID uuid.UUID) ([]models.Team, error)
	MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, teamID uuid.UUID, name, idea string) (*models.Team, error)
	GenerateJoinCode(ctx context.Context, teamID uuid.UUID) (string, error)
	JoinByCode(ctx context.Context, userID uuid.UUID, code string) (*models.Team, error)
	RequestToJoin(ctx context.Context, teamID, userID uuid.UUID, message string) (*models.JoinRequest, error)
	GetJoinRequest(ctx context.Context, requestID uuid.UUID) (*models.JoinRequest, error)
	ListJoinRequests(ctx context.Context, teamID uuid.UUID) ([]models.JoinRequest, error)
	UserJoinRequests(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error)
	RespondJoinRequest(ctx context.Context, requestID uuid.UUID, accept bool) (*models.JoinRequest, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	Register(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	Shortlist(ctx context.Context, teamID uuid.UUID, shortlisted bool) (*models.Team, error)
	Suspend(ctx context.Context, teamID uuid.UUID, suspended bool) (*models.Team, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

type ResumeServiceInterface interface {
	Save(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (*models.Resume, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Resume, error)
	Open(ctx context.Context, userID uuid.UUID) (*models.Resume, io.ReadSeekCloser, error)
}

type ComplaintServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, hackathonID *uuid.UUID, subject, message string) (*models.Complaint, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error)
	List(ctx context.Context, status string) ([]models.Complaint, error)
	Update(ctx context.Context, id uuid.UUID, status, response string) (*models.Complaint, error)
}

type AnnouncementServiceInterface interface {
	Create(ctx context.Context, authorID uuid.UUID, hackathonID *uuid.UUID, title, body string) (*models.Announcement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	List(ctx context.Context, hackathonID *uuid.UUID) ([]models.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Audience(ctx context.Context, hackathonID *uuid.UUID) ([]uuid.UUID, error)
}

type NotificationServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type AnalyticsServiceInterface interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	OrganizationStats(ctx context.Context, organizerID uuid.UUID) ([]models.HackathonStats, error)
	StudentStats(ctx context.Context, userID uuid.UUID) (*models.StudentStats, error)
}

// NotifierInterface is the single fan-out point for user notifications.
type NotifierInterface interface {
	Notify(ctx context.Context, userIDs []uuid.UUID, kind, message, link string)
}

// HubInterface defines the methods used by handlers from the Hub
type HubInterface interface {
	Register(client *sse.Client)
	Unregister(client *sse.Client)
}
