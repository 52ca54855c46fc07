package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/oauth"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/internal/sse"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Signup(ctx context.Context, name, email, password, role string) (*models.User, error) {
	args := m.Called(ctx, name, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateFromOAuth(ctx context.Context, info *oauth.UserInfo) (*models.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) SetRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) RotateRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, oldHash, newHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID uuid.UUID, email, role string) (*services.TokenPair, error) {
	args := m.Called(userID, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}

// MockHackathonService mocks the HackathonService
type MockHackathonService struct {
	mock.Mock
}

func (m *MockHackathonService) Create(ctx context.Context, organizerID uuid.UUID, in models.HackathonInput) (*models.Hackathon, error) {
	args := m.Called(ctx, organizerID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hackathon), args.Error(1)
}

func (m *MockHackathonService) GetByID(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hackathon), args.Error(1)
}

func (m *MockHackathonService) List(ctx context.Context, status string) ([]models.Hackathon, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hackathon), args.Error(1)
}

func (m *MockHackathonService) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Hackathon, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hackathon), args.Error(1)
}

func (m *MockHackathonService) Update(ctx context.Context, id uuid.UUID, in models.HackathonInput) (*models.Hackathon, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hackathon), args.Error(1)
}

func (m *MockHackathonService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHackathonService) UpdateStatus(ctx context.Context, hackathonID uuid.UUID, status string) (*models.Hackathon, error) {
	args := m.Called(ctx, hackathonID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hackathon), args.Error(1)
}

// MockTeamService mocks the TeamService
type MockTeamService struct {
	mock.Mock
}

func (m *MockTeamService) team(args mock.Arguments) (*models.Team, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

func (m *MockTeamService) teams(args mock.Arguments) ([]models.Team, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Team), args.Error(1)
}

func (m *MockTeamService) joinRequest(args mock.Arguments) (*models.JoinRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JoinRequest), args.Error(1)
}

func (m *MockTeamService) joinRequests(args mock.Arguments) ([]models.JoinRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.JoinRequest), args.Error(1)
}

func (m *MockTeamService) Create(ctx context.Context, hackathonID, leaderID uuid.UUID, name, idea string) (*models.Team, error) {
	return m.team(m.Called(ctx, hackathonID, leaderID, name, idea))
}

func (m *MockTeamService) GetByID(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID))
}

func (m *MockTeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	return m.teams(m.Called(ctx, userID))
}

func (m *MockTeamService) GetUserTeamForHackathon(ctx context.Context, hackathonID, userID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, hackathonID, userID))
}

func (m *MockTeamService) ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Team, error) {
	return m.teams(m.Called(ctx, hackathonID))
}

func (m *MockTeamService) OpenTeams(ctx context.Context, hackathonID uuid.UUID) ([]models.Team, error) {
	return m.teams(m.Called(ctx, hackathonID))
}

func (m *MockTeamService) MemberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockTeamService) Update(ctx context.Context, teamID uuid.UUID, name, idea string) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID, name, idea))
}

func (m *MockTeamService) GenerateJoinCode(ctx context.Context, teamID uuid.UUID) (string, error) {
	args := m.Called(ctx, teamID)
	return args.String(0), args.Error(1)
}

func (m *MockTeamService) JoinByCode(ctx context.Context, userID uuid.UUID, code string) (*models.Team, error) {
	return m.team(m.Called(ctx, userID, code))
}

func (m *MockTeamService) RequestToJoin(ctx context.Context, teamID, userID uuid.UUID, message string) (*models.JoinRequest, error) {
	return m.joinRequest(m.Called(ctx, teamID, userID, message))
}

func (m *MockTeamService) GetJoinRequest(ctx context.Context, requestID uuid.UUID) (*models.JoinRequest, error) {
	return m.joinRequest(m.Called(ctx, requestID))
}

func (m *MockTeamService) ListJoinRequests(ctx context.Context, teamID uuid.UUID) ([]models.JoinRequest, error) {
	return m.joinRequests(m.Called(ctx, teamID))
}

func (m *MockTeamService) UserJoinRequests(ctx context.Context, userID uuid.UUID) ([]models.JoinRequest, error) {
	return m.joinRequests(m.Called(ctx, userID))
}

func (m *MockTeamService) RespondJoinRequest(ctx context.Context, requestID uuid.UUID, accept bool) (*models.JoinRequest, error) {
	return m.joinRequest(m.Called(ctx, requestID, accept))
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *MockTeamService) Register(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID))
}

func (m *MockTeamService) Shortlist(ctx context.Context, teamID uuid.UUID, shortlisted bool) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID, shortlisted))
}

func (m *MockTeamService) Suspend(ctx context.Context, teamID uuid.UUID, suspended bool) (*models.Team, error) {
	return m.team(m.Called(ctx, teamID, suspended))
}

func (m *MockTeamService) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

// MockResumeService mocks the ResumeService
type MockResumeService struct {
	mock.Mock
}

func (m *MockResumeService) Save(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (*models.Resume, error) {
	args := m.Called(ctx, userID, filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resume), args.Error(1)
}

func (m *MockResumeService) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Resume, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resume), args.Error(1)
}

func (m *MockResumeService) Open(ctx context.Context, userID uuid.UUID) (*models.Resume, io.ReadSeekCloser, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Resume), args.Get(1).(io.ReadSeekCloser), args.Error(2)
}

// MockComplaintService mocks the ComplaintService
type MockComplaintService struct {
	mock.Mock
}

func (m *MockComplaintService) Create(ctx context.Context, userID uuid.UUID, hackathonID *uuid.UUID, subject, message string) (*models.Complaint, error) {
	args := m.Called(ctx, userID, hackathonID, subject, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *MockComplaintService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Complaint, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockComplaintService) List(ctx context.Context, status string) ([]models.Complaint, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockComplaintService) Update(ctx context.Context, id uuid.UUID, status, response string) (*models.Complaint, error) {
	args := m.Called(ctx, id, status, response)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

// MockAnnouncementService mocks the AnnouncementService
type MockAnnouncementService struct {
	mock.Mock
}

func (m *MockAnnouncementService) Create(ctx context.Context, authorID uuid.UUID, hackathonID *uuid.UUID, title, body string) (*models.Announcement, error) {
	args := m.Called(ctx, authorID, hackathonID, title, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) List(ctx context.Context, hackathonID *uuid.UUID) ([]models.Announcement, error) {
	args := m.Called(ctx, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Announcement), args.Error(1)
}

func (m *MockAnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnnouncementService) Audience(ctx context.Context, hackathonID *uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, hackathonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockNotificationService mocks the NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Notification), args.Int(1), args.Error(2)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAnalyticsService mocks the AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AdminStats), args.Error(1)
}

func (m *MockAnalyticsService) OrganizationStats(ctx context.Context, organizerID uuid.UUID) ([]models.HackathonStats, error) {
	args := m.Called(ctx, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HackathonStats), args.Error(1)
}

func (m *MockAnalyticsService) StudentStats(ctx context.Context, userID uuid.UUID) (*models.StudentStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentStats), args.Error(1)
}

// MockNotifier mocks the Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userIDs []uuid.UUID, kind, message, link string) {
	m.Called(ctx, userIDs, kind, message, link)
}

// MockHub records registered SSE clients
type MockHub struct {
	mu           sync.Mutex
	registered   chan *sse.Client
	Unregistered []*sse.Client
}

func NewMockHub() *MockHub {
	return &MockHub{registered: make(chan *sse.Client, 8)}
}

func (m *MockHub) Register(client *sse.Client) {
	m.registered <- client
}

func (m *MockHub) Unregister(client *sse.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unregistered = append(m.Unregistered, client)
}

// Registered waits for the next Register call.
func (m *MockHub) Registered(timeout time.Duration) *sse.Client {
	select {
	case c := <-m.registered:
		return c
	case <-time.After(timeout):
		return nil
	}
}

func (m *MockHub) UnregisteredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Unregistered)
}

// MockOAuthProvider mocks an OAuth provider
type MockOAuthProvider struct {
	mock.Mock
}

func (m *MockOAuthProvider) GetConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth.UserInfo, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.UserInfo), args.Error(1)
}

func (m *MockOAuthProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
