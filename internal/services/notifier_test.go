package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) CreateMany(ctx context.Context, userIDs []uuid.UUID, kind, message, link string) ([]models.Notification, error) {
	args := m.Called(ctx, userIDs, kind, message, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

// gatedStore holds every insert until release is closed.
type gatedStore struct {
	release chan struct{}
	calls   atomic.Int32
	size    atomic.Int32
}

func (s *gatedStore) CreateMany(_ context.Context, userIDs []uuid.UUID, kind, message, link string) ([]models.Notification, error) {
	s.calls.Add(1)
	s.size.Store(int32(len(userIDs)))
	<-s.release
	out := make([]models.Notification, len(userIDs))
	for i, id := range userIDs {
		out[i] = models.Notification{ID: uuid.New(), UserID: id, Type: kind, Message: message, Link: link}
	}
	return out, nil
}

type mockUserLookup struct{ mock.Mock }

func (m *mockUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type recordingHub struct {
	mu    sync.Mutex
	users []uuid.UUID
}

func (h *recordingHub) SendToUsers(userIDs []uuid.UUID, _ string, _ any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users = append(h.users, userIDs...)
}

type recordingPublisher struct {
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.keys = append(p.keys, key)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMailer struct {
	mu         sync.Mutex
	configured bool
	sent       []string
}

func (m *recordingMailer) IsConfigured() bool { return m.configured }

func (m *recordingMailer) SendNotification(to, _, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func TestNotifier_Notify(t *testing.T) {
	store := new(mockNotificationStore)
	hub := &recordingHub{}
	pub := &recordingPublisher{}
	mail := &recordingMailer{configured: true}
	n := NewNotifier(store, new(mockUserLookup), hub, pub, mail, nil)

	ana, ben := uuid.New(), uuid.New()
	store.On("CreateMany", mock.Anything, []uuid.UUID{ana, ben}, models.NotifyJoinRequest, "New request", "/teams/1").
		Return([]models.Notification{{ID: uuid.New(), UserID: ana}, {ID: uuid.New(), UserID: ben}}, nil)

	n.Notify(context.Background(), []uuid.UUID{ana, ben}, models.NotifyJoinRequest, "New request", "/teams/1")
	n.Wait()

	assert.Equal(t, []uuid.UUID{ana, ben}, hub.users)
	assert.Equal(t, []string{"notification.join_request"}, pub.keys)
	assert.Empty(t, mail.sent, "join requests are not mailed")
	store.AssertExpectations(t)
}

func TestNotifier_Notify_StoreFailure(t *testing.T) {
	store := new(mockNotificationStore)
	hub := &recordingHub{}
	pub := &recordingPublisher{}
	n := NewNotifier(store, nil, hub, pub, &recordingMailer{configured: true}, nil)

	store.On("CreateMany", mock.Anything, mock.Anything, models.NotifyTeamShortlisted, "Shortlisted", "").
		Return(nil, errors.New("db down"))

	n.Notify(context.Background(), []uuid.UUID{uuid.New()}, models.NotifyTeamShortlisted, "Shortlisted", "")
	n.Wait()

	assert.Empty(t, hub.users)
	assert.Empty(t, pub.keys)
}

func TestNotifier_Notify_EmailsImportantKinds(t *testing.T) {
	store := new(mockNotificationStore)
	users := new(mockUserLookup)
	mail := &recordingMailer{configured: true}
	n := NewNotifier(store, users, &recordingHub{}, &recordingPublisher{err: errors.New("broker down")}, mail, nil)

	userID := uuid.New()
	store.On("CreateMany", mock.Anything, []uuid.UUID{userID}, models.NotifyTeamShortlisted, "Shortlisted", "").
		Return([]models.Notification{{ID: uuid.New(), UserID: userID}}, nil)
	users.On("GetByID", mock.Anything, userID).
		Return(&models.User{ID: userID, Email: "ana@example.com", Name: "Ana"}, nil)

	n.Notify(context.Background(), []uuid.UUID{userID}, models.NotifyTeamShortlisted, "Shortlisted", "")
	n.Wait()

	assert.Equal(t, []string{"ana@example.com"}, mail.sent)
	users.AssertExpectations(t)
}

func TestNotifier_Notify_LargeAudienceReturnsBeforeDelivery(t *testing.T) {
	store := &gatedStore{release: make(chan struct{})}
	hub := &recordingHub{}
	pub := &recordingPublisher{}
	n := NewNotifier(store, nil, hub, pub, &recordingMailer{}, nil)

	audience := make([]uuid.UUID, 5000)
	for i := range audience {
		audience[i] = uuid.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		n.Notify(ctx, audience, models.NotifyAnnouncement, "Kickoff moved", "/hackathons/1")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on delivery")
	}
	// the request context ending must not abort delivery
	cancel()
	close(store.release)
	n.Wait()

	assert.Equal(t, int32(1), store.calls.Load(), "one insert for the whole audience")
	assert.Equal(t, int32(5000), store.size.Load())
	assert.Len(t, hub.users, 5000)
	assert.Equal(t, []string{"notification.announcement"}, pub.keys)
}

func TestNotifier_Notify_NoRecipients(t *testing.T) {
	store := new(mockNotificationStore)
	pub := &recordingPublisher{}
	n := NewNotifier(store, nil, &recordingHub{}, pub, &recordingMailer{}, nil)

	n.Notify(context.Background(), nil, models.NotifyAnnouncement, "hello", "")
	n.Wait()

	assert.Empty(t, pub.keys)
	store.AssertNumberOfCalls(t, "CreateMany", 0)
}
