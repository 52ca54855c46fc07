package services

import (
	"context"
	"sync"
	"time"

	"github.com/dimitrije/hackmatch-api/internal/events"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type notificationStore interface {
	CreateMany(ctx context.Context, userIDs []uuid.UUID, kind, message, link string) ([]models.Notification, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type streamHub interface {
	SendToUsers(userIDs []uuid.UUID, eventType string, data any)
}

// deliveryTimeout bounds one background fan-out including its emails.
const deliveryTimeout = time.Minute

type mailer interface {
	IsConfigured() bool
	SendNotification(to, name, message, link string) error
}

// emailKinds are the notification types that also go out by mail.
var emailKinds = map[string]bool{
	models.NotifyHackathonStatus: true,
	models.NotifyTeamShortlisted: true,
	models.NotifyTeamSuspended:   true,
}

// Notifier fans a notification out to storage, open SSE streams, the event
// broker and, for important types, email. Delivery is best effort: the
// mutation that triggered it has already been committed.
type Notifier struct {
	store     notificationStore
	users     userLookup
	hub       streamHub
	publisher events.Publisher
	mail      mailer
	log       *zap.Logger
	wg        sync.WaitGroup
}

func NewNotifier(store notificationStore, users userLookup, hub streamHub, publisher events.Publisher, mail mailer, log *zap.Logger) *Notifier {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{store: store, users: users, hub: hub, publisher: publisher, mail: mail, log: log}
}

// Notify queues delivery and returns at once. Storage, SSE pushes, the
// broker event and email all run on a goroutine tracked by Wait.
func (n *Notifier) Notify(ctx context.Context, userIDs []uuid.UUID, kind, message, link string) {
	if len(userIDs) == 0 {
		return
	}
	recipients := append([]uuid.UUID(nil), userIDs...)
	n.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
		defer cancel()
		n.deliver(ctx, recipients, kind, message, link)
	})
}

func (n *Notifier) deliver(ctx context.Context, userIDs []uuid.UUID, kind, message, link string) {
	notifications, err := n.store.CreateMany(ctx, userIDs, kind, message, link)
	if err != nil {
		n.log.Error("failed to store notifications",
			zap.Int("recipients", len(userIDs)), zap.String("type", kind), zap.Error(err))
		return
	}

	delivered := make([]uuid.UUID, 0, len(notifications))
	for _, notification := range notifications {
		delivered = append(delivered, notification.UserID)
		if n.hub != nil {
			n.hub.SendToUsers([]uuid.UUID{notification.UserID}, "notification", notification)
		}
	}

	if err := n.publisher.Publish(ctx, "notification."+kind, map[string]any{
		"user_ids": delivered,
		"message":  message,
		"link":     link,
	}); err != nil {
		n.log.Warn("failed to publish notification event", zap.String("type", kind), zap.Error(err))
	}

	if emailKinds[kind] && n.mail != nil && n.mail.IsConfigured() {
		n.sendEmails(ctx, delivered, message, link)
	}
}

func (n *Notifier) sendEmails(ctx context.Context, userIDs []uuid.UUID, message, link string) {
	for _, userID := range userIDs {
		user, err := n.users.GetByID(ctx, userID)
		if err != nil {
			n.log.Warn("notification email skipped", zap.String("user_id", userID.String()), zap.Error(err))
			continue
		}
		if err := n.mail.SendNotification(user.Email, user.Name, message, link); err != nil {
			n.log.Warn("failed to send notification email", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
}

// Wait blocks until queued deliveries have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
