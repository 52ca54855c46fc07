package client

import (
	"context"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
)

const DefaultPollInterval = 30 * time.Second

func (c *Client) Notifications(ctx context.Context) (*dto.NotificationListResponse, error) {
	var list dto.NotificationListResponse
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodPatch, "/notifications/"+id.String()+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	var resp dto.MarkAllReadResponse
	if err := c.do(ctx, http.MethodPost, "/notifications/read-all", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

// NotificationPoller fetches notifications on a fixed interval. After a
// failed poll it waits an exponentially growing, jittered delay instead.
type NotificationPoller struct {
	client   *Client
	interval time.Duration
	onUpdate func(*dto.NotificationListResponse)
	onError  func(error)
}

type PollerOption func(*NotificationPoller)

func WithPollInterval(d time.Duration) PollerOption {
	return func(p *NotificationPoller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithPollErrorHandler(fn func(error)) PollerOption {
	return func(p *NotificationPoller) {
		p.onError = fn
	}
}

func NewNotificationPoller(c *Client, onUpdate func(*dto.NotificationListResponse), opts ...PollerOption) *NotificationPoller {
	p := &NotificationPoller{
		client:   c,
		interval: DefaultPollInterval,
		onUpdate: onUpdate,
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *NotificationPoller) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.interval
	b.MaxInterval = 10 * p.interval
	b.RandomizationFactor = 0.5
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Run polls until ctx is cancelled. The first poll happens immediately.
func (p *NotificationPoller) Run(ctx context.Context) {
	b := p.newBackOff()

	for {
		wait := p.interval

		list, err := p.client.Notifications(ctx)
		switch {
		case ctx.Err() != nil:
			return
		case err != nil:
			p.onError(err)
			if next := b.NextBackOff(); next != backoff.Stop {
				wait = next
			}
		default:
			b.Reset()
			p.onUpdate(list)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
