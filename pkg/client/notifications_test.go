package client

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationPoller_BacksOffThenRecovers(t *testing.T) {
	var calls atomic.Int32
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"GET /api/v1/notifications": func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) <= 2 {
				writeJSON(t, w, http.StatusServiceUnavailable, map[string]any{"code": 503, "message": "busy"})
				return
			}
			writeJSON(t, w, http.StatusOK, dto.NotificationListResponse{
				Notifications: []dto.NotificationResponse{{ID: uuid.New(), Message: "Welcome"}},
				Unread:        1,
			})
		},
	})

	var mu sync.Mutex
	var failures []error
	updates := make(chan *dto.NotificationListResponse, 1)

	poller := NewNotificationPoller(c,
		func(list *dto.NotificationListResponse) {
			select {
			case updates <- list:
			default:
			}
		},
		WithPollInterval(5*time.Millisecond),
		WithPollErrorHandler(func(err error) {
			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case list := <-updates:
		assert.Equal(t, 1, list.Unread)
	case <-time.After(5 * time.Second):
		t.Fatal("poller never recovered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, failures, 2)
	assert.True(t, IsStatus(failures[0], http.StatusServiceUnavailable))
}

func TestNotificationPoller_BackoffGrows(t *testing.T) {
	p := NewNotificationPoller(New("http://unused"), func(*dto.NotificationListResponse) {}, WithPollInterval(time.Second))
	b := p.newBackOff()

	first := b.NextBackOff()
	for range 5 {
		b.NextBackOff()
	}
	later := b.NextBackOff()

	assert.GreaterOrEqual(t, first, 500*time.Millisecond)
	assert.LessOrEqual(t, first, 1500*time.Millisecond)
	assert.Greater(t, later, first)
	assert.LessOrEqual(t, later, 15*time.Second)
}

func TestNotificationPoller_DefaultInterval(t *testing.T) {
	p := NewNotificationPoller(New("http://unused"), nil, WithPollInterval(0))

	assert.Equal(t, 30*time.Second, p.interval)
}

func TestClient_MarkAllNotificationsRead(t *testing.T) {
	c := newTestAPI(t, map[string]http.HandlerFunc{
		"POST /api/v1/notifications/read-all": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, http.StatusOK, dto.MarkAllReadResponse{Updated: 3})
		},
	})

	n, err := c.MarkAllNotificationsRead(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
