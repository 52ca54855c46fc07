package client

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
)

// HackathonStore caches the last listed hackathons and every hackathon
// fetched by id.
type HackathonStore struct {
	client  *Client
	loading inflight

	mu     sync.RWMutex
	list   []dto.HackathonResponse
	detail map[uuid.UUID]dto.HackathonResponse

	subMu     sync.Mutex
	nextSub   int
	listeners map[int]func(dto.HackathonResponse)
}

func NewHackathonStore(c *Client) *HackathonStore {
	return &HackathonStore{
		client:    c,
		detail:    make(map[uuid.UUID]dto.HackathonResponse),
		listeners: make(map[int]func(dto.HackathonResponse)),
	}
}

func (s *HackathonStore) Loading() bool {
	return s.loading.active()
}

// Hackathons returns a copy of the cached list.
func (s *HackathonStore) Hackathons() []dto.HackathonResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.list)
}

func (s *HackathonStore) Cached(id uuid.UUID) (dto.HackathonResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.detail[id]
	return h, ok
}

// OnChange registers fn to be told about every hackathon the store patches.
// The returned func removes it.
func (s *HackathonStore) OnChange(fn func(dto.HackathonResponse)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.listeners, id)
		s.subMu.Unlock()
	}
}

func (s *HackathonStore) emit(h dto.HackathonResponse) {
	s.subMu.Lock()
	fns := make([]func(dto.HackathonResponse), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(h)
	}
}

// List fetches hackathons, optionally filtered by status (admins only).
func (s *HackathonStore) List(ctx context.Context, status string) ([]dto.HackathonResponse, error) {
	defer s.loading.begin()()

	path := "/hackathons"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}

	var hackathons []dto.HackathonResponse
	if err := s.client.do(ctx, http.MethodGet, path, nil, &hackathons); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.list = slices.Clone(hackathons)
	s.mu.Unlock()
	return hackathons, nil
}

func (s *HackathonStore) Mine(ctx context.Context) ([]dto.HackathonResponse, error) {
	defer s.loading.begin()()

	var hackathons []dto.HackathonResponse
	if err := s.client.do(ctx, http.MethodGet, "/hackathons/mine", nil, &hackathons); err != nil {
		return nil, err
	}
	return hackathons, nil
}

func (s *HackathonStore) Get(ctx context.Context, id uuid.UUID) (*dto.HackathonResponse, error) {
	defer s.loading.begin()()

	var h dto.HackathonResponse
	if err := s.client.do(ctx, http.MethodGet, "/hackathon/"+id.String(), nil, &h); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.detail[h.ID] = h
	s.mu.Unlock()
	return &h, nil
}

func (s *HackathonStore) Create(ctx context.Context, req dto.HackathonRequest) (*dto.HackathonResponse, error) {
	defer s.loading.begin()()

	var h dto.HackathonResponse
	if err := s.client.do(ctx, http.MethodPost, "/hackathons", req, &h); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.detail[h.ID] = h
	s.mu.Unlock()
	return &h, nil
}

// UpdateHackathonStatus moves a hackathon to status and patches both caches
// with the server's answer.
func (s *HackathonStore) UpdateHackathonStatus(ctx context.Context, hackathonID uuid.UUID, status string) (*dto.HackathonResponse, error) {
	defer s.loading.begin()()

	var h dto.HackathonResponse
	path := "/hackathon/" + hackathonID.String() + "/status"
	if err := s.client.do(ctx, http.MethodPatch, path, dto.UpdateHackathonStatusRequest{Status: status}, &h); err != nil {
		return nil, err
	}

	s.patch(h)
	return &h, nil
}

func (s *HackathonStore) patch(h dto.HackathonResponse) {
	s.mu.Lock()
	for i := range s.list {
		if s.list[i].ID == h.ID {
			s.list[i] = h
		}
	}
	s.detail[h.ID] = h
	s.mu.Unlock()

	s.emit(h)
}
