package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
)

// TeamStore caches teams by id and the most recent join code per team.
type TeamStore struct {
	client  *Client
	loading inflight

	mu        sync.RWMutex
	teams     map[uuid.UUID]dto.TeamResponse
	joinCodes map[uuid.UUID]string

	unsubscribe func()
}

// NewTeamStore builds a team store. When hackathons is non-nil, cached teams
// of hackathons that become suspended or rejected are dropped.
func NewTeamStore(c *Client, hackathons *HackathonStore) *TeamStore {
	s := &TeamStore{
		client:    c,
		teams:     make(map[uuid.UUID]dto.TeamResponse),
		joinCodes: make(map[uuid.UUID]string),
	}
	if hackathons != nil {
		s.unsubscribe = hackathons.OnChange(s.hackathonChanged)
	}
	return s
}

// Close detaches the store from its hackathon store.
func (s *TeamStore) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *TeamStore) Loading() bool {
	return s.loading.active()
}

func (s *TeamStore) Team(id uuid.UUID) (dto.TeamResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	return t, ok
}

// JoinCode returns the latest code issued for the team in this session.
func (s *TeamStore) JoinCode(teamID uuid.UUID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.joinCodes[teamID]
	return code, ok
}

func (s *TeamStore) hackathonChanged(h dto.HackathonResponse) {
	if h.Status != models.HackathonSuspended && h.Status != models.HackathonRejected {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.teams {
		if t.HackathonID == h.ID {
			delete(s.teams, id)
			delete(s.joinCodes, id)
		}
	}
}

// store caches t. A registered or suspended team takes no members, so its
// code is dropped. When withCode is set the response comes from a leader view
// and its join_code replaces the cached one, including clearing it. Other
// responses omit the code, so the cached one is carried over.
func (s *TeamStore) store(t dto.TeamResponse, withCode bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case t.IsRegistered || t.IsSuspended:
		t.JoinCode = nil
		delete(s.joinCodes, t.ID)
	case t.JoinCode != nil:
		s.joinCodes[t.ID] = *t.JoinCode
	case withCode:
		delete(s.joinCodes, t.ID)
	default:
		if code, ok := s.joinCodes[t.ID]; ok {
			t.JoinCode = &code
		}
	}
	s.teams[t.ID] = t
}

func (s *TeamStore) forget(teamID uuid.UUID) {
	s.mu.Lock()
	delete(s.teams, teamID)
	delete(s.joinCodes, teamID)
	s.mu.Unlock()
}

func (s *TeamStore) teamCall(ctx context.Context, method, path string, body any, withCode bool) (*dto.TeamResponse, error) {
	defer s.loading.begin()()

	var t dto.TeamResponse
	if err := s.client.do(ctx, method, path, body, &t); err != nil {
		return nil, err
	}
	s.store(t, withCode)
	return &t, nil
}

func teamPath(teamID uuid.UUID, suffix string) string {
	return "/team/" + teamID.String() + suffix
}

func (s *TeamStore) Create(ctx context.Context, req dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	return s.teamCall(ctx, http.MethodPost, "/create-team", req, true)
}

// MyTeam returns the caller's team for a hackathon, or (nil, nil) when the
// caller has not joined one.
func (s *TeamStore) MyTeam(ctx context.Context, hackathonID uuid.UUID) (*dto.TeamResponse, error) {
	defer s.loading.begin()()

	var resp dto.MyTeamResponse
	if err := s.client.do(ctx, http.MethodGet, "/hackathon/"+hackathonID.String()+"/my-team", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Team == nil {
		return nil, nil
	}
	s.store(*resp.Team, true)
	return resp.Team, nil
}

func (s *TeamStore) Mine(ctx context.Context) ([]dto.TeamResponse, error) {
	return s.teamList(ctx, "/teams/mine")
}

// OpenTeams lists teams of a hackathon that still accept members.
func (s *TeamStore) OpenTeams(ctx context.Context, hackathonID uuid.UUID) ([]dto.TeamResponse, error) {
	return s.teamList(ctx, "/hackathon/"+hackathonID.String()+"/open-teams")
}

func (s *TeamStore) teamList(ctx context.Context, path string) ([]dto.TeamResponse, error) {
	defer s.loading.begin()()

	var teams []dto.TeamResponse
	if err := s.client.do(ctx, http.MethodGet, path, nil, &teams); err != nil {
		return nil, err
	}
	for _, t := range teams {
		s.store(t, false)
	}
	return teams, nil
}

func (s *TeamStore) Get(ctx context.Context, teamID uuid.UUID) (*dto.TeamResponse, error) {
	return s.teamCall(ctx, http.MethodGet, teamPath(teamID, ""), nil, true)
}

// GenerateJoinCode issues a fresh code. Only the newest code is kept.
func (s *TeamStore) GenerateJoinCode(ctx context.Context, teamID uuid.UUID) (string, error) {
	defer s.loading.begin()()

	var resp dto.JoinCodeResponse
	if err := s.client.do(ctx, http.MethodPost, teamPath(teamID, "/join-code"), nil, &resp); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.joinCodes[teamID] = resp.JoinCode
	if t, ok := s.teams[teamID]; ok {
		code := resp.JoinCode
		t.JoinCode = &code
		s.teams[teamID] = t
	}
	s.mu.Unlock()
	return resp.JoinCode, nil
}

func (s *TeamStore) JoinByCode(ctx context.Context, code string) (*dto.TeamResponse, error) {
	return s.teamCall(ctx, http.MethodPost, "/join-team", dto.JoinTeamRequest{Code: code}, false)
}

func (s *TeamStore) RequestToJoin(ctx context.Context, teamID uuid.UUID, message string) (*dto.JoinRequestResponse, error) {
	defer s.loading.begin()()

	var jr dto.JoinRequestResponse
	if err := s.client.do(ctx, http.MethodPost, teamPath(teamID, "/join-requests"), dto.CreateJoinRequest{Message: message}, &jr); err != nil {
		return nil, err
	}
	return &jr, nil
}

// JoinRequests lists the pending requests of a team the caller leads.
func (s *TeamStore) JoinRequests(ctx context.Context, teamID uuid.UUID) ([]dto.JoinRequestResponse, error) {
	defer s.loading.begin()()

	var requests []dto.JoinRequestResponse
	if err := s.client.do(ctx, http.MethodGet, teamPath(teamID, "/join-requests"), nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// RespondJoinRequest accepts or rejects a request. An accepted request
// changes the team's members, so its cached copy is dropped.
func (s *TeamStore) RespondJoinRequest(ctx context.Context, requestID uuid.UUID, accept bool) (*dto.JoinRequestResponse, error) {
	defer s.loading.begin()()

	verb := "/reject"
	if accept {
		verb = "/accept"
	}

	var jr dto.JoinRequestResponse
	if err := s.client.do(ctx, http.MethodPost, "/join-requests/"+requestID.String()+verb, nil, &jr); err != nil {
		return nil, err
	}
	if accept {
		s.mu.Lock()
		delete(s.teams, jr.TeamID)
		s.mu.Unlock()
	}
	return &jr, nil
}

func (s *TeamStore) Register(ctx context.Context, teamID uuid.UUID) (*dto.TeamResponse, error) {
	return s.teamCall(ctx, http.MethodPost, teamPath(teamID, "/register"), nil, true)
}

func (s *TeamStore) Shortlist(ctx context.Context, teamID uuid.UUID, shortlisted bool) (*dto.TeamResponse, error) {
	return s.teamCall(ctx, http.MethodPatch, teamPath(teamID, "/shortlist"), dto.ShortlistRequest{Shortlisted: &shortlisted}, false)
}

func (s *TeamStore) Suspend(ctx context.Context, teamID uuid.UUID, suspended bool) (*dto.TeamResponse, error) {
	return s.teamCall(ctx, http.MethodPatch, teamPath(teamID, "/suspend"), dto.SuspendRequest{Suspended: &suspended}, false)
}

func (s *TeamStore) Leave(ctx context.Context, teamID uuid.UUID) error {
	defer s.loading.begin()()

	if err := s.client.do(ctx, http.MethodPost, teamPath(teamID, "/leave"), nil, nil); err != nil {
		return err
	}
	s.forget(teamID)
	return nil
}
