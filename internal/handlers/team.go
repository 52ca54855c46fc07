package handlers

import (
	"fmt"

	"github.com/dimitrije/hackmatch-api/internal/middleware"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type TeamHandler struct {
	teamService      TeamServiceInterface
	hackathonService HackathonServiceInterface
	notifier         NotifierInterface
	log              *zap.Logger
}

func NewTeamHandler(teamService TeamServiceInterface, hackathonService HackathonServiceInterface, notifier NotifierInterface, log *zap.Logger) *TeamHandler {
	return &TeamHandler{
		teamService:      teamService,
		hackathonService: hackathonService,
		notifier:         notifier,
		log:              log,
	}
}

func teamLink(id uuid.UUID) string {
	return "/teams/" + id.String()
}

func isTeamMember(team *models.Team, userID uuid.UUID) bool {
	for _, m := range team.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (h *TeamHandler) loadTeam(c *drift.Context) (*models.Team, bool) {
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return nil, false
	}

	team, err := h.teamService.GetByID(c.Request.Context(), teamID)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to load team")
		return nil, false
	}
	return team, true
}

// loadLedTeam loads the team in :id and answers 403 unless the caller leads it.
func (h *TeamHandler) loadLedTeam(c *drift.Context) (*models.Team, bool) {
	team, ok := h.loadTeam(c)
	if !ok {
		return nil, false
	}
	if team.LeaderID != middleware.GetUserID(c) {
		c.Forbidden("only the team leader can do this")
		return nil, false
	}
	return team, true
}

func (h *TeamHandler) notifyMembers(c *drift.Context, teamID uuid.UUID, kind, message string) {
	ids, err := h.teamService.MemberIDs(c.Request.Context(), teamID)
	if err != nil {
		h.log.Warn("failed to load team members for notification", zap.Error(err), zap.String("team_id", teamID.String()))
		return
	}
	h.notifier.Notify(notifyContext(c), ids, kind, message, teamLink(teamID))
}

func (h *TeamHandler) Create(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), req.HackathonID, userID, req.Name, req.Idea)
	if err != nil {
		serviceError(c, h.log, err, "hackathon not found", "failed to create team")
		return
	}

	h.log.Info("team created", zap.String("team_id", team.ID.String()), zap.String("hackathon_id", req.HackathonID.String()))
	_ = c.JSON(201, toTeamResponse(team, true))
}

func (h *TeamHandler) Mine(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	teams, err := h.teamService.GetUserTeams(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list teams")
		return
	}

	_ = c.JSON(200, toTeamResponses(teams))
}

// MyTeam answers {"team": null} when the caller has no team in the hackathon.
func (h *TeamHandler) MyTeam(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	hackathonID, ok := paramID(c, "id", "hackathon")
	if !ok {
		return
	}

	team, err := h.teamService.GetUserTeamForHackathon(c.Request.Context(), hackathonID, userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to load team")
		return
	}

	resp := dto.MyTeamResponse{}
	if team != nil {
		t := toTeamResponse(team, team.LeaderID == userID)
		resp.Team = &t
	}
	_ = c.JSON(200, resp)
}

func (h *TeamHandler) Get(c *drift.Context) {
	team, ok := h.loadTeam(c)
	if !ok {
		return
	}

	userID := middleware.GetUserID(c)
	if !isAdmin(c) && !isTeamMember(team, userID) {
		hackathon, err := h.hackathonService.GetByID(c.Request.Context(), team.HackathonID)
		if err != nil {
			serviceError(c, h.log, err, "team not found", "failed to load team")
			return
		}
		if hackathon.OrganizerID != userID {
			c.Forbidden("not a member of this team")
			return
		}
	}

	_ = c.JSON(200, toTeamResponse(team, team.LeaderID == userID))
}

func (h *TeamHandler) Update(c *drift.Context) {
	team, ok := h.loadLedTeam(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.teamService.Update(c.Request.Context(), team.ID, req.Name, req.Idea)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to update team")
		return
	}

	_ = c.JSON(200, toTeamResponse(updated, true))
}

func (h *TeamHandler) GenerateJoinCode(c *drift.Context) {
	team, ok := h.loadLedTeam(c)
	if !ok {
		return
	}

	code, err := h.teamService.GenerateJoinCode(c.Request.Context(), team.ID)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to generate join code")
		return
	}

	_ = c.JSON(200, dto.JoinCodeResponse{JoinCode: code})
}

func (h *TeamHandler) JoinByCode(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.JoinTeamRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.JoinByCode(c.Request.Context(), userID, req.Code)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to join team")
		return
	}

	h.notifier.Notify(notifyContext(c), []uuid.UUID{team.LeaderID}, models.NotifyTeamMemberJoined,
		fmt.Sprintf("A new member joined %q with the join code", team.Name), teamLink(team.ID))

	_ = c.JSON(200, toTeamResponse(team, false))
}

func (h *TeamHandler) RequestToJoin(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	team, ok := h.loadTeam(c)
	if !ok {
		return
	}

	var req dto.CreateJoinRequest
	if !bindJSON(c, &req) {
		return
	}

	jr, err := h.teamService.RequestToJoin(c.Request.Context(), team.ID, userID, req.Message)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to request to join")
		return
	}

	h.notifier.Notify(notifyContext(c), []uuid.UUID{team.LeaderID}, models.NotifyJoinRequest,
		fmt.Sprintf("New request to join %q", team.Name), teamLink(team.ID))

	_ = c.JSON(201, toJoinRequestResponse(jr))
}

func (h *TeamHandler) ListJoinRequests(c *drift.Context) {
	team, ok := h.loadLedTeam(c)
	if !ok {
		return
	}

	requests, err := h.teamService.ListJoinRequests(c.Request.Context(), team.ID)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to list join requests")
		return
	}

	_ = c.JSON(200, toJoinRequestResponses(requests))
}

func (h *TeamHandler) MyJoinRequests(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	requests, err := h.teamService.UserJoinRequests(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list join requests")
		return
	}

	_ = c.JSON(200, toJoinRequestResponses(requests))
}

func (h *TeamHandler) AcceptJoinRequest(c *drift.Context) {
	h.respondJoinRequest(c, true)
}

func (h *TeamHandler) RejectJoinRequest(c *drift.Context) {
	h.respondJoinRequest(c, false)
}

func (h *TeamHandler) respondJoinRequest(c *drift.Context, accept bool) {
	requestID, ok := paramID(c, "id", "join request")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	jr, err := h.teamService.GetJoinRequest(ctx, requestID)
	if err != nil {
		serviceError(c, h.log, err, "join request not found", "failed to load join request")
		return
	}

	team, err := h.teamService.GetByID(ctx, jr.TeamID)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to load team")
		return
	}
	if team.LeaderID != middleware.GetUserID(c) {
		c.Forbidden("only the team leader can answer join requests")
		return
	}

	answered, err := h.teamService.RespondJoinRequest(ctx, requestID, accept)
	if err != nil {
		serviceError(c, h.log, err, "join request not found", "failed to answer join request")
		return
	}

	verdict := "rejected"
	if accept {
		verdict = "accepted"
	}
	h.notifier.Notify(notifyContext(c), []uuid.UUID{jr.UserID}, models.NotifyJoinRequestAnswer,
		fmt.Sprintf("Your request to join %q was %s", team.Name, verdict), teamLink(team.ID))

	_ = c.JSON(200, toJoinRequestResponse(answered))
}

func (h *TeamHandler) RemoveMember(c *drift.Context) {
	team, ok := h.loadLedTeam(c)
	if !ok {
		return
	}

	memberID, ok := paramID(c, "memberId", "member")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), team.ID, memberID); err != nil {
		serviceError(c, h.log, err, "team not found", "failed to remove member")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "member removed"})
}

func (h *TeamHandler) Leave(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(c.Request.Context(), teamID, userID); err != nil {
		serviceError(c, h.log, err, "team not found", "failed to leave team")
		return
	}

	_ = c.JSON(200, dto.MessageResponse{Message: "left team"})
}

func (h *TeamHandler) Register(c *drift.Context) {
	team, ok := h.loadLedTeam(c)
	if !ok {
		return
	}

	registered, err := h.teamService.Register(c.Request.Context(), team.ID)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to register team")
		return
	}

	h.log.Info("team registered", zap.String("team_id", team.ID.String()), zap.Int("members", registered.MemberCount))
	_ = c.JSON(200, toTeamResponse(registered, true))
}

// Shortlist is open to the hackathon's organizer and admins.
func (h *TeamHandler) Shortlist(c *drift.Context) {
	team, ok := h.loadTeam(c)
	if !ok {
		return
	}

	var req dto.ShortlistRequest
	if !bindJSON(c, &req) {
		return
	}

	if !isAdmin(c) {
		hackathon, err := h.hackathonService.GetByID(c.Request.Context(), team.HackathonID)
		if err != nil {
			serviceError(c, h.log, err, "hackathon not found", "failed to load hackathon")
			return
		}
		if hackathon.OrganizerID != middleware.GetUserID(c) {
			c.Forbidden("only the organizer can shortlist teams")
			return
		}
	}

	updated, err := h.teamService.Shortlist(c.Request.Context(), team.ID, *req.Shortlisted)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to shortlist team")
		return
	}

	if updated.IsShortlisted {
		h.notifyMembers(c, team.ID, models.NotifyTeamShortlisted, fmt.Sprintf("Your team %q has been shortlisted", team.Name))
	} else {
		h.notifyMembers(c, team.ID, models.NotifyTeamShortlisted, fmt.Sprintf("Your team %q is no longer shortlisted", team.Name))
	}

	_ = c.JSON(200, toTeamResponse(updated, false))
}

func (h *TeamHandler) Suspend(c *drift.Context) {
	teamID, ok := paramID(c, "id", "team")
	if !ok {
		return
	}

	var req dto.SuspendRequest
	if !bindJSON(c, &req) {
		return
	}

	team, err := h.teamService.Suspend(c.Request.Context(), teamID, *req.Suspended)
	if err != nil {
		serviceError(c, h.log, err, "team not found", "failed to suspend team")
		return
	}

	h.log.Info("team suspension changed",
		zap.String("team_id", teamID.String()),
		zap.Bool("suspended", team.IsSuspended),
		zap.String("admin_id", middleware.GetUserID(c).String()),
	)
	msg := fmt.Sprintf("Your team %q has been suspended", team.Name)
	if !team.IsSuspended {
		msg = fmt.Sprintf("Your team %q has been reinstated", team.Name)
	}
	h.notifyMembers(c, teamID, models.NotifyTeamSuspended, msg)

	_ = c.JSON(200, toTeamResponse(team, false))
}

// HackathonTeams lists every team of a hackathon for its organizer and admins.
func (h *TeamHandler) HackathonTeams(c *drift.Context) {
	hackathonID, ok := paramID(c, "id", "hackathon")
	if !ok {
		return
	}

	hackathon, ok := loadHackathon(c, h.hackathonService, h.log, hackathonID)
	if !ok {
		return
	}
	if !canManage(c, hackathon) {
		c.Forbidden("only the organizer can list all teams")
		return
	}

	teams, err := h.teamService.ListByHackathon(c.Request.Context(), hackathonID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list teams")
		return
	}

	_ = c.JSON(200, toTeamResponses(teams))
}

func (h *TeamHandler) OpenTeams(c *drift.Context) {
	hackathonID, ok := paramID(c, "id", "hackathon")
	if !ok {
		return
	}

	if _, ok := loadHackathon(c, h.hackathonService, h.log, hackathonID); !ok {
		return
	}

	teams, err := h.teamService.OpenTeams(c.Request.Context(), hackathonID)
	if err != nil {
		serviceError(c, h.log, err, "", "failed to list teams")
		return
	}

	_ = c.JSON(200, toTeamResponses(teams))
}
