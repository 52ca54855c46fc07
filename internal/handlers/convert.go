package handlers

import (
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/dimitrije/hackmatch-api/internal/services"
	"github.com/dimitrije/hackmatch-api/pkg/dto"
)

// toUserResponse hides the email unless withEmail is set.
func toUserResponse(u *models.User, withEmail bool) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Role:         u.Role,
		Bio:          u.Bio,
		Skills:       u.Skills,
		GithubURL:    u.GithubURL,
		LinkedinURL:  u.LinkedinURL,
		PortfolioURL: u.PortfolioURL,
		Organization: u.Organization,
		AvatarURL:    u.AvatarURL,
		CreatedAt:    u.CreatedAt,
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}
	if withEmail {
		resp.Email = u.Email
		resp.Provider = u.Provider
	}
	return resp
}

func toHackathonResponse(h *models.Hackathon) dto.HackathonResponse {
	return dto.HackathonResponse{
		ID:                   h.ID,
		Title:                h.Title,
		Description:          h.Description,
		Location:             h.Location,
		StartDate:            h.StartDate,
		EndDate:              h.EndDate,
		RegistrationDeadline: h.RegistrationDeadline,
		MinTeamSize:          h.MinTeamSize,
		MaxTeamSize:          h.MaxTeamSize,
		Status:               h.Status,
		OrganizerID:          h.OrganizerID,
		CreatedAt:            h.CreatedAt,
	}
}

func toHackathonResponses(list []models.Hackathon) []dto.HackathonResponse {
	resp := make([]dto.HackathonResponse, len(list))
	for i := range list {
		resp[i] = toHackathonResponse(&list[i])
	}
	return resp
}

// toTeamResponse includes the join code only when withCode is set (leader views).
func toTeamResponse(t *models.Team, withCode bool) dto.TeamResponse {
	resp := dto.TeamResponse{
		ID:            t.ID,
		HackathonID:   t.HackathonID,
		Name:          t.Name,
		LeaderID:      t.LeaderID,
		Idea:          t.Idea,
		IsRegistered:  t.IsRegistered,
		IsShortlisted: t.IsShortlisted,
		IsSuspended:   t.IsSuspended,
		MemberCount:   t.MemberCount,
		CreatedAt:     t.CreatedAt,
	}
	if withCode {
		resp.JoinCode = t.JoinCode
	}
	for _, m := range t.Members {
		member := dto.TeamMemberResponse{UserID: m.UserID, Role: m.Role, JoinedAt: m.CreatedAt, Skills: []string{}}
		if m.User != nil {
			member.Name = m.User.Name
			member.AvatarURL = m.User.AvatarURL
			if m.User.Skills != nil {
				member.Skills = m.User.Skills
			}
		}
		resp.Members = append(resp.Members, member)
	}
	return resp
}

func toTeamResponses(list []models.Team) []dto.TeamResponse {
	resp := make([]dto.TeamResponse, len(list))
	for i := range list {
		resp[i] = toTeamResponse(&list[i], false)
	}
	return resp
}

func toJoinRequestResponse(r *models.JoinRequest) dto.JoinRequestResponse {
	resp := dto.JoinRequestResponse{
		ID:        r.ID,
		TeamID:    r.TeamID,
		TeamName:  r.TeamName,
		UserID:    r.UserID,
		Message:   r.Message,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		resp.UserName = r.User.Name
		resp.UserSkills = r.User.Skills
	}
	return resp
}

func toJoinRequestResponses(list []models.JoinRequest) []dto.JoinRequestResponse {
	resp := make([]dto.JoinRequestResponse, len(list))
	for i := range list {
		resp[i] = toJoinRequestResponse(&list[i])
	}
	return resp
}

func toResumeResponse(r *models.Resume) dto.ResumeResponse {
	return dto.ResumeResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Filename:    r.Filename,
		SizeBytes:   r.SizeBytes,
		DownloadURL: services.DownloadURL(r.UserID),
		UploadedAt:  r.UploadedAt,
	}
}

func toComplaintResponse(c *models.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		HackathonID: c.HackathonID,
		Subject:     c.Subject,
		Message:     c.Message,
		Status:      c.Status,
		Response:    c.Response,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toComplaintResponses(list []models.Complaint) []dto.ComplaintResponse {
	resp := make([]dto.ComplaintResponse, len(list))
	for i := range list {
		resp[i] = toComplaintResponse(&list[i])
	}
	return resp
}

func toAnnouncementResponse(a *models.Announcement) dto.AnnouncementResponse {
	return dto.AnnouncementResponse{
		ID:          a.ID,
		AuthorID:    a.AuthorID,
		HackathonID: a.HackathonID,
		Title:       a.Title,
		Body:        a.Body,
		CreatedAt:   a.CreatedAt,
	}
}

func toNotificationResponse(n *models.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
