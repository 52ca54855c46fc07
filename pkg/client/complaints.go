package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
)

// SubmitComplaint files a complaint. Empty subject or message are rejected
// locally with a *ValidationError and nothing is sent.
func (c *Client) SubmitComplaint(ctx context.Context, req dto.CreateComplaintRequest) (*dto.ComplaintResponse, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return nil, &ValidationError{Field: "message", Message: "message is required"}
	}
	if req.Subject == "" {
		return nil, &ValidationError{Field: "subject", Message: "subject is required"}
	}

	var complaint dto.ComplaintResponse
	if err := c.do(ctx, http.MethodPost, "/complaints", req, &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (c *Client) MyComplaints(ctx context.Context) ([]dto.ComplaintResponse, error) {
	var complaints []dto.ComplaintResponse
	if err := c.do(ctx, http.MethodGet, "/complaints/mine", nil, &complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

// Announcements lists platform-wide announcements, or those of one hackathon.
func (c *Client) Announcements(ctx context.Context, hackathonID *uuid.UUID) ([]dto.AnnouncementResponse, error) {
	path := "/announcements"
	if hackathonID != nil {
		path += "?hackathon_id=" + hackathonID.String()
	}
	var announcements []dto.AnnouncementResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

func (c *Client) PostAnnouncement(ctx context.Context, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	var a dto.AnnouncementResponse
	if err := c.do(ctx, http.MethodPost, "/announcements", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
