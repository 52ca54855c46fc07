package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
)

// UploadResume sends a PDF as the "resume" multipart field. It replaces any
// earlier upload.
func (c *Client) UploadResume(ctx context.Context, filename string, r io.Reader) (*dto.ResumeResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("resume", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to write form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload/resume", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resume dto.ResumeResponse
	if err := c.send(req, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

func (c *Client) MyResume(ctx context.Context) (*dto.ResumeResponse, error) {
	var resume dto.ResumeResponse
	if err := c.do(ctx, http.MethodGet, "/resume/me", nil, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// DownloadResume streams userID's PDF. The caller closes the returned body.
func (c *Client) DownloadResume(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/resume/user/"+userID.String()+"/file", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}
