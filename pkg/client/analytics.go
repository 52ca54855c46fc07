package client

import (
	"cmp"
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/dimitrije/hackmatch-api/pkg/dto"
	"github.com/google/uuid"
)

type SkillCount struct {
	Skill string
	Count int
}

// CountByStatus groups hackathons by status.
func CountByStatus(hackathons []dto.HackathonResponse) map[string]int {
	counts := make(map[string]int)
	for _, h := range hackathons {
		counts[h.Status]++
	}
	return counts
}

// TeamsPerHackathon counts teams per hackathon id.
func TeamsPerHackathon(teams []dto.TeamResponse) map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int)
	for _, t := range teams {
		counts[t.HackathonID]++
	}
	return counts
}

// TopSkills returns the n most common skills across users, most common
// first, ties broken alphabetically. Skills compare case-insensitively and a
// user listing a skill twice counts once. n <= 0 returns all of them.
func TopSkills(users []dto.UserResponse, n int) []SkillCount {
	counts := make(map[string]int)
	for _, u := range users {
		seen := make(map[string]bool, len(u.Skills))
		for _, s := range u.Skills {
			key := strings.ToLower(strings.TrimSpace(s))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			counts[key]++
		}
	}

	top := make([]SkillCount, 0, len(counts))
	for skill, count := range counts {
		top = append(top, SkillCount{Skill: skill, Count: count})
	}
	slices.SortFunc(top, func(a, b SkillCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Skill, b.Skill)
	})

	if n > 0 && len(top) > n {
		top = top[:n]
	}
	return top
}

func (c *Client) AdminStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	var stats dto.AdminStatsResponse
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) OrganizationStats(ctx context.Context) ([]dto.HackathonStatsResponse, error) {
	var stats []dto.HackathonStatsResponse
	if err := c.do(ctx, http.MethodGet, "/organization/stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) StudentStats(ctx context.Context) (*dto.StudentStatsResponse, error) {
	var stats dto.StudentStatsResponse
	if err := c.do(ctx, http.MethodGet, "/student/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Users lists users for admins, optionally filtered by role.
func (c *Client) Users(ctx context.Context, role string) ([]dto.UserResponse, error) {
	path := "/admin/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(role)
	}
	var users []dto.UserResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
