package services

import (
	"context"
	"fmt"

	"github.com/dimitrije/hackmatch-api/internal/database"
	"github.com/dimitrije/hackmatch-api/internal/models"
	"github.com/google/uuid"
)

// AnalyticsService computes the dashboard aggregates for each role.
type AnalyticsService struct {
	db *database.DB
}

func NewAnalyticsService(db *database.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	stats := &models.AdminStats{}
	var err error

	stats.UsersByRole, err = s.countBy(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	stats.HackathonsByStatus, err = s.countBy(ctx, `SELECT status, COUNT(*) FROM hackathons GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get hackathon stats: %w", err)
	}

	teamStatsQuery := `
		SELECT
			COUNT(*) as total,
			COUNT(CASE WHEN is_registered THEN 1 END) as registered,
			COUNT(CASE WHEN is_shortlisted THEN 1 END) as shortlisted,
			COUNT(CASE WHEN is_suspended THEN 1 END) as suspended
		FROM teams
	`
	err = s.db.Pool.QueryRow(ctx, teamStatsQuery).Scan(
		&stats.TeamsTotal, &stats.TeamsRegistered, &stats.TeamsShortlisted, &stats.TeamsSuspended,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get team stats: %w", err)
	}

	stats.ComplaintsByStatus, err = s.countBy(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint stats: %w", err)
	}

	return stats, nil
}

func (s *AnalyticsService) countBy(ctx context.Context, sql string) (map[string]int, error) {
	rows, err := s.db.Pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// OrganizationStats reports team and participant counts for each hackathon the organizer owns.
func (s *AnalyticsService) OrganizationStats(ctx context.Context, organizerID uuid.UUID) ([]models.HackathonStats, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT
			h.id,
			h.title,
			h.status,
			COUNT(DISTINCT t.id) as teams,
			COUNT(DISTINCT CASE WHEN t.is_registered THEN t.id END) as registered,
			COUNT(DISTINCT CASE WHEN t.is_shortlisted THEN t.id END) as shortlisted,
			COUNT(tm.id) as participants
		FROM hackathons h
		LEFT JOIN teams t ON t.hackathon_id = h.id
		LEFT JOIN team_members tm ON tm.team_id = t.id
		WHERE h.organizer_id = $1
		GROUP BY h.id, h.title, h.status, h.start_date
		ORDER BY h.start_date
	`, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization stats: %w", err)
	}
	defer rows.Close()

	stats := []models.HackathonStats{}
	for rows.Next() {
		var hs models.HackathonStats
		if err := rows.Scan(
			&hs.HackathonID, &hs.Title, &hs.Status, &hs.Teams, &hs.Registered, &hs.Shortlisted, &hs.Participants,
		); err != nil {
			return nil, err
		}
		stats = append(stats, hs)
	}
	return stats, rows.Err()
}

func (s *AnalyticsService) StudentStats(ctx context.Context, userID uuid.UUID) (*models.StudentStats, error) {
	stats := &models.StudentStats{}

	err := s.db.Pool.QueryRow(ctx, `
		SELECT
			COUNT(*) as joined,
			COUNT(CASE WHEN t.is_registered THEN 1 END) as registered,
			COUNT(CASE WHEN t.is_shortlisted THEN 1 END) as shortlisted
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.user_id = $1
	`, userID).Scan(&stats.TeamsJoined, &stats.TeamsRegistered, &stats.TeamsShortlisted)
	if err != nil {
		return nil, fmt.Errorf("failed to get team stats: %w", err)
	}

	err = s.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM join_requests WHERE user_id = $1 AND status = $2),
			(SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read)
	`, userID, models.JoinRequestPending).Scan(&stats.PendingJoinRequests, &stats.UnreadNotifications)
	if err != nil {
		return nil, fmt.Errorf("failed to get request stats: %w", err)
	}

	return stats, nil
}
