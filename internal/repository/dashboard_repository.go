package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ArchiveSummary aggregates the snapshot archive for the planner dashboard.
type ArchiveSummary struct {
	TotalSnapshots int        `json:"total_snapshots"`
	FirstTakenAt   *time.Time `json:"first_taken_at"`
	LastTakenAt    *time.Time `json:"last_taken_at"`
	PeakSessions   int        `json:"peak_sessions"`
}

// DailyActivity is the number of schedule saves on one day.
type DailyActivity struct {
	Day       time.Time `json:"day"`
	Snapshots int       `json:"snapshots"`
}

// DashboardRepository handles planner dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetArchiveSummary retrieves the high-level archive metrics.
func (r *DashboardRepository) GetArchiveSummary(ctx context.Context) (*ArchiveSummary, error) {
	s := &ArchiveSummary{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(taken_at), MAX(taken_at), COALESCE(MAX(session_count), 0)
		 FROM schedule_snapshots`,
	).Scan(&s.TotalSnapshots, &s.FirstTakenAt, &s.LastTakenAt, &s.PeakSessions)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetDailyActivity counts saves per day over the last `days` days, newest first.
func (r *DashboardRepository) GetDailyActivity(ctx context.Context, days int) ([]DailyActivity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date_trunc('day', taken_at) AS day, COUNT(*)
		 FROM schedule_snapshots
		 WHERE taken_at >= NOW() - make_interval(days => $1)
		 GROUP BY day
		 ORDER BY day DESC`, days,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activity []DailyActivity
	for rows.Next() {
		var a DailyActivity
		if err := rows.Scan(&a.Day, &a.Snapshots); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}
	return activity, rows.Err()
}
