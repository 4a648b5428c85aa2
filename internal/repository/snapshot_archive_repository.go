package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/timetable-backend/internal/model"
)

// SnapshotArchiveRepository keeps the history of saved schedules in PostgreSQL.
type SnapshotArchiveRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotArchiveRepository creates a new SnapshotArchiveRepository.
func NewSnapshotArchiveRepository(pool *pgxpool.Pool) *SnapshotArchiveRepository {
	return &SnapshotArchiveRepository{pool: pool}
}

// Insert archives a snapshot.
func (r *SnapshotArchiveRepository) Insert(ctx context.Context, s *model.ScheduleSnapshot) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO schedule_snapshots (version, session_count, document, taken_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		s.Version, s.SessionCount, s.Document, s.TakenAt,
	).Scan(&s.ID, &s.CreatedAt)
}

// Latest returns the most recent snapshot with its document.
// Returns pgx.ErrNoRows when the archive is empty.
func (r *SnapshotArchiveRepository) Latest(ctx context.Context) (*model.ScheduleSnapshot, error) {
	s := &model.ScheduleSnapshot{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, version, session_count, document, taken_at, created_at
		 FROM schedule_snapshots
		 ORDER BY taken_at DESC, id DESC
		 LIMIT 1`,
	).Scan(&s.ID, &s.Version, &s.SessionCount, &s.Document, &s.TakenAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID returns one snapshot with its document.
func (r *SnapshotArchiveRepository) GetByID(ctx context.Context, id int64) (*model.ScheduleSnapshot, error) {
	s := &model.ScheduleSnapshot{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, version, session_count, document, taken_at, created_at
		 FROM schedule_snapshots WHERE id = $1`, id,
	).Scan(&s.ID, &s.Version, &s.SessionCount, &s.Document, &s.TakenAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List returns snapshot metadata, newest first, without documents.
func (r *SnapshotArchiveRepository) List(ctx context.Context, limit, offset int) ([]model.ScheduleSnapshot, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM schedule_snapshots`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, version, session_count, taken_at, created_at
		 FROM schedule_snapshots
		 ORDER BY taken_at DESC, id DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	snapshots := make([]model.ScheduleSnapshot, 0, limit)
	for rows.Next() {
		var s model.ScheduleSnapshot
		if err := rows.Scan(&s.ID, &s.Version, &s.SessionCount, &s.TakenAt, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return snapshots, total, nil
}

// Prune deletes all but the newest keep snapshots and returns how many
// were removed.
func (r *SnapshotArchiveRepository) Prune(ctx context.Context, keep int) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM schedule_snapshots
		 WHERE id NOT IN (
		     SELECT id FROM schedule_snapshots ORDER BY taken_at DESC, id DESC LIMIT $1
		 )`, keep,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
