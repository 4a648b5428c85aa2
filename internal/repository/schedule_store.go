package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/export"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/timetable"
)

// ScheduleStore keeps the current schedule document in Redis under a single
// key and queues every saved document for archival in PostgreSQL.
// Failures are logged and never surface to callers.
type ScheduleStore struct {
	rdb     *redis.Client
	archive *SnapshotArchiveRepository
	cat     *model.Catalog
	log     zerolog.Logger
}

// NewScheduleStore creates a ScheduleStore. archive may be nil, in which case
// a Redis miss always yields an empty schedule.
func NewScheduleStore(rdb *redis.Client, archive *SnapshotArchiveRepository, cat *model.Catalog, log zerolog.Logger) *ScheduleStore {
	return &ScheduleStore{
		rdb:     rdb,
		archive: archive,
		cat:     cat,
		log:     log.With().Str("component", "schedule_store").Logger(),
	}
}

// Load returns the stored schedule. It falls back to the newest archived
// snapshot when the Redis key is missing and to an empty schedule when
// nothing readable is found.
func (st *ScheduleStore) Load(ctx context.Context) *timetable.Schedule {
	key := config.CacheKey.ScheduleSnapshotKey()

	raw, err := st.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		s, _, decodeErr := export.Deserialize(raw, st.cat)
		if decodeErr == nil {
			return s
		}
		st.log.Warn().Err(decodeErr).Str("key", key).Msg("Stored schedule is unreadable, ignoring it")
	case errors.Is(err, redis.Nil):
		st.log.Debug().Str("key", key).Msg("No stored schedule in Redis")
	default:
		st.log.Error().Err(err).Str("key", key).Msg("Read stored schedule failed")
	}

	if s := st.loadArchived(ctx); s != nil {
		return s
	}
	return timetable.NewSchedule(st.cat)
}

func (st *ScheduleStore) loadArchived(ctx context.Context) *timetable.Schedule {
	if st.archive == nil {
		return nil
	}

	snap, err := st.archive.Latest(ctx)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			st.log.Error().Err(err).Msg("Read archived schedule failed")
		}
		return nil
	}

	s, _, err := export.Deserialize(snap.Document, st.cat)
	if err != nil {
		st.log.Warn().Err(err).Int64("snapshot_id", snap.ID).Msg("Archived schedule is unreadable, ignoring it")
		return nil
	}

	st.log.Info().Int64("snapshot_id", snap.ID).Msg("Schedule restored from archive")
	return s
}

// Save stores s and queues it for archival.
func (st *ScheduleStore) Save(ctx context.Context, s *timetable.Schedule) {
	data, err := export.Serialize(s, time.Now().UTC())
	if err != nil {
		st.log.Error().Err(err).Msg("Serialize schedule failed")
		return
	}
	st.write(ctx, data, "save")
}

// Clear overwrites the stored schedule with an empty document and queues it.
// The key is kept so Load never falls back to an older archived snapshot.
func (st *ScheduleStore) Clear(ctx context.Context) {
	data, err := export.Serialize(timetable.NewSchedule(st.cat), time.Now().UTC())
	if err != nil {
		st.log.Error().Err(err).Msg("Serialize empty schedule failed")
		return
	}
	st.write(ctx, data, "clear")
}

func (st *ScheduleStore) write(ctx context.Context, data []byte, op string) {
	pipe := st.rdb.TxPipeline()
	pipe.Set(ctx, config.CacheKey.ScheduleSnapshotKey(), data, 0)
	pipe.RPush(ctx, config.WorkerKey.PersistSnapshotQueue, data)

	if _, err := pipe.Exec(ctx); err != nil {
		st.log.Error().Err(err).Str("op", op).Msg("Persist schedule failed")
	}
}
