package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/export"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/repository"
)

// SnapshotWorker consumes persist_schedule_snapshot_queue and archives each
// schedule document to PostgreSQL.
type SnapshotWorker struct {
	archive *repository.SnapshotArchiveRepository
	rdb     *redis.Client
	keep    int
	log     zerolog.Logger
}

// NewSnapshotWorker creates a new SnapshotWorker. keep bounds the archive
// size; zero keeps every snapshot.
func NewSnapshotWorker(archive *repository.SnapshotArchiveRepository, rdb *redis.Client, keep int, log zerolog.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		archive: archive,
		rdb:     rdb,
		keep:    keep,
		log:     log.With().Str("component", "snapshot_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *SnapshotWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SnapshotWorker) processNext(ctx context.Context) {
	queue := config.WorkerKey.PersistSnapshotQueue

	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, queue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if err := w.archiveDocument(ctx, []byte(result[1])); err != nil {
		if isDecodeError(err) {
			w.log.Error().Err(err).Msg("Dropping unreadable snapshot")
			return
		}
		w.log.Error().Err(err).Msg("Archive error, retrying in 5s")
		// Push back to the head so snapshot order is preserved.
		w.rdb.LPush(ctx, queue, result[1])
		time.Sleep(5 * time.Second)
	}
}

type decodeError struct{ err error }

func (e decodeError) Error() string { return e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	var de decodeError
	return errors.As(err, &de)
}

func (w *SnapshotWorker) archiveDocument(ctx context.Context, data []byte) error {
	doc, err := export.Decode(data)
	if err != nil {
		return decodeError{err}
	}

	snap := &model.ScheduleSnapshot{
		Version:      doc.Version,
		SessionCount: doc.SessionCount(),
		TakenAt:      doc.Timestamp,
		Document:     data,
	}
	if err := w.archive.Insert(ctx, snap); err != nil {
		return err
	}

	w.log.Debug().Int64("snapshot_id", snap.ID).Int("sessions", snap.SessionCount).Msg("Snapshot archived")

	if w.keep > 0 {
		removed, err := w.archive.Prune(ctx, w.keep)
		if err != nil {
			w.log.Warn().Err(err).Msg("Prune archive failed")
		} else if removed > 0 {
			w.log.Debug().Int64("removed", removed).Msg("Archive pruned")
		}
	}
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *SnapshotWorker) drain(ctx context.Context) {
	queue := config.WorkerKey.PersistSnapshotQueue
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, queue).Result()
		if err != nil {
			break
		}

		if err := w.archiveDocument(ctx, []byte(result)); err != nil {
			if isDecodeError(err) {
				w.log.Error().Err(err).Msg("Drain dropped unreadable snapshot")
				continue
			}
			w.log.Error().Err(err).Msg("Drain archive error")
			w.rdb.LPush(ctx, queue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
