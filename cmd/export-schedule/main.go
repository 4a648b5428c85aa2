package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/database"
	"github.com/stemsi/timetable-backend/internal/export"
	"github.com/stemsi/timetable-backend/internal/logger"
	"github.com/stemsi/timetable-backend/internal/repository"
)

func main() {
	cfg := config.Load()

	var out string
	flag.StringVar(&out, "o", "", "Output file (default: EXPORT_DIR/school_schedule_YYYY-MM-DD.json)")
	flag.Parse()

	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// The archive is only a fallback; export still works without PostgreSQL.
	var archive *repository.SnapshotArchiveRepository
	if pool, err := database.NewPostgresPool(ctx, cfg, log); err != nil {
		log.Warn().Err(err).Msg("PostgreSQL unavailable, exporting from Redis only")
	} else {
		defer pool.Close()
		archive = repository.NewSnapshotArchiveRepository(pool)
	}

	cat := config.DefaultCatalog()
	sched := repository.NewScheduleStore(rdb, archive, cat, log).Load(ctx)

	now := time.Now().UTC()
	data, err := export.Serialize(sched, now)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to serialize schedule")
	}

	if out == "" {
		out = filepath.Join(cfg.ExportDir, export.FileName(now))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("Failed to write export")
	}

	fmt.Printf("Exported %d sessions to %s\n", sched.Len(), out)
}
