package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/holiday"
)

// HolidayRefresher re-fetches the current and next year's holidays on a
// cron schedule so availability queries never wait on the upstream API.
type HolidayRefresher struct {
	source *holiday.CachedSource
	spec   string
	now    func() time.Time
	log    zerolog.Logger
}

// NewHolidayRefresher creates a HolidayRefresher running on spec (standard
// five-field cron syntax).
func NewHolidayRefresher(source *holiday.CachedSource, spec string, log zerolog.Logger) *HolidayRefresher {
	return &HolidayRefresher{
		source: source,
		spec:   spec,
		now:    time.Now,
		log:    log.With().Str("component", "holiday_refresher").Logger(),
	}
}

// Start refreshes once, schedules further refreshes, and blocks until ctx
// is cancelled. Call in a goroutine.
func (r *HolidayRefresher) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(r.spec, func() { r.RefreshNow(ctx) }); err != nil {
		return fmt.Errorf("schedule holiday refresh %q: %w", r.spec, err)
	}

	r.RefreshNow(ctx)
	c.Start()
	r.log.Info().Str("schedule", r.spec).Msg("Worker started")

	<-ctx.Done()
	r.log.Info().Msg("Worker stopping...")
	<-c.Stop().Done()
	r.log.Info().Msg("Worker stopped")
	return nil
}

// RefreshNow refreshes this year and the next one.
func (r *HolidayRefresher) RefreshNow(ctx context.Context) {
	year := r.now().Year()
	for _, y := range []int{year, year + 1} {
		refreshCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		set, err := r.source.Refresh(refreshCtx, y)
		cancel()
		if err != nil {
			r.log.Warn().Err(err).Int("year", y).Msg("Holiday refresh failed")
			continue
		}
		r.log.Info().Int("year", y).Int("count", len(set)).Msg("Holidays refreshed")
	}
}
