package holiday

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Overlay applies holidays on top of availability results. It never fails:
// source errors are logged and treated as "no holidays".
type Overlay struct {
	source Source
	log    zerolog.Logger
}

// NewOverlay creates an Overlay over source. A nil source yields no holidays.
func NewOverlay(source Source, log zerolog.Logger) *Overlay {
	return &Overlay{
		source: source,
		log:    log.With().Str("component", "holiday_overlay").Logger(),
	}
}

// HolidaysFor returns the holidays of year, or an empty set on failure.
func (o *Overlay) HolidaysFor(ctx context.Context, year int) Set {
	if o == nil || o.source == nil {
		return Set{}
	}
	set, err := o.source.HolidaysFor(ctx, year)
	if err != nil {
		o.log.Warn().Err(err).Int("year", year).Msg("Holiday source unavailable, continuing without it")
	}
	if set == nil {
		set = Set{}
	}
	return set
}

// IsHoliday reports whether date falls on a holiday and returns its name.
func (o *Overlay) IsHoliday(ctx context.Context, date time.Time) (string, bool) {
	name, ok := o.HolidaysFor(ctx, date.Year())[date.Format(DateLayout)]
	return name, ok
}

// FilterRooms returns no rooms on a holiday and rooms unchanged otherwise.
func (o *Overlay) FilterRooms(ctx context.Context, date time.Time, rooms []string) ([]string, bool) {
	if _, ok := o.IsHoliday(ctx, date); ok {
		return []string{}, true
	}
	return rooms, false
}
