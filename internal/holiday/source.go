// Package holiday supplies the calendar days on which no session can be
// scheduled and the overlay that applies them on top of availability queries.
package holiday

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// DateLayout is the wire format of holiday dates.
const DateLayout = "2006-01-02"

// Set maps a date (DateLayout) to the holiday's name.
type Set map[string]string

// Contains reports whether the calendar day of t is a holiday.
func (s Set) Contains(t time.Time) bool {
	_, ok := s[t.Format(DateLayout)]
	return ok
}

// Holiday is one entry of a Set.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// List returns the holidays ordered by date.
func (s Set) List() []Holiday {
	out := make([]Holiday, 0, len(s))
	for d, name := range s {
		out = append(out, Holiday{Date: d, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Source yields the holidays of a year.
type Source interface {
	HolidaysFor(ctx context.Context, year int) (Set, error)
}

// StaticSource serves a fixed list of dates, typically institution closures
// configured at deploy time.
type StaticSource struct {
	dates map[int]Set
}

// NewStaticSource parses dates in DateLayout. Each entry may carry a name
// after an equals sign: "2026-12-24=Winter closure".
func NewStaticSource(entries []string) (*StaticSource, error) {
	s := &StaticSource{dates: make(map[int]Set)}
	for _, raw := range entries {
		date, name := raw, "Institution closure"
		for i := 0; i < len(raw); i++ {
			if raw[i] == '=' {
				date, name = raw[:i], raw[i+1:]
				break
			}
		}
		t, err := time.Parse(DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse holiday %q: %w", raw, err)
		}
		if s.dates[t.Year()] == nil {
			s.dates[t.Year()] = make(Set)
		}
		s.dates[t.Year()][date] = name
	}
	return s, nil
}

func (s *StaticSource) HolidaysFor(_ context.Context, year int) (Set, error) {
	out := make(Set, len(s.dates[year]))
	for d, n := range s.dates[year] {
		out[d] = n
	}
	return out, nil
}

// MultiSource merges several sources. A failing source does not hide the
// others; the first error is returned alongside the merged result.
type MultiSource []Source

func (m MultiSource) HolidaysFor(ctx context.Context, year int) (Set, error) {
	merged := make(Set)
	var firstErr error
	for _, src := range m {
		set, err := src.HolidaysFor(ctx, year)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		for d, n := range set {
			if _, exists := merged[d]; !exists {
				merged[d] = n
			}
		}
	}
	return merged, firstErr
}
