// Package timetable holds the schedule aggregate and the rules that keep it
// free of double bookings: occupancy queries, conflict detection and the
// copy-on-write mutator.
package timetable

import (
	"slices"
	"sort"

	"github.com/stemsi/timetable-backend/internal/model"
)

type entry struct {
	session model.Session
	kind    model.SessionType
}

type slotKey struct {
	day  string
	time string
}

// Schedule is the aggregate of all placed sessions. A Schedule value is
// never modified after construction; mutations return a new Schedule.
type Schedule struct {
	catalog *model.Catalog
	entries []entry
	byID    map[string]int
	bySlot  map[slotKey][]int
}

// Collections is the three-collection shape of a schedule.
type Collections struct {
	Amphitheater []model.Session `json:"amphitheater"`
	TD           []model.Session `json:"td"`
	TP           []model.Session `json:"tp"`
}

// Of returns the collection for a session type.
func (c Collections) Of(t model.SessionType) []model.Session {
	switch t {
	case model.SessionTypeAmphitheater:
		return c.Amphitheater
	case model.SessionTypeTD:
		return c.TD
	case model.SessionTypeTP:
		return c.TP
	}
	return nil
}

// Len returns the total number of sessions across the three collections.
func (c Collections) Len() int {
	return len(c.Amphitheater) + len(c.TD) + len(c.TP)
}

// NewSchedule returns an empty schedule validated against cat.
func NewSchedule(cat *model.Catalog) *Schedule {
	return build(cat, nil)
}

func build(cat *model.Catalog, entries []entry) *Schedule {
	s := &Schedule{
		catalog: cat,
		entries: entries,
		byID:    make(map[string]int, len(entries)),
		bySlot:  make(map[slotKey][]int),
	}
	for i, e := range entries {
		s.byID[e.session.ID] = i
		k := slotKey{day: e.session.Day, time: e.session.Time}
		s.bySlot[k] = append(s.bySlot[k], i)
	}
	return s
}

// Catalog returns the catalog the schedule validates against.
func (s *Schedule) Catalog() *model.Catalog {
	if s == nil {
		return nil
	}
	return s.catalog
}

// Len returns the number of sessions.
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Get looks up a session by ID.
func (s *Schedule) Get(id string) (model.SessionView, bool) {
	if s == nil {
		return model.SessionView{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return model.SessionView{}, false
	}
	return s.view(i), true
}

// Views returns every session tagged with its type, amphitheater first,
// then TD, then TP, each in insertion order.
func (s *Schedule) Views() []model.SessionView {
	if s == nil {
		return nil
	}
	idx := make([]int, len(s.entries))
	for i := range idx {
		idx[i] = i
	}
	return s.viewsOf(idx)
}

// Collections splits the schedule back into its three named collections.
// The returned slices are never nil.
func (s *Schedule) Collections() Collections {
	c := Collections{
		Amphitheater: []model.Session{},
		TD:           []model.Session{},
		TP:           []model.Session{},
	}
	if s == nil {
		return c
	}
	for _, e := range s.entries {
		switch e.kind {
		case model.SessionTypeAmphitheater:
			c.Amphitheater = append(c.Amphitheater, e.session)
		case model.SessionTypeTD:
			c.TD = append(c.TD, e.session)
		case model.SessionTypeTP:
			c.TP = append(c.TP, e.session)
		}
	}
	return c
}

// Equal reports whether both schedules hold the same sessions in the same
// collections and order.
func (s *Schedule) Equal(other *Schedule) bool {
	a, b := s.Collections(), other.Collections()
	return slices.Equal(a.Amphitheater, b.Amphitheater) &&
		slices.Equal(a.TD, b.TD) &&
		slices.Equal(a.TP, b.TP)
}

func (s *Schedule) view(i int) model.SessionView {
	e := s.entries[i]
	return model.SessionView{Session: e.session, Type: e.kind}
}

// viewsOf returns the entries at idx in collection order.
func (s *Schedule) viewsOf(idx []int) []model.SessionView {
	ordered := slices.Clone(idx)
	sort.SliceStable(ordered, func(a, b int) bool {
		ka, kb := s.entries[ordered[a]].kind.Order(), s.entries[ordered[b]].kind.Order()
		if ka != kb {
			return ka < kb
		}
		return ordered[a] < ordered[b]
	})
	out := make([]model.SessionView, len(ordered))
	for i, j := range ordered {
		out[i] = s.view(j)
	}
	return out
}

// slot returns the sessions placed at (day, time) in collection order.
func (s *Schedule) slot(day, time string) []model.SessionView {
	if s == nil {
		return nil
	}
	return s.viewsOf(s.bySlot[slotKey{day: day, time: time}])
}

func (s *Schedule) with(e entry) *Schedule {
	entries := make([]entry, len(s.entries), len(s.entries)+1)
	copy(entries, s.entries)
	return build(s.catalog, append(entries, e))
}

func (s *Schedule) without(id string) *Schedule {
	entries := make([]entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.session.ID != id {
			entries = append(entries, e)
		}
	}
	return build(s.catalog, entries)
}
