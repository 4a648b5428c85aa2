package timetable

import (
	"errors"
	"fmt"

	"github.com/stemsi/timetable-backend/internal/model"
)

// ErrDuplicateSession is returned when a session ID is already placed.
var ErrDuplicateSession = errors.New("session id already placed")

// ConflictError rejects an insertion that would break room or group exclusivity.
type ConflictError struct {
	Kind     ConflictKind
	Existing model.SessionView
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with session %s (%s, %s %s, room %s)",
		e.Kind, e.Existing.ID, e.Existing.Subject, e.Existing.Day, e.Existing.Time, e.Existing.Room)
}

// Insert validates candidate, runs the conflict check, and returns a new
// schedule with the candidate appended to the collection for t. On error
// the original schedule is returned unchanged.
func Insert(s *Schedule, candidate model.Session, t model.SessionType) (*Schedule, error) {
	if err := model.ValidateSession(candidate, t, s.Catalog()); err != nil {
		return s, err
	}
	if _, exists := s.Get(candidate.ID); exists {
		return s, fmt.Errorf("%w: %s", ErrDuplicateSession, candidate.ID)
	}

	if res := CheckConflict(s, candidate); !res.Ok() {
		return s, &ConflictError{Kind: res.Kind, Existing: *res.Existing}
	}

	return s.with(entry{session: candidate, kind: t}), nil
}

// Remove drops the session with the given ID from whichever collection holds
// it. Removing an absent ID returns s itself.
func Remove(s *Schedule, id string) *Schedule {
	if _, ok := s.Get(id); !ok {
		return s
	}
	return s.without(id)
}

// Clear returns an empty schedule bound to the same catalog.
func Clear(s *Schedule) *Schedule {
	return NewSchedule(s.Catalog())
}

// Rebuild replays c through Insert, so the result satisfies every schedule
// invariant or an error names the first offending session.
func Rebuild(cat *model.Catalog, c Collections) (*Schedule, error) {
	s := NewSchedule(cat)
	for _, t := range model.SessionTypes {
		for _, session := range c.Of(t) {
			next, err := Insert(s, session, t)
			if err != nil {
				return nil, fmt.Errorf("%s session %q: %w", t, session.ID, err)
			}
			s = next
		}
	}
	return s, nil
}
