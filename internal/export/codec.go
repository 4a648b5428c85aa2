// Package export encodes schedules into the downloadable JSON document and
// decodes such documents back into validated schedules.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/timetable"
)

// Version is the document format version written by Serialize.
const Version = "1.0"

// ErrUnsupportedVersion is returned for documents written by an unknown format.
var ErrUnsupportedVersion = errors.New("unsupported export version")

// Document is the export file layout.
type Document struct {
	Schedule  timetable.Collections `json:"schedule"`
	Timestamp time.Time             `json:"timestamp"`
	Version   string                `json:"version"`
}

// SessionCount returns the number of sessions in the document.
func (d *Document) SessionCount() int {
	return d.Schedule.Len()
}

// Serialize writes s as an export document stamped with at.
func Serialize(s *timetable.Schedule, at time.Time) ([]byte, error) {
	doc := Document{
		Schedule:  s.Collections(),
		Timestamp: at.UTC(),
		Version:   Version,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}
	return data, nil
}

// Decode parses an export document without validating its sessions.
// Documents saved by the browser client are accepted too: their numeric ids,
// subGroup keys and "08:30 - 10:00" slot labels are normalized.
func Decode(data []byte) (*Document, error) {
	var wire struct {
		Schedule struct {
			Amphitheater []record `json:"amphitheater"`
			TD           []record `json:"td"`
			TP           []record `json:"tp"`
		} `json:"schedule"`
		Timestamp time.Time `json:"timestamp"`
		Version   string    `json:"version"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode schedule document: %w", err)
	}
	if wire.Version != Version {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, wire.Version)
	}
	return &Document{
		Schedule: timetable.Collections{
			Amphitheater: sessions(wire.Schedule.Amphitheater),
			TD:           sessions(wire.Schedule.TD),
			TP:           sessions(wire.Schedule.TP),
		},
		Timestamp: wire.Timestamp,
		Version:   wire.Version,
	}, nil
}

type record struct {
	ID          sessionID `json:"id"`
	Subject     string    `json:"subject"`
	Day         string    `json:"day"`
	Time        string    `json:"time"`
	Room        string    `json:"room"`
	Group       string    `json:"group"`
	SubGroup    string    `json:"sub_group"`
	SubGroupAlt string    `json:"subGroup"`
}

func sessions(records []record) []model.Session {
	if records == nil {
		return nil
	}
	out := make([]model.Session, len(records))
	for i, r := range records {
		sub := r.SubGroup
		if sub == "" {
			sub = r.SubGroupAlt
		}
		out[i] = model.Session{
			ID:       string(r.ID),
			Subject:  r.Subject,
			Day:      r.Day,
			Time:     normalizeSlot(r.Time),
			Room:     r.Room,
			Group:    r.Group,
			SubGroup: sub,
		}
	}
	return out
}

// sessionID accepts a JSON string or number.
type sessionID string

func (id *sessionID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = sessionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("session id must be a string or number, got %s", b)
	}
	*id = sessionID(n.String())
	return nil
}

func normalizeSlot(label string) string {
	start, end, ok := strings.Cut(label, "-")
	if !ok {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(start) + "-" + strings.TrimSpace(end)
}

// Deserialize parses data and rebuilds the schedule through the mutator,
// so every invariant is re-checked.
func Deserialize(data []byte, cat *model.Catalog) (*timetable.Schedule, *Document, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	s, err := timetable.Rebuild(cat, doc.Schedule)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild schedule: %w", err)
	}
	return s, doc, nil
}

// FileName returns the download name for an export taken at at.
func FileName(at time.Time) string {
	return fmt.Sprintf("school_schedule_%s.json", at.UTC().Format("2006-01-02"))
}
