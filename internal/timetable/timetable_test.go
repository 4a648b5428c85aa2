package timetable_test

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/timetable"
)

const (
	monday = "Monday"
	slot1  = "08:30-10:00"
	slot2  = "10:15-11:45"
)

func mustSession(t *testing.T, typ model.SessionType, in model.SessionInput) model.Session {
	t.Helper()
	s, err := model.NewSession(in, typ, config.DefaultCatalog())
	if err != nil {
		t.Fatalf("NewSession(%+v): %v", in, err)
	}
	return s
}

func mustInsert(t *testing.T, s *timetable.Schedule, c model.Session, typ model.SessionType) *timetable.Schedule {
	t.Helper()
	next, err := timetable.Insert(s, c, typ)
	if err != nil {
		t.Fatalf("Insert(%+v): %v", c, err)
	}
	return next
}

func physicsZaouiA(t *testing.T) model.Session {
	return mustSession(t, model.SessionTypeAmphitheater, model.SessionInput{
		Subject: "Physics I", Day: monday, Time: slot1, Room: "Zaoui", Group: "A",
	})
}

func TestScenarioInsertIntoEmpty(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	first := physicsZaouiA(t)

	if res := timetable.CheckConflict(s, first); !res.Ok() {
		t.Fatalf("expected Ok, got %s", res.Kind)
	}
	s = mustInsert(t, s, first, model.SessionTypeAmphitheater)

	c := s.Collections()
	if len(c.Amphitheater) != 1 || len(c.TD) != 0 || len(c.TP) != 0 {
		t.Fatalf("unexpected collections: %+v", c)
	}
	if c.Amphitheater[0] != first {
		t.Errorf("stored session = %+v, want %+v", c.Amphitheater[0], first)
	}
}

func TestScenarioRoomConflict(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	first := physicsZaouiA(t)
	s = mustInsert(t, s, first, model.SessionTypeAmphitheater)

	second := mustSession(t, model.SessionTypeAmphitheater, model.SessionInput{
		Subject: "Chemistry", Day: monday, Time: slot1, Room: "Zaoui", Group: "B",
	})

	res := timetable.CheckConflict(s, second)
	if res.Kind != timetable.ConflictRoom {
		t.Fatalf("kind = %s, want room_conflict", res.Kind)
	}
	if res.Existing == nil || res.Existing.ID != first.ID {
		t.Fatalf("existing = %+v, want %s", res.Existing, first.ID)
	}

	after, err := timetable.Insert(s, second, model.SessionTypeAmphitheater)
	var ce *timetable.ConflictError
	if !errors.As(err, &ce) || ce.Kind != timetable.ConflictRoom || ce.Existing.ID != first.ID {
		t.Fatalf("Insert error = %v, want room ConflictError naming %s", err, first.ID)
	}
	if after != s || after.Len() != 1 {
		t.Error("failed insert must leave the schedule unchanged")
	}
}

func TestScenarioGroupConflict(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	first := physicsZaouiA(t)
	s = mustInsert(t, s, first, model.SessionTypeAmphitheater)

	second := mustSession(t, model.SessionTypeAmphitheater, model.SessionInput{
		Subject: "Mathematics", Day: monday, Time: slot1, Room: "Aboutajdine", Group: "A",
	})

	res := timetable.CheckConflict(s, second)
	if res.Kind != timetable.ConflictGroup || res.Existing.ID != first.ID {
		t.Fatalf("got %s (%+v), want group_conflict naming %s", res.Kind, res.Existing, first.ID)
	}
}

func TestScenarioSubGroupsResolveToSameGroup(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	td := mustSession(t, model.SessionTypeTD, model.SessionInput{
		Subject: "Calculus I", Day: monday, Time: slot2, Room: "Class 1", SubGroup: "A1",
	})
	s = mustInsert(t, s, td, model.SessionTypeTD)

	tp := mustSession(t, model.SessionTypeTP, model.SessionInput{
		Subject: "Programming", Day: monday, Time: slot2, Room: "Lab 1", SubGroup: "A2",
	})
	res := timetable.CheckConflict(s, tp)
	if res.Kind != timetable.ConflictGroup || res.Existing.ID != td.ID {
		t.Fatalf("got %s, want group_conflict naming the TD session", res.Kind)
	}
	if res.Existing.Type != model.SessionTypeTD {
		t.Errorf("existing type = %s, want td", res.Existing.Type)
	}
}

func TestScenarioRemoveMissingIsNoop(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	s = mustInsert(t, s, physicsZaouiA(t), model.SessionTypeAmphitheater)

	after := timetable.Remove(s, "00000000-0000-0000-0000-000000000000")
	if after != s {
		t.Error("removing an absent id should return the same schedule")
	}
	if !after.Equal(s) || after.Len() != 1 {
		t.Error("schedule changed")
	}
}

func TestRoomConflictTakesPrecedence(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	first := physicsZaouiA(t)
	s = mustInsert(t, s, first, model.SessionTypeAmphitheater)

	// Same room and same group: both rules are violated.
	both := mustSession(t, model.SessionTypeAmphitheater, model.SessionInput{
		Subject: "English", Day: monday, Time: slot1, Room: "Zaoui", Group: "A",
	})
	if res := timetable.CheckConflict(s, both); res.Kind != timetable.ConflictRoom {
		t.Fatalf("kind = %s, want room_conflict", res.Kind)
	}
}

func TestSessionNeverConflictsWithItself(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	first := physicsZaouiA(t)
	s = mustInsert(t, s, first, model.SessionTypeAmphitheater)

	if res := timetable.CheckConflict(s, first); !res.Ok() {
		t.Fatalf("self check = %s, want ok", res.Kind)
	}
	if _, err := timetable.Insert(s, first, model.SessionTypeAmphitheater); !errors.Is(err, timetable.ErrDuplicateSession) {
		t.Fatalf("re-insert error = %v, want ErrDuplicateSession", err)
	}
}

func TestInsertRejectsPoolMismatch(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	sess := physicsZaouiA(t)

	_, err := timetable.Insert(s, sess, model.SessionTypeTD)
	var ie *model.InvalidSessionError
	if !errors.As(err, &ie) || ie.Field != "room" {
		t.Fatalf("err = %v, want InvalidSessionError on room", err)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	a := physicsZaouiA(t)
	b := mustSession(t, model.SessionTypeTP, model.SessionInput{
		Subject: "Programming", Day: "Tuesday", Time: slot1, Room: "Lab 2", SubGroup: "B3",
	})
	s = mustInsert(t, s, a, model.SessionTypeAmphitheater)
	s = mustInsert(t, s, b, model.SessionTypeTP)

	once := timetable.Remove(s, a.ID)
	twice := timetable.Remove(once, a.ID)
	if !once.Equal(twice) {
		t.Fatal("remove(remove(S, id), id) != remove(S, id)")
	}
	if once.Len() != 1 {
		t.Fatalf("len = %d, want 1", once.Len())
	}
	if _, ok := once.Get(b.ID); !ok {
		t.Error("unrelated session was removed")
	}
	if s.Len() != 2 {
		t.Error("original schedule was modified")
	}
}

func TestClear(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	s = mustInsert(t, s, physicsZaouiA(t), model.SessionTypeAmphitheater)

	cleared := timetable.Clear(s)
	if cleared.Len() != 0 {
		t.Fatalf("len = %d, want 0", cleared.Len())
	}
	if cleared.Catalog() != s.Catalog() {
		t.Error("clear should keep the catalog")
	}
	if s.Len() != 1 {
		t.Error("original schedule was modified")
	}
}

func TestOccupancyAndAvailableRooms(t *testing.T) {
	cat := config.DefaultCatalog()
	s := timetable.NewSchedule(cat)
	s = mustInsert(t, s, physicsZaouiA(t), model.SessionTypeAmphitheater)
	s = mustInsert(t, s, mustSession(t, model.SessionTypeTD, model.SessionInput{
		Subject: "Calculus I", Day: monday, Time: slot1, Room: "Class 3", SubGroup: "C2",
	}), model.SessionTypeTD)

	occ := timetable.OccupancyAt(s, monday, slot1)
	if got, want := occ.Rooms(), []string{"Class 3", "Zaoui"}; !slices.Equal(got, want) {
		t.Errorf("rooms = %v, want %v", got, want)
	}
	if got, want := occ.Groups(), []string{"A", "C"}; !slices.Equal(got, want) {
		t.Errorf("groups = %v, want %v", got, want)
	}

	free := timetable.AvailableRooms(s, monday, slot1, cat.RoomNames(model.SessionTypeAmphitheater))
	if want := []string{"Aboutajdine", "Ibn Khaldoun"}; !slices.Equal(free, want) {
		t.Errorf("available = %v, want %v", free, want)
	}

	empty := timetable.OccupancyAt(s, "Saturday", slot1)
	if len(empty.OccupiedRooms) != 0 || len(empty.OccupiedGroups) != 0 {
		t.Errorf("expected empty occupancy, got %+v", empty)
	}
}

func TestSessionsAtOrdersByCollection(t *testing.T) {
	s := timetable.NewSchedule(config.DefaultCatalog())
	tp := mustSession(t, model.SessionTypeTP, model.SessionInput{
		Subject: "Chemistry", Day: monday, Time: slot1, Room: "Lab 1", SubGroup: "B1",
	})
	amph := physicsZaouiA(t)
	s = mustInsert(t, s, tp, model.SessionTypeTP)
	s = mustInsert(t, s, amph, model.SessionTypeAmphitheater)

	cell := timetable.SessionsAt(s, monday, slot1)
	if len(cell) != 2 || cell[0].ID != amph.ID || cell[1].ID != tp.ID {
		t.Fatalf("cell order = %+v", cell)
	}
	if cell[0].Type != model.SessionTypeAmphitheater || cell[1].Type != model.SessionTypeTP {
		t.Error("views carry the wrong session type")
	}
}

func TestRebuildRejectsConflicts(t *testing.T) {
	cat := config.DefaultCatalog()
	a := physicsZaouiA(t)
	b := a
	b.ID = "second"
	b.Group = "B"

	_, err := timetable.Rebuild(cat, timetable.Collections{Amphitheater: []model.Session{a, b}})
	var ce *timetable.ConflictError
	if !errors.As(err, &ce) || ce.Kind != timetable.ConflictRoom {
		t.Fatalf("err = %v, want room conflict", err)
	}

	ok, err := timetable.Rebuild(cat, timetable.Collections{Amphitheater: []model.Session{a}})
	if err != nil || ok.Len() != 1 {
		t.Fatalf("Rebuild: %v", err)
	}
}

func TestInsertWithoutCatalog(t *testing.T) {
	misplaced := physicsZaouiA(t)
	misplaced.Room = "Lab 1"
	misplaced.Day = "Sunday"

	for name, s := range map[string]*timetable.Schedule{
		"nil catalog":  timetable.NewSchedule(nil),
		"nil schedule": nil,
	} {
		t.Run(name, func(t *testing.T) {
			for _, c := range []model.Session{physicsZaouiA(t), misplaced} {
				next, err := timetable.Insert(s, c, model.SessionTypeAmphitheater)
				var ie *model.InvalidSessionError
				if !errors.As(err, &ie) {
					t.Fatalf("Insert(%s) err = %v, want InvalidSessionError", c.Room, err)
				}
				if next != s {
					t.Error("schedule changed on rejected insert")
				}
			}
		})
	}

	if _, err := timetable.Rebuild(nil, timetable.Collections{Amphitheater: []model.Session{physicsZaouiA(t)}}); err == nil {
		t.Fatal("Rebuild without a catalog accepted a session")
	}
}

// TestRandomInsertionsPreserveInvariants throws random candidates at the
// mutator and checks room exclusivity, group exclusivity, and the
// availableRooms/occupancy partition after every accepted insertion.
func TestRandomInsertionsPreserveInvariants(t *testing.T) {
	cat := config.DefaultCatalog()
	rng := rand.New(rand.NewSource(42))
	s := timetable.NewSchedule(cat)

	pick := func(xs []string) string { return xs[rng.Intn(len(xs))] }
	var subGroups []string
	var groups []string
	for _, g := range cat.Groups {
		groups = append(groups, g.ID)
		subGroups = append(subGroups, g.SubGroups...)
	}

	accepted := 0
	for i := 0; i < 2000; i++ {
		typ := model.SessionTypes[rng.Intn(len(model.SessionTypes))]
		in := model.SessionInput{
			Subject: pick(cat.Subjects),
			Day:     pick(cat.Days),
			Time:    pick(cat.TimeSlots),
			Room:    pick(cat.RoomNames(typ)),
		}
		if typ == model.SessionTypeAmphitheater {
			in.Group = pick(groups)
		} else {
			in.SubGroup = pick(subGroups)
		}
		cand := mustSession(t, typ, in)

		next, err := timetable.Insert(s, cand, typ)
		if err != nil {
			var ce *timetable.ConflictError
			if !errors.As(err, &ce) {
				t.Fatalf("unexpected error: %v", err)
			}
			continue
		}
		s = next
		accepted++

		if i%50 == 0 && s.Len() > 0 {
			victim := s.Views()[rng.Intn(s.Len())]
			s = timetable.Remove(s, victim.ID)
		}
	}
	if accepted == 0 {
		t.Fatal("no insertion accepted")
	}

	views := s.Views()
	for i := range views {
		for j := i + 1; j < len(views); j++ {
			a, b := views[i], views[j]
			if a.Day != b.Day || a.Time != b.Time {
				continue
			}
			if a.Room == b.Room {
				t.Fatalf("room exclusivity violated: %+v / %+v", a, b)
			}
			if model.ResolveGroup(a.Session) == model.ResolveGroup(b.Session) {
				t.Fatalf("group exclusivity violated: %+v / %+v", a, b)
			}
		}
	}

	for _, day := range cat.Days {
		for _, slot := range cat.TimeSlots {
			occ := timetable.OccupancyAt(s, day, slot)
			for _, typ := range model.SessionTypes {
				pool := cat.RoomNames(typ)
				free := timetable.AvailableRooms(s, day, slot, pool)
				union := 0
				for _, room := range free {
					if occ.HasRoom(room) {
						t.Fatalf("%s %s: %s is both free and occupied", day, slot, room)
					}
					union++
				}
				for _, room := range pool {
					if occ.HasRoom(room) {
						union++
					}
				}
				if union != len(pool) {
					t.Fatalf("%s %s %s: free+occupied = %d, pool = %d", day, slot, typ, union, len(pool))
				}
			}
		}
	}
}
