package holiday_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/holiday"
)

func TestNagerSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/PublicHolidays/2026/MA" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"date":"2026-01-01","localName":"رأس السنة","name":"New Year's Day"},
			{"date":"2026-05-01","localName":"عيد الشغل","name":""},
			{"date":"not-a-date","name":"Broken"}
		]`))
	}))
	defer srv.Close()

	src := holiday.NewNagerSource(srv.URL+"/", "MA", srv.Client())
	set, err := src.HolidaysFor(context.Background(), 2026)
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(set), set)
	}
	if set["2026-01-01"] != "New Year's Day" {
		t.Errorf("name = %q", set["2026-01-01"])
	}
	if set["2026-05-01"] != "عيد الشغل" {
		t.Errorf("local name fallback = %q", set["2026-05-01"])
	}

	if _, err := src.HolidaysFor(context.Background(), 1999); err == nil {
		t.Error("expected error on 404")
	}
}

func TestStaticSource(t *testing.T) {
	src, err := holiday.NewStaticSource([]string{"2026-12-24=Winter closure", "2027-01-02"})
	if err != nil {
		t.Fatal(err)
	}
	set, _ := src.HolidaysFor(context.Background(), 2026)
	if len(set) != 1 || set["2026-12-24"] != "Winter closure" {
		t.Errorf("2026 = %v", set)
	}
	set, _ = src.HolidaysFor(context.Background(), 2027)
	if set["2027-01-02"] != "Institution closure" {
		t.Errorf("2027 = %v", set)
	}

	if _, err := holiday.NewStaticSource([]string{"24/12/2026"}); err == nil {
		t.Error("expected parse error")
	}
}

type failingSource struct{}

func (failingSource) HolidaysFor(context.Context, int) (holiday.Set, error) {
	return nil, errors.New("upstream down")
}

func TestMultiSourceKeepsPartialResults(t *testing.T) {
	static, _ := holiday.NewStaticSource([]string{"2026-07-30=Throne Day"})
	set, err := holiday.MultiSource{failingSource{}, static}.HolidaysFor(context.Background(), 2026)
	if err == nil {
		t.Error("expected first error to surface")
	}
	if set["2026-07-30"] != "Throne Day" {
		t.Errorf("merged = %v", set)
	}
}

func TestOverlay(t *testing.T) {
	static, _ := holiday.NewStaticSource([]string{"2026-07-30=Throne Day"})
	ov := holiday.NewOverlay(holiday.MultiSource{failingSource{}, static}, zerolog.Nop())
	ctx := context.Background()

	holidayDate := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	rooms, isHoliday := ov.FilterRooms(ctx, holidayDate, []string{"Lab 1"})
	if !isHoliday || len(rooms) != 0 {
		t.Errorf("holiday: rooms=%v holiday=%v", rooms, isHoliday)
	}

	rooms, isHoliday = ov.FilterRooms(ctx, holidayDate.AddDate(0, 0, 1), []string{"Lab 1"})
	if isHoliday || len(rooms) != 1 {
		t.Errorf("regular day: rooms=%v holiday=%v", rooms, isHoliday)
	}

	down := holiday.NewOverlay(failingSource{}, zerolog.Nop())
	if set := down.HolidaysFor(ctx, 2026); set == nil || len(set) != 0 {
		t.Errorf("failing source should yield empty set, got %v", set)
	}

	var none *holiday.Overlay
	if _, ok := none.IsHoliday(ctx, holidayDate); ok {
		t.Error("nil overlay reported a holiday")
	}
}

func TestSetList(t *testing.T) {
	set := holiday.Set{"2026-11-18": "Independence Day", "2026-01-01": "New Year"}
	list := set.List()
	if len(list) != 2 || list[0].Date != "2026-01-01" {
		t.Errorf("List = %v", list)
	}
	if !set.Contains(time.Date(2026, 11, 18, 15, 0, 0, 0, time.UTC)) {
		t.Error("Contains missed a holiday")
	}
}
