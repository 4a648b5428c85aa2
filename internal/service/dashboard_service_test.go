package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/repository"
	"github.com/stemsi/timetable-backend/internal/service"
)

type fakeArchiveStats struct {
	err error
}

func (f fakeArchiveStats) GetArchiveSummary(context.Context) (*repository.ArchiveSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	last := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	return &repository.ArchiveSummary{TotalSnapshots: 3, LastTakenAt: &last, PeakSessions: 2}, nil
}

func (f fakeArchiveStats) GetDailyActivity(context.Context, int) ([]repository.DailyActivity, error) {
	return []repository.DailyActivity{{Day: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), Snapshots: 3}}, nil
}

func TestDashboardCountsCurrentSchedule(t *testing.T) {
	svc, _, _ := newService(t, nil)
	ctx := context.Background()

	if _, err := svc.AddSession(ctx, model.SessionTypeAmphitheater, withRoom(mondayFirst, "Zaoui", "A", "")); err != nil {
		t.Fatal(err)
	}
	tuesday := mondayFirst
	tuesday.Day = "Tuesday"
	if _, err := svc.AddSession(ctx, model.SessionTypeTP, withRoom(tuesday, "Lab 2", "", "A3")); err != nil {
		t.Fatal(err)
	}

	data, err := service.NewDashboardService(svc, nil).GetDashboardData(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if data.TotalSessions != 2 {
		t.Errorf("TotalSessions = %d, want 2", data.TotalSessions)
	}
	if data.SessionsByType[model.SessionTypeAmphitheater] != 1 || data.SessionsByType[model.SessionTypeTD] != 0 {
		t.Errorf("SessionsByType = %v", data.SessionsByType)
	}
	if data.SessionsByDay["Monday"] != 1 || data.SessionsByDay["Saturday"] != 0 {
		t.Errorf("SessionsByDay = %v", data.SessionsByDay)
	}
	if data.GroupLoad["A"] != 2 || data.GroupLoad["B"] != 0 {
		t.Errorf("GroupLoad = %v", data.GroupLoad)
	}
	if len(data.RoomUsage) != 11 {
		t.Fatalf("RoomUsage has %d rooms, want 11", len(data.RoomUsage))
	}
	for _, u := range data.RoomUsage {
		if u.Room != "Zaoui" {
			continue
		}
		// 1 of 24 weekly slots.
		if u.Booked != 1 || u.Slots != 24 || u.Percent != 4.2 {
			t.Errorf("Zaoui usage = %+v", u)
		}
	}
	if data.Archive != nil {
		t.Error("archive summary set without an archive")
	}
}

func TestDashboardIncludesArchive(t *testing.T) {
	svc, _, _ := newService(t, nil)

	data, err := service.NewDashboardService(svc, fakeArchiveStats{}).GetDashboardData(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if data.Archive == nil || data.Archive.TotalSnapshots != 3 {
		t.Errorf("Archive = %+v", data.Archive)
	}
	if len(data.Activity) != 1 {
		t.Errorf("Activity = %v", data.Activity)
	}

	boom := errors.New("db down")
	if _, err := service.NewDashboardService(svc, fakeArchiveStats{err: boom}).GetDashboardData(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
