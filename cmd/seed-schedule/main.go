package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/database"
	"github.com/stemsi/timetable-backend/internal/logger"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/repository"
	"github.com/stemsi/timetable-backend/internal/service"
	"github.com/stemsi/timetable-backend/internal/timetable"
)

// plannedSession is one entry of the demo week.
type plannedSession struct {
	typ model.SessionType
	in  model.SessionInput
}

func main() {
	reset := flag.Bool("clear", false, "Clear the stored schedule before seeding")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	cat := config.DefaultCatalog()
	store := repository.NewScheduleStore(rdb, nil, cat, log)
	scheduleService := service.NewScheduleService(cat, store, service.NewRedisEventPublisher(rdb), nil, log, cfg.PersistTimeout)
	scheduleService.Restore(ctx)

	if *reset {
		scheduleService.Clear(ctx)
		fmt.Println("Cleared existing schedule")
	}

	fmt.Println("=== Seeding Demo Week ===")

	added, conflicts := 0, 0
	for _, p := range demoWeek(cat) {
		_, err := scheduleService.AddSession(ctx, p.typ, p.in)
		var ce *timetable.ConflictError
		switch {
		case err == nil:
			added++
		case errors.As(err, &ce):
			conflicts++
			fmt.Printf("  skip %-12s %-9s %s %-8s: %s\n", p.typ.Label(), p.in.Day, p.in.Time, p.in.Room, ce.Kind)
		default:
			log.Fatal().Err(err).Str("room", p.in.Room).Msg("Invalid demo session")
		}
	}

	fmt.Printf("\nDone. Added %d sessions, skipped %d conflicts, schedule now holds %d sessions.\n",
		added, conflicts, scheduleService.Current().Len())
}

// demoWeek rotates subjects, rooms and groups across the week so every
// pool and every group appears. Entries that collide with sessions already
// stored are skipped by the conflict gate.
func demoWeek(cat *model.Catalog) []plannedSession {
	amphis := cat.RoomNames(model.SessionTypeAmphitheater)
	classes := cat.RoomNames(model.SessionTypeTD)
	labs := cat.RoomNames(model.SessionTypeTP)

	var plan []plannedSession
	for d, day := range cat.Days {
		for s, slot := range cat.TimeSlots {
			base := d + s
			lecture := cat.Groups[base%len(cat.Groups)]
			plan = append(plan, plannedSession{
				typ: model.SessionTypeAmphitheater,
				in: model.SessionInput{
					Subject: cat.Subjects[base%len(cat.Subjects)],
					Day:     day, Time: slot,
					Room:  amphis[base%len(amphis)],
					Group: lecture.ID,
				},
			})

			// Tutorials and labs go to the sub-groups of the next group.
			other := cat.Groups[(base+1)%len(cat.Groups)]
			for i, sg := range other.SubGroups {
				typ, rooms := model.SessionTypeTD, classes
				if i%2 == 1 {
					typ, rooms = model.SessionTypeTP, labs
				}
				plan = append(plan, plannedSession{
					typ: typ,
					in: model.SessionInput{
						Subject:  cat.Subjects[(base+i+1)%len(cat.Subjects)],
						Day:      day,
						Time:     slot,
						Room:     rooms[i/2%len(rooms)],
						SubGroup: sg,
					},
				})
			}
		}
	}
	return plan
}
