package config

import "github.com/stemsi/timetable-backend/internal/model"

// DefaultCatalog returns the institution's scheduling configuration.
// Changing it is a deployment-time change; the running server treats it as read-only.
func DefaultCatalog() *model.Catalog {
	return &model.Catalog{
		Days: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		TimeSlots: []string{
			"08:30-10:00",
			"10:15-11:45",
			"14:00-15:30",
			"15:45-17:15",
		},
		Pools: []model.FacilityPool{
			{
				Type:  model.SessionTypeAmphitheater,
				Label: "Amphitheaters",
				Rooms: []model.Room{
					{Name: "Aboutajdine", Capacity: 400},
					{Name: "Zaoui", Capacity: 400},
					{Name: "Ibn Khaldoun", Capacity: 400},
				},
			},
			{
				Type:  model.SessionTypeTD,
				Label: "TD Rooms",
				Rooms: []model.Room{
					{Name: "Class 1", Capacity: 50},
					{Name: "Class 2", Capacity: 50},
					{Name: "Class 3", Capacity: 50},
					{Name: "Class 4", Capacity: 50},
					{Name: "Class 5", Capacity: 50},
				},
			},
			{
				Type:  model.SessionTypeTP,
				Label: "TP Labs",
				Rooms: []model.Room{
					{Name: "Lab 1", Capacity: 25},
					{Name: "Lab 2", Capacity: 25},
					{Name: "Lab 3", Capacity: 25},
				},
			},
		},
		Groups: []model.GroupDef{
			{ID: "A", SubGroups: []string{"A1", "A2", "A3", "A4"}},
			{ID: "B", SubGroups: []string{"B1", "B2", "B3", "B4"}},
			{ID: "C", SubGroups: []string{"C1", "C2", "C3", "C4"}},
			{ID: "D", SubGroups: []string{"D1", "D2", "D3", "D4"}},
		},
		Subjects: []string{"Calculus I", "Physics I", "Chemistry", "Programming", "Mathematics", "English"},
	}
}
