package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/handler"
)

func newCatalogEngine() *gin.Engine {
	h := handler.NewCatalogHandler(config.DefaultCatalog())
	r := gin.New()
	g := r.Group("/api/v1/catalog")
	g.GET("/facilities", h.GetFacilities)
	g.GET("/groups", h.GetGroups)
	g.GET("/slots", h.GetSlots)
	return r
}

func TestCatalogFacilities(t *testing.T) {
	w, env := do(t, newCatalogEngine(), http.MethodGet, "/api/v1/catalog/facilities", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var data struct {
		Facilities []struct {
			Type  string `json:"type"`
			Rooms []struct {
				Name     string `json:"name"`
				Capacity int    `json:"capacity"`
			} `json:"rooms"`
			Count         int `json:"count"`
			TotalCapacity int `json:"total_capacity"`
		} `json:"facilities"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}

	want := map[string][2]int{
		"amphitheater": {3, 1200},
		"td":           {5, 250},
		"tp":           {3, 75},
	}
	roomCapacity := map[string]int{"amphitheater": 400, "td": 50, "tp": 25}
	if len(data.Facilities) != len(want) {
		t.Fatalf("got %d pools", len(data.Facilities))
	}
	for _, f := range data.Facilities {
		if got := [2]int{f.Count, f.TotalCapacity}; got != want[f.Type] {
			t.Errorf("%s: count/capacity = %v, want %v", f.Type, got, want[f.Type])
		}
		for _, r := range f.Rooms {
			if r.Capacity != roomCapacity[f.Type] {
				t.Errorf("%s room %q capacity = %d, want %d", f.Type, r.Name, r.Capacity, roomCapacity[f.Type])
			}
		}
	}
}

func TestCatalogGroupsAssignment(t *testing.T) {
	w, env := do(t, newCatalogEngine(), http.MethodGet, "/api/v1/catalog/groups", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var data struct {
		Groups []struct {
			ID        string   `json:"id"`
			SubGroups []string `json:"sub_groups"`
		} `json:"groups"`
		Assignment map[string]string `json:"assignment"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Groups) != 4 || len(data.Groups[0].SubGroups) != 4 {
		t.Errorf("groups = %+v", data.Groups)
	}
	if data.Assignment["amphitheater"] != "group" || data.Assignment["tp"] != "sub_group" {
		t.Errorf("assignment = %v", data.Assignment)
	}
}

func TestCatalogSlots(t *testing.T) {
	_, env := do(t, newCatalogEngine(), http.MethodGet, "/api/v1/catalog/slots", "")

	var data struct {
		Days      []string `json:"days"`
		TimeSlots []string `json:"time_slots"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Days) != 6 || data.Days[0] != "Monday" || len(data.TimeSlots) != 4 {
		t.Errorf("slots = %+v", data)
	}
}
