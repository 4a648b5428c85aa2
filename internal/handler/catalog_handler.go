package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/response"
)

// CatalogHandler serves the static facility, group, subject and slot lists.
type CatalogHandler struct {
	cat *model.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat *model.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

type facilityOverview struct {
	model.FacilityPool
	Count         int `json:"count"`
	TotalCapacity int `json:"total_capacity"`
}

// GetFacilities godoc
// GET /api/v1/catalog/facilities
func (h *CatalogHandler) GetFacilities(c *gin.Context) {
	out := make([]facilityOverview, 0, len(h.cat.Pools))
	for _, p := range h.cat.Pools {
		total := 0
		for _, r := range p.Rooms {
			total += r.Capacity
		}
		out = append(out, facilityOverview{FacilityPool: p, Count: len(p.Rooms), TotalCapacity: total})
	}
	response.Success(c, http.StatusOK, gin.H{"facilities": out})
}

// GetGroups godoc
// GET /api/v1/catalog/groups
// Amphitheater sessions take a whole group; TD and TP take a sub-group.
func (h *CatalogHandler) GetGroups(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"groups": h.cat.Groups,
		"assignment": gin.H{
			string(model.SessionTypeAmphitheater): "group",
			string(model.SessionTypeTD):           "sub_group",
			string(model.SessionTypeTP):           "sub_group",
		},
	})
}

// GetSubjects godoc
// GET /api/v1/catalog/subjects
func (h *CatalogHandler) GetSubjects(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"subjects": h.cat.Subjects})
}

// GetSlots godoc
// GET /api/v1/catalog/slots
func (h *CatalogHandler) GetSlots(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"days":       h.cat.Days,
		"time_slots": h.cat.TimeSlots,
	})
}
