package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/timetable-backend/internal/holiday"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/response"
	"github.com/stemsi/timetable-backend/internal/validator"
)

// CalendarHandler serves the holiday calendar.
type CalendarHandler struct {
	holidays *holiday.Overlay
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(holidays *holiday.Overlay) *CalendarHandler {
	return &CalendarHandler{holidays: holidays}
}

// ListHolidays godoc
// GET /api/v1/calendar/holidays?year=
// Lists the days on which nothing can be scheduled. Defaults to the current year.
func (h *CalendarHandler) ListHolidays(c *gin.Context) {
	var q model.HolidaysQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.Year == 0 {
		q.Year = time.Now().Year()
	}

	response.Success(c, http.StatusOK, gin.H{
		"year":     q.Year,
		"holidays": h.holidays.HolidaysFor(c.Request.Context(), q.Year).List(),
	})
}
