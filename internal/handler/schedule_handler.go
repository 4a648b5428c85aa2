package handler

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/export"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/response"
	"github.com/stemsi/timetable-backend/internal/service"
	"github.com/stemsi/timetable-backend/internal/timetable"
	"github.com/stemsi/timetable-backend/internal/validator"
)

// maxImportSize bounds uploaded schedule documents.
const maxImportSize = 5 << 20

// ScheduleHandler serves schedule queries and planner mutations.
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
	historyService  *service.HistoryService
	log             zerolog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler. historyService may be nil
// when no archive is configured.
func NewScheduleHandler(scheduleService *service.ScheduleService, historyService *service.HistoryService, log zerolog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		historyService:  historyService,
		log:             log.With().Str("component", "schedule_handler").Logger(),
	}
}

// ─── Queries ────────────────────────────────────────────────────────

// GetSchedule godoc
// GET /api/v1/schedule
// Returns the three session collections.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	sched := h.scheduleService.Current()
	response.Success(c, http.StatusOK, gin.H{
		"schedule": sched.Collections(),
		"count":    sched.Len(),
	})
}

// GetGrid godoc
// GET /api/v1/schedule/grid?show_empty=
// Returns the weekly calendar grid, one row per time slot.
func (h *ScheduleHandler) GetGrid(c *gin.Context) {
	var q model.GridQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"days": h.scheduleService.Catalog().Days,
		"rows": h.scheduleService.Grid(q.ShowEmpty),
	})
}

// GetOccupancy godoc
// GET /api/v1/schedule/occupancy?day=&time=&date=
// Lists the rooms and groups taken at one slot.
func (h *ScheduleHandler) GetOccupancy(c *gin.Context) {
	var q model.SlotQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	occ, err := h.scheduleService.Occupancy(c.Request.Context(), q.Day, q.Time, q.ParsedDate())
	if err != nil {
		h.failSchedule(c, err)
		return
	}

	response.Success(c, http.StatusOK, occ)
}

// GetAvailableRooms godoc
// GET /api/v1/schedule/available-rooms?day=&time=&type=&date=
// Lists the free rooms of the pool matching the session type.
func (h *ScheduleHandler) GetAvailableRooms(c *gin.Context) {
	var q model.AvailableRoomsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, _ := model.ParseSessionType(q.Type)
	avail, err := h.scheduleService.AvailableRooms(c.Request.Context(), t, q.Day, q.Time, q.ParsedDate())
	if err != nil {
		h.failSchedule(c, err)
		return
	}

	response.Success(c, http.StatusOK, avail)
}

// CheckSession godoc
// POST /api/v1/schedule/check
// Advisory conflict check. Nothing is stored.
func (h *ScheduleHandler) CheckSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, _ := model.ParseSessionType(req.Type)
	res, err := h.scheduleService.Check(t, req.Input())
	if err != nil {
		h.failSchedule(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":   res.Kind.String(),
		"ok":       res.Ok(),
		"existing": res.Existing,
	})
}

// ExportSchedule godoc
// GET /api/v1/schedule/export
// Downloads the schedule as a JSON document.
func (h *ScheduleHandler) ExportSchedule(c *gin.Context) {
	now := time.Now().UTC()
	data, err := h.scheduleService.Export(now)
	if err != nil {
		h.log.Error().Err(err).Msg("Export schedule failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(now)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ─── Mutations (planner only) ───────────────────────────────────────

// CreateSession godoc
// POST /api/v1/schedule/sessions
// Places a session after the authoritative conflict check.
func (h *ScheduleHandler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	t, _ := model.ParseSessionType(req.Type)
	view, err := h.scheduleService.AddSession(c.Request.Context(), t, req.Input())
	if err != nil {
		h.failSchedule(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": view})
}

// DeleteSession godoc
// DELETE /api/v1/schedule/sessions/:id
// Removes a session. Deleting an unknown ID succeeds with removed=false.
func (h *ScheduleHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" || len(id) > 64 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	removed := h.scheduleService.RemoveSession(c.Request.Context(), id)
	response.Success(c, http.StatusOK, gin.H{"id": id, "removed": removed})
}

// ClearSchedule godoc
// DELETE /api/v1/schedule
// Removes every session.
func (h *ScheduleHandler) ClearSchedule(c *gin.Context) {
	h.scheduleService.Clear(c.Request.Context())
	response.Success(c, http.StatusOK, gin.H{"count": 0})
}

// ImportSchedule godoc
// POST /api/v1/schedule/import
// Replaces the schedule with an uploaded export document. Accepts either a
// raw JSON body or a multipart "file" field.
func (h *ScheduleHandler) ImportSchedule(c *gin.Context) {
	data, err := readImport(c)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, map[string]string{"detail": err.Error()})
		return
	}

	doc, err := h.scheduleService.Import(c.Request.Context(), data)
	if err != nil {
		h.failImport(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"count":     doc.SessionCount(),
		"version":   doc.Version,
		"timestamp": doc.Timestamp,
	})
}

// ListHistory godoc
// GET /api/v1/schedule/history?page=&per_page=
// Lists archived snapshots, newest first.
func (h *ScheduleHandler) ListHistory(c *gin.Context) {
	if h.historyService == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	var q model.PageQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = 20
	}

	snapshots, total, err := h.historyService.List(c.Request.Context(), q.Page, q.PerPage)
	if err != nil {
		h.log.Error().Err(err).Msg("List history failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"snapshots": snapshots}, &response.Pagination{
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PerPage))),
	})
}

// RestoreSnapshot godoc
// POST /api/v1/schedule/history/:id/restore
// Replaces the schedule with an archived snapshot.
func (h *ScheduleHandler) RestoreSnapshot(c *gin.Context) {
	if h.historyService == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	snap, err := h.historyService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Int64("snapshot_id", id).Msg("Get snapshot failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	doc, err := h.scheduleService.Import(c.Request.Context(), snap.Document)
	if err != nil {
		h.failImport(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"snapshot_id": snap.ID, "count": doc.SessionCount()})
}

// ─── Internal helpers ───────────────────────────────────────────────

// failSchedule maps schedule domain errors to responses.
func (h *ScheduleHandler) failSchedule(c *gin.Context, err error) {
	var (
		invalid  *model.InvalidSessionError
		conflict *timetable.ConflictError
	)
	switch {
	case errors.As(err, &invalid):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidSession, map[string]string{invalid.Field: invalid.Reason})
	case errors.As(err, &conflict):
		code := response.ErrRoomConflict
		if conflict.Kind == timetable.ConflictGroup {
			code = response.ErrGroupConflict
		}
		response.FailWithDetails(c, http.StatusConflict, code, gin.H{"existing": conflict.Existing})
	case errors.Is(err, timetable.ErrDuplicateSession):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateID)
	case errors.Is(err, service.ErrUnknownSlot):
		response.Fail(c, http.StatusBadRequest, response.ErrUnknownSlot)
	case errors.Is(err, service.ErrDateDayMismatch):
		response.Fail(c, http.StatusBadRequest, response.ErrDateDayMismatch)
	default:
		h.log.Error().Err(err).Msg("Schedule operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func (h *ScheduleHandler) failImport(c *gin.Context, err error) {
	h.log.Warn().Err(err).Msg("Import rejected")
	response.FailWithDetails(c, http.StatusUnprocessableEntity, response.ErrImportRejected, gin.H{"reason": err.Error()})
}

func readImport(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	if c.ContentType() == "multipart/form-data" {
		file, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty body")
	}
	return data, nil
}
