package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/timetable-backend/internal/middleware"
	"github.com/stemsi/timetable-backend/internal/model"
	"github.com/stemsi/timetable-backend/internal/response"
	"github.com/stemsi/timetable-backend/internal/service"
	"github.com/stemsi/timetable-backend/internal/validator"
)

// AuthHandler handles planner authentication endpoints.
type AuthHandler struct {
	authService    *service.AuthService
	plannerService *service.PlannerService
	log            zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, plannerService *service.PlannerService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		plannerService: plannerService,
		log:            log.With().Str("component", "auth_handler").Logger(),
	}
}

// PlannerLogin godoc
// POST /api/v1/auth/planner/login
// Validates email + password and returns a JWT. A new login ends any
// previous session of the same planner.
func (h *AuthHandler) PlannerLogin(c *gin.Context) {
	var req model.PlannerLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	planner, err := h.plannerService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GeneratePlannerToken(c.Request.Context(), planner.ID, planner.Email)
	if err != nil {
		h.log.Error().Err(err).Int("planner_id", planner.ID).Msg("Issue token failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.log.Info().Int("planner_id", planner.ID).Msg("Planner signed in")
	response.Success(c, http.StatusOK, model.PlannerLoginResponse{Token: token, Planner: *planner})
}

// GetPlannerProfile godoc
// GET /api/v1/auth/planner/me
func (h *AuthHandler) GetPlannerProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	planner, err := h.plannerService.GetByID(c.Request.Context(), claims.PlannerID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"planner": planner})
}

// PlannerLogout godoc
// POST /api/v1/auth/planner/logout
func (h *AuthHandler) PlannerLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetPlannerSession(c.Request.Context(), claims.PlannerID); err != nil {
		h.log.Error().Err(err).Int("planner_id", claims.PlannerID).Msg("Reset session failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
