package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/timetable-backend/internal/config"
	"github.com/stemsi/timetable-backend/internal/handler"
	"github.com/stemsi/timetable-backend/internal/middleware"
	"github.com/stemsi/timetable-backend/internal/response"
	"github.com/stemsi/timetable-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Schedule  *handler.ScheduleHandler
	Catalog   *handler.CatalogHandler
	Calendar  *handler.CalendarHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	loginLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Catalog (Public, Cacheable) ────────────────────────────────
	catalog := router.Group("/api/v1/catalog")
	catalog.Use(middleware.CacheControl(3600))
	{
		catalog.GET("/facilities", handlers.Catalog.GetFacilities)
		catalog.GET("/groups", handlers.Catalog.GetGroups)
		catalog.GET("/subjects", handlers.Catalog.GetSubjects)
		catalog.GET("/slots", handlers.Catalog.GetSlots)
	}

	// ─── 2. Calendar (Public) ──────────────────────────────────────────
	router.GET("/api/v1/calendar/holidays", middleware.CacheControl(600), handlers.Calendar.ListHolidays)

	// ─── 3. Auth (Public, Rate Limited) ────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/planner/login", loginLimiter.Middleware(), handlers.Auth.PlannerLogin)

		plannerAuth := auth.Group("/planner")
		plannerAuth.Use(
			middleware.RequirePlannerJWT(authService),
			middleware.CheckPlannerSession(authService),
		)
		plannerAuth.GET("/me", handlers.Auth.GetPlannerProfile)
		plannerAuth.POST("/logout", handlers.Auth.PlannerLogout)
	}

	// ─── 4. Schedule ───────────────────────────────────────────────────
	schedule := router.Group("/api/v1/schedule")
	schedule.Use(middleware.NoStore())
	RegisterScheduleRoutes(schedule, handlers.Schedule,
		middleware.RequirePlannerJWT(authService),
		middleware.CheckPlannerSession(authService),
	)

	// ─── 5. Planner Dashboard & System Metrics ─────────────────────────
	planner := router.Group("/api/v1")
	planner.Use(
		middleware.NoStore(),
		middleware.RequirePlannerJWT(authService),
		middleware.CheckPlannerSession(authService),
	)
	{
		planner.GET("/schedule/dashboard", handlers.Dashboard.GetDashboardData)
		planner.GET("/system/metrics", handlers.System.SystemMetricsSSE)
	}

	// ─── 6. WebSocket ──────────────────────────────────────────────────
	router.GET("/ws/v1/schedule/stream", handlers.WS.ScheduleStream)

	return router
}

// RegisterScheduleRoutes mounts the schedule endpoints on g. Reads are public;
// writes run behind planner.
func RegisterScheduleRoutes(g *gin.RouterGroup, h *handler.ScheduleHandler, planner ...gin.HandlerFunc) {
	g.GET("", h.GetSchedule)
	g.GET("/grid", h.GetGrid)
	g.GET("/occupancy", h.GetOccupancy)
	g.GET("/available-rooms", h.GetAvailableRooms)
	g.POST("/check", h.CheckSession)
	g.GET("/export", h.ExportSchedule)

	write := g.Group("")
	write.Use(planner...)
	{
		write.POST("/sessions", h.CreateSession)
		write.DELETE("/sessions/:id", h.DeleteSession)
		write.DELETE("", h.ClearSchedule)
		write.POST("/import", h.ImportSchedule)
		write.GET("/history", h.ListHistory)
		write.POST("/history/:id/restore", h.RestoreSnapshot)
	}
}
