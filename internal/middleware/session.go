package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/timetable-backend/internal/response"
)

// SessionChecker confirms that a token ID is still the planner's active one.
type SessionChecker interface {
	ValidatePlannerSession(ctx context.Context, plannerID int, jti string) error
}

// CheckPlannerSession rejects tokens whose JTI is no longer the active
// session in Redis (the planner logged out or signed in elsewhere).
func CheckPlannerSession(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if err := sessions.ValidatePlannerSession(c.Request.Context(), claims.PlannerID, claims.ID); err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Next()
	}
}
