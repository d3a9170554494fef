package middleware

import (
	"log"

	"residora/internal/common"
	"residora/internal/models"
	"residora/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuditMiddleware records mutating requests to the activity log.
type AuditMiddleware struct {
	activityLogRepo repositories.ActivityLogRepository
}

func NewAuditMiddleware(activityLogRepo repositories.ActivityLogRepository) *AuditMiddleware {
	return &AuditMiddleware{activityLogRepo: activityLogRepo}
}

// AuditRequest logs who changed what. Read-only methods pass through
// untouched; audit write failures never fail the request itself.
func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			if method == "GET" || method == "HEAD" || method == "OPTIONS" {
				return err
			}

			ctx := c.Request().Context()
			userID, ok := common.GetUserIDFromContext(ctx)
			if !ok {
				return err
			}
			role, _ := common.GetRoleFromContext(ctx)

			ip := c.RealIP()
			route := c.Path()
			entry := &models.ActivityLog{
				ID:          uuid.New(),
				Action:      method + " " + route,
				PerformedBy: userID,
				Role:        role,
				IPAddress:   &ip,
				Route:       &route,
			}

			if logErr := m.activityLogRepo.Create(ctx, entry); logErr != nil {
				log.Printf("Failed to write activity log for %s: %v", entry.Action, logErr)
			}

			return err
		}
	}
}
