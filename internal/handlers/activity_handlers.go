package handlers

import (
	"net/http"
	"strconv"

	"residora/internal/common"
	"residora/internal/repositories"

	"github.com/labstack/echo/v4"
)

type ActivityHandlers struct {
	activityLogRepo repositories.ActivityLogRepository
}

func NewActivityHandlers(activityLogRepo repositories.ActivityLogRepository) *ActivityHandlers {
	return &ActivityHandlers{activityLogRepo: activityLogRepo}
}

// ListActivity returns the audit trail of authenticated requests, newest first.
func (h *ActivityHandlers) ListActivity(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	entries, err := h.activityLogRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list activity log")
	}
	return c.JSON(http.StatusOK, entries)
}
