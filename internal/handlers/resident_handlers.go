package handlers

import (
	"net/http"
	"strconv"

	"residora/internal/common"
	"residora/internal/services"

	"github.com/labstack/echo/v4"
)

type ResidentHandlers struct {
	residentService services.ResidentService
}

func NewResidentHandlers(residentService services.ResidentService) *ResidentHandlers {
	return &ResidentHandlers{residentService: residentService}
}

func (h *ResidentHandlers) GetResident(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "resident ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	resident, err := h.residentService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Resident")
	}
	return c.JSON(http.StatusOK, resident)
}

func (h *ResidentHandlers) ListResidents(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	residents, err := h.residentService.List(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list residents")
	}
	return c.JSON(http.StatusOK, residents)
}

func (h *ResidentHandlers) UpdateResident(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "resident ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var update services.ResidentUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	resident, err := h.residentService.Update(c.Request().Context(), id, &update)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, resident)
}

// DeactivateResident frees the resident's bed and disables their account.
// The record is kept so payment and request history stays reportable.
func (h *ResidentHandlers) DeactivateResident(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "resident ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.residentService.Deactivate(c.Request().Context(), id); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Resident deactivated successfully"})
}
