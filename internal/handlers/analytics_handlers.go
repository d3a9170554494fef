package handlers

import (
	"net/http"
	"strconv"

	"residora/internal/analytics"
	"residora/internal/common"

	"github.com/labstack/echo/v4"
)

type AnalyticsHandlers struct {
	analyticsService *analytics.Service
}

func NewAnalyticsHandlers(analyticsService *analytics.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsService: analyticsService}
}

// PredictChurn scores every active resident and returns the ranked report.
func (h *AnalyticsHandlers) PredictChurn(c echo.Context) error {
	report, err := h.analyticsService.PredictChurn(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to compute churn report")
	}
	return c.JSON(http.StatusOK, report)
}

// ResidentChurn scores a single resident.
func (h *AnalyticsHandlers) ResidentChurn(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "resident ID")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	result, err := h.analyticsService.CalculateChurn(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "Resident")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AnalyticsHandlers) forecastMonths(c echo.Context) (int, error) {
	raw := c.QueryParam("months")
	if raw == "" {
		return 0, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < 1 || months > analytics.MaxForecastMonths {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "months must be between 1 and 12")
	}
	return months, nil
}

func (h *AnalyticsHandlers) ForecastOccupancy(c echo.Context) error {
	months, err := h.forecastMonths(c)
	if err != nil {
		return err
	}

	forecast, err := h.analyticsService.ForecastOccupancy(c.Request().Context(), months)
	if err != nil {
		return common.SendServerError(c, "Failed to compute occupancy forecast")
	}
	return c.JSON(http.StatusOK, forecast)
}

func (h *AnalyticsHandlers) ForecastMaintenanceCost(c echo.Context) error {
	months, err := h.forecastMonths(c)
	if err != nil {
		return err
	}

	forecast, err := h.analyticsService.ForecastMaintenanceCost(c.Request().Context(), months)
	if err != nil {
		return common.SendServerError(c, "Failed to compute maintenance forecast")
	}
	return c.JSON(http.StatusOK, forecast)
}

// GetKPIs returns the operational KPI snapshot, optionally restricted to a
// fromDate/toDate window for payment and maintenance figures.
func (h *AnalyticsHandlers) GetKPIs(c echo.Context) error {
	from, err := common.ParseDateParam(c.QueryParam("fromDate"), "fromDate")
	if err != nil {
		return common.SendValidationError(c, "fromDate", err.Error())
	}
	to, err := common.ParseDateParam(c.QueryParam("toDate"), "toDate")
	if err != nil {
		return common.SendValidationError(c, "toDate", err.Error())
	}
	if from != nil && to != nil && to.Before(*from) {
		return common.SendValidationError(c, "toDate", "toDate must not be before fromDate")
	}

	report, err := h.analyticsService.ComputeKPIs(c.Request().Context(), from, to)
	if err != nil {
		return common.SendServerError(c, "Failed to compute KPIs")
	}
	return c.JSON(http.StatusOK, report)
}

// RevenueInsights returns prioritized revenue recommendations.
func (h *AnalyticsHandlers) RevenueInsights(c echo.Context) error {
	report, err := h.analyticsService.OptimizeRevenue(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to compute revenue insights")
	}
	return c.JSON(http.StatusOK, report)
}
