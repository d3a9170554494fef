package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"residora/internal/analytics"
	"residora/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByNumber(ctx context.Context, roomNumber string) (*models.Room, error) {
	args := m.Called(ctx, roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) Update(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoomRepository) List(ctx context.Context, limit, offset int) ([]*models.Room, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockRoomRepository) ListAll(ctx context.Context) ([]*models.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockRoomRepository) AdjustOccupancy(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

var handlerNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type AnalyticsHandlersTestSuite struct {
	suite.Suite
	mockRoomRepo *MockRoomRepository
	handlers     *AnalyticsHandlers
}

func (suite *AnalyticsHandlersTestSuite) SetupTest() {
	suite.mockRoomRepo = &MockRoomRepository{}
	service := analytics.NewServiceWithClock(nil, suite.mockRoomRepo, nil, nil, func() time.Time {
		return handlerNow
	})
	suite.handlers = NewAnalyticsHandlers(service)
}

func (suite *AnalyticsHandlersTestSuite) TearDownTest() {
	suite.mockRoomRepo.AssertExpectations(suite.T())
}

func TestAnalyticsHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsHandlersTestSuite))
}

func (suite *AnalyticsHandlersTestSuite) forecastContext(query string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/analytics/forecast/occupancy"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func (suite *AnalyticsHandlersTestSuite) TestForecastOccupancy_RejectsMonthsAboveCap() {
	c, _ := suite.forecastContext("?months=13")

	err := suite.handlers.ForecastOccupancy(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
	assert.Equal(suite.T(), "months must be between 1 and 12", httpErr.Message)
	suite.mockRoomRepo.AssertNotCalled(suite.T(), "ListAll", mock.Anything)
}

func (suite *AnalyticsHandlersTestSuite) TestForecastOccupancy_RejectsZeroAndGarbageMonths() {
	for _, months := range []string{"0", "-2", "six"} {
		c, _ := suite.forecastContext("?months=" + months)

		err := suite.handlers.ForecastOccupancy(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(suite.T(), ok, "months=%s should be rejected", months)
		assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
	}
	suite.mockRoomRepo.AssertNotCalled(suite.T(), "ListAll", mock.Anything)
}

func (suite *AnalyticsHandlersTestSuite) TestForecastOccupancy_EmptyMonthsUsesDefaultHorizon() {
	rooms := []*models.Room{{ID: uuid.New(), TotalBeds: 10, OccupiedBeds: 6}}
	suite.mockRoomRepo.On("ListAll", mock.Anything).Return(rooms, nil).Once()

	c, rec := suite.forecastContext("")

	err := suite.handlers.ForecastOccupancy(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var forecast analytics.OccupancyForecast
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &forecast))
	assert.Len(suite.T(), forecast.Forecast, 6)
}

func (suite *AnalyticsHandlersTestSuite) TestForecastOccupancy_HonorsMonthsWithinCap() {
	rooms := []*models.Room{{ID: uuid.New(), TotalBeds: 10, OccupiedBeds: 6}}
	suite.mockRoomRepo.On("ListAll", mock.Anything).Return(rooms, nil).Once()

	c, rec := suite.forecastContext("?months=3")

	err := suite.handlers.ForecastOccupancy(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	var forecast analytics.OccupancyForecast
	assert.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &forecast))
	assert.Len(suite.T(), forecast.Forecast, 3)
}

func (suite *AnalyticsHandlersTestSuite) TestGetKPIs_RejectsMalformedDate() {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/analytics/kpis?fromDate=June-2025", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := suite.handlers.GetKPIs(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *AnalyticsHandlersTestSuite) TestGetKPIs_RejectsInvertedWindow() {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/analytics/kpis?fromDate=2025-06-01&toDate=2025-05-01", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := suite.handlers.GetKPIs(c)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}
