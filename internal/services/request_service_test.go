package services

import (
	"context"
	"errors"
	"testing"

	"residora/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

type RequestServiceTestSuite struct {
	suite.Suite
	mockRequestRepo *MockRequestRepository
	mockHistoryRepo *MockRequestHistoryRepository
	service         RequestService
	residentID      uuid.UUID
	adminID         uuid.UUID
}

func (suite *RequestServiceTestSuite) SetupTest() {
	suite.mockRequestRepo = &MockRequestRepository{}
	suite.mockHistoryRepo = &MockRequestHistoryRepository{}
	suite.service = NewRequestService(suite.mockRequestRepo, suite.mockHistoryRepo)
	suite.residentID = uuid.New()
	suite.adminID = uuid.New()
}

func (suite *RequestServiceTestSuite) TearDownTest() {
	suite.mockRequestRepo.AssertExpectations(suite.T())
	suite.mockHistoryRepo.AssertExpectations(suite.T())
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}

func (suite *RequestServiceTestSuite) TestCreate_StartsPendingAndReceived() {
	suite.mockRequestRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.MaintenanceRequest")).
		Return(nil).Once()
	suite.mockHistoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *models.RequestHistory) bool {
		return e.Action == models.HistoryActionCreated && e.PerformedBy == suite.residentID
	})).Return(nil).Once()

	request, err := suite.service.Create(context.Background(), suite.residentID, "  Leaking tap  ")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Leaking tap", request.Message)
	assert.Equal(suite.T(), models.RequestStatusPending, request.Status)
	assert.Equal(suite.T(), models.WorkflowReceived, request.WorkflowStatus)
	assert.Equal(suite.T(), 0.0, request.Cost)
}

func (suite *RequestServiceTestSuite) TestCreate_RejectsBlankMessage() {
	request, err := suite.service.Create(context.Background(), suite.residentID, "   ")

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), request)
	suite.mockHistoryRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *RequestServiceTestSuite) TestCreate_ArchiveFailureDoesNotSurface() {
	suite.mockRequestRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.MaintenanceRequest")).
		Return(nil).Once()
	suite.mockHistoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.RequestHistory")).
		Return(errors.New("archive down")).Once()

	request, err := suite.service.Create(context.Background(), suite.residentID, "Broken window")

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), request)
}

func (suite *RequestServiceTestSuite) TestUpdateStatus_AppliesAllFields() {
	id := uuid.New()
	existing := &models.MaintenanceRequest{
		ID:             id,
		ResidentID:     suite.residentID,
		Status:         models.RequestStatusPending,
		WorkflowStatus: models.WorkflowReceived,
	}

	suite.mockRequestRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockRequestRepo.On("Update", mock.Anything, existing).Return(nil).Once()
	suite.mockHistoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *models.RequestHistory) bool {
		return e.RequestID == id &&
			e.Action == "status_changed_to_resolved" &&
			e.PerformedBy == suite.adminID
	})).Return(nil).Once()

	update := &RequestStatusUpdate{
		Status:         strPtr(models.RequestStatusResolved),
		WorkflowStatus: strPtr(models.WorkflowDone),
		Cost:           floatPtr(250),
		AdminNote:      strPtr("Replaced washer"),
	}

	request, err := suite.service.UpdateStatus(context.Background(), id, suite.adminID, update)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RequestStatusResolved, request.Status)
	assert.Equal(suite.T(), models.WorkflowDone, request.WorkflowStatus)
	assert.Equal(suite.T(), 250.0, request.Cost)
	assert.Equal(suite.T(), "Replaced washer", *request.AdminNote)
}

func (suite *RequestServiceTestSuite) TestUpdateStatus_RejectsUnknownStatus() {
	id := uuid.New()
	existing := &models.MaintenanceRequest{ID: id, Status: models.RequestStatusPending}

	suite.mockRequestRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()

	_, err := suite.service.UpdateStatus(context.Background(), id, suite.adminID, &RequestStatusUpdate{
		Status: strPtr("closed"),
	})

	assert.Error(suite.T(), err)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "Update")
	suite.mockHistoryRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *RequestServiceTestSuite) TestUpdateStatus_RejectsNegativeCost() {
	id := uuid.New()
	existing := &models.MaintenanceRequest{ID: id, Status: models.RequestStatusPending}

	suite.mockRequestRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()

	_, err := suite.service.UpdateStatus(context.Background(), id, suite.adminID, &RequestStatusUpdate{
		Cost: floatPtr(-50),
	})

	assert.Error(suite.T(), err)
}

func (suite *RequestServiceTestSuite) TestListHistory_ReturnsArchive() {
	entries := []*models.RequestHistory{
		{ID: uuid.New(), Action: models.HistoryActionCreated},
		{ID: uuid.New(), Action: "status_changed_to_resolved"},
	}

	suite.mockHistoryRepo.On("List", mock.Anything, 50, 0).Return(entries, nil).Once()

	history, err := suite.service.ListHistory(context.Background(), 50, 0)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), history, 2)
}

func (suite *RequestServiceTestSuite) TestDeleteOwn_OnlyOwnerCanDelete() {
	id := uuid.New()
	existing := &models.MaintenanceRequest{
		ID:         id,
		ResidentID: uuid.New(), // someone else's request
		Status:     models.RequestStatusPending,
	}

	suite.mockRequestRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()

	err := suite.service.DeleteOwn(context.Background(), id, suite.residentID)

	assert.Error(suite.T(), err)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "Delete")
}

func (suite *RequestServiceTestSuite) TestDeleteOwn_OnlyWhilePending() {
	id := uuid.New()
	existing := &models.MaintenanceRequest{
		ID:         id,
		ResidentID: suite.residentID,
		Status:     models.RequestStatusInProgress,
	}

	suite.mockRequestRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()

	err := suite.service.DeleteOwn(context.Background(), id, suite.residentID)

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "pending")
	suite.mockHistoryRepo.AssertNotCalled(suite.T(), "Create")
}

func (suite *RequestServiceTestSuite) TestDeleteOwn_ArchivesWithdrawal() {
	id := uuid.New()
	existing := &models.MaintenanceRequest{
		ID:         id,
		ResidentID: suite.residentID,
		Status:     models.RequestStatusPending,
	}

	suite.mockRequestRepo.On("GetByID", mock.Anything, id).Return(existing, nil).Once()
	suite.mockRequestRepo.On("Delete", mock.Anything, id).Return(nil).Once()
	suite.mockHistoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *models.RequestHistory) bool {
		return e.RequestID == id &&
			e.ResidentID == suite.residentID &&
			e.Action == models.HistoryActionWithdrawn
	})).Return(nil).Once()

	err := suite.service.DeleteOwn(context.Background(), id, suite.residentID)

	assert.NoError(suite.T(), err)
}
