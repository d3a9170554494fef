package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"residora/internal/models"
	"residora/internal/repositories"

	"github.com/google/uuid"
)

// RequestStatusUpdate carries an admin's changes to a maintenance request.
type RequestStatusUpdate struct {
	Status         *string  `json:"status,omitempty"`
	WorkflowStatus *string  `json:"workflow_status,omitempty"`
	Cost           *float64 `json:"cost,omitempty"`
	AdminNote      *string  `json:"admin_note,omitempty"`
}

type RequestService interface {
	Create(ctx context.Context, residentID uuid.UUID, message string) (*models.MaintenanceRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error)
	List(ctx context.Context, limit, offset int) ([]*models.MaintenanceRequest, error)
	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.MaintenanceRequest, error)
	ListHistory(ctx context.Context, limit, offset int) ([]*models.RequestHistory, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, performedBy uuid.UUID, update *RequestStatusUpdate) (*models.MaintenanceRequest, error)
	AttachPhoto(ctx context.Context, id uuid.UUID, objectKey string) error
	DeleteOwn(ctx context.Context, id, residentID uuid.UUID) error
}

type requestService struct {
	requestRepo repositories.MaintenanceRequestRepository
	historyRepo repositories.RequestHistoryRepository
}

func NewRequestService(requestRepo repositories.MaintenanceRequestRepository, historyRepo repositories.RequestHistoryRepository) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		historyRepo: historyRepo,
	}
}

// archive appends a permanent audit entry for the request. Archive failures
// are logged, not surfaced; the primary write already succeeded.
func (s *requestService) archive(ctx context.Context, request *models.MaintenanceRequest, action string, performedBy uuid.UUID) {
	entry := &models.RequestHistory{
		ID:          uuid.New(),
		RequestID:   request.ID,
		ResidentID:  request.ResidentID,
		Action:      action,
		PerformedBy: performedBy,
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to archive request %s (%s): %v", request.ID.String(), action, err)
	}
}

func (s *requestService) Create(ctx context.Context, residentID uuid.UUID, message string) (*models.MaintenanceRequest, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	request := &models.MaintenanceRequest{
		ID:             uuid.New(),
		ResidentID:     residentID,
		Message:        message,
		Status:         models.RequestStatusPending,
		WorkflowStatus: models.WorkflowReceived,
		Cost:           0,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	s.archive(ctx, request, models.HistoryActionCreated, residentID)
	return request, nil
}

func (s *requestService) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *requestService) List(ctx context.Context, limit, offset int) ([]*models.MaintenanceRequest, error) {
	return s.requestRepo.List(ctx, limit, offset)
}

func (s *requestService) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.MaintenanceRequest, error) {
	return s.requestRepo.ListByResident(ctx, residentID)
}

func (s *requestService) ListHistory(ctx context.Context, limit, offset int) ([]*models.RequestHistory, error) {
	return s.historyRepo.List(ctx, limit, offset)
}

func validRequestStatus(status string) bool {
	switch status {
	case models.RequestStatusPending, models.RequestStatusInProgress, models.RequestStatusResolved:
		return true
	}
	return false
}

func validWorkflowStatus(status string) bool {
	switch status {
	case models.WorkflowReceived, models.WorkflowInProgress, models.WorkflowOnHold, models.WorkflowDone:
		return true
	}
	return false
}

func (s *requestService) UpdateStatus(ctx context.Context, id uuid.UUID, performedBy uuid.UUID, update *RequestStatusUpdate) (*models.MaintenanceRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Status != nil {
		if !validRequestStatus(*update.Status) {
			return nil, fmt.Errorf("status must be one of: pending, in-progress, resolved")
		}
		request.Status = *update.Status
	}
	if update.WorkflowStatus != nil {
		if !validWorkflowStatus(*update.WorkflowStatus) {
			return nil, fmt.Errorf("workflow status must be one of: Received, In-Progress, On Hold, Done")
		}
		request.WorkflowStatus = *update.WorkflowStatus
	}
	if update.Cost != nil {
		if *update.Cost < 0 {
			return nil, fmt.Errorf("cost cannot be negative")
		}
		request.Cost = *update.Cost
	}
	if update.AdminNote != nil {
		request.AdminNote = update.AdminNote
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, err
	}
	s.archive(ctx, request, models.HistoryActionStatusChange(request.Status), performedBy)
	return request, nil
}

func (s *requestService) AttachPhoto(ctx context.Context, id uuid.UUID, objectKey string) error {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	request.PhotoObject = &objectKey
	return s.requestRepo.Update(ctx, request)
}

// DeleteOwn removes a resident's own request while it is still pending.
func (s *requestService) DeleteOwn(ctx context.Context, id, residentID uuid.UUID) error {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if request.ResidentID != residentID {
		return fmt.Errorf("request does not belong to caller")
	}
	if request.Status != models.RequestStatusPending {
		return fmt.Errorf("only pending requests can be withdrawn")
	}
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.archive(ctx, request, models.HistoryActionWithdrawn, residentID)
	return nil
}
