package services

import (
	"context"
	"fmt"
	"strings"

	"residora/internal/models"
	"residora/internal/repositories"

	"github.com/google/uuid"
)

// ResidentUpdate carries an admin's edits to a resident record.
type ResidentUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type ResidentService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, id uuid.UUID, update *ResidentUpdate) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type residentService struct {
	userRepo repositories.UserRepository
	roomSvc  RoomService
}

func NewResidentService(userRepo repositories.UserRepository, roomSvc RoomService) ResidentService {
	return &residentService{
		userRepo: userRepo,
		roomSvc:  roomSvc,
	}
}

func (s *residentService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleResident {
		return nil, fmt.Errorf("user %s is not a resident", id.String())
	}
	return user, nil
}

func (s *residentService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, models.RoleResident, limit, offset)
}

func (s *residentService) Update(ctx context.Context, id uuid.UUID, update *ResidentUpdate) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		user.Name = name
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, fmt.Errorf("email is invalid")
		}
		user.Email = email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate frees the resident's bed and disables the account. History
// (payments, requests) is kept for analytics.
func (s *residentService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.RoomID != nil {
		if err := s.roomSvc.UnassignResident(ctx, id); err != nil {
			return err
		}
	}
	return s.userRepo.Deactivate(ctx, id)
}
