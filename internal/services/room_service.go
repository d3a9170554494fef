package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"residora/internal/caching"
	"residora/internal/models"
	"residora/internal/repositories"

	"github.com/google/uuid"
)

const roomCacheTTL = 5 * time.Minute

type RoomService interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Room, error)
	AssignResident(ctx context.Context, roomID, residentID uuid.UUID) error
	UnassignResident(ctx context.Context, residentID uuid.UUID) error
}

type roomService struct {
	roomRepo     repositories.RoomRepository
	userRepo     repositories.UserRepository
	cacheService caching.CacheService
}

func NewRoomService(roomRepo repositories.RoomRepository, userRepo repositories.UserRepository, cacheService caching.CacheService) RoomService {
	return &roomService{
		roomRepo:     roomRepo,
		userRepo:     userRepo,
		cacheService: cacheService,
	}
}

func (s *roomService) Create(ctx context.Context, room *models.Room) error {
	if room.TotalBeds < 1 {
		return fmt.Errorf("room must have at least one bed")
	}
	if room.Rent <= 0 {
		return fmt.Errorf("rent must be positive")
	}
	if room.OccupiedBeds < 0 || room.OccupiedBeds > room.TotalBeds {
		return fmt.Errorf("occupied beds must be between 0 and total beds")
	}
	room.ID = uuid.New()
	return s.roomRepo.Create(ctx, room)
}

func (s *roomService) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	if cached, err := s.cacheService.GetRoom(ctx, id); err == nil {
		return cached, nil
	}

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetRoom(ctx, room, roomCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache room %s: %v", room.ID.String(), cacheErr)
	}
	return room, nil
}

func (s *roomService) Update(ctx context.Context, room *models.Room) error {
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteRoom(ctx, room.ID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for room %s: %v", room.ID.String(), cacheErr)
	}
	return nil
}

func (s *roomService) Delete(ctx context.Context, id uuid.UUID) error {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if room.OccupiedBeds > 0 {
		return fmt.Errorf("room %s still has residents assigned", room.RoomNumber)
	}

	if err := s.roomRepo.Delete(ctx, id); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteRoom(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for room %s: %v", id.String(), cacheErr)
	}
	return nil
}

func (s *roomService) List(ctx context.Context, limit, offset int) ([]*models.Room, error) {
	return s.roomRepo.List(ctx, limit, offset)
}

// AssignResident places a resident into a room, taking one bed. A resident
// already housed elsewhere is moved, freeing their old bed first.
func (s *roomService) AssignResident(ctx context.Context, roomID, residentID uuid.UUID) error {
	resident, err := s.userRepo.GetByID(ctx, residentID)
	if err != nil {
		return err
	}
	if resident.Role != models.RoleResident {
		return fmt.Errorf("user %s is not a resident", residentID.String())
	}
	if !resident.IsActive {
		return fmt.Errorf("resident %s is deactivated", residentID.String())
	}

	var oldRoomID *uuid.UUID
	if resident.RoomID != nil {
		if *resident.RoomID == roomID {
			return nil
		}
		oldRoomID = resident.RoomID
		if err := s.roomRepo.AdjustOccupancy(ctx, *oldRoomID, -1); err != nil {
			return err
		}
		if cacheErr := s.cacheService.DeleteRoom(ctx, *oldRoomID); cacheErr != nil {
			log.Printf("Failed to invalidate cache for room %s: %v", oldRoomID.String(), cacheErr)
		}
	}

	if err := s.roomRepo.AdjustOccupancy(ctx, roomID, 1); err != nil {
		s.restoreOldBed(ctx, oldRoomID)
		return err
	}
	if err := s.userRepo.AssignRoom(ctx, residentID, &roomID); err != nil {
		if adjustErr := s.roomRepo.AdjustOccupancy(ctx, roomID, -1); adjustErr != nil {
			log.Printf("Failed to release bed in room %s after assignment failure: %v", roomID.String(), adjustErr)
		}
		s.restoreOldBed(ctx, oldRoomID)
		return err
	}

	if cacheErr := s.cacheService.DeleteRoom(ctx, roomID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for room %s: %v", roomID.String(), cacheErr)
	}
	return nil
}

// restoreOldBed re-takes the bed freed at the start of a room move whose
// later step failed, so occupancy counts stay aligned with room_id.
func (s *roomService) restoreOldBed(ctx context.Context, oldRoomID *uuid.UUID) {
	if oldRoomID == nil {
		return
	}
	if err := s.roomRepo.AdjustOccupancy(ctx, *oldRoomID, 1); err != nil {
		log.Printf("Failed to restore bed in room %s after failed move: %v", oldRoomID.String(), err)
	}
}

func (s *roomService) UnassignResident(ctx context.Context, residentID uuid.UUID) error {
	resident, err := s.userRepo.GetByID(ctx, residentID)
	if err != nil {
		return err
	}
	if resident.RoomID == nil {
		return nil
	}

	roomID := *resident.RoomID
	if err := s.roomRepo.AdjustOccupancy(ctx, roomID, -1); err != nil {
		return err
	}
	if err := s.userRepo.AssignRoom(ctx, residentID, nil); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteRoom(ctx, roomID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for room %s: %v", roomID.String(), cacheErr)
	}
	return nil
}
