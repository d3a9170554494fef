package repositories

import (
	"context"
	"fmt"

	"residora/internal/models"

	"github.com/google/uuid"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetByNumber(ctx context.Context, roomNumber string) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Room, error)
	ListAll(ctx context.Context) ([]*models.Room, error)
	AdjustOccupancy(ctx context.Context, id uuid.UUID, delta int) error
}

type roomRepo struct {
	db Database
}

func NewRoomRepo(db Database) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *models.Room) error {
	query := `
		INSERT INTO rooms (id, room_number, rent, total_beds, occupied_beds, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, room.ID, room.RoomNumber, room.Rent, room.TotalBeds, room.OccupiedBeds, room.Note)
	return err
}

func (r *roomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	room := &models.Room{}
	query := `
		SELECT id, room_number, rent, total_beds, occupied_beds, note, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&room.ID, &room.RoomNumber, &room.Rent, &room.TotalBeds, &room.OccupiedBeds, &room.Note, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepo) GetByNumber(ctx context.Context, roomNumber string) (*models.Room, error) {
	room := &models.Room{}
	query := `
		SELECT id, room_number, rent, total_beds, occupied_beds, note, created_at, updated_at
		FROM rooms
		WHERE room_number = $1
	`
	err := r.db.QueryRow(ctx, query, roomNumber).Scan(&room.ID, &room.RoomNumber, &room.Rent, &room.TotalBeds, &room.OccupiedBeds, &room.Note, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepo) Update(ctx context.Context, room *models.Room) error {
	if room.OccupiedBeds > room.TotalBeds {
		return fmt.Errorf("occupied beds cannot exceed total beds")
	}
	query := `
		UPDATE rooms
		SET room_number = $1, rent = $2, total_beds = $3, occupied_beds = $4, note = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, room.RoomNumber, room.Rent, room.TotalBeds, room.OccupiedBeds, room.Note, room.ID)
	return err
}

func (r *roomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM rooms WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *roomRepo) List(ctx context.Context, limit, offset int) ([]*models.Room, error) {
	query := `
		SELECT id, room_number, rent, total_beds, occupied_beds, note, created_at, updated_at
		FROM rooms
		ORDER BY room_number ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Rent, &room.TotalBeds, &room.OccupiedBeds, &room.Note, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (r *roomRepo) ListAll(ctx context.Context) ([]*models.Room, error) {
	query := `
		SELECT id, room_number, rent, total_beds, occupied_beds, note, created_at, updated_at
		FROM rooms
		ORDER BY room_number ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Rent, &room.TotalBeds, &room.OccupiedBeds, &room.Note, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// AdjustOccupancy moves occupied_beds by delta. The WHERE clause keeps the
// count inside [0, total_beds]; zero rows affected means the move is invalid.
func (r *roomRepo) AdjustOccupancy(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE rooms
		SET occupied_beds = occupied_beds + $1, updated_at = NOW()
		WHERE id = $2 AND occupied_beds + $1 >= 0 AND occupied_beds + $1 <= total_beds
	`
	tag, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("room %s has no capacity for occupancy change %+d", id.String(), delta)
	}
	return nil
}
