package repositories

import (
	"context"
	"fmt"
	"time"

	"residora/internal/models"

	"github.com/google/uuid"
)

type MaintenanceRequestRepository interface {
	Create(ctx context.Context, request *models.MaintenanceRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error)
	Update(ctx context.Context, request *models.MaintenanceRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.MaintenanceRequest, error)
	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.MaintenanceRequest, error)
	ListResolved(ctx context.Context, from, to *time.Time) ([]*models.MaintenanceRequest, error)
	SumCostBetween(ctx context.Context, start, end time.Time) (float64, error)
	Count(ctx context.Context) (int, error)
}

type requestRepo struct {
	db Database
}

func NewRequestRepo(db Database) MaintenanceRequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	query := `
		INSERT INTO maintenance_requests (id, resident_id, message, status, workflow_status, cost, admin_note, photo_object, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, request.ID, request.ResidentID, request.Message, request.Status, request.WorkflowStatus, request.Cost, request.AdminNote, request.PhotoObject)
	return err
}

func (r *requestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	request := &models.MaintenanceRequest{}
	query := `
		SELECT id, resident_id, message, status, workflow_status, cost, admin_note, photo_object, created_at, updated_at
		FROM maintenance_requests
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&request.ID, &request.ResidentID, &request.Message, &request.Status, &request.WorkflowStatus, &request.Cost, &request.AdminNote, &request.PhotoObject, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return request, nil
}

func (r *requestRepo) Update(ctx context.Context, request *models.MaintenanceRequest) error {
	query := `
		UPDATE maintenance_requests
		SET status = $1, workflow_status = $2, cost = $3, admin_note = $4, photo_object = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, request.Status, request.WorkflowStatus, request.Cost, request.AdminNote, request.PhotoObject, request.ID)
	return err
}

func (r *requestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM maintenance_requests WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *requestRepo) List(ctx context.Context, limit, offset int) ([]*models.MaintenanceRequest, error) {
	query := `
		SELECT id, resident_id, message, status, workflow_status, cost, admin_note, photo_object, created_at, updated_at
		FROM maintenance_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.MaintenanceRequest
	for rows.Next() {
		request := &models.MaintenanceRequest{}
		if err := rows.Scan(&request.ID, &request.ResidentID, &request.Message, &request.Status, &request.WorkflowStatus, &request.Cost, &request.AdminNote, &request.PhotoObject, &request.CreatedAt, &request.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *requestRepo) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.MaintenanceRequest, error) {
	query := `
		SELECT id, resident_id, message, status, workflow_status, cost, admin_note, photo_object, created_at, updated_at
		FROM maintenance_requests
		WHERE resident_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.MaintenanceRequest
	for rows.Next() {
		request := &models.MaintenanceRequest{}
		if err := rows.Scan(&request.ID, &request.ResidentID, &request.Message, &request.Status, &request.WorkflowStatus, &request.Cost, &request.AdminNote, &request.PhotoObject, &request.CreatedAt, &request.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *requestRepo) ListResolved(ctx context.Context, from, to *time.Time) ([]*models.MaintenanceRequest, error) {
	queryBase := `
		SELECT id, resident_id, message, status, workflow_status, cost, admin_note, photo_object, created_at, updated_at
		FROM maintenance_requests
		WHERE status = 'resolved'
	`
	args := []interface{}{}
	conditionCount := 0

	if from != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND created_at >= $%d`, conditionCount)
		args = append(args, *from)
	}
	if to != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND created_at <= $%d`, conditionCount)
		args = append(args, *to)
	}

	queryBase += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.MaintenanceRequest
	for rows.Next() {
		request := &models.MaintenanceRequest{}
		if err := rows.Scan(&request.ID, &request.ResidentID, &request.Message, &request.Status, &request.WorkflowStatus, &request.Cost, &request.AdminNote, &request.PhotoObject, &request.CreatedAt, &request.UpdatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *requestRepo) SumCostBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(cost), 0)
		FROM maintenance_requests
		WHERE created_at >= $1 AND created_at <= $2
	`
	err := r.db.QueryRow(ctx, query, start, end).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *requestRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_requests`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
