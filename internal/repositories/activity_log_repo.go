package repositories

import (
	"context"

	"residora/internal/models"
)

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error)
}

type activityLogRepo struct {
	db Database
}

func NewActivityLogRepo(db Database) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

func (r *activityLogRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, action, performed_by, role, ip_address, route, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.Action, entry.PerformedBy, entry.Role, entry.IPAddress, entry.Route)
	return err
}

func (r *activityLogRepo) List(ctx context.Context, limit, offset int) ([]*models.ActivityLog, error) {
	query := `
		SELECT id, action, performed_by, role, ip_address, route, created_at
		FROM activity_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		entry := &models.ActivityLog{}
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.PerformedBy, &entry.Role, &entry.IPAddress, &entry.Route, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
