package repositories

import (
	"context"

	"residora/internal/models"
)

type RequestHistoryRepository interface {
	Create(ctx context.Context, entry *models.RequestHistory) error
	List(ctx context.Context, limit, offset int) ([]*models.RequestHistory, error)
}

type requestHistoryRepo struct {
	db Database
}

func NewRequestHistoryRepo(db Database) RequestHistoryRepository {
	return &requestHistoryRepo{db: db}
}

func (r *requestHistoryRepo) Create(ctx context.Context, entry *models.RequestHistory) error {
	query := `
		INSERT INTO request_history (id, request_id, resident_id, action, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.RequestID, entry.ResidentID, entry.Action, entry.PerformedBy)
	return err
}

func (r *requestHistoryRepo) List(ctx context.Context, limit, offset int) ([]*models.RequestHistory, error) {
	query := `
		SELECT id, request_id, resident_id, action, performed_by, created_at
		FROM request_history
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.RequestHistory
	for rows.Next() {
		entry := &models.RequestHistory{}
		if err := rows.Scan(&entry.ID, &entry.RequestID, &entry.ResidentID, &entry.Action, &entry.PerformedBy, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
