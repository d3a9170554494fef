package repositories

import (
	"context"
	"fmt"
	"time"

	"residora/internal/models"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, method string, paidAt time.Time) error
	SetReceiptObject(ctx context.Context, id uuid.UUID, objectKey string) error
	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.Payment, error)
	List(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error)
	ListAll(ctx context.Context) ([]*models.Payment, error)
	ListByPaidRange(ctx context.Context, from, to time.Time) ([]*models.Payment, error)
}

type paymentRepo struct {
	db Database
}

func NewPaymentRepo(db Database) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	// The (resident_id, month, type) unique index stops the billing job from
	// double-charging a month when it reruns.
	query := `
		INSERT INTO payments (id, resident_id, room_id, amount, month, type, status, due_date, method, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (resident_id, month, type) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.ResidentID, payment.RoomID, payment.Amount, payment.Month, payment.Type, payment.Status, payment.DueDate, payment.Method, payment.PaidAt)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	payment := &models.Payment{}
	query := `
		SELECT id, resident_id, room_id, amount, month, type, status, due_date, method, paid_at, receipt_object, created_at, updated_at
		FROM payments
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&payment.ID, &payment.ResidentID, &payment.RoomID, &payment.Amount, &payment.Month, &payment.Type, &payment.Status, &payment.DueDate, &payment.Method, &payment.PaidAt, &payment.ReceiptObject, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepo) MarkPaid(ctx context.Context, id uuid.UUID, method string, paidAt time.Time) error {
	query := `
		UPDATE payments
		SET status = 'paid', method = $1, paid_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'unpaid'
	`
	tag, err := r.db.Exec(ctx, query, method, paidAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s is not open for collection", id.String())
	}
	return nil
}

func (r *paymentRepo) SetReceiptObject(ctx context.Context, id uuid.UUID, objectKey string) error {
	query := `UPDATE payments SET receipt_object = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, objectKey, id)
	return err
}

func (r *paymentRepo) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.Payment, error) {
	query := `
		SELECT id, resident_id, room_id, amount, month, type, status, due_date, method, paid_at, receipt_object, created_at, updated_at
		FROM payments
		WHERE resident_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.ResidentID, &payment.RoomID, &payment.Amount, &payment.Month, &payment.Type, &payment.Status, &payment.DueDate, &payment.Method, &payment.PaidAt, &payment.ReceiptObject, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func (r *paymentRepo) List(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `
		SELECT id, resident_id, room_id, amount, month, type, status, due_date, method, paid_at, receipt_object, created_at, updated_at
		FROM payments
		WHERE 1 = 1
	`
	args := []interface{}{}
	conditionCount := 0

	if filter.ResidentID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND resident_id = $%d`, conditionCount)
		args = append(args, *filter.ResidentID)
	}
	if filter.Status != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND status = $%d`, conditionCount)
		args = append(args, *filter.Status)
	}
	if filter.Month != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND month = $%d`, conditionCount)
		args = append(args, *filter.Month)
	}
	if filter.PaidFrom != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND paid_at >= $%d`, conditionCount)
		args = append(args, *filter.PaidFrom)
	}
	if filter.PaidTo != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND paid_at <= $%d`, conditionCount)
		args = append(args, *filter.PaidTo)
	}

	queryBase += ` ORDER BY created_at DESC`

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.ResidentID, &payment.RoomID, &payment.Amount, &payment.Month, &payment.Type, &payment.Status, &payment.DueDate, &payment.Method, &payment.PaidAt, &payment.ReceiptObject, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func (r *paymentRepo) ListAll(ctx context.Context) ([]*models.Payment, error) {
	query := `
		SELECT id, resident_id, room_id, amount, month, type, status, due_date, method, paid_at, receipt_object, created_at, updated_at
		FROM payments
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.ResidentID, &payment.RoomID, &payment.Amount, &payment.Month, &payment.Type, &payment.Status, &payment.DueDate, &payment.Method, &payment.PaidAt, &payment.ReceiptObject, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}

func (r *paymentRepo) ListByPaidRange(ctx context.Context, from, to time.Time) ([]*models.Payment, error) {
	query := `
		SELECT id, resident_id, room_id, amount, month, type, status, due_date, method, paid_at, receipt_object, created_at, updated_at
		FROM payments
		WHERE paid_at >= $1 AND paid_at <= $2
		ORDER BY paid_at ASC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.ResidentID, &payment.RoomID, &payment.Amount, &payment.Month, &payment.Type, &payment.Status, &payment.DueDate, &payment.Method, &payment.PaidAt, &payment.ReceiptObject, &payment.CreatedAt, &payment.UpdatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, nil
}
