package services

import (
	"context"
	"fmt"
	"time"

	"residora/internal/models"
	"residora/internal/repositories"

	"github.com/google/uuid"
)

type PaymentService interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	MarkPaid(ctx context.Context, id uuid.UUID, method string) error
	List(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error)
	ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.Payment, error)
	AttachReceipt(ctx context.Context, id uuid.UUID, objectKey string) error
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	userRepo    repositories.UserRepository
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, userRepo repositories.UserRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
	}
}

func (s *paymentService) Create(ctx context.Context, payment *models.Payment) error {
	if payment.Amount < 0 {
		return fmt.Errorf("amount cannot be negative")
	}
	if _, err := time.Parse("2006-01", payment.Month); err != nil {
		return fmt.Errorf("month must be in YYYY-MM format")
	}

	resident, err := s.userRepo.GetByID(ctx, payment.ResidentID)
	if err != nil {
		return err
	}
	if resident.Role != models.RoleResident {
		return fmt.Errorf("payments can only be billed to residents")
	}

	if payment.Type == "" {
		payment.Type = models.PaymentTypeRent
	}
	payment.ID = uuid.New()
	payment.Status = models.PaymentStatusUnpaid
	payment.PaidAt = nil
	return s.paymentRepo.Create(ctx, payment)
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *paymentService) MarkPaid(ctx context.Context, id uuid.UUID, method string) error {
	if method == "" {
		method = "cash"
	}
	return s.paymentRepo.MarkPaid(ctx, id, method, time.Now())
}

func (s *paymentService) List(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error) {
	return s.paymentRepo.List(ctx, filter)
}

func (s *paymentService) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.Payment, error) {
	return s.paymentRepo.ListByResident(ctx, residentID)
}

func (s *paymentService) AttachReceipt(ctx context.Context, id uuid.UUID, objectKey string) error {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentStatusPaid {
		return fmt.Errorf("receipts can only be attached to paid payments")
	}
	return s.paymentRepo.SetReceiptObject(ctx, id, objectKey)
}
