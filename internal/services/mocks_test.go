package services

import (
	"context"
	"time"

	"residora/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and cache shared by the service tests

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, role string, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, role, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) ListActiveResidents(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) AssignRoom(ctx context.Context, userID uuid.UUID, roomID *uuid.UUID) error {
	args := m.Called(ctx, userID, roomID)
	return args.Error(0)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) GetByNumber(ctx context.Context, roomNumber string) (*models.Room, error) {
	args := m.Called(ctx, roomNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockRoomRepository) Update(ctx context.Context, room *models.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoomRepository) List(ctx context.Context, limit, offset int) ([]*models.Room, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockRoomRepository) ListAll(ctx context.Context) ([]*models.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Room), args.Error(1)
}

func (m *MockRoomRepository) AdjustOccupancy(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkPaid(ctx context.Context, id uuid.UUID, method string, paidAt time.Time) error {
	args := m.Called(ctx, id, method, paidAt)
	return args.Error(0)
}

func (m *MockPaymentRepository) SetReceiptObject(ctx context.Context, id uuid.UUID, objectKey string) error {
	args := m.Called(ctx, id, objectKey)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, filter *models.PaymentSearchFilter) ([]*models.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListAll(ctx context.Context) ([]*models.Payment, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByPaidRange(ctx context.Context, from, to time.Time) ([]*models.Payment, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.Payment), args.Error(1)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, request *models.MaintenanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenanceRequest), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, request *models.MaintenanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRequestRepository) List(ctx context.Context, limit, offset int) ([]*models.MaintenanceRequest, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.MaintenanceRequest), args.Error(1)
}

func (m *MockRequestRepository) ListByResident(ctx context.Context, residentID uuid.UUID) ([]*models.MaintenanceRequest, error) {
	args := m.Called(ctx, residentID)
	return args.Get(0).([]*models.MaintenanceRequest), args.Error(1)
}

func (m *MockRequestRepository) ListResolved(ctx context.Context, from, to *time.Time) ([]*models.MaintenanceRequest, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.MaintenanceRequest), args.Error(1)
}

func (m *MockRequestRepository) SumCostBetween(ctx context.Context, start, end time.Time) (float64, error) {
	args := m.Called(ctx, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockRequestRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockRequestHistoryRepository struct {
	mock.Mock
}

func (m *MockRequestHistoryRepository) Create(ctx context.Context, entry *models.RequestHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRequestHistoryRepository) List(ctx context.Context, limit, offset int) ([]*models.RequestHistory, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.RequestHistory), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockCacheService) SetRoom(ctx context.Context, room *models.Room, ttl time.Duration) error {
	args := m.Called(ctx, room, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *MockCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	args := m.Called(ctx, key, window)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheService) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
