// Package analytics implements the admin reporting cluster: resident churn
// scoring, occupancy and maintenance-cost forecasting, KPI snapshots and
// revenue-leak insights. Every operation reads a fresh snapshot through the
// repositories and computes in a single pass; nothing here caches or writes
// derived state.
package analytics

import (
	"math"
	"time"

	"residora/internal/repositories"
)

const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// MaxForecastMonths caps the forecast horizon accepted from callers.
const MaxForecastMonths = 12

const (
	historyMonths         = 6
	defaultForecastMonths = 6
)

// Service computes analytics over the property snapshot. The clock is a
// field so tests can pin "now" and get deterministic output.
type Service struct {
	userRepo    repositories.UserRepository
	roomRepo    repositories.RoomRepository
	paymentRepo repositories.PaymentRepository
	requestRepo repositories.MaintenanceRequestRepository
	now         func() time.Time
}

func NewService(userRepo repositories.UserRepository, roomRepo repositories.RoomRepository, paymentRepo repositories.PaymentRepository, requestRepo repositories.MaintenanceRequestRepository) *Service {
	return NewServiceWithClock(userRepo, roomRepo, paymentRepo, requestRepo, time.Now)
}

func NewServiceWithClock(userRepo repositories.UserRepository, roomRepo repositories.RoomRepository, paymentRepo repositories.PaymentRepository, requestRepo repositories.MaintenanceRequestRepository, now func() time.Time) *Service {
	return &Service{
		userRepo:    userRepo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		requestRepo: requestRepo,
		now:         now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// monthStart returns the first instant of the month `offset` months away
// from t, in t's location.
func monthStart(t time.Time, offset int) time.Time {
	return time.Date(t.Year(), time.Month(int(t.Month())+offset), 1, 0, 0, 0, 0, t.Location())
}

func monthLabel(t time.Time) string {
	return t.Format("2006-01")
}

// trendOf is the mean of consecutive first differences. Fewer than two
// points has no direction and yields 0.
func trendOf(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var totalChange float64
	for i := 1; i < len(values); i++ {
		totalChange += values[i] - values[i-1]
	}
	return totalChange / float64(len(values)-1)
}
