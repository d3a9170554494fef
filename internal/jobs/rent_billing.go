package jobs

import (
	"context"
	"log"
	"time"

	"residora/internal/models"
	"residora/internal/repositories"

	"github.com/google/uuid"
)

// rentDueDays is how long after the 1st of the month rent is due.
const rentDueDays = 7

// RentBiller generates the monthly unpaid rent charge for every active
// resident with an assigned room. Charges are keyed by (resident, month,
// type) so re-running within the same month is a no-op.
type RentBiller struct {
	userRepo    repositories.UserRepository
	roomRepo    repositories.RoomRepository
	paymentRepo repositories.PaymentRepository
	now         func() time.Time
}

func NewRentBiller(userRepo repositories.UserRepository, roomRepo repositories.RoomRepository,
	paymentRepo repositories.PaymentRepository) *RentBiller {
	return &RentBiller{
		userRepo:    userRepo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// NewRentBillerWithClock builds a biller with a fixed clock for tests.
func NewRentBillerWithClock(userRepo repositories.UserRepository, roomRepo repositories.RoomRepository,
	paymentRepo repositories.PaymentRepository, now func() time.Time) *RentBiller {
	return &RentBiller{
		userRepo:    userRepo,
		roomRepo:    roomRepo,
		paymentRepo: paymentRepo,
		now:         now,
	}
}

// Run bills the current calendar month. Residents without a room are
// skipped; a failure on one resident does not stop the rest.
func (b *RentBiller) Run(ctx context.Context) error {
	now := b.now()
	month := now.Format("2006-01")
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	dueDate := monthStart.AddDate(0, 0, rentDueDays)

	residents, err := b.userRepo.ListActiveResidents(ctx)
	if err != nil {
		log.Printf("Rent billing: failed to list residents: %v", err)
		return err
	}

	billed := 0
	for _, resident := range residents {
		if resident.RoomID == nil {
			continue
		}

		room, err := b.roomRepo.GetByID(ctx, *resident.RoomID)
		if err != nil {
			log.Printf("Rent billing: failed to load room %s for resident %s: %v",
				resident.RoomID.String(), resident.ID.String(), err)
			continue
		}

		payment := &models.Payment{
			ID:         uuid.New(),
			ResidentID: resident.ID,
			RoomID:     room.ID,
			Amount:     room.Rent,
			Month:      month,
			Type:       models.PaymentTypeRent,
			Status:     models.PaymentStatusUnpaid,
			DueDate:    dueDate,
		}
		if err := b.paymentRepo.Create(ctx, payment); err != nil {
			log.Printf("Rent billing: failed to create charge for resident %s: %v",
				resident.ID.String(), err)
			continue
		}
		billed++
	}

	log.Printf("Rent billing for %s completed: %d residents processed, %d charges attempted",
		month, len(residents), billed)
	return nil
}
