package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

const (
	PaymentTypeRent    = "rent"
	PaymentTypeDeposit = "deposit"
	PaymentTypeLateFee = "late_fee"
	PaymentTypeOther   = "other"
)

type Payment struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ResidentID    uuid.UUID  `json:"resident_id" db:"resident_id"`
	RoomID        uuid.UUID  `json:"room_id" db:"room_id"`
	Amount        float64    `json:"amount" db:"amount"`
	Month         string     `json:"month" db:"month"` // YYYY-MM, used by the billing job for duplicate prevention
	Type          string     `json:"type" db:"type"`
	Status        string     `json:"status" db:"status"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	Method        *string    `json:"method" db:"method"`
	PaidAt        *time.Time `json:"paid_at" db:"paid_at"` // Set iff status is paid
	ReceiptObject *string    `json:"receipt_object,omitempty" db:"receipt_object"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// PaymentSearchFilter holds filter criteria for payment queries
type PaymentSearchFilter struct {
	ResidentID *uuid.UUID `json:"resident_id,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Month      *string    `json:"month,omitempty"`
	PaidFrom   *time.Time `json:"paid_from,omitempty"`
	PaidTo     *time.Time `json:"paid_to,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
