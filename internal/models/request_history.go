package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	HistoryActionCreated   = "created"
	HistoryActionWithdrawn = "withdrawn"
)

// RequestHistory is a permanent audit record of a maintenance-request event.
// Entries outlive the request itself, so withdrawn requests stay traceable.
type RequestHistory struct {
	ID          uuid.UUID `json:"id" db:"id"`
	RequestID   uuid.UUID `json:"request_id" db:"request_id"`
	ResidentID  uuid.UUID `json:"resident_id" db:"resident_id"`
	Action      string    `json:"action" db:"action"`
	PerformedBy uuid.UUID `json:"performed_by" db:"performed_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// HistoryActionStatusChange labels a status transition on a request.
func HistoryActionStatusChange(status string) string {
	return "status_changed_to_" + status
}
