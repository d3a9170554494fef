package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Action      string    `json:"action" db:"action"`
	PerformedBy uuid.UUID `json:"performed_by" db:"performed_by"`
	Role        string    `json:"role" db:"role"`
	IPAddress   *string   `json:"ip_address" db:"ip_address"`
	Route       *string   `json:"route" db:"route"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
