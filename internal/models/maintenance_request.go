package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RequestStatusPending    = "pending"
	RequestStatusInProgress = "in-progress"
	RequestStatusResolved   = "resolved"
)

const (
	WorkflowReceived   = "Received"
	WorkflowInProgress = "In-Progress"
	WorkflowOnHold     = "On Hold"
	WorkflowDone       = "Done"
)

type MaintenanceRequest struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ResidentID     uuid.UUID `json:"resident_id" db:"resident_id"`
	Message        string    `json:"message" db:"message"`
	Status         string    `json:"status" db:"status"`
	WorkflowStatus string    `json:"workflow_status" db:"workflow_status"`
	Cost           float64   `json:"cost" db:"cost"`
	AdminNote      *string   `json:"admin_note" db:"admin_note"`
	PhotoObject    *string   `json:"photo_object,omitempty" db:"photo_object"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// ResolutionHours returns the request age from creation to last update in
// hours. Only meaningful once the request has been resolved.
func (m *MaintenanceRequest) ResolutionHours() float64 {
	return m.UpdatedAt.Sub(m.CreatedAt).Hours()
}
