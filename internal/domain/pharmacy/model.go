package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Prescription statuses.
const (
	StatusPending   = "pending"
	StatusDispensed = "dispensed"
	StatusDelivered = "delivered"
)

// Statuses lists every valid prescription status.
var Statuses = []string{StatusPending, StatusDispensed, StatusDelivered}

// QueueStatuses is the pharmacist work queue: prescriptions still moving
// through the pharmacy.
var QueueStatuses = []string{StatusPending, StatusDispensed}

// Medicine is a single line item on a prescription, stored as jsonb.
type Medicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
	Quantity  int    `json:"quantity"`
}

// Prescription is a doctor's medication order for a patient.
type Prescription struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"-"`
	Patient       *UserRef   `json:"patient,omitempty"`
	DoctorID      uuid.UUID  `json:"-"`
	Doctor        *UserRef   `json:"doctor,omitempty"`
	Medicines     []Medicine `json:"medicines"`
	Notes         string     `json:"notes"`
	Status        string     `json:"status"`
	DispensedByID *uuid.UUID `json:"-"`
	DispensedBy   *NameRef   `json:"dispensedBy,omitempty"`
	DispensedAt   *time.Time `json:"dispensedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// UserRef is the embedded patient or doctor summary on a prescription.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// NameRef identifies the pharmacist who dispensed the prescription.
type NameRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ValidStatus reports whether s is a recognized prescription status.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
