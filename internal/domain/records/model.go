package records

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord documents a patient visit.
type MedicalRecord struct {
	ID           uuid.UUID   `json:"id"`
	PatientID    uuid.UUID   `json:"-"`
	Patient      *PatientRef `json:"patient,omitempty"`
	DoctorID     uuid.UUID   `json:"-"`
	Doctor       *UserRef    `json:"doctor,omitempty"`
	Diagnosis    string      `json:"diagnosis"`
	Symptoms     []string    `json:"symptoms"`
	Prescription string      `json:"prescription"`
	Notes        string      `json:"notes"`
	VisitDate    time.Time   `json:"visitDate"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// PatientRef is the embedded patient summary on a medical record.
type PatientRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Age    int       `json:"age"`
	Gender string    `json:"gender"`
}

// UserRef is the embedded doctor summary on a medical record.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
