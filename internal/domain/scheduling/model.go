package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Statuses lists every valid appointment status.
var Statuses = []string{StatusScheduled, StatusCompleted, StatusCancelled}

// Appointment is a booked visit between a patient and a doctor.
type Appointment struct {
	ID           uuid.UUID   `json:"id"`
	PatientID    uuid.UUID   `json:"-"`
	Patient      *PatientRef `json:"patient,omitempty"`
	DoctorID     uuid.UUID   `json:"-"`
	Doctor       *UserRef    `json:"doctor,omitempty"`
	Date         time.Time   `json:"date"`
	Time         string      `json:"time"`
	Reason       string      `json:"reason"`
	Status       string      `json:"status"`
	Notes        string      `json:"notes"`
	AssignedByID *uuid.UUID  `json:"-"`
	AssignedBy   *NameRef    `json:"assignedBy,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// PatientRef is the embedded patient summary on an appointment.
type PatientRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Age    int       `json:"age"`
	Gender string    `json:"gender"`
}

// UserRef is the embedded doctor summary on an appointment.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// NameRef identifies the admin who assigned the appointment.
type NameRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ValidStatus reports whether s is a recognized appointment status.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
