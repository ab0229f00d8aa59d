package lab

import (
	"time"

	"github.com/google/uuid"
)

// Lab test statuses.
const (
	StatusOrdered    = "ordered"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Statuses lists every valid lab test status.
var Statuses = []string{StatusOrdered, StatusInProgress, StatusCompleted}

// QueueStatuses is the technician work queue: tests not yet completed.
var QueueStatuses = []string{StatusOrdered, StatusInProgress}

// LabTest is a doctor's test order worked by the lab.
type LabTest struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"-"`
	Patient       *UserRef   `json:"patient,omitempty"`
	DoctorID      uuid.UUID  `json:"-"`
	Doctor        *UserRef   `json:"doctor,omitempty"`
	TestName      string     `json:"testName"`
	TestType      string     `json:"testType"`
	Status        string     `json:"status"`
	OrderedDate   time.Time  `json:"orderedDate"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	Results       string     `json:"results"`
	UploadedByID  *uuid.UUID `json:"-"`
	UploadedBy    *NameRef   `json:"uploadedBy,omitempty"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// UserRef is the embedded patient or doctor summary on a lab test.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// NameRef identifies the technician who uploaded the results.
type NameRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ValidStatus reports whether s is a recognized lab test status.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
