// Package patient owns the patient registry: demographic records, search and
// the optional companion login account.
package patient

import (
	"time"

	"github.com/google/uuid"
)

// Genders accepted on patient records.
var Genders = []string{"male", "female", "other"}

// Patient is a demographic record. A patient may or may not have a login
// account; the link is by email.
type Patient struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Age            int        `json:"age"`
	Gender         string     `json:"gender"`
	MedicalHistory []string   `json:"medicalHistory"`
	CreatedByID    *uuid.UUID `json:"-"`
	CreatedBy      *UserRef   `json:"createdBy,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// UserRef is the embedded summary of the staff account that registered the
// patient.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
