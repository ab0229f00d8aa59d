package auth

// Scope narrows a list query according to the caller's role. Exactly one of
// the narrowing fields is meaningful per entry; All means no restriction.
type Scope struct {
	All bool
	// PatientEmail restricts results to the patient record owned by this
	// email (the principal's own record, resolved by the repository).
	PatientEmail string
	// DoctorID restricts results to those assigned to this doctor.
	DoctorID string
	// FromToday drops results dated before the start of the current day.
	FromToday bool
	// Statuses restricts results to a work-queue status set.
	Statuses []string
}

// Resource names used in the policy table.
const (
	ResourceAppointments   = "appointments"
	ResourcePrescriptions  = "prescriptions"
	ResourceLabTests       = "lab-tests"
	ResourceMedicalRecords = "medical-records"
)

// policies is the role matrix for list narrowing, declared once so it can be
// unit-tested independent of HTTP wiring. Roles absent from a resource's row
// see everything.
var policies = map[string]map[string]func(p *Principal) Scope{
	ResourceAppointments: {
		RolePatient: func(p *Principal) Scope {
			return Scope{PatientEmail: p.Email}
		},
		RoleDoctor: func(p *Principal) Scope {
			return Scope{DoctorID: p.ID.String(), FromToday: true}
		},
	},
	ResourcePrescriptions: {
		RolePatient: func(p *Principal) Scope {
			return Scope{PatientEmail: p.Email}
		},
		RolePharmacist: func(p *Principal) Scope {
			return Scope{Statuses: []string{"pending", "dispensed"}}
		},
	},
	ResourceLabTests: {
		RolePatient: func(p *Principal) Scope {
			return Scope{PatientEmail: p.Email}
		},
		RoleLabTechnician: func(p *Principal) Scope {
			return Scope{Statuses: []string{"ordered", "in_progress"}}
		},
	},
	ResourceMedicalRecords: {
		RolePatient: func(p *Principal) Scope {
			return Scope{PatientEmail: p.Email}
		},
	},
}

// ScopeFor returns the query narrowing for a principal listing a resource.
func ScopeFor(resource string, p *Principal) Scope {
	if p == nil {
		return Scope{}
	}
	row, ok := policies[resource]
	if !ok {
		return Scope{All: true}
	}
	build, ok := row[p.Role]
	if !ok {
		return Scope{All: true}
	}
	return build(p)
}
