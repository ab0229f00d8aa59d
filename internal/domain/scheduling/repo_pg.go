package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const appointmentCols = `a.id, a.patient_id, pt.name, pt.email, pt.age, pt.gender,
	a.doctor_id, d.name, d.email, a.date, a.time, a.reason, a.status, a.notes,
	a.assigned_by, ab.name, a.created_at, a.updated_at`

const appointmentFrom = ` FROM appointments a
	JOIN patients pt ON pt.id = a.patient_id
	JOIN users d ON d.id = a.doctor_id
	LEFT JOIN users ab ON ab.id = a.assigned_by`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time, reason, status, notes, assigned_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Reason, a.Status, a.Notes, a.AssignedByID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}
	// Re-read for the embedded patient and doctor summaries.
	created, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+appointmentFrom+` WHERE a.id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Appointment, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) List(ctx context.Context, opts ListOptions) ([]*Appointment, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.PatientEmail != "" {
		conds = append(conds, `pt.email = `+arg(opts.PatientEmail))
	}
	if opts.DoctorID != uuid.Nil {
		conds = append(conds, `a.doctor_id = `+arg(opts.DoctorID))
	}
	if opts.FromToday {
		conds = append(conds, `a.date >= date_trunc('day', NOW())`)
	}
	if opts.Status != "" {
		conds = append(conds, `a.status = `+arg(opts.Status))
	}

	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*)` + appointmentFrom + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := ` ORDER BY a.date ASC, a.time ASC`
	if opts.NewestFirst {
		order = ` ORDER BY a.date DESC`
	}

	query := `SELECT ` + appointmentCols + appointmentFrom + where + order +
		` LIMIT ` + arg(opts.Limit) + ` OFFSET ` + arg(opts.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appointments := make([]*Appointment, 0)
	for rows.Next() {
		a, err := scanAppointmentFrom(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		appointments = append(appointments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	a, err := scanAppointmentFrom(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func scanAppointmentFrom(scan func(...interface{}) error) (*Appointment, error) {
	var a Appointment
	var patient PatientRef
	var doctor UserRef
	var assignedByName *string
	err := scan(
		&a.ID, &patient.ID, &patient.Name, &patient.Email, &patient.Age, &patient.Gender,
		&doctor.ID, &doctor.Name, &doctor.Email, &a.Date, &a.Time, &a.Reason, &a.Status, &a.Notes,
		&a.AssignedByID, &assignedByName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.PatientID = patient.ID
	a.Patient = &patient
	a.DoctorID = doctor.ID
	a.Doctor = &doctor
	if a.AssignedByID != nil && assignedByName != nil {
		a.AssignedBy = &NameRef{ID: *a.AssignedByID, Name: *assignedByName}
	}
	return &a, nil
}
