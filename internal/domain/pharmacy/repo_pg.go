package pharmacy

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

const prescriptionCols = `pr.id, pr.patient_id, pt.name, pt.email,
	pr.doctor_id, d.name, d.email, pr.medicines, pr.notes, pr.status,
	pr.dispensed_by, db.name, pr.dispensed_at, pr.created_at, pr.updated_at`

const prescriptionFrom = ` FROM prescriptions pr
	JOIN patients pt ON pt.id = pr.patient_id
	JOIN users d ON d.id = pr.doctor_id
	LEFT JOIN users db ON db.id = pr.dispensed_by`

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO prescriptions (id, patient_id, doctor_id, medicines, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.PatientID, p.DoctorID, p.Medicines, p.Notes, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return scanPrescription(r.pool.QueryRow(ctx,
		`SELECT `+prescriptionCols+prescriptionFrom+` WHERE pr.id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*Prescription, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE prescriptions SET
			status = $2,
			dispensed_by = COALESCE($3, dispensed_by),
			dispensed_at = COALESCE($4, dispensed_at),
			updated_at = NOW()
		WHERE id = $1`,
		id, upd.Status, upd.DispensedByID, upd.DispensedAt,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) List(ctx context.Context, opts ListOptions) ([]*Prescription, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.PatientEmail != "" {
		conds = append(conds, `pt.email = `+arg(opts.PatientEmail))
	}
	if len(opts.Statuses) > 0 {
		conds = append(conds, `pr.status = ANY(`+arg(opts.Statuses)+`)`)
	}

	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+prescriptionFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + prescriptionCols + prescriptionFrom + where +
		` ORDER BY pr.created_at DESC LIMIT ` + arg(opts.Limit) + ` OFFSET ` + arg(opts.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	prescriptions := make([]*Prescription, 0)
	for rows.Next() {
		p, err := scanPrescriptionFrom(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		prescriptions = append(prescriptions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return prescriptions, total, nil
}

func scanPrescription(row pgx.Row) (*Prescription, error) {
	p, err := scanPrescriptionFrom(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func scanPrescriptionFrom(scan func(...interface{}) error) (*Prescription, error) {
	var p Prescription
	var patient, doctor UserRef
	var dispensedByName *string
	err := scan(
		&p.ID, &patient.ID, &patient.Name, &patient.Email,
		&doctor.ID, &doctor.Name, &doctor.Email, &p.Medicines, &p.Notes, &p.Status,
		&p.DispensedByID, &dispensedByName, &p.DispensedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.PatientID = patient.ID
	p.Patient = &patient
	p.DoctorID = doctor.ID
	p.Doctor = &doctor
	if p.DispensedByID != nil && dispensedByName != nil {
		p.DispensedBy = &NameRef{ID: *p.DispensedByID, Name: *dispensedByName}
	}
	if p.Medicines == nil {
		p.Medicines = []Medicine{}
	}
	return &p, nil
}
