package records

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

const recordCols = `mr.id, mr.patient_id, pt.name, pt.email, pt.age, pt.gender,
	mr.doctor_id, d.name, d.email, mr.diagnosis, mr.symptoms, mr.prescription,
	mr.notes, mr.visit_date, mr.created_at, mr.updated_at`

const recordFrom = ` FROM medical_records mr
	JOIN patients pt ON pt.id = mr.patient_id
	JOIN users d ON d.id = mr.doctor_id`

func (r *repoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	rec.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO medical_records (id, patient_id, doctor_id, diagnosis, symptoms, prescription, notes, visit_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.Diagnosis, rec.Symptoms,
		rec.Prescription, rec.Notes, rec.VisitDate,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	*rec = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	return scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordCols+recordFrom+` WHERE mr.id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, opts ListOptions) ([]*MedicalRecord, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if opts.PatientEmail != "" {
		conds = append(conds, `pt.email = `+arg(opts.PatientEmail))
	}
	if opts.PatientID != uuid.Nil {
		conds = append(conds, `mr.patient_id = `+arg(opts.PatientID))
	}

	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+recordFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recordCols + recordFrom + where +
		` ORDER BY mr.visit_date DESC LIMIT ` + arg(opts.Limit) + ` OFFSET ` + arg(opts.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*MedicalRecord, 0)
	for rows.Next() {
		rec, err := scanRecordFrom(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanRecord(row pgx.Row) (*MedicalRecord, error) {
	rec, err := scanRecordFrom(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func scanRecordFrom(scan func(...interface{}) error) (*MedicalRecord, error) {
	var rec MedicalRecord
	var patient PatientRef
	var doctor UserRef
	err := scan(
		&rec.ID, &patient.ID, &patient.Name, &patient.Email, &patient.Age, &patient.Gender,
		&doctor.ID, &doctor.Name, &doctor.Email, &rec.Diagnosis, &rec.Symptoms,
		&rec.Prescription, &rec.Notes, &rec.VisitDate, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.PatientID = patient.ID
	rec.Patient = &patient
	rec.DoctorID = doctor.ID
	rec.Doctor = &doctor
	if rec.Symptoms == nil {
		rec.Symptoms = []string{}
	}
	return &rec, nil
}
