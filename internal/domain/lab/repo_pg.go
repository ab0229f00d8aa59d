package lab

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

const labTestCols = `lt.id, lt.patient_id, pt.name, pt.email,
	lt.doctor_id, d.name, d.email, lt.test_name, lt.test_type, lt.status,
	lt.ordered_date, lt.completed_date, lt.results, lt.uploaded_by, ub.name,
	lt.notes, lt.created_at, lt.updated_at`

const labTestFrom = ` FROM lab_tests lt
	JOIN patients pt ON pt.id = lt.patient_id
	JOIN users d ON d.id = lt.doctor_id
	LEFT JOIN users ub ON ub.id = lt.uploaded_by`

func (r *repoPG) Create(ctx context.Context, t *LabTest) error {
	t.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lab_tests (id, patient_id, doctor_id, test_name, test_type, status, ordered_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		t.ID, t.PatientID, t.DoctorID, t.TestName, t.TestType, t.Status, t.OrderedDate, t.Notes,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return scanLabTest(r.pool.QueryRow(ctx,
		`SELECT `+labTestCols+labTestFrom+` WHERE lt.id = $1`, id))
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) (*LabTest, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE lab_tests SET
			status = $2,
			results = $3,
			notes = $4,
			uploaded_by = COALESCE($5, uploaded_by),
			completed_date = COALESCE($6, completed_date),
			updated_at = NOW()
		WHERE id = $1`,
		id, upd.Status, upd.Results, upd.Notes, upd.UploadedByID, upd.CompletedDate,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repoPG) List(ctx context.Context, opts ListOptions) ([]*LabTest, int, error) {
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
		conds = append(conds, `lt.status = ANY(`+arg(opts.Statuses)+`)`)
	}

	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+labTestFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + labTestCols + labTestFrom + where +
		` ORDER BY lt.created_at DESC LIMIT ` + arg(opts.Limit) + ` OFFSET ` + arg(opts.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tests := make([]*LabTest, 0)
	for rows.Next() {
		t, err := scanLabTestFrom(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return tests, total, nil
}

func scanLabTest(row pgx.Row) (*LabTest, error) {
	t, err := scanLabTestFrom(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func scanLabTestFrom(scan func(...interface{}) error) (*LabTest, error) {
	var t LabTest
	var patient, doctor UserRef
	var uploadedByName *string
	err := scan(
		&t.ID, &patient.ID, &patient.Name, &patient.Email,
		&doctor.ID, &doctor.Name, &doctor.Email, &t.TestName, &t.TestType, &t.Status,
		&t.OrderedDate, &t.CompletedDate, &t.Results, &t.UploadedByID, &uploadedByName,
		&t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.PatientID = patient.ID
	t.Patient = &patient
	t.DoctorID = doctor.ID
	t.Doctor = &doctor
	if t.UploadedByID != nil && uploadedByName != nil {
		t.UploadedBy = &NameRef{ID: *t.UploadedByID, Name: *uploadedByName}
	}
	return &t, nil
}
