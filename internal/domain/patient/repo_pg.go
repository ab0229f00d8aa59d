package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `p.id, p.name, p.email, p.age, p.gender, p.medical_history,
	p.created_by, u.id, u.name, u.email, p.created_at, p.updated_at`

const patientFrom = ` FROM patients p LEFT JOIN users u ON u.id = p.created_by`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, name, email, age, gender, medical_history, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Email, p.Age, p.Gender, p.MedicalHistory, p.CreatedByID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+patientFrom+` WHERE p.id = $1`, id))
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM patients WHERE email = $1)`, email).Scan(&taken)
	return taken, err
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients SET
			name=$2, email=$3, age=$4, gender=$5, medical_history=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Email, p.Age, p.Gender, p.MedicalHistory,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, opts ListOptions) ([]*Patient, int, error) {
	where := ``
	args := []interface{}{}
	if opts.Search != "" {
		where = ` WHERE (p.name ILIKE $1 OR p.email ILIKE $1)`
		args = append(args, "%"+opts.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitPos := len(args) + 1
	query := fmt.Sprintf(`SELECT %s%s%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		patientCols, patientFrom, where, limitPos, limitPos+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	patients := make([]*Patient, 0)
	for rows.Next() {
		p, err := scanPatientRows(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	p, err := scanPatientFrom(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func scanPatientRows(rows pgx.Rows) (*Patient, error) {
	return scanPatientFrom(rows.Scan)
}

func scanPatientFrom(scan func(...interface{}) error) (*Patient, error) {
	var p Patient
	var refID *uuid.UUID
	var refName, refEmail *string
	err := scan(
		&p.ID, &p.Name, &p.Email, &p.Age, &p.Gender, &p.MedicalHistory,
		&p.CreatedByID, &refID, &refName, &refEmail, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if refID != nil && refName != nil && refEmail != nil {
		p.CreatedBy = &UserRef{ID: *refID, Name: *refName, Email: *refEmail}
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = []string{}
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
