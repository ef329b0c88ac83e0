package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG returns the postgres-backed patient repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, name, age, gender, phone_number, relationship,
	diagnosis, medical_notes, prescriptions, last_checkup, next_appointment,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*PatientRecord, error) {
	var p PatientRecord
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.PhoneNumber, &p.Relationship,
		&p.Diagnosis, &p.MedicalNotes, &p.Prescriptions, &p.LastCheckup, &p.NextAppointment,
		&p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *PatientRecord) error {
	p.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patients (id, name, age, gender, phone_number, relationship,
			diagnosis, medical_notes, prescriptions, last_checkup, next_appointment)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Age, p.Gender, p.PhoneNumber, p.Relationship,
		p.Diagnosis, p.MedicalNotes, p.Prescriptions, p.LastCheckup, p.NextAppointment)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return apperr.StoreFault("create patient", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error) {
	p, err := scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("patient %s", id)
		}
		return nil, apperr.StoreFault("get patient", err)
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *PatientRecord) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET name=$2, age=$3, gender=$4, phone_number=$5,
			relationship=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Age, p.Gender, p.PhoneNumber, p.Relationship)
	if err != nil {
		return apperr.StoreFault("update patient", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient %s", p.ID)
	}
	return nil
}

func (r *repoPG) UpdateClinical(ctx context.Context, id uuid.UUID, c Clinical) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET diagnosis=$2, medical_notes=$3, prescriptions=$4,
			last_checkup=$5, next_appointment=$6, updated_at=NOW()
		WHERE id = $1`,
		id, c.Diagnosis, c.MedicalNotes, c.Prescriptions, c.LastCheckup, c.NextAppointment)
	if err != nil {
		return apperr.StoreFault("update clinical fields", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient %s", id)
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// Visit history rows are retained on purpose; see the family view docs.
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return apperr.StoreFault("delete patient", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient %s", id)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*PatientRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, apperr.StoreFault("count patients", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, apperr.StoreFault("list patients", err)
	}
	defer rows.Close()
	var items []*PatientRecord
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, apperr.StoreFault("scan patient", err)
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *repoPG) ListByPhone(ctx context.Context, phoneNumber string) ([]*PatientRecord, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients WHERE phone_number = $1 ORDER BY created_at ASC`,
		phoneNumber)
	if err != nil {
		return nil, apperr.StoreFault("list patients by phone", err)
	}
	defer rows.Close()
	var items []*PatientRecord
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, apperr.StoreFault("scan patient", err)
		}
		items = append(items, p)
	}
	return items, nil
}
