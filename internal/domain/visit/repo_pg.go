package visit

import (
	"context"
	"time"

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

// NewRepoPG returns the postgres-backed visit history repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, patient_id, patient_name, phone_number, relationship,
	age, gender, doctor_name, visit_date, diagnosis, medical_notes,
	prescriptions, created_at`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.PatientID, &e.PatientName, &e.PhoneNumber, &e.Relationship,
		&e.Age, &e.Gender, &e.DoctorName, &e.VisitDate, &e.Diagnosis, &e.MedicalNotes,
		&e.Prescriptions, &e.CreatedAt)
	return &e, err
}

func (r *repoPG) Append(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	if e.VisitDate.IsZero() {
		e.VisitDate = time.Now().UTC()
	}
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO visit_history (id, patient_id, patient_name, phone_number,
			relationship, age, gender, doctor_name, visit_date, diagnosis,
			medical_notes, prescriptions)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at`,
		e.ID, e.PatientID, e.PatientName, e.PhoneNumber, e.Relationship,
		e.Age, e.Gender, e.DoctorName, e.VisitDate, e.Diagnosis,
		e.MedicalNotes, e.Prescriptions)
	if err := row.Scan(&e.CreatedAt); err != nil {
		return apperr.StoreFault("append visit entry", err)
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM visit_history WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, apperr.StoreFault("list visit entries", err)
	}
	return collect(rows)
}

func (r *repoPG) ListByPatientIDs(ctx context.Context, ids []uuid.UUID) ([]*Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM visit_history WHERE patient_id = ANY($1)`, ids)
	if err != nil {
		return nil, apperr.StoreFault("list visit entries", err)
	}
	return collect(rows)
}

// ListForFamily returns the entries belonging to a family: those owned by a
// current member plus those whose captured phone number matches. The phone
// match is what keeps a deleted member's visits in the family. It also pins
// each entry to the family it was recorded under: a member who moves to a
// new phone number leaves their old entries with the old family, while the
// new family sees every entry of theirs through the id match.
func (r *repoPG) ListForFamily(ctx context.Context, ids []uuid.UUID, phoneNumber string) ([]*Entry, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+entryCols+` FROM visit_history WHERE patient_id = ANY($1) OR phone_number = $2`,
		ids, phoneNumber)
	if err != nil {
		return nil, apperr.StoreFault("list family visit entries", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Entry, error) {
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, apperr.StoreFault("scan visit entry", err)
		}
		items = append(items, e)
	}
	return items, nil
}
