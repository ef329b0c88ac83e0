package visit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one row of the append-only visit history ledger: a point-in-time
// copy of a patient's clinical fields as they stood immediately before a
// clinician's update overwrote them. Entries are immutable once created and
// are never deleted, not even when the owning patient record is; the
// captured demographic context (name, phone number, relationship, age,
// gender) keeps the visit meaningful and reachable from the family view
// after the patient record is gone.
type Entry struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID uuid.UUID `db:"patient_id" json:"patient_id"`

	PatientName  string `db:"patient_name" json:"patient_name"`
	PhoneNumber  string `db:"phone_number" json:"phone_number"`
	Relationship string `db:"relationship" json:"relationship"`
	Age          int    `db:"age" json:"age"`
	Gender       string `db:"gender" json:"gender"`

	DoctorName string    `db:"doctor_name" json:"doctor_name"`
	VisitDate  time.Time `db:"visit_date" json:"visit_date"`

	Diagnosis     string `db:"diagnosis" json:"diagnosis"`
	MedicalNotes  string `db:"medical_notes" json:"medical_notes"`
	Prescriptions string `db:"prescriptions" json:"prescriptions"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
