package patient

import (
	"time"

	"github.com/google/uuid"
)

// PatientRecord maps to the patients table, one row per registered
// individual. Family membership is derived from the phone number, which is
// an opaque grouping key: no normalization is applied, two records group
// only on an exact string match.
type PatientRecord struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Age          int       `db:"age" json:"age"`
	Gender       string    `db:"gender" json:"gender"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Relationship string    `db:"relationship" json:"relationship"`

	// Clinical fields. Written only through the medical record update flow,
	// never by demographic updates.
	Diagnosis       string     `db:"diagnosis" json:"diagnosis"`
	MedicalNotes    string     `db:"medical_notes" json:"medical_notes"`
	Prescriptions   string     `db:"prescriptions" json:"prescriptions"`
	LastCheckup     *time.Time `db:"last_checkup" json:"last_checkup,omitempty"`
	NextAppointment *time.Time `db:"next_appointment" json:"next_appointment,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Demographics is the receptionist-writable field set.
type Demographics struct {
	Name         string `json:"name"`
	Age          int    `json:"age"`
	Gender       string `json:"gender"`
	PhoneNumber  string `json:"phone_number"`
	Relationship string `json:"relationship"`
}

// Clinical is the clinician-writable field set.
type Clinical struct {
	Diagnosis       string     `json:"diagnosis"`
	MedicalNotes    string     `json:"medical_notes"`
	Prescriptions   string     `json:"prescriptions"`
	LastCheckup     *time.Time `json:"last_checkup,omitempty"`
	NextAppointment *time.Time `json:"next_appointment,omitempty"`
}

// Snapshot returns a copy of the record's clinical fields as they stand.
func (p *PatientRecord) Snapshot() Clinical {
	return Clinical{
		Diagnosis:       p.Diagnosis,
		MedicalNotes:    p.MedicalNotes,
		Prescriptions:   p.Prescriptions,
		LastCheckup:     p.LastCheckup,
		NextAppointment: p.NextAppointment,
	}
}

// validRelationships enumerates the accepted relationship values. At most
// one "self" per phone number is the convention for the primary family
// member, but grouping works by phone number regardless, so it is not
// enforced.
var validRelationships = map[string]bool{
	"self": true, "son": true, "daughter": true, "mother": true,
	"father": true, "spouse": true, "brother": true, "sister": true,
	"grandfather": true, "grandmother": true, "other": true,
}

// ValidRelationship reports whether r is an accepted relationship value.
func ValidRelationship(r string) bool {
	return validRelationships[r]
}
