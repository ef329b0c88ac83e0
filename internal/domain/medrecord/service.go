package medrecord

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cliniq/cliniq/internal/domain/patient"
	"github.com/cliniq/cliniq/internal/domain/visit"
	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/auth"
	"github.com/cliniq/cliniq/internal/platform/db"
)

// Service coordinates a clinician's update of a patient's clinical fields.
// Each update snapshots the fields as they stand, appends the snapshot to
// the visit ledger, and only then applies the new values, so a new
// diagnosis never erases the prior one; it becomes history.
type Service struct {
	patients patient.Repository
	visits   visit.Repository
	tx       db.TxRunner
	locks    *patientLocks
}

// NewService creates the medical update coordinator.
func NewService(patients patient.Repository, visits visit.Repository, tx db.TxRunner) *Service {
	return &Service{patients: patients, visits: visits, tx: tx, locks: newPatientLocks()}
}

// Update applies a clinician's new clinical values to a patient. Doctor
// only. At most one update per patient is in flight at a time; a second
// concurrent caller gets a conflict and may retry with backoff. The
// snapshot, append and apply run inside one store transaction, so a
// concurrent family read observes either the pre-update or the fully
// applied state, never a torn one.
func (s *Service) Update(ctx context.Context, actor auth.Actor, patientID uuid.UUID, c patient.Clinical) (*patient.PatientRecord, error) {
	if !auth.Allowed(actor.Role, auth.OpWriteClinical) {
		return nil, apperr.Forbidden("role %q cannot update clinical fields", actor.Role)
	}

	if !s.locks.tryAcquire(patientID) {
		return nil, fmt.Errorf("update already in flight for patient %s: %w", patientID, apperr.ErrConflict)
	}
	defer s.locks.release(patientID)

	var updated *patient.PatientRecord
	appended := false
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cur, err := s.patients.GetByID(ctx, patientID)
		if err != nil {
			return err
		}

		snap := cur.Snapshot()
		entry := &visit.Entry{
			PatientID:     cur.ID,
			PatientName:   cur.Name,
			PhoneNumber:   cur.PhoneNumber,
			Relationship:  cur.Relationship,
			Age:           cur.Age,
			Gender:        cur.Gender,
			DoctorName:    actor.Name,
			Diagnosis:     snap.Diagnosis,
			MedicalNotes:  snap.MedicalNotes,
			Prescriptions: snap.Prescriptions,
		}
		if err := s.visits.Append(ctx, entry); err != nil {
			return err
		}
		appended = true

		if err := s.patients.UpdateClinical(ctx, patientID, c); err != nil {
			return err
		}

		updated, err = s.patients.GetByID(ctx, patientID)
		return err
	})
	if err != nil {
		// On a store without transactional rollback, a failure after the
		// append leaves a history entry with no matching live update.
		// Retrying could double-append, so this is terminal and reported
		// as its own class.
		if appended && !s.tx.Atomic() {
			return nil, fmt.Errorf("history appended but update not applied for patient %s: %v: %w",
				patientID, err, apperr.ErrInconsistent)
		}
		return nil, err
	}
	return updated, nil
}
