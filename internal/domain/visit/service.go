package visit

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/cliniq/cliniq/internal/domain/patient"
	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/auth"
)

// Service is the visit history ledger.
type Service struct {
	entries  Repository
	patients patient.Repository
}

// NewService creates the visit history service.
func NewService(entries Repository, patients patient.Repository) *Service {
	return &Service{entries: entries, patients: patients}
}

// Append records one visit entry. The visit date is the append time unless
// the caller already stamped one.
func (s *Service) Append(ctx context.Context, e *Entry) (*Entry, error) {
	if e.VisitDate.IsZero() {
		e.VisitDate = time.Now().UTC()
	}
	if err := s.entries.Append(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByPatientIDs returns the entries owned by any of the given patients,
// unordered.
func (s *Service) ListByPatientIDs(ctx context.Context, ids []uuid.UUID) ([]*Entry, error) {
	var entries []*Entry
	err := apperr.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		entries, err = s.entries.ListByPatientIDs(ctx, ids)
		return err
	})
	return entries, err
}

// PatientHistory pairs a patient record with their own visit entries.
type PatientHistory struct {
	Patient *patient.PatientRecord `json:"patient"`
	History []*Entry               `json:"history"`
}

// HistoryForPatient returns a patient and their visit entries, newest first.
// Readable by both roles.
func (s *Service) HistoryForPatient(ctx context.Context, actor auth.Actor, patientID uuid.UUID) (*PatientHistory, error) {
	if !auth.Allowed(actor.Role, auth.OpReadRecords) {
		return nil, apperr.Forbidden("role %q cannot read records", actor.Role)
	}
	var p *patient.PatientRecord
	err := apperr.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.patients.GetByID(ctx, patientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	var entries []*Entry
	err = apperr.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		entries, err = s.entries.ListByPatient(ctx, patientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	SortNewestFirst(entries)
	return &PatientHistory{Patient: p, History: entries}, nil
}

// SortNewestFirst orders entries by visit date descending. Equal timestamps
// fall back to ascending id so repeated reads of the same store state come
// back in the same order.
func SortNewestFirst(entries []*Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].VisitDate.Equal(entries[j].VisitDate) {
			return entries[i].VisitDate.After(entries[j].VisitDate)
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
}
