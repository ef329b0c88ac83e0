package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/auth"
)

// Service is the patient registry. It owns demographic writes and gates
// every operation through the capability table; clinical fields are written
// elsewhere, through the medical record update flow.
type Service struct {
	patients Repository
}

// NewService creates the patient registry service.
func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func validateDemographics(d Demographics) error {
	if d.Name == "" {
		return apperr.InvalidInput("name is required")
	}
	if d.Age < 0 {
		return apperr.InvalidInput("age must be non-negative, got %d", d.Age)
	}
	if d.PhoneNumber == "" {
		return apperr.InvalidInput("phone_number is required")
	}
	if d.Relationship != "" && !ValidRelationship(d.Relationship) {
		return apperr.InvalidInput("unknown relationship %q", d.Relationship)
	}
	return nil
}

// Create registers a new patient with empty clinical fields. Receptionist
// only. A missing relationship defaults to self.
func (s *Service) Create(ctx context.Context, actor auth.Actor, d Demographics) (*PatientRecord, error) {
	if !auth.Allowed(actor.Role, auth.OpWriteDemographics) {
		return nil, apperr.Forbidden("role %q cannot create patients", actor.Role)
	}
	if err := validateDemographics(d); err != nil {
		return nil, err
	}
	if d.Relationship == "" {
		d.Relationship = "self"
	}
	p := &PatientRecord{
		Name:         d.Name,
		Age:          d.Age,
		Gender:       d.Gender,
		PhoneNumber:  d.PhoneNumber,
		Relationship: d.Relationship,
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update rewrites the demographic fields only; the record's clinical fields
// are left untouched. Receptionist only.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, d Demographics) (*PatientRecord, error) {
	if !auth.Allowed(actor.Role, auth.OpWriteDemographics) {
		return nil, apperr.Forbidden("role %q cannot update patients", actor.Role)
	}
	if err := validateDemographics(d); err != nil {
		return nil, err
	}
	if d.Relationship == "" {
		d.Relationship = "self"
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = d.Name
	p.Age = d.Age
	p.Gender = d.Gender
	p.PhoneNumber = d.PhoneNumber
	p.Relationship = d.Relationship
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, id)
}

// Delete removes a patient record. Receptionist only. The patient's visit
// history is retained so the family view keeps their past visits.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if !auth.Allowed(actor.Role, auth.OpWriteDemographics) {
		return apperr.Forbidden("role %q cannot delete patients", actor.Role)
	}
	return s.patients.Delete(ctx, id)
}

// Get returns a single patient record. Readable by both roles. Transient
// store faults are retried a bounded number of times.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*PatientRecord, error) {
	if !auth.Allowed(actor.Role, auth.OpReadRecords) {
		return nil, apperr.Forbidden("role %q cannot read records", actor.Role)
	}
	var p *PatientRecord
	err := apperr.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.patients.GetByID(ctx, id)
		return err
	})
	return p, err
}

// List returns a page of patient records. Readable by both roles.
func (s *Service) List(ctx context.Context, actor auth.Actor, limit, offset int) ([]*PatientRecord, int, error) {
	if !auth.Allowed(actor.Role, auth.OpReadRecords) {
		return nil, 0, apperr.Forbidden("role %q cannot read records", actor.Role)
	}
	var (
		items []*PatientRecord
		total int
	)
	err := apperr.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		items, total, err = s.patients.List(ctx, limit, offset)
		return err
	})
	return items, total, err
}
