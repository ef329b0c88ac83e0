package family

import (
	"context"

	"github.com/google/uuid"

	"github.com/cliniq/cliniq/internal/domain/patient"
	"github.com/cliniq/cliniq/internal/domain/visit"
	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/auth"
)

// Service computes family views. It has no store of its own; everything is
// derived from the patient registry and the visit ledger at query time.
type Service struct {
	patients patient.Repository
	visits   visit.Repository
}

// NewService creates the family aggregator.
func NewService(patients patient.Repository, visits visit.Repository) *Service {
	return &Service{patients: patients, visits: visits}
}

// FamilyHistory builds the family view for a phone number. An unknown phone
// number is a valid "new family" case and yields an empty view, not an
// error. Readable by both roles.
func (s *Service) FamilyHistory(ctx context.Context, actor auth.Actor, phoneNumber string) (*FamilyView, error) {
	if !auth.Allowed(actor.Role, auth.OpReadRecords) {
		return nil, apperr.Forbidden("role %q cannot read records", actor.Role)
	}
	if phoneNumber == "" {
		return nil, apperr.InvalidInput("phone_number is required")
	}

	var members []*patient.PatientRecord
	err := apperr.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		members, err = s.patients.ListByPhone(ctx, phoneNumber)
		return err
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	// The phone match alongside the ids pulls in history of members whose
	// patient record was deleted; their visits stay part of the family.
	var history []*visit.Entry
	err = apperr.RetryRead(ctx, func(ctx context.Context) error {
		var err error
		history, err = s.visits.ListForFamily(ctx, ids, phoneNumber)
		return err
	})
	if err != nil {
		return nil, err
	}
	visit.SortNewestFirst(history)

	// An empty family serializes as [] rather than null.
	if members == nil {
		members = []*patient.PatientRecord{}
	}
	if history == nil {
		history = []*visit.Entry{}
	}

	return &FamilyView{
		PhoneNumber:    phoneNumber,
		FamilyMembers:  members,
		MedicalHistory: history,
		FamilySummary:  summarize(members, history),
	}, nil
}

func summarize(members []*patient.PatientRecord, history []*visit.Entry) FamilySummary {
	conditions := make(map[string]int)
	relationships := make(map[string]int)
	for _, m := range members {
		if m.Diagnosis != "" {
			conditions[m.Diagnosis]++
		}
		relationships[m.Relationship]++
	}
	for _, e := range history {
		if e.Diagnosis != "" {
			conditions[e.Diagnosis]++
		}
	}
	return FamilySummary{
		HasHistory:         len(history) > 0,
		TotalVisits:        len(history),
		UniqueMembers:      len(members),
		ConditionCounts:    conditions,
		RelationshipCounts: relationships,
	}
}
