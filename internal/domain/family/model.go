package family

import (
	"github.com/cliniq/cliniq/internal/domain/patient"
	"github.com/cliniq/cliniq/internal/domain/visit"
)

// FamilyView is a derived aggregate over everyone sharing a phone number.
// It is computed on demand and never persisted; given unchanged store state
// two computations yield identical views.
type FamilyView struct {
	PhoneNumber    string                   `json:"phone_number"`
	FamilyMembers  []*patient.PatientRecord `json:"family_members"`
	MedicalHistory []*visit.Entry           `json:"medical_history"`
	FamilySummary  FamilySummary            `json:"family_summary"`
}

// FamilySummary holds the aggregate counts for a family.
type FamilySummary struct {
	HasHistory    bool           `json:"has_history"`
	TotalVisits   int            `json:"total_visits"`
	UniqueMembers int            `json:"unique_members"`
	// ConditionCounts groups every non-empty diagnosis string, across both
	// the members' live records and all history entries, by exact
	// case-sensitive match. No normalization: "flu" and "Flu" are two
	// conditions.
	ConditionCounts map[string]int `json:"condition_counts"`
	// RelationshipCounts tallies the members' declared relationships.
	RelationshipCounts map[string]int `json:"relationship_counts"`
}
