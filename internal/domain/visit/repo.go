package visit

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the ledger's store interface: append and query only. There
// is deliberately no update or delete; the append-only contract is the
// system's auditability guarantee.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Entry, error)
	// ListByPatientIDs returns entries owned by any of the given patients,
	// unordered. Ordering is the caller's responsibility.
	ListByPatientIDs(ctx context.Context, ids []uuid.UUID) ([]*Entry, error)
	// ListForFamily returns entries owned by any of the given patients or
	// whose captured phone number matches, unordered. The phone match pulls
	// in visits of family members whose patient record has since been
	// deleted.
	ListForFamily(ctx context.Context, ids []uuid.UUID, phoneNumber string) ([]*Entry, error)
}
