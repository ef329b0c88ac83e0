package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the record store operations for patient records.
// Implementations classify failures through the apperr taxonomy; no business
// logic lives below this interface.
type Repository interface {
	Create(ctx context.Context, p *PatientRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*PatientRecord, error)
	Update(ctx context.Context, p *PatientRecord) error
	UpdateClinical(ctx context.Context, id uuid.UUID, c Clinical) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*PatientRecord, int, error)
	ListByPhone(ctx context.Context, phoneNumber string) ([]*PatientRecord, error)
}
