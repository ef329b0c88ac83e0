package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cliniq/cliniq/internal/platform/apperr"
	"github.com/cliniq/cliniq/internal/platform/auth"
)

// =========== Mock Repository ===========

type mockRepo struct {
	store map[uuid.UUID]*PatientRecord
	fail  error
	// failOnce trips the next read exactly once, then clears.
	failOnce error
	getCalls int
}

func (m *mockRepo) readErr() error {
	if m.failOnce != nil {
		err := m.failOnce
		m.failOnce = nil
		return err
	}
	return m.fail
}

func newMockRepo() *mockRepo {
	return &mockRepo{store: make(map[uuid.UUID]*PatientRecord)}
}

func (m *mockRepo) Create(_ context.Context, p *PatientRecord) error {
	if m.fail != nil {
		return m.fail
	}
	p.ID = uuid.New()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*PatientRecord, error) {
	m.getCalls++
	if err := m.readErr(); err != nil {
		return nil, err
	}
	p, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("patient %s", id)
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *PatientRecord) error {
	if m.fail != nil {
		return m.fail
	}
	cur, ok := m.store[p.ID]
	if !ok {
		return apperr.NotFound("patient %s", p.ID)
	}
	cur.Name = p.Name
	cur.Age = p.Age
	cur.Gender = p.Gender
	cur.PhoneNumber = p.PhoneNumber
	cur.Relationship = p.Relationship
	cur.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepo) UpdateClinical(_ context.Context, id uuid.UUID, c Clinical) error {
	if m.fail != nil {
		return m.fail
	}
	cur, ok := m.store[id]
	if !ok {
		return apperr.NotFound("patient %s", id)
	}
	cur.Diagnosis = c.Diagnosis
	cur.MedicalNotes = c.MedicalNotes
	cur.Prescriptions = c.Prescriptions
	cur.LastCheckup = c.LastCheckup
	cur.NextAppointment = c.NextAppointment
	cur.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if m.fail != nil {
		return m.fail
	}
	if _, ok := m.store[id]; !ok {
		return apperr.NotFound("patient %s", id)
	}
	delete(m.store, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*PatientRecord, int, error) {
	if err := m.readErr(); err != nil {
		return nil, 0, err
	}
	var items []*PatientRecord
	for _, p := range m.store {
		cp := *p
		items = append(items, &cp)
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByPhone(_ context.Context, phone string) ([]*PatientRecord, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var items []*PatientRecord
	for _, p := range m.store {
		if p.PhoneNumber == phone {
			cp := *p
			items = append(items, &cp)
		}
	}
	return items, nil
}

var (
	receptionist = auth.Actor{ID: "u1", Name: "Front Desk", Role: auth.RoleReceptionist}
	doctor       = auth.Actor{ID: "u2", Name: "Dr. Verma", Role: auth.RoleDoctor}
)

// =========== Create ===========

func TestCreate_Receptionist(t *testing.T) {
	svc := NewService(newMockRepo())

	p, err := svc.Create(context.Background(), receptionist, Demographics{
		Name: "Asha Rao", Age: 34, Gender: "female", PhoneNumber: "555-1111",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}
	if p.Relationship != "self" {
		t.Errorf("expected relationship to default to self, got %q", p.Relationship)
	}
	if p.Diagnosis != "" || p.MedicalNotes != "" || p.Prescriptions != "" {
		t.Error("expected empty clinical fields on a new record")
	}
}

func TestCreate_DoctorForbidden(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), doctor, Demographics{
		Name: "Asha Rao", Age: 34, PhoneNumber: "555-1111",
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())

	tests := []struct {
		name string
		d    Demographics
	}{
		{"empty name", Demographics{Age: 30, PhoneNumber: "555-1111"}},
		{"negative age", Demographics{Name: "A", Age: -1, PhoneNumber: "555-1111"}},
		{"empty phone", Demographics{Name: "A", Age: 30}},
		{"unknown relationship", Demographics{Name: "A", Age: 30, PhoneNumber: "555-1111", Relationship: "cousin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), receptionist, tt.d); !errors.Is(err, apperr.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCreate_ZeroAgeIsValid(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Create(context.Background(), receptionist, Demographics{
		Name: "Newborn", Age: 0, PhoneNumber: "555-1111", Relationship: "daughter",
	}); err != nil {
		t.Errorf("age 0 should be accepted: %v", err)
	}
}

// =========== Update ===========

func TestUpdate_DemographicsOnly(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), receptionist, Demographics{
		Name: "Asha Rao", Age: 34, PhoneNumber: "555-1111",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.store[p.ID].Diagnosis = "Flu"

	updated, err := svc.Update(context.Background(), receptionist, p.ID, Demographics{
		Name: "Asha R. Rao", Age: 35, Gender: "female", PhoneNumber: "555-2222", Relationship: "mother",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Asha R. Rao" || updated.Age != 35 || updated.PhoneNumber != "555-2222" {
		t.Errorf("demographics not applied: %+v", updated)
	}
	if updated.Diagnosis != "Flu" {
		t.Errorf("clinical fields must survive a demographic update, diagnosis = %q", updated.Diagnosis)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Update(context.Background(), receptionist, uuid.New(), Demographics{
		Name: "A", Age: 1, PhoneNumber: "555-1111",
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_DoctorForbidden(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Update(context.Background(), doctor, uuid.New(), Demographics{
		Name: "A", Age: 1, PhoneNumber: "555-1111",
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

// =========== Delete ===========

func TestDelete_Receptionist(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), receptionist, Demographics{
		Name: "Asha Rao", Age: 34, PhoneNumber: "555-1111",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), receptionist, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.store[p.ID]; ok {
		t.Error("record still present after delete")
	}
}

func TestDelete_DoctorForbidden(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Delete(context.Background(), doctor, uuid.New()); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	if err := svc.Delete(context.Background(), receptionist, uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// =========== Reads ===========

func TestGet_BothRoles(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), receptionist, Demographics{
		Name: "Asha Rao", Age: 34, PhoneNumber: "555-1111",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, actor := range []auth.Actor{receptionist, doctor} {
		if _, err := svc.Get(context.Background(), actor, p.ID); err != nil {
			t.Errorf("role %s: unexpected error %v", actor.Role, err)
		}
	}
}

func TestGet_UnknownRoleForbidden(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Get(context.Background(), auth.Actor{Role: "janitor"}, uuid.New())
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestGet_RetriesTransientStoreFault(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p, err := svc.Create(context.Background(), receptionist, Demographics{Name: "Asha", Age: 30, PhoneNumber: "555-1111"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	repo.getCalls = 0
	repo.failOnce = apperr.StoreFault("get patient", errors.New("transient timeout"))

	got, err := svc.Get(context.Background(), doctor, p.ID)
	if err != nil {
		t.Fatalf("a single transient fault must be absorbed, got %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("expected patient %s, got %s", p.ID, got.ID)
	}
	if repo.getCalls != 2 {
		t.Errorf("expected the faulted read to be retried once, got %d calls", repo.getCalls)
	}
}

func TestList_PersistentStoreFaultSurfaces(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	repo.fail = apperr.StoreFault("list patients", errors.New("store down"))

	_, _, err := svc.List(context.Background(), doctor, 10, 0)
	if !errors.Is(err, apperr.ErrStoreFault) {
		t.Errorf("expected ErrStoreFault, got %v", err)
	}
}

func TestList(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), receptionist, Demographics{
			Name: "P", Age: 20 + i, PhoneNumber: "555-1111",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	items, total, err := svc.List(context.Background(), doctor, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Errorf("expected 3 patients, got total=%d len=%d", total, len(items))
	}
}
