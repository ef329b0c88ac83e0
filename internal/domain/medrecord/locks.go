package medrecord

import (
	"sync"

	"github.com/google/uuid"
)

// patientLocks serializes clinical updates per patient. Acquisition never
// blocks: a held lock means another update is in flight and the caller gets
// a conflict to retry, instead of queueing writers behind each other.
type patientLocks struct {
	mu   sync.Mutex
	held map[uuid.UUID]bool
}

func newPatientLocks() *patientLocks {
	return &patientLocks{held: make(map[uuid.UUID]bool)}
}

// tryAcquire claims the lock for a patient, reporting false when it is
// already held.
func (l *patientLocks) tryAcquire(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[id] {
		return false
	}
	l.held[id] = true
	return true
}

// release frees the lock for a patient.
func (l *patientLocks) release(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
}
