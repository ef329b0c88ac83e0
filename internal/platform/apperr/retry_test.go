package apperr

import (
	"context"
	"errors"
	"testing"
)

func TestRetryRead_SucceedsAfterTransientFault(t *testing.T) {
	calls := 0
	err := RetryRead(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return StoreFault("list patients", errors.New("transient timeout"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestRetryRead_GivesUpAfterBoundedAttempts(t *testing.T) {
	calls := 0
	err := RetryRead(context.Background(), func(ctx context.Context) error {
		calls++
		return StoreFault("list patients", errors.New("still down"))
	})
	if !errors.Is(err, ErrStoreFault) {
		t.Fatalf("expected store fault, got %v", err)
	}
	if calls != readAttempts {
		t.Errorf("expected %d calls, got %d", readAttempts, calls)
	}
}

func TestRetryRead_DoesNotRetryOtherClasses(t *testing.T) {
	for _, sentinel := range []error{ErrNotFound, ErrForbidden, ErrInvalidInput, ErrConflict, ErrInconsistent} {
		calls := 0
		err := RetryRead(context.Background(), func(ctx context.Context) error {
			calls++
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("%v: expected the error back, got %v", sentinel, err)
		}
		if calls != 1 {
			t.Errorf("%v: expected 1 call, got %d", sentinel, calls)
		}
	}
}

func TestRetryRead_StopsWaitingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryRead(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return StoreFault("list patients", errors.New("transient timeout"))
	})
	if !errors.Is(err, ErrStoreFault) {
		t.Fatalf("expected store fault, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}
