package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{ErrForbidden, ErrInvalidInput, ErrNotFound, ErrConflict, ErrStoreFault, ErrInconsistent}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should not match %v", a, b)
			}
		}
	}
}

func TestWrappersPreserveSentinel(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{Forbidden("role %q cannot delete", "doctor"), ErrForbidden},
		{InvalidInput("age must be non-negative"), ErrInvalidInput},
		{NotFound("patient %s", "abc"), ErrNotFound},
		{StoreFault("query patients", errors.New("connection refused")), ErrStoreFault},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.sentinel) {
			t.Errorf("%v should wrap %v", tc.err, tc.sentinel)
		}
	}
}

func TestStoreFaultKeepsCause(t *testing.T) {
	err := StoreFault("append history", errors.New("timeout"))
	if got := err.Error(); got != "append history: timeout: store fault" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrForbidden, http.StatusForbidden},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrStoreFault, http.StatusServiceUnavailable},
		{ErrInconsistent, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
		{fmt.Errorf("update patient: %w", ErrNotFound), http.StatusNotFound},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestToHTTP(t *testing.T) {
	httpErr := ToHTTP(NotFound("patient xyz"))
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", httpErr.Code)
	}
}
