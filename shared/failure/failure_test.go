package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"lodge/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusConflict,
		Message: "room is not available for the selected dates",
	}

	if f.Error() != "room is not available for the selected dates" {
		t.Errorf("unexpected error message: %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{
			name: "BadRequestFromString",
			err:  failure.BadRequestFromString("check_out must be after check_in"),
			code: http.StatusBadRequest,
		},
		{
			name: "Conflict",
			err:  failure.Conflict("booking dates overlap an existing booking"),
			code: http.StatusConflict,
		},
		{
			name: "NotFound",
			err:  failure.NotFound("booking not found"),
			code: http.StatusNotFound,
		},
		{
			name: "Unauthorized",
			err:  failure.Unauthorized("missing authorization header"),
			code: http.StatusUnauthorized,
		},
		{
			name: "Forbidden",
			err:  failure.Forbidden("task is not assigned to you"),
			code: http.StatusForbidden,
		},
		{
			name: "InternalError",
			err:  failure.InternalError(errors.New("pq: connection refused")),
			code: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestInternalError_HidesCause(t *testing.T) {
	err := failure.InternalError(errors.New("pq: relation bookings does not exist"))

	if err.Error() == "pq: relation bookings does not exist" {
		t.Error("internal error message must not leak the underlying cause")
	}
}

func TestGetCode_PlainError(t *testing.T) {
	if got := failure.GetCode(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("expected %d for plain error, got %d", http.StatusInternalServerError, got)
	}
}

func TestIsConflict(t *testing.T) {
	if !failure.IsConflict(failure.Conflict("already cancelled")) {
		t.Error("expected conflict error to be detected")
	}

	if failure.IsConflict(failure.NotFound("room not found")) {
		t.Error("not-found error must not register as conflict")
	}
}
