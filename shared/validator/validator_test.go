package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/shared/validator"
)

type bookingRequest struct {
	RoomID   string `json:"room_id"   validate:"required"`
	CheckIn  string `json:"check_in"  validate:"required,dateonly"`
	CheckOut string `json:"check_out" validate:"required,dateonly"`
	Adults   int    `json:"adults"    validate:"required,min=1,max=10"`
	Children int    `json:"children"  validate:"omitempty,min=0,max=10"`
	Email    string `json:"guest_email" validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name:    "valid request",
			body:    `{"room_id":"r-1","check_in":"2025-03-01","check_out":"2025-03-04","adults":2}`,
			wantErr: false,
		},
		{
			name:    "missing room_id",
			body:    `{"check_in":"2025-03-01","check_out":"2025-03-04","adults":2}`,
			wantErr: true,
		},
		{
			name:    "malformed date",
			body:    `{"room_id":"r-1","check_in":"01/03/2025","check_out":"2025-03-04","adults":2}`,
			wantErr: true,
		},
		{
			name:    "zero adults",
			body:    `{"room_id":"r-1","check_in":"2025-03-01","check_out":"2025-03-04","adults":0}`,
			wantErr: true,
		},
		{
			name:    "too many adults",
			body:    `{"room_id":"r-1","check_in":"2025-03-01","check_out":"2025-03-04","adults":11}`,
			wantErr: true,
		},
		{
			name:    "bad email",
			body:    `{"room_id":"r-1","check_in":"2025-03-01","check_out":"2025-03-04","adults":2,"guest_email":"not-an-email"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			body:    `{"room_id":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookingRequest{}
			err := validator.Validate(strings.NewReader(tt.body), &req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("2025-03-01", "dateonly"))
	assert.Error(t, validator.ValidateVar("2025-3-1", "dateonly"))
	assert.Error(t, validator.ValidateVar("pending", "oneof=confirmed cancelled"))
	assert.NoError(t, validator.ValidateVar("confirmed", "oneof=confirmed cancelled"))
}
