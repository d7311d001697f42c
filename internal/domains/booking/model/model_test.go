package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodge/internal/domains/booking/model"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from model.Status
		to   model.Status
		want bool
	}{
		{name: "pending to confirmed", from: model.StatusPending, to: model.StatusConfirmed, want: true},
		{name: "pending to rejected", from: model.StatusPending, to: model.StatusRejected, want: true},
		{name: "pending to cancelled", from: model.StatusPending, to: model.StatusCancelled, want: true},
		{name: "pending to checked_in", from: model.StatusPending, to: model.StatusCheckedIn, want: false},
		{name: "confirmed to checked_in", from: model.StatusConfirmed, to: model.StatusCheckedIn, want: true},
		{name: "confirmed to cancelled", from: model.StatusConfirmed, to: model.StatusCancelled, want: true},
		{name: "confirmed to rejected", from: model.StatusConfirmed, to: model.StatusRejected, want: false},
		{name: "checked_in to checked_out", from: model.StatusCheckedIn, to: model.StatusCheckedOut, want: true},
		{name: "checked_in to cancelled", from: model.StatusCheckedIn, to: model.StatusCancelled, want: false},
		{name: "checked_out is terminal", from: model.StatusCheckedOut, to: model.StatusConfirmed, want: false},
		{name: "cancelled is terminal", from: model.StatusCancelled, to: model.StatusPending, want: false},
		{name: "rejected is terminal", from: model.StatusRejected, to: model.StatusConfirmed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_Blocks(t *testing.T) {
	assert.True(t, model.StatusPending.Blocks())
	assert.True(t, model.StatusConfirmed.Blocks())
	assert.True(t, model.StatusCheckedIn.Blocks())
	assert.False(t, model.StatusCheckedOut.Blocks())
	assert.False(t, model.StatusCancelled.Blocks())
	assert.False(t, model.StatusRejected.Blocks())
}

func TestOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		a1   time.Time
		b1   time.Time
		a2   time.Time
		b2   time.Time
		want bool
	}{
		{name: "full overlap", a1: day(1), b1: day(5), a2: day(2), b2: day(4), want: true},
		{name: "partial overlap at start", a1: day(1), b1: day(3), a2: day(2), b2: day(5), want: true},
		{name: "identical ranges", a1: day(1), b1: day(3), a2: day(1), b2: day(3), want: true},
		{name: "adjacent ranges do not overlap", a1: day(1), b1: day(3), a2: day(3), b2: day(5), want: false},
		{name: "adjacent ranges reversed", a1: day(3), b1: day(5), a2: day(1), b2: day(3), want: false},
		{name: "disjoint ranges", a1: day(1), b1: day(2), a2: day(5), b2: day(8), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Overlaps(tt.a1, tt.b1, tt.a2, tt.b2))
		})
	}
}

func TestBooking_Nights(t *testing.T) {
	booking := model.Booking{
		CheckIn:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 3, booking.Nights())
}

func TestNightsBetween_DaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}

	// The stay spans the 2026-03-08 spring-forward, so it covers 71 wall-clock
	// hours but still 3 calendar nights.
	springIn := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	springOut := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, model.NightsBetween(springIn, springOut))

	booking := model.Booking{CheckIn: springIn, CheckOut: springOut}
	assert.Equal(t, 3, booking.Nights())

	// Fall-back stretch: 73 wall-clock hours, still 3 nights.
	fallIn := time.Date(2026, 10, 31, 0, 0, 0, 0, loc)
	fallOut := time.Date(2026, 11, 3, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, model.NightsBetween(fallIn, fallOut))
}

func TestBooking_Guests(t *testing.T) {
	booking := model.Booking{Adults: 2, Children: 1}

	assert.Equal(t, 3, booking.Guests())
}

func TestBooking_OwnedBy(t *testing.T) {
	owner := "user-1"

	owned := model.Booking{UserID: &owner}
	assert.True(t, owned.OwnedBy("user-1"))
	assert.False(t, owned.OwnedBy("user-2"))

	walkIn := model.Booking{}
	assert.False(t, walkIn.OwnedBy("user-1"))
}
