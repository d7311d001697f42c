package model

import (
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldRoomID          = "room_id"
	FieldUserID          = "user_id"
	FieldGuestName       = "guest_name"
	FieldGuestEmail      = "guest_email"
	FieldGuestPhone      = "guest_phone"
	FieldCheckIn         = "check_in"
	FieldCheckOut        = "check_out"
	FieldAdults          = "adults"
	FieldChildren        = "children"
	FieldRoomType        = "room_type"
	FieldRoomPrice       = "room_price"
	FieldTotalAmount     = "total_amount"
	FieldStatus          = "status"
	FieldSpecialRequests = "special_requests"
	FieldBookingSource   = "booking_source"
	FieldActualCheckIn   = "actual_check_in"
	FieldActualCheckOut  = "actual_check_out"
)

const SourceDirect = "direct"

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// transitions lists every legal status change. Anything absent is rejected.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
	StatusRejected:   {},
}

// BlockingStatuses are the statuses that hold a room for their date range.
// Cancelled, rejected and checked-out bookings release their dates.
var BlockingStatuses = []string{
	string(StatusPending),
	string(StatusConfirmed),
	string(StatusCheckedIn),
}

func (s Status) Valid() bool {
	_, ok := transitions[s]

	return ok
}

// CanTransitionTo reports whether the status change is legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Blocks reports whether a booking in this status holds its room's dates.
func (s Status) Blocks() bool {
	for _, blocking := range BlockingStatuses {
		if string(s) == blocking {
			return true
		}
	}

	return false
}

// Booking snapshots the room's type and nightly price at creation time so
// later room edits never change historical bookings. Guest contact fields are
// stored even for authenticated users; the account link is optional.
type Booking struct {
	ID              string     `db:"id"`
	RoomID          string     `db:"room_id"`
	UserID          *string    `db:"user_id"`
	GuestName       string     `db:"guest_name"`
	GuestEmail      string     `db:"guest_email"`
	GuestPhone      string     `db:"guest_phone"`
	CheckIn         time.Time  `db:"check_in"`
	CheckOut        time.Time  `db:"check_out"`
	Adults          int        `db:"adults"`
	Children        int        `db:"children"`
	RoomType        string     `db:"room_type"`
	RoomPrice       float64    `db:"room_price"`
	TotalAmount     float64    `db:"total_amount"`
	Status          Status     `db:"status"`
	SpecialRequests *string    `db:"special_requests"`
	BookingSource   string     `db:"booking_source"`
	ActualCheckIn   *time.Time `db:"actual_check_in"`
	ActualCheckOut  *time.Time `db:"actual_check_out"`
	model.Metadata
}

// Guests is the total party size checked against room capacity.
func (b *Booking) Guests() int {
	return b.Adults + b.Children
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// NightsBetween counts calendar nights between two dates. Both are pinned to
// UTC midnight first so a DST transition inside the stay cannot shift the
// count.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)

	return int(out.Sub(in).Hours() / 24)
}

// OwnedBy reports whether the booking belongs to the given user account.
func (b *Booking) OwnedBy(userID string) bool {
	return b.UserID != nil && *b.UserID == userID
}

// Overlaps reports whether two half-open date ranges [a1, b1) and [a2, b2)
// intersect. Checkout day equals another booking's check-in day without
// conflict.
func Overlaps(a1, b1, a2, b2 time.Time) bool {
	return a1.Before(b2) && a2.Before(b1)
}
