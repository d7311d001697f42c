package dto

import (
	"time"

	"github.com/google/uuid"

	"lodge/internal/domains/booking/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type CreateBookingRequest struct {
	RoomID          string  `json:"room_id"                    validate:"required,uuid"`
	GuestName       string  `json:"guest_name"                 validate:"required,max=100"`
	GuestEmail      string  `json:"guest_email"                validate:"required,email"`
	GuestPhone      string  `json:"guest_phone"                validate:"omitempty,max=20"`
	CheckIn         string  `json:"check_in"                   validate:"required,dateonly"`
	CheckOut        string  `json:"check_out"                  validate:"required,dateonly"`
	Adults          int     `json:"adults"                     validate:"required,min=1,max=10"`
	Children        int     `json:"children"                   validate:"omitempty,min=0,max=10"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
	BookingSource   string  `json:"booking_source"             validate:"omitempty,max=50"`
}

// Dates parses the check-in and check-out dates in the application timezone.
func (c *CreateBookingRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(constant.DateOnlyFormat, c.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.Parse(constant.DateOnlyFormat, c.CheckOut)

	return checkIn, checkOut, err
}

// Guests is the total party size checked against room capacity.
func (c *CreateBookingRequest) Guests() int {
	return c.Adults + c.Children
}

// ToModel builds a pending booking. The room's type and nightly price are
// snapshotted so later room edits do not affect it.
func (c *CreateBookingRequest) ToModel(userID string, checkIn, checkOut time.Time, roomType string, roomPrice float64) model.Booking {
	nights := model.NightsBetween(checkIn, checkOut)

	source := c.BookingSource
	if source == constant.Empty {
		source = model.SourceDirect
	}

	var owner *string
	if userID != constant.Empty {
		owner = &userID
	}

	return model.Booking{
		ID:              uuid.NewString(),
		RoomID:          c.RoomID,
		UserID:          owner,
		GuestName:       c.GuestName,
		GuestEmail:      c.GuestEmail,
		GuestPhone:      c.GuestPhone,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          c.Adults,
		Children:        c.Children,
		RoomType:        roomType,
		RoomPrice:       roomPrice,
		TotalAmount:     float64(nights) * roomPrice,
		Status:          model.StatusPending,
		SpecialRequests: c.SpecialRequests,
		BookingSource:   source,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  c.GuestEmail,
			ModifiedBy: c.GuestEmail,
		},
	}
}

type BookingResponse struct {
	ID              string  `json:"id"`
	RoomID          string  `json:"room_id"`
	UserID          *string `json:"user_id,omitempty"`
	GuestName       string  `json:"guest_name"`
	GuestEmail      string  `json:"guest_email"`
	GuestPhone      string  `json:"guest_phone,omitempty"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Nights          int     `json:"nights"`
	Adults          int     `json:"adults"`
	Children        int     `json:"children"`
	RoomType        string  `json:"room_type"`
	RoomPrice       float64 `json:"room_price"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	SpecialRequests *string `json:"special_requests,omitempty"`
	BookingSource   string  `json:"booking_source"`
	ActualCheckIn   *string `json:"actual_check_in,omitempty"`
	ActualCheckOut  *string `json:"actual_check_out,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.UserID = mod.UserID
	r.GuestName = mod.GuestName
	r.GuestEmail = mod.GuestEmail
	r.GuestPhone = mod.GuestPhone
	r.CheckIn = mod.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = mod.CheckOut.Format(constant.DateOnlyFormat)
	r.Nights = mod.Nights()
	r.Adults = mod.Adults
	r.Children = mod.Children
	r.RoomType = mod.RoomType
	r.RoomPrice = mod.RoomPrice
	r.TotalAmount = mod.TotalAmount
	r.Status = string(mod.Status)
	r.SpecialRequests = mod.SpecialRequests
	r.BookingSource = mod.BookingSource

	if mod.ActualCheckIn != nil {
		formatted := timezone.Format(*mod.ActualCheckIn, constant.DateFormat)
		r.ActualCheckIn = &formatted
	}

	if mod.ActualCheckOut != nil {
		formatted := timezone.Format(*mod.ActualCheckOut, constant.DateFormat)
		r.ActualCheckOut = &formatted
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings    []BookingResponse `json:"bookings"`
	TotalPage   int               `json:"total_page"`
	TotalData   int               `json:"total_data"`
	LoyaltyTier string            `json:"loyalty_tier,omitempty"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type AvailabilityRequest struct {
	CheckIn  string `json:"check_in"  validate:"required,dateonly"`
	CheckOut string `json:"check_out" validate:"required,dateonly"`
}

// Dates parses the requested range in the application timezone.
func (a *AvailabilityRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(constant.DateOnlyFormat, a.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.Parse(constant.DateOnlyFormat, a.CheckOut)

	return checkIn, checkOut, err
}

type AvailableRoomTypesRequest struct {
	CheckIn  string `json:"check_in"  validate:"required,dateonly"`
	CheckOut string `json:"check_out" validate:"required,dateonly"`
	Guests   int    `json:"guests"    validate:"required,min=1"`
}

func (a *AvailableRoomTypesRequest) Dates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = timezone.Parse(constant.DateOnlyFormat, a.CheckIn)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.Parse(constant.DateOnlyFormat, a.CheckOut)

	return checkIn, checkOut, err
}

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Available bool   `json:"available"`
}

type AvailableRoomTypeResponse struct {
	Type          string   `json:"type"`
	AvailableQty  int      `json:"available_qty"`
	LowestPrice   float64  `json:"lowest_price"`
	MaxCapacity   int      `json:"max_capacity"`
	SampleRoomIDs []string `json:"sample_room_ids,omitempty"`
}

type AvailableRoomTypesResponse struct {
	CheckIn  string                      `json:"check_in"`
	CheckOut string                      `json:"check_out"`
	Guests   int                         `json:"guests"`
	Types    []AvailableRoomTypeResponse `json:"types"`
}

type BookedDatesResponse struct {
	RoomID string   `json:"room_id"`
	Dates  []string `json:"dates"`
}

// BookingDecisionEvent is published to Kafka when staff confirm or reject a
// booking. Downstream consumers handle guest notification.
type BookingDecisionEvent struct {
	BookingID   string  `json:"booking_id"`
	RoomID      string  `json:"room_id"`
	GuestName   string  `json:"guest_name"`
	GuestEmail  string  `json:"guest_email"`
	Status      string  `json:"status"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	TotalAmount float64 `json:"total_amount"`
	OccurredAt  string  `json:"occurred_at"`
}

func NewBookingEvent(mod model.Booking) BookingDecisionEvent {
	return BookingDecisionEvent{
		BookingID:   mod.ID,
		RoomID:      mod.RoomID,
		GuestName:   mod.GuestName,
		GuestEmail:  mod.GuestEmail,
		Status:      string(mod.Status),
		CheckIn:     mod.CheckIn.Format(constant.DateOnlyFormat),
		CheckOut:    mod.CheckOut.Format(constant.DateOnlyFormat),
		TotalAmount: mod.TotalAmount,
		OccurredAt:  timezone.Format(timezone.Now(), constant.DateFormat),
	}
}
