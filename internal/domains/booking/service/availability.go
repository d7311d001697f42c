package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	roomModel "lodge/internal/domains/room/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

// bookedDatesWindow caps how far ahead the booked-dates calendar looks when
// the caller does not narrow it.
const bookedDatesWindow = 90 * 24 * time.Hour

const sampleRoomsPerType = 3

// IsAvailable reports whether a room is free for every night of the requested
// range.
func (s *serviceImpl) IsAvailable(ctx context.Context, roomID string, req dto.AvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAvailable")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse availability dates")

		return res, failure.BadRequestFromString("invalid availability dates")
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check-out must be after check-in")
	}

	room, err := s.roomRepo.Get(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, err
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found")
	}

	res = dto.AvailabilityResponse{
		RoomID:   roomID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
	}

	if !room.Bookable() {
		return res, nil
	}

	overlapping, err := s.repo.FindOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return res, err
	}

	res.Available = len(overlapping) == 0

	return res, nil
}

// AvailableRoomTypes summarizes which room types still have a free room for
// the requested range and party size.
func (s *serviceImpl) AvailableRoomTypes(ctx context.Context, req dto.AvailableRoomTypesRequest) (res dto.AvailableRoomTypesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AvailableRoomTypes")
	defer scope.End()
	defer scope.TraceIfError(err)

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse availability dates")

		return res, failure.BadRequestFromString("invalid availability dates")
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check-out must be after check-in")
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    roomModel.TableName,
			},
			gDto.Filter{
				Field:    roomModel.FieldIsAvailable,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    roomModel.TableName,
			},
			gDto.Filter{
				Field:    roomModel.FieldCapacity,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    req.Guests,
				Table:    roomModel.TableName,
			},
		},
	}

	params := gDto.QueryParams{Limit: 1000, Page: 1, SortBy: roomModel.FieldNumber, SortDir: gDto.SortDirAsc}

	rooms, err := s.roomRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, err
	}

	byType := map[string]*dto.AvailableRoomTypeResponse{}

	for _, room := range rooms {
		overlapping, err := s.repo.FindOverlapping(ctx, room.ID, checkIn, checkOut)
		if err != nil {
			return res, err
		}

		if len(overlapping) > 0 {
			continue
		}

		entry, ok := byType[room.Type]
		if !ok {
			entry = &dto.AvailableRoomTypeResponse{Type: room.Type, LowestPrice: room.PricePerNight}
			byType[room.Type] = entry
		}

		entry.AvailableQty++
		if room.PricePerNight < entry.LowestPrice {
			entry.LowestPrice = room.PricePerNight
		}
		if room.Capacity > entry.MaxCapacity {
			entry.MaxCapacity = room.Capacity
		}
		if len(entry.SampleRoomIDs) < sampleRoomsPerType {
			entry.SampleRoomIDs = append(entry.SampleRoomIDs, room.ID)
		}
	}

	res = dto.AvailableRoomTypesResponse{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
		Types:    make([]dto.AvailableRoomTypeResponse, 0, len(byType)),
	}

	for _, entry := range byType {
		res.Types = append(res.Types, *entry)
	}

	sort.Slice(res.Types, func(i, j int) bool {
		return res.Types[i].Type < res.Types[j].Type
	})

	return res, nil
}

// BookedDates lists every date a room is held by a blocking booking inside
// the requested window. Empty bounds default to a 90-day window from today.
func (s *serviceImpl) BookedDates(ctx context.Context, roomID string, from, until string) (res dto.BookedDatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BookedDates")
	defer scope.End()
	defer scope.TraceIfError(err)

	windowFrom := timezone.Today()
	if from != constant.Empty {
		windowFrom, err = timezone.Parse(constant.DateOnlyFormat, from)
		if err != nil {
			return res, failure.BadRequestFromString("invalid from date")
		}
	}

	windowUntil := windowFrom.Add(bookedDatesWindow)
	if until != constant.Empty {
		windowUntil, err = timezone.Parse(constant.DateOnlyFormat, until)
		if err != nil {
			return res, failure.BadRequestFromString("invalid until date")
		}
	}

	if !windowUntil.After(windowFrom) {
		return res, failure.BadRequestFromString("until must be after from")
	}

	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, err
	}

	if !exist {
		return res, failure.NotFound("room not found")
	}

	bookings, err := s.repo.FindOverlapping(ctx, roomID, windowFrom, windowUntil)
	if err != nil {
		return res, err
	}

	res = dto.BookedDatesResponse{
		RoomID: roomID,
		Dates:  collectBookedDates(bookings, windowFrom, windowUntil),
	}

	return res, nil
}

// collectBookedDates walks each booking night by night, clamps it to the
// window and dedupes dates shared by back-to-back bookings.
func collectBookedDates(bookings []model.Booking, from, until time.Time) []string {
	seen := map[string]struct{}{}

	for _, booking := range bookings {
		if !model.Overlaps(booking.CheckIn, booking.CheckOut, from, until) {
			continue
		}

		day := booking.CheckIn
		if day.Before(from) {
			day = from
		}

		for day.Before(booking.CheckOut) && day.Before(until) {
			seen[day.Format(constant.DateOnlyFormat)] = struct{}{}
			day = day.AddDate(0, 0, 1)
		}
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}

	sort.Strings(dates)

	return dates
}
