package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/kafka"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/repository"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Confirm(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id string) error
	CheckOut(ctx context.Context, id string) error
	IsAvailable(ctx context.Context, roomID string, req dto.AvailabilityRequest) (dto.AvailabilityResponse, error)
	AvailableRoomTypes(ctx context.Context, req dto.AvailableRoomTypesRequest) (dto.AvailableRoomTypesResponse, error)
	BookedDates(ctx context.Context, roomID string, from, until string) (dto.BookedDatesResponse, error)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	db       *postgres.Connection
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	kafka    kafka.Client
}

func New(repo repository.Booking, roomRepo roomRepo.Room, db *postgres.Connection, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		db:       db,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		kafka:    kafka,
	}
}

// Create books a room for the requested dates. The room row is locked for the
// duration of the transaction so two guests cannot grab the same dates.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	checkIn, checkOut, err := req.Dates()
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking dates")

		return res, failure.BadRequestFromString("invalid booking dates")
	}

	if !checkOut.After(checkIn) {
		return res, failure.BadRequestFromString("check-out must be after check-in")
	}

	if checkIn.Before(timezone.Today()) {
		return res, failure.BadRequestFromString("check-in must not be in the past")
	}

	var booking model.Booking

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, req.RoomID)
		if err != nil {
			log.Error().Err(err).Msg("failed to lock room")

			return err
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found")
		}

		if !room.Bookable() {
			return failure.Conflict("room is not available for booking")
		}

		if req.Guests() > room.Capacity {
			return failure.BadRequestFromString(fmt.Sprintf("room holds at most %d guests", room.Capacity))
		}

		overlapping, err := s.repo.FindOverlappingTx(ctx, tx, req.RoomID, checkIn, checkOut)
		if err != nil {
			log.Error().Err(err).Msg("failed to check overlapping bookings")

			return err
		}

		if len(overlapping) > 0 {
			return failure.Conflict("room is already booked for the selected dates")
		}

		booking = req.ToModel(userID, checkIn, checkOut, room.Type, room.PricePerNight)

		return s.repo.InsertTx(ctx, tx, booking)
	})
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		if role == constant.RoleGuest && (res.UserID == nil || *res.UserID != userID) {
			return dto.BookingResponse{}, failure.ResourceRestrictedError
		}

		return res, nil
	}

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return dto.BookingResponse{}, err
	}

	if role == constant.RoleGuest && !booking.OwnedBy(userID) {
		return dto.BookingResponse{}, failure.ResourceRestrictedError
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// GetMine lists the bookings of the authenticated guest, newest check-in first.
func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldUserID,
		Operator: gDto.FilterOperatorEq,
		Value:    userID,
		Table:    model.TableName,
	})

	res, err = s.GetAll(ctx, req, filter)
	if err != nil {
		return res, err
	}

	stays, err := s.repo.Count(ctx, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    userID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    string(model.StatusCheckedOut),
				Table:    model.TableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to count completed stays")

		return res, err
	}

	res.LoyaltyTier = model.LoyaltyTierFor(stays)

	return res, nil
}

// Confirm moves a pending booking to confirmed and notifies downstream
// consumers.
func (s *serviceImpl) Confirm(ctx context.Context, id string) error {
	return s.decide(ctx, id, model.StatusConfirmed)
}

// Reject declines a pending booking and releases its dates.
func (s *serviceImpl) Reject(ctx context.Context, id string) error {
	return s.decide(ctx, id, model.StatusRejected)
}

func (s *serviceImpl) decide(ctx context.Context, id string, next model.Status) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, fmt.Sprintf("%s.decide.%s", constant.OtelServiceScopeName, next))
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if err = s.transition(ctx, &booking, next, nil); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		event := dto.NewBookingEvent(booking)
		message := kafka.Message{Key: booking.ID, Value: event}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.TopicBooking, message); err != nil {
			log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to publish booking event")
		}

		s.invalidateBooking(c, booking.ID)
	}()

	return nil
}

// Cancel withdraws a booking before its check-in date. Guests may only cancel
// their own bookings.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleGuest && !booking.OwnedBy(userID) {
		return failure.ResourceRestrictedError
	}

	if booking.Status == model.StatusCancelled {
		return failure.Conflict("booking is already cancelled")
	}

	if !timezone.Today().Before(booking.CheckIn) {
		return failure.Conflict("booking can no longer be cancelled")
	}

	if err = s.transition(ctx, &booking, model.StatusCancelled, nil); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateBooking(c, booking.ID)
	}()

	return nil
}

// CheckIn marks the guest's arrival. Allowed from the check-in date onward.
func (s *serviceImpl) CheckIn(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if timezone.Today().Before(booking.CheckIn) {
		return failure.Conflict("check-in date has not arrived yet")
	}

	if err = s.transition(ctx, &booking, model.StatusCheckedIn, map[string]any{
		model.FieldActualCheckIn: timezone.Now(),
	}); err != nil {
		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateBooking(c, booking.ID)
	}()

	return nil
}

// CheckOut completes the stay and flags the room for housekeeping.
func (s *serviceImpl) CheckOut(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}

	if !booking.Status.CanTransitionTo(model.StatusCheckedOut) {
		return failure.Conflict(fmt.Sprintf("booking cannot go from %s to %s", booking.Status, model.StatusCheckedOut))
	}

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:         model.StatusCheckedOut,
		model.FieldActualCheckOut: now,
		constant.FieldModifiedAt:  now,
		constant.FieldModifiedBy:  user,
	}

	roomFields := map[string]any{
		roomModel.FieldCleaningStatus: roomModel.CleaningStatusDirty,
		constant.FieldModifiedAt:      now,
		constant.FieldModifiedBy:      user,
	}

	// The status change and the housekeeping flag land together or not at all.
	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, updatedFields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		return s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(booking.RoomID, roomModel.FieldID, roomModel.TableName))
	})
	if err != nil {
		log.Error().Err(err).Str("bookingID", booking.ID).Msg("failed to check out booking")

		return err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateBooking(c, booking.ID)
	}()

	return nil
}

func (s *serviceImpl) getBooking(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

// transition applies a legal status change, rejecting anything the lifecycle
// does not allow. Extra fields ride along in the same update.
func (s *serviceImpl) transition(ctx context.Context, booking *model.Booking, next model.Status, extra map[string]any) error {
	if !booking.Status.CanTransitionTo(next) {
		return failure.Conflict(fmt.Sprintf("booking cannot go from %s to %s", booking.Status, next))
	}

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	updatedFields := map[string]any{
		model.FieldStatus:        next,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	for field, value := range extra {
		updatedFields[field] = value
	}

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(booking.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = next

	return nil
}

func (s *serviceImpl) invalidateBooking(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
}
