package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	kafkaMocks "lodge/infras/kafka/mocks"
	"lodge/infras/otel/mocks"
	"lodge/infras/postgres"
	bookingMocks "lodge/internal/domains/booking/mocks"
	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
	"lodge/internal/domains/booking/service"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type serviceMocks struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
	kafka    *kafkaMocks.MockClient
	db       sqlmock.Sqlmock
}

func newService(t *testing.T) (service.Booking, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open stub database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(db, "sqlmock"),
		Write: sqlx.NewDb(db, "sqlmock"),
	}

	m := serviceMocks{
		repo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		kafka:    kafkaMocks.NewMockClient(ctrl),
		db:       dbMock,
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.TopicBooking = "bookings"

	svc := service.New(m.repo, m.roomRepo, conn, cfg, m.cache, mocks.NewOtel(), m.kafka)

	return svc, m
}

func guestContext(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, userID+"@example.com")

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func bookableRoom() roomModel.Room {
	return roomModel.Room{
		ID:            "room-1",
		Number:        "101",
		Type:          roomModel.TypeSingle,
		PricePerNight: 100,
		Capacity:      2,
		IsAvailable:   true,
		Active:        true,
	}
}

func futureDate(days int) string {
	return timezone.Today().AddDate(0, 0, days).Format(constant.DateOnlyFormat)
}

func createReq(adults int) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:     "room-1",
		GuestName:  "Jane Doe",
		GuestEmail: "jane@example.com",
		CheckIn:    futureDate(7),
		CheckOut:   futureDate(10),
		Adults:     adults,
	}
}

func TestBookingService_Create(t *testing.T) {
	ctx := guestContext("guest-1", constant.RoleGuest)

	t.Run("three nights cost three times the nightly price", func(t *testing.T) {
		svc, m := newService(t)

		req := createReq(2)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		m.roomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").
			Return(bookableRoom(), nil)

		m.repo.EXPECT().
			FindOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return(nil, nil)

		var inserted model.Booking
		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				inserted = b
				return nil
			})

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.Create(ctx, req)

		assert.NoError(t, err)
		assert.Equal(t, float64(300), res.TotalAmount)
		assert.Equal(t, 3, res.Nights)
		assert.Equal(t, string(model.StatusPending), res.Status)
		assert.Equal(t, model.StatusPending, inserted.Status)
		assert.Equal(t, roomModel.TypeSingle, inserted.RoomType)
		assert.Equal(t, float64(100), inserted.RoomPrice)
		if assert.NotNil(t, inserted.UserID) {
			assert.Equal(t, "guest-1", *inserted.UserID)
		}
	})

	t.Run("overlapping booking is rejected", func(t *testing.T) {
		svc, m := newService(t)

		req := createReq(2)

		m.db.ExpectBegin()
		m.db.ExpectRollback()

		m.roomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").
			Return(bookableRoom(), nil)

		m.repo.EXPECT().
			FindOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return([]model.Booking{{ID: "existing"}}, nil)

		_, err := svc.Create(ctx, req)

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("capacity is checked before availability", func(t *testing.T) {
		svc, m := newService(t)

		req := createReq(5)

		m.db.ExpectBegin()
		m.db.ExpectRollback()

		m.roomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").
			Return(bookableRoom(), nil)

		// No FindOverlappingTx expectation: the capacity error wins.
		_, err := svc.Create(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("check-out before check-in is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		req := createReq(2)
		req.CheckIn = futureDate(10)
		req.CheckOut = futureDate(7)

		_, err := svc.Create(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("check-in in the past is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		req := createReq(2)
		req.CheckIn = timezone.Today().AddDate(0, 0, -1).Format(constant.DateOnlyFormat)
		req.CheckOut = futureDate(2)

		_, err := svc.Create(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})

	t.Run("deactivated room cannot be booked", func(t *testing.T) {
		svc, m := newService(t)

		req := createReq(2)

		room := bookableRoom()
		room.Active = false

		m.db.ExpectBegin()
		m.db.ExpectRollback()

		m.roomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "room-1").
			Return(room, nil)

		_, err := svc.Create(ctx, req)

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("unknown room returns not found", func(t *testing.T) {
		svc, m := newService(t)

		req := createReq(2)
		req.RoomID = "room-x"

		m.db.ExpectBegin()
		m.db.ExpectRollback()

		m.roomRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "room-x").
			Return(roomModel.Room{}, nil)

		_, err := svc.Create(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func pendingBooking() model.Booking {
	owner := "guest-1"

	return model.Booking{
		ID:         "booking-1",
		RoomID:     "room-1",
		UserID:     &owner,
		GuestName:  "Jane Doe",
		GuestEmail: "jane@example.com",
		CheckIn:    timezone.Today().AddDate(0, 0, 7),
		CheckOut:   timezone.Today().AddDate(0, 0, 10),
		Adults:     2,
		RoomType:   roomModel.TypeSingle,
		RoomPrice:  100,
		Status:     model.StatusPending,
		Metadata:   gModel.Metadata{CreatedBy: "jane@example.com"},
	}
}

func TestBookingService_Confirm(t *testing.T) {
	ctx := guestContext("staff-1", constant.RoleStaff)

	t.Run("pending booking is confirmed and event is published", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		var updated map[string]any
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields
				return nil
			})

		m.kafka.EXPECT().
			SendMessages(gomock.Any(), "bookings", gomock.Any()).
			Return(nil).
			AnyTimes()
		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Confirm(ctx, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, updated[model.FieldStatus])
	})

	t.Run("confirming a cancelled booking conflicts", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusCancelled

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.Confirm(ctx, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("unknown booking returns not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		err := svc.Confirm(ctx, "missing")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("guest cancels own pending booking", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("guest-1", constant.RoleGuest)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		var updated map[string]any
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields
				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Cancel(ctx, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, updated[model.FieldStatus])
	})

	t.Run("guest cannot cancel someone else's booking", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("guest-2", constant.RoleGuest)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		err := svc.Cancel(ctx, "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("cancelling twice conflicts", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("guest-1", constant.RoleGuest)

		booking := pendingBooking()
		booking.Status = model.StatusCancelled

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.Cancel(ctx, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("cancelling on the check-in day conflicts", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("guest-1", constant.RoleGuest)

		booking := pendingBooking()
		booking.CheckIn = timezone.Today()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.Cancel(ctx, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})
}

func TestBookingService_CheckInOut(t *testing.T) {
	ctx := guestContext("staff-1", constant.RoleStaff)

	t.Run("confirmed booking checks in on arrival day", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed
		booking.CheckIn = timezone.Today()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		var updated map[string]any
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				updated = fields
				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.CheckIn(ctx, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCheckedIn, updated[model.FieldStatus])
	})

	t.Run("check-in before the arrival day conflicts", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.CheckIn(ctx, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("check-out flags the room for cleaning", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusCheckedIn

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var bookingUpdate map[string]any
		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				bookingUpdate = fields
				return nil
			})

		var roomUpdate map[string]any
		m.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				roomUpdate = fields
				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.CheckOut(ctx, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCheckedOut, bookingUpdate[model.FieldStatus])
		assert.Equal(t, roomModel.CleaningStatusDirty, roomUpdate[roomModel.FieldCleaningStatus])
	})

	t.Run("check-out rolls back when flagging the room fails", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusCheckedIn

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.db.ExpectBegin()
		m.db.ExpectRollback()

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assert.AnError)

		err := svc.CheckOut(ctx, "booking-1")

		assert.Error(t, err)
	})

	t.Run("check-out requires checked-in status", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusConfirmed

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		err := svc.CheckOut(ctx, "booking-1")

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("guest cannot read someone else's booking", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("guest-2", constant.RoleGuest)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		_, err := svc.Get(ctx, "booking-1")

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("staff reads any booking", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("staff-1", constant.RoleStaff)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(pendingBooking(), nil)

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(ctx, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})
}

func TestBookingService_IsAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("free room is available", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookableRoom(), nil)

		m.repo.EXPECT().
			FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return(nil, nil)

		res, err := svc.IsAvailable(ctx, "room-1", dto.AvailabilityRequest{
			CheckIn:  futureDate(7),
			CheckOut: futureDate(10),
		})

		assert.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("booked room is not available", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(bookableRoom(), nil)

		m.repo.EXPECT().
			FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
			Return([]model.Booking{{ID: "existing"}}, nil)

		res, err := svc.IsAvailable(ctx, "room-1", dto.AvailabilityRequest{
			CheckIn:  futureDate(7),
			CheckOut: futureDate(10),
		})

		assert.NoError(t, err)
		assert.False(t, res.Available)
	})

	t.Run("unavailable room skips the overlap check", func(t *testing.T) {
		svc, m := newService(t)

		room := bookableRoom()
		room.IsAvailable = false

		m.roomRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(room, nil)

		res, err := svc.IsAvailable(ctx, "room-1", dto.AvailabilityRequest{
			CheckIn:  futureDate(7),
			CheckOut: futureDate(10),
		})

		assert.NoError(t, err)
		assert.False(t, res.Available)
	})
}

func TestBookingService_AvailableRoomTypes(t *testing.T) {
	ctx := context.Background()

	svc, m := newService(t)

	cheap := bookableRoom()
	expensive := bookableRoom()
	expensive.ID = "room-2"
	expensive.Number = "102"
	expensive.PricePerNight = 150
	expensive.Capacity = 3
	booked := bookableRoom()
	booked.ID = "room-3"
	booked.Number = "103"

	m.roomRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]roomModel.Room{cheap, expensive, booked}, nil)

	m.repo.EXPECT().
		FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
		Return(nil, nil)
	m.repo.EXPECT().
		FindOverlapping(gomock.Any(), "room-2", gomock.Any(), gomock.Any()).
		Return(nil, nil)
	m.repo.EXPECT().
		FindOverlapping(gomock.Any(), "room-3", gomock.Any(), gomock.Any()).
		Return([]model.Booking{{ID: "existing"}}, nil)

	res, err := svc.AvailableRoomTypes(ctx, dto.AvailableRoomTypesRequest{
		CheckIn:  futureDate(7),
		CheckOut: futureDate(10),
		Guests:   2,
	})

	assert.NoError(t, err)
	if assert.Len(t, res.Types, 1) {
		assert.Equal(t, roomModel.TypeSingle, res.Types[0].Type)
		assert.Equal(t, 2, res.Types[0].AvailableQty)
		assert.Equal(t, float64(100), res.Types[0].LowestPrice)
		assert.Equal(t, 3, res.Types[0].MaxCapacity)
	}
}

func TestBookingService_BookedDates(t *testing.T) {
	ctx := context.Background()

	svc, m := newService(t)

	m.roomRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil)

	first := model.Booking{
		ID:       "booking-1",
		RoomID:   "room-1",
		CheckIn:  timezone.Today().AddDate(0, 0, 1),
		CheckOut: timezone.Today().AddDate(0, 0, 3),
		Status:   model.StatusConfirmed,
	}
	// Back-to-back with the first: checkout day equals the next check-in.
	second := model.Booking{
		ID:       "booking-2",
		RoomID:   "room-1",
		CheckIn:  timezone.Today().AddDate(0, 0, 3),
		CheckOut: timezone.Today().AddDate(0, 0, 5),
		Status:   model.StatusPending,
	}
	// Entirely past the 90-day window, contributes no dates.
	distant := model.Booking{
		ID:       "booking-3",
		RoomID:   "room-1",
		CheckIn:  timezone.Today().AddDate(0, 0, 120),
		CheckOut: timezone.Today().AddDate(0, 0, 123),
		Status:   model.StatusConfirmed,
	}

	m.repo.EXPECT().
		FindOverlapping(gomock.Any(), "room-1", gomock.Any(), gomock.Any()).
		Return([]model.Booking{first, second, distant}, nil)

	res, err := svc.BookedDates(ctx, "room-1", "", "")

	assert.NoError(t, err)

	want := []string{
		timezone.Today().AddDate(0, 0, 1).Format(constant.DateOnlyFormat),
		timezone.Today().AddDate(0, 0, 2).Format(constant.DateOnlyFormat),
		timezone.Today().AddDate(0, 0, 3).Format(constant.DateOnlyFormat),
		timezone.Today().AddDate(0, 0, 4).Format(constant.DateOnlyFormat),
	}
	assert.Equal(t, want, res.Dates)
}

func TestBookingService_GetMine(t *testing.T) {
	svc, m := newService(t)
	ctx := guestContext("guest-1", constant.RoleGuest)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Booking{pendingBooking()}, nil)

	// Completed-stay count behind the loyalty tier.
	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(6, nil)

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := svc.GetMine(ctx, gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, model.LoyaltyTierSilver, res.LoyaltyTier)
	if assert.Len(t, res.Bookings, 1) {
		if assert.NotNil(t, res.Bookings[0].UserID) {
			assert.Equal(t, "guest-1", *res.Bookings[0].UserID)
		}
	}
}

func TestLoyaltyTierFor(t *testing.T) {
	assert.Equal(t, model.LoyaltyTierBronze, model.LoyaltyTierFor(0))
	assert.Equal(t, model.LoyaltyTierBronze, model.LoyaltyTierFor(4))
	assert.Equal(t, model.LoyaltyTierSilver, model.LoyaltyTierFor(5))
	assert.Equal(t, model.LoyaltyTierGold, model.LoyaltyTierFor(10))
	assert.Equal(t, model.LoyaltyTierPlatinum, model.LoyaltyTierFor(20))
	assert.Equal(t, model.LoyaltyTierPlatinum, model.LoyaltyTierFor(100))
}
