package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	maintenanceMocks "lodge/internal/domains/maintenance/mocks"
	"lodge/internal/domains/maintenance/model"
	"lodge/internal/domains/maintenance/model/dto"
	"lodge/internal/domains/maintenance/service"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
)

type serviceMocks struct {
	repo     *maintenanceMocks.MockMaintenance
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Maintenance, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:     maintenanceMocks.NewMockMaintenance(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.roomRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func guestContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, userID+"@example.com")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleGuest)
}

func reportReq() dto.CreateMaintenanceRequest {
	return dto.CreateMaintenanceRequest{
		Title:  "Leaking faucet",
		RoomID: "room-1",
	}
}

func openRequest() model.MaintenanceRequest {
	return model.MaintenanceRequest{
		ID:         "req-1",
		Title:      "Leaking faucet",
		Priority:   model.PriorityMedium,
		Status:     model.StatusPending,
		RoomID:     "room-1",
		ReportedBy: "guest-1",
	}
}

func TestMaintenanceService_Report(t *testing.T) {
	ctx := guestContext("guest-1")

	t.Run("files a pending request and flags the room", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		var inserted model.MaintenanceRequest
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, mod model.MaintenanceRequest) error {
				inserted = mod

				return nil
			})

		var roomFields map[string]any
		m.roomRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				roomFields = fields

				return nil
			})

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Report(ctx, reportReq())

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, inserted.Status)
		assert.Equal(t, model.PriorityMedium, inserted.Priority)
		assert.Equal(t, "guest-1", inserted.ReportedBy)
		assert.Equal(t, roomModel.MaintenanceStatusReported, roomFields[roomModel.FieldMaintenanceStatus])
	})

	t.Run("unknown room is rejected", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Report(ctx, reportReq())

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})

	t.Run("request survives a failed room flag", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.roomRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("deadlock detected"))

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Report(ctx, reportReq())

		assert.NoError(t, err)
	})
}

func TestMaintenanceService_Cancel(t *testing.T) {
	ctx := guestContext("guest-1")

	t.Run("withdraws an open request and resets the room", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(openRequest(), nil)

		var updatedFields map[string]any
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				updatedFields = fields

				return nil
			})

		var roomFields map[string]any
		m.roomRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				roomFields = fields

				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Cancel(ctx, "req-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, updatedFields[model.FieldStatus])
		assert.Equal(t, roomModel.MaintenanceStatusOperational, roomFields[roomModel.FieldMaintenanceStatus])
	})

	t.Run("a completed request cannot be cancelled", func(t *testing.T) {
		svc, m := newService(t)

		request := openRequest()
		request.Status = model.StatusCompleted

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(request, nil)

		err := svc.Cancel(ctx, "req-1")

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("unknown request is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.MaintenanceRequest{}, nil)

		err := svc.Cancel(ctx, "req-1")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestMaintenanceService_Get(t *testing.T) {
	t.Run("cache miss falls back to the repository", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("guest-1")

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(openRequest(), nil)

		m.cache.EXPECT().
			Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil).
			AnyTimes()

		res, err := svc.Get(ctx, "req-1")

		assert.NoError(t, err)
		assert.Equal(t, "req-1", res.ID)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("unknown request is not found", func(t *testing.T) {
		svc, m := newService(t)
		ctx := guestContext("guest-1")

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.MaintenanceRequest{}, nil)

		_, err := svc.Get(ctx, "req-1")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}
