package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	s3Mocks "lodge/infras/s3/mocks"
	roomMocks "lodge/internal/domains/room/mocks"
	"lodge/internal/domains/room/model"
	"lodge/internal/domains/room/model/dto"
	"lodge/internal/domains/room/service"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
)

func newService(t *testing.T) (service.Room, *roomMocks.MockRoom, *cacheMocks.MockRedisCache, *s3Mocks.MockS3) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := roomMocks.NewMockRoom(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(mockRepo, cfg, mockCache, mockOtel, mockS3)

	return svc, mockRepo, mockCache, mockS3
}

func TestRoomService_Create(t *testing.T) {
	validReq := dto.CreateRoomRequest{
		Number:        "101",
		Type:          model.TypeSingle,
		PricePerNight: 100,
		Capacity:      2,
	}

	tests := []struct {
		name      string
		req       dto.CreateRoomRequest
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantErr   bool
	}{
		{
			name: "successful creation",
			req:  validReq,
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				cache.EXPECT().
					Clear(gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "room number already in use",
			req:  validReq,
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr: true,
		},
		{
			name: "repository error",
			req:  validReq,
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)

				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache, _ := newService(t)
			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, "admin@lodge.dev")
			err := svc.Create(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRoomService_Create_DefaultsStatuses(t *testing.T) {
	svc, mockRepo, mockCache, _ := newService(t)

	mockRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(false, nil)

	var inserted model.Room

	mockRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m model.Room) error {
			inserted = m

			return nil
		})

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, "admin@lodge.dev")
	err := svc.Create(ctx, dto.CreateRoomRequest{
		Number:        "204",
		Type:          model.TypeDeluxe,
		PricePerNight: 180,
		Capacity:      3,
	})

	assert.NoError(t, err)
	assert.Equal(t, model.CleaningStatusClean, inserted.CleaningStatus)
	assert.Equal(t, model.MaintenanceStatusOperational, inserted.MaintenanceStatus)
	assert.True(t, inserted.IsAvailable)
	assert.True(t, inserted.Active)
	assert.Equal(t, 1, inserted.Beds)
}

func TestRoomService_Get(t *testing.T) {
	room := model.Room{
		ID:            "room-id",
		Number:        "101",
		Type:          model.TypeSingle,
		PricePerNight: 100,
		Capacity:      2,
	}

	tests := []struct {
		name      string
		id        string
		setupMock func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantID    string
	}{
		{
			name: "cache miss, found in db",
			id:   "room-id",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(room, nil)

				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantErr: false,
			wantID:  "room-id",
		},
		{
			name: "room not found",
			id:   "missing-id",
			setupMock: func(repo *roomMocks.MockRoom, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))

				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Room{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache, _ := newService(t)
			tt.setupMock(mockRepo, mockCache)

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, res.ID)
			}
		})
	}
}

func TestRoomService_GetAll(t *testing.T) {
	svc, mockRepo, mockCache, _ := newService(t)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	mockRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)

	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Room{{ID: "a", Number: "101"}, {ID: "b", Number: "102"}}, nil)

	mockCache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Len(t, res.Rooms, 2)
	assert.Equal(t, 2, res.TotalData)
}

func TestRoomService_Delete_Deactivates(t *testing.T) {
	svc, mockRepo, mockCache, _ := newService(t)

	mockRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil)

	var updated map[string]any

	mockRepo.EXPECT().
		Update(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req map[string]any, _ gDto.FilterGroup) error {
			updated = req

			return nil
		})

	mockCache.EXPECT().
		Delete(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserEmail, "admin@lodge.dev")
	err := svc.Delete(ctx, "room-id")

	assert.NoError(t, err)
	assert.Equal(t, false, updated[model.FieldActive])
	assert.Equal(t, false, updated[model.FieldIsAvailable])
}

func TestRoomService_Delete_NotFound(t *testing.T) {
	svc, mockRepo, _, _ := newService(t)

	mockRepo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(false, nil)

	err := svc.Delete(context.Background(), "missing-id")

	assert.Error(t, err)
}
