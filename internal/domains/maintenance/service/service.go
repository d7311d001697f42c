package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/internal/domains/maintenance/model"
	"lodge/internal/domains/maintenance/model/dto"
	"lodge/internal/domains/maintenance/repository"
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
	cacheGetMaintenance    = "maintenance:get"
	cacheGetAllMaintenance = "maintenance:gets"
	cacheCountMaintenance  = "maintenance:count"
)

type Maintenance interface {
	Report(ctx context.Context, req dto.CreateMaintenanceRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMaintenanceResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.MaintenanceResponse, error)
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Maintenance
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Maintenance, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Maintenance {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

// Report files a maintenance request and flags the room as reported.
func (s *serviceImpl) Report(ctx context.Context, req dto.CreateMaintenanceRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Report")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.roomRepo.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !exist {
		return failure.NotFound("room not found")
	}

	if err = s.repo.Insert(ctx, req.ToModel(userID)); err != nil {
		log.Error().Err(err).Msg("failed to insert maintenance request")

		return err
	}

	roomFields := map[string]any{
		roomModel.FieldMaintenanceStatus: roomModel.MaintenanceStatusReported,
		constant.FieldModifiedAt:         timezone.Now(),
		constant.FieldModifiedBy:         user,
	}

	if err := s.roomRepo.Update(ctx, roomFields, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		log.Error().Err(err).Str("roomID", req.RoomID).Msg("failed to flag room as reported")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllMaintenance)
		shared.InvalidateCaches(c, s.cache, cacheCountMaintenance)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMaintenance, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for maintenance requests")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count maintenance requests")

		return res, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance requests")

		return res, fmt.Errorf("failed to get maintenance requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance requests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountMaintenance, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for maintenance count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count maintenance requests")

		return res, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetMaintenance, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for maintenance request")

		return res, nil
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance request")

		return res, fmt.Errorf("failed to get maintenance request: %w", err)
	}

	if request.ID == constant.Empty {
		return res, failure.NotFound("maintenance request not found")
	}

	res.FromModel(request)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance request to cache")
		}
	}()

	return res, nil
}

// Cancel withdraws an open request and returns the room to operational.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance request")

		return fmt.Errorf("failed to get maintenance request: %w", err)
	}

	if request.ID == constant.Empty {
		return failure.NotFound("maintenance request not found")
	}

	if !request.Open() {
		return failure.Conflict(fmt.Sprintf("maintenance request is already %s", request.Status))
	}

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to cancel maintenance request")

		return fmt.Errorf("failed to cancel maintenance request: %w", err)
	}

	roomFields := map[string]any{
		roomModel.FieldMaintenanceStatus: roomModel.MaintenanceStatusOperational,
		constant.FieldModifiedAt:         timezone.Now(),
		constant.FieldModifiedBy:         user,
	}

	if err := s.roomRepo.Update(ctx, roomFields, shared.FilterByID(request.RoomID, roomModel.FieldID, roomModel.TableName)); err != nil {
		log.Error().Err(err).Str("roomID", request.RoomID).Msg("failed to reset room maintenance status")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetMaintenance, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete maintenance request cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllMaintenance)
		shared.InvalidateCaches(c, s.cache, cacheCountMaintenance)
	}()

	return nil
}
