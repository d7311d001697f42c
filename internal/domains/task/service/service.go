package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/infras/postgres"
	bookingModel "lodge/internal/domains/booking/model"
	bookingRepo "lodge/internal/domains/booking/repository"
	maintenanceModel "lodge/internal/domains/maintenance/model"
	maintenanceRepo "lodge/internal/domains/maintenance/repository"
	roomModel "lodge/internal/domains/room/model"
	roomRepo "lodge/internal/domains/room/repository"
	"lodge/internal/domains/task/model"
	"lodge/internal/domains/task/model/dto"
	"lodge/internal/domains/task/repository"
	userRepo "lodge/internal/domains/user/repository"
	"lodge/shared"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

const (
	cacheGetTask    = "task:get"
	cacheGetAllTask = "task:gets"
	cacheCountTask  = "task:count"
)

type Task interface {
	GenerateDailyTasks(ctx context.Context, req dto.GenerateTasksRequest) (dto.GenerateTasksResponse, error)
	GenerateMaintenanceTasks(ctx context.Context) (int, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTasksResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TaskResponse, error)
	GetMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTasksResponse, error)
	Start(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, req dto.CompleteTaskRequest) error
}

type serviceImpl struct {
	repo            repository.Task
	assignmentRepo  repository.Assignment
	userRepo        userRepo.User
	bookingRepo     bookingRepo.Booking
	roomRepo        roomRepo.Room
	maintenanceRepo maintenanceRepo.Maintenance
	db              *postgres.Connection
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	repo repository.Task,
	assignmentRepo repository.Assignment,
	userRepo userRepo.User,
	bookingRepo bookingRepo.Booking,
	roomRepo roomRepo.Room,
	maintenanceRepo maintenanceRepo.Maintenance,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Task {
	return &serviceImpl{
		repo:            repo,
		assignmentRepo:  assignmentRepo,
		userRepo:        userRepo,
		bookingRepo:     bookingRepo,
		roomRepo:        roomRepo,
		maintenanceRepo: maintenanceRepo,
		db:              db,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTask, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tasks")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tasks")

		return res, fmt.Errorf("failed to count tasks: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tasks")

		return res, fmt.Errorf("failed to get tasks: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tasks to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTask, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for task count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tasks")

		return res, fmt.Errorf("failed to count tasks: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save task count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TaskResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTask, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for task")

		return res, nil
	}

	task, err := s.getTask(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(task)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save task to cache")
		}
	}()

	return res, nil
}

// GetMine lists the tasks assigned to the caller.
func (s *serviceImpl) GetMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldAssignedTo,
		Operator: gDto.FilterOperatorEq,
		Value:    userID,
		Table:    model.TableName,
	})

	return s.GetAll(ctx, req, filter)
}

// Start moves a pending task to in progress and stamps the start time. Only
// the assignee can start their own task.
func (s *serviceImpl) Start(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Start")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if task.AssignedTo != userID {
		return failure.ResourceRestrictedError
	}

	if task.Status != model.StatusPending {
		return failure.Conflict(fmt.Sprintf("task cannot be started from %s", task.Status))
	}

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusInProgress,
		model.FieldStartedAt:     timezone.Now(),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to start task")

		return fmt.Errorf("failed to start task: %w", err)
	}

	s.invalidateTask(ctx, id)

	return nil
}

// Complete finishes a task and applies the single write-back its type calls
// for. All writes share one transaction so a failed write-back leaves the task
// untouched.
func (s *serviceImpl) Complete(ctx context.Context, id string, req dto.CompleteTaskRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Complete")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	task, err := s.getTask(ctx, id)
	if err != nil {
		return err
	}

	if task.AssignedTo != userID {
		return failure.ResourceRestrictedError
	}

	if !task.Open() {
		return failure.Conflict(fmt.Sprintf("task is already %s", task.Status))
	}

	now := timezone.Now()

	updatedFields := map[string]any{
		model.FieldStatus:        model.StatusCompleted,
		model.FieldCompletedAt:   now,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if task.StartedAt != nil {
		updatedFields[model.FieldActualDuration] = int(now.Sub(*task.StartedAt).Minutes())
	}

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		return s.applyWriteBack(ctx, tx, task, req, user, now)
	})
	if err != nil {
		log.Error().Err(err).Str("taskID", id).Msg("failed to complete task")

		return err
	}

	s.invalidateTask(ctx, id)

	return nil
}

// applyWriteBack performs the one linked update a completed task's type calls
// for. Unknown types complete with no side effect.
func (s *serviceImpl) applyWriteBack(ctx context.Context, tx *sqlx.Tx, task model.StaffTask, req dto.CompleteTaskRequest, user string, now time.Time) error {
	switch task.Type {
	case model.TypeCheckIn:
		if task.BookingID == nil {
			return nil
		}

		return s.transitionBookingTx(ctx, tx, *task.BookingID, bookingModel.StatusCheckedIn, map[string]any{
			bookingModel.FieldActualCheckIn: now,
			constant.FieldModifiedAt:        now,
			constant.FieldModifiedBy:        user,
		})
	case model.TypeCheckOut:
		if task.BookingID == nil {
			return nil
		}

		if err := s.transitionBookingTx(ctx, tx, *task.BookingID, bookingModel.StatusCheckedOut, map[string]any{
			bookingModel.FieldActualCheckOut: now,
			constant.FieldModifiedAt:         now,
			constant.FieldModifiedBy:         user,
		}); err != nil {
			return err
		}

		if task.RoomID == nil {
			return nil
		}

		roomFields := map[string]any{
			roomModel.FieldCleaningStatus: roomModel.CleaningStatusDirty,
			constant.FieldModifiedAt:      now,
			constant.FieldModifiedBy:      user,
		}

		return s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(*task.RoomID, roomModel.FieldID, roomModel.TableName))
	case model.TypeRoomCleaning:
		if task.RoomID == nil {
			return nil
		}

		roomFields := map[string]any{
			roomModel.FieldCleaningStatus: roomModel.CleaningStatusClean,
			roomModel.FieldLastCleanedAt:  now,
			constant.FieldModifiedAt:      now,
			constant.FieldModifiedBy:      user,
		}

		if err := s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(*task.RoomID, roomModel.FieldID, roomModel.TableName)); err != nil {
			return err
		}

		assignmentFields := map[string]any{
			model.AssignmentFieldStatus: model.AssignmentStatusCompleted,
			constant.FieldModifiedAt:    now,
			constant.FieldModifiedBy:    user,
		}

		assignmentFilter := gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{
					Field:    model.AssignmentFieldRoomID,
					Operator: gDto.FilterOperatorEq,
					Value:    *task.RoomID,
					Table:    model.AssignmentTableName,
				},
				gDto.Filter{
					Field:    model.AssignmentFieldStaffID,
					Operator: gDto.FilterOperatorEq,
					Value:    task.AssignedTo,
					Table:    model.AssignmentTableName,
				},
				gDto.Filter{
					Field:    model.AssignmentFieldDate,
					Operator: gDto.FilterOperatorEq,
					Value:    dayOf(task.ScheduledAt),
					Table:    model.AssignmentTableName,
				},
			},
		}

		return s.assignmentRepo.UpdateTx(ctx, tx, assignmentFields, assignmentFilter)
	case model.TypeMaintenance:
		if task.MaintenanceRequestID == nil {
			return nil
		}

		requestFields := map[string]any{
			maintenanceModel.FieldStatus:      maintenanceModel.StatusCompleted,
			maintenanceModel.FieldCompletedAt: now,
			constant.FieldModifiedAt:          now,
			constant.FieldModifiedBy:          user,
		}

		if req.CompletionNotes != nil {
			requestFields[maintenanceModel.FieldCompletionNotes] = *req.CompletionNotes
		}

		if err := s.maintenanceRepo.UpdateTx(ctx, tx, requestFields, shared.FilterByID(*task.MaintenanceRequestID, maintenanceModel.FieldID, maintenanceModel.TableName)); err != nil {
			return err
		}

		if task.RoomID == nil {
			return nil
		}

		roomFields := map[string]any{
			roomModel.FieldMaintenanceStatus: roomModel.MaintenanceStatusOperational,
			constant.FieldModifiedAt:         now,
			constant.FieldModifiedBy:         user,
		}

		return s.roomRepo.UpdateTx(ctx, tx, roomFields, shared.FilterByID(*task.RoomID, roomModel.FieldID, roomModel.TableName))
	default:
		return nil
	}
}

// transitionBookingTx locks the linked booking and applies the status change
// only when the lifecycle allows it. A stale task, e.g. a check-in task whose
// booking was cancelled after the daily batch ran, fails with a conflict
// instead of overwriting the booking.
func (s *serviceImpl) transitionBookingTx(ctx context.Context, tx *sqlx.Tx, bookingID string, next bookingModel.Status, fields map[string]any) error {
	booking, err := s.bookingRepo.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}

	if booking.ID == constant.Empty {
		return failure.NotFound("booking not found")
	}

	if !booking.Status.CanTransitionTo(next) {
		return failure.Conflict(fmt.Sprintf("booking cannot go from %s to %s", booking.Status, next))
	}

	fields[bookingModel.FieldStatus] = next

	return s.bookingRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
}

func (s *serviceImpl) invalidateTask(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTask, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete task from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTask)
		shared.InvalidateCaches(c, s.cache, cacheCountTask)
	}()
}

// dayOf truncates a timestamp to midnight, matching how assignment dates are
// stored.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *serviceImpl) getTask(ctx context.Context, id string) (task model.StaffTask, err error) {
	if id == constant.Empty {
		return task, failure.NotFound("task not found")
	}

	task, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get task")

		return task, fmt.Errorf("failed to get task: %w", err)
	}

	if task.ID == constant.Empty {
		return task, failure.NotFound("task not found")
	}

	return task, nil
}
