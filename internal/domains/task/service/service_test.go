package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"lodge/config"
	"lodge/infras/otel/mocks"
	"lodge/infras/postgres"
	bookingMocks "lodge/internal/domains/booking/mocks"
	bookingModel "lodge/internal/domains/booking/model"
	maintenanceMocks "lodge/internal/domains/maintenance/mocks"
	maintenanceModel "lodge/internal/domains/maintenance/model"
	roomMocks "lodge/internal/domains/room/mocks"
	roomModel "lodge/internal/domains/room/model"
	taskMocks "lodge/internal/domains/task/mocks"
	"lodge/internal/domains/task/model"
	"lodge/internal/domains/task/model/dto"
	"lodge/internal/domains/task/service"
	userMocks "lodge/internal/domains/user/mocks"
	userModel "lodge/internal/domains/user/model"
	cacheMocks "lodge/shared/cache/mocks"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/timezone"
)

type serviceMocks struct {
	repo            *taskMocks.MockTask
	assignmentRepo  *taskMocks.MockAssignment
	userRepo        *userMocks.MockUser
	bookingRepo     *bookingMocks.MockBooking
	roomRepo        *roomMocks.MockRoom
	maintenanceRepo *maintenanceMocks.MockMaintenance
	cache           *cacheMocks.MockRedisCache
	db              sqlmock.Sqlmock
}

func newService(t *testing.T) (service.Task, serviceMocks) {
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
		repo:            taskMocks.NewMockTask(ctrl),
		assignmentRepo:  taskMocks.NewMockAssignment(ctrl),
		userRepo:        userMocks.NewMockUser(ctrl),
		bookingRepo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo:        roomMocks.NewMockRoom(ctrl),
		maintenanceRepo: maintenanceMocks.NewMockMaintenance(ctrl),
		cache:           cacheMocks.NewMockRedisCache(ctrl),
		db:              dbMock,
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.assignmentRepo, m.userRepo, m.bookingRepo, m.roomRepo, m.maintenanceRepo, conn, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func staffContext(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, userID+"@example.com")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleStaff)
}

func staffMember(id, department string) userModel.User {
	return userModel.User{
		ID:         id,
		Email:      id + "@example.com",
		Role:       constant.RoleStaff,
		Department: &department,
		Active:     true,
	}
}

func arrivalBooking(id string) bookingModel.Booking {
	return bookingModel.Booking{
		ID:         id,
		RoomID:     "room-1",
		GuestName:  "Jane Doe",
		GuestEmail: "jane@example.com",
		CheckIn:    timezone.Today(),
		CheckOut:   timezone.Today().AddDate(0, 0, 3),
		Status:     bookingModel.StatusConfirmed,
		RoomType:   roomModel.TypeSingle,
	}
}

func dirtyRoom(id, number string) roomModel.Room {
	return roomModel.Room{
		ID:             id,
		Number:         number,
		Type:           roomModel.TypeSingle,
		CleaningStatus: roomModel.CleaningStatusDirty,
		IsAvailable:    true,
		Active:         true,
	}
}

// expectGenerationReads wires the read side of the daily batch: arrivals,
// departures, dirty rooms, staff pools and the busy/assigned sets.
func expectGenerationReads(m serviceMocks, arrivals, departures []bookingModel.Booking, rooms []roomModel.Room, frontDesk, housekeepers []userModel.User) {
	m.bookingRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]bookingModel.Booking, error) {
			for _, raw := range filter.Filters {
				if f, ok := raw.(gDto.Filter); ok && f.Field == bookingModel.FieldCheckIn {
					return arrivals, nil
				}
			}

			return departures, nil
		}).
		Times(2)

	m.roomRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(rooms, nil)

	m.userRepo.EXPECT().
		ActiveStaff(gomock.Any(), constant.DepartmentFrontDesk).
		Return(frontDesk, nil)

	m.userRepo.EXPECT().
		ScheduledStaff(gomock.Any(), constant.DepartmentHousekeeping, gomock.Any()).
		Return(housekeepers, nil)

	m.repo.EXPECT().
		StaffIDsWithTaskOn(gomock.Any(), gomock.Any()).
		Return(nil, nil)

	m.assignmentRepo.EXPECT().
		StaffIDsAssignedOn(gomock.Any(), gomock.Any()).
		Return(nil, nil)
}

func TestTaskService_GenerateDailyTasks(t *testing.T) {
	ctx := staffContext("admin-1")

	t.Run("creates a check-in task for today's arrival", func(t *testing.T) {
		svc, m := newService(t)

		expectGenerationReads(m,
			[]bookingModel.Booking{arrivalBooking("booking-1")},
			nil, nil,
			[]userModel.User{staffMember("fd-1", constant.DepartmentFrontDesk)},
			nil,
		)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var created []model.StaffTask
		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, task model.StaffTask) error {
				created = append(created, task)

				return nil
			})

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.GenerateDailyTasks(ctx, dto.GenerateTasksRequest{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		if assert.Len(t, created, 1) {
			task := created[0]
			assert.Equal(t, model.TypeCheckIn, task.Type)
			assert.Equal(t, "fd-1", task.AssignedTo)
			assert.Equal(t, model.StatusPending, task.Status)
			assert.Equal(t, 14, task.ScheduledAt.Hour())
			assert.Equal(t, 15, task.EstimatedDurationMinutes)
			if assert.NotNil(t, task.BookingID) {
				assert.Equal(t, "booking-1", *task.BookingID)
			}
			assert.Contains(t, string(task.Meta), "Jane Doe")
		}
	})

	t.Run("departure gets a check-out task at eleven", func(t *testing.T) {
		svc, m := newService(t)

		departure := arrivalBooking("booking-2")
		departure.Status = bookingModel.StatusCheckedIn
		departure.CheckOut = timezone.Today()

		expectGenerationReads(m,
			nil,
			[]bookingModel.Booking{departure},
			nil,
			[]userModel.User{staffMember("fd-1", constant.DepartmentFrontDesk)},
			nil,
		)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var created []model.StaffTask
		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, task model.StaffTask) error {
				created = append(created, task)

				return nil
			})

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.GenerateDailyTasks(ctx, dto.GenerateTasksRequest{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		if assert.Len(t, created, 1) {
			assert.Equal(t, model.TypeCheckOut, created[0].Type)
			assert.Equal(t, 11, created[0].ScheduledAt.Hour())
			assert.Equal(t, 10, created[0].EstimatedDurationMinutes)
		}
	})

	t.Run("dirty room gets a cleaning task and an assignment", func(t *testing.T) {
		svc, m := newService(t)

		expectGenerationReads(m,
			nil, nil,
			[]roomModel.Room{dirtyRoom("room-7", "107")},
			nil,
			[]userModel.User{staffMember("hk-1", constant.DepartmentHousekeeping)},
		)

		m.assignmentRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var created []model.StaffTask
		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, task model.StaffTask) error {
				created = append(created, task)

				return nil
			})

		var assignments []model.RoomAssignment
		m.assignmentRepo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, assignment model.RoomAssignment) error {
				assignments = append(assignments, assignment)

				return nil
			})

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.GenerateDailyTasks(ctx, dto.GenerateTasksRequest{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		if assert.Len(t, created, 1) {
			assert.Equal(t, model.TypeRoomCleaning, created[0].Type)
			assert.Equal(t, 12, created[0].ScheduledAt.Hour())
			assert.Equal(t, 45, created[0].EstimatedDurationMinutes)
		}
		if assert.Len(t, assignments, 1) {
			assert.Equal(t, "room-7", assignments[0].RoomID)
			assert.Equal(t, "hk-1", assignments[0].StaffID)
			assert.Equal(t, model.AssignmentStatusAssigned, assignments[0].Status)
			if assert.NotNil(t, assignments[0].TaskID) {
				assert.Equal(t, created[0].ID, *assignments[0].TaskID)
			}
		}
	})

	t.Run("no housekeeping staff skips cleaning but keeps the check-in task", func(t *testing.T) {
		svc, m := newService(t)

		expectGenerationReads(m,
			[]bookingModel.Booking{arrivalBooking("booking-1")},
			nil,
			[]roomModel.Room{dirtyRoom("room-7", "107")},
			[]userModel.User{staffMember("fd-1", constant.DepartmentFrontDesk)},
			nil,
		)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.assignmentRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var created []model.StaffTask
		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, task model.StaffTask) error {
				created = append(created, task)

				return nil
			})

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := svc.GenerateDailyTasks(ctx, dto.GenerateTasksRequest{})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Created)
		if assert.Len(t, created, 1) {
			assert.Equal(t, model.TypeCheckIn, created[0].Type)
		}
	})

	t.Run("existing check-in task is not duplicated", func(t *testing.T) {
		svc, m := newService(t)

		expectGenerationReads(m,
			[]bookingModel.Booking{arrivalBooking("booking-1")},
			nil, nil,
			[]userModel.User{staffMember("fd-1", constant.DepartmentFrontDesk)},
			nil,
		)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		res, err := svc.GenerateDailyTasks(ctx, dto.GenerateTasksRequest{})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Created)
	})

	t.Run("insert failure rolls back the whole batch", func(t *testing.T) {
		svc, m := newService(t)

		expectGenerationReads(m,
			[]bookingModel.Booking{arrivalBooking("booking-1")},
			nil, nil,
			[]userModel.User{staffMember("fd-1", constant.DepartmentFrontDesk)},
			nil,
		)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		m.db.ExpectBegin()
		m.db.ExpectRollback()

		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("connection reset"))

		_, err := svc.GenerateDailyTasks(ctx, dto.GenerateTasksRequest{})

		assert.Error(t, err)
	})
}

func TestTaskService_GenerateMaintenanceTasks(t *testing.T) {
	ctx := staffContext("admin-1")

	pendingRequest := func(id string, estimate *int) maintenanceModel.MaintenanceRequest {
		return maintenanceModel.MaintenanceRequest{
			ID:                   id,
			Title:                "Broken AC",
			Priority:             maintenanceModel.PriorityHigh,
			Status:               maintenanceModel.StatusPending,
			RoomID:               "room-1",
			ReportedBy:           "guest-1",
			EstimatedTimeMinutes: estimate,
		}
	}

	t.Run("assigns pending request with default duration", func(t *testing.T) {
		svc, m := newService(t)

		m.maintenanceRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]maintenanceModel.MaintenanceRequest{pendingRequest("req-1", nil)}, nil)

		m.userRepo.EXPECT().
			ActiveStaff(gomock.Any(), constant.DepartmentMaintenance).
			Return([]userModel.User{staffMember("mt-1", constant.DepartmentMaintenance)}, nil)

		m.repo.EXPECT().
			OpenCountByStaff(gomock.Any(), []string{"mt-1"}).
			Return(map[string]int{}, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var created []model.StaffTask
		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, task model.StaffTask) error {
				created = append(created, task)

				return nil
			})

		var requestFields map[string]any
		m.maintenanceRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				requestFields = fields

				return nil
			})

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		count, err := svc.GenerateMaintenanceTasks(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		if assert.Len(t, created, 1) {
			task := created[0]
			assert.Equal(t, model.TypeMaintenance, task.Type)
			assert.Equal(t, "mt-1", task.AssignedTo)
			assert.Equal(t, maintenanceModel.PriorityHigh, task.Priority)
			assert.Equal(t, 60, task.EstimatedDurationMinutes)
			if assert.NotNil(t, task.MaintenanceRequestID) {
				assert.Equal(t, "req-1", *task.MaintenanceRequestID)
			}
		}
		assert.Equal(t, maintenanceModel.StatusAssigned, requestFields[maintenanceModel.FieldStatus])
		assert.Equal(t, "mt-1", requestFields[maintenanceModel.FieldAssignedTo])
	})

	t.Run("request estimate overrides the default duration", func(t *testing.T) {
		svc, m := newService(t)

		estimate := 30

		m.maintenanceRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]maintenanceModel.MaintenanceRequest{pendingRequest("req-1", &estimate)}, nil)

		m.userRepo.EXPECT().
			ActiveStaff(gomock.Any(), constant.DepartmentMaintenance).
			Return([]userModel.User{staffMember("mt-1", constant.DepartmentMaintenance)}, nil)

		m.repo.EXPECT().
			OpenCountByStaff(gomock.Any(), gomock.Any()).
			Return(map[string]int{}, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var created []model.StaffTask
		m.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, task model.StaffTask) error {
				created = append(created, task)

				return nil
			})

		m.maintenanceRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		count, err := svc.GenerateMaintenanceTasks(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		if assert.Len(t, created, 1) {
			assert.Equal(t, 30, created[0].EstimatedDurationMinutes)
		}
	})

	t.Run("staff at capacity leaves the request pending", func(t *testing.T) {
		svc, m := newService(t)

		m.maintenanceRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]maintenanceModel.MaintenanceRequest{pendingRequest("req-1", nil)}, nil)

		m.userRepo.EXPECT().
			ActiveStaff(gomock.Any(), constant.DepartmentMaintenance).
			Return([]userModel.User{staffMember("mt-1", constant.DepartmentMaintenance)}, nil)

		m.repo.EXPECT().
			OpenCountByStaff(gomock.Any(), gomock.Any()).
			Return(map[string]int{"mt-1": 3}, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		count, err := svc.GenerateMaintenanceTasks(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("no active maintenance staff is not an error", func(t *testing.T) {
		svc, m := newService(t)

		m.maintenanceRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]maintenanceModel.MaintenanceRequest{pendingRequest("req-1", nil)}, nil)

		m.userRepo.EXPECT().
			ActiveStaff(gomock.Any(), constant.DepartmentMaintenance).
			Return(nil, nil)

		count, err := svc.GenerateMaintenanceTasks(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func assignedTask(taskType string) model.StaffTask {
	roomID := "room-1"
	bookingID := "booking-1"
	requestID := "req-1"

	return model.StaffTask{
		ID:                       "task-1",
		AssignedTo:               "staff-1",
		Type:                     taskType,
		Title:                    "Task",
		Priority:                 model.PriorityMedium,
		Status:                   model.StatusPending,
		RoomID:                   &roomID,
		BookingID:                &bookingID,
		MaintenanceRequestID:     &requestID,
		ScheduledAt:              timezone.Today().Add(14 * time.Hour),
		EstimatedDurationMinutes: 15,
	}
}

func TestTaskService_Start(t *testing.T) {
	t.Run("assignee starts a pending task", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeCheckIn), nil)

		var updatedFields map[string]any
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				updatedFields = fields

				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Start(ctx, "task-1")

		assert.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, updatedFields[model.FieldStatus])
		assert.NotNil(t, updatedFields[model.FieldStartedAt])
	})

	t.Run("someone else's task cannot be started", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-2")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeCheckIn), nil)

		err := svc.Start(ctx, "task-1")

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("an in-progress task cannot be started again", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		task := assignedTask(model.TypeCheckIn)
		task.Status = model.StatusInProgress

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(task, nil)

		err := svc.Start(ctx, "task-1")

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})
}

func TestTaskService_Complete(t *testing.T) {
	t.Run("check-in completion checks the booking in", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		startedAt := timezone.Now().Add(-20 * time.Minute)
		task := assignedTask(model.TypeCheckIn)
		task.Status = model.StatusInProgress
		task.StartedAt = &startedAt

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(task, nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var taskFields map[string]any
		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				taskFields = fields

				return nil
			})

		m.bookingRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").
			Return(bookingModel.Booking{ID: "booking-1", Status: bookingModel.StatusConfirmed}, nil)

		var bookingFields map[string]any
		m.bookingRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				bookingFields = fields

				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, taskFields[model.FieldStatus])
		assert.Equal(t, 20, taskFields[model.FieldActualDuration])
		assert.Equal(t, bookingModel.StatusCheckedIn, bookingFields[bookingModel.FieldStatus])
		assert.NotNil(t, bookingFields[bookingModel.FieldActualCheckIn])
	})

	t.Run("check-in completion against a cancelled booking is a conflict", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeCheckIn), nil)

		m.db.ExpectBegin()
		m.db.ExpectRollback()

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		// The guest cancelled after the daily batch created the task.
		m.bookingRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").
			Return(bookingModel.Booking{ID: "booking-1", Status: bookingModel.StatusCancelled}, nil)

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("check-out completion flags the room dirty", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeCheckOut), nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		var taskFields map[string]any
		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				taskFields = fields

				return nil
			})

		m.bookingRepo.EXPECT().
			GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").
			Return(bookingModel.Booking{ID: "booking-1", Status: bookingModel.StatusCheckedIn}, nil)

		m.bookingRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		var roomFields map[string]any
		m.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				roomFields = fields

				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.NoError(t, err)
		// never started, so no actual duration
		assert.NotContains(t, taskFields, model.FieldActualDuration)
		assert.Equal(t, roomModel.CleaningStatusDirty, roomFields[roomModel.FieldCleaningStatus])
	})

	t.Run("cleaning completion resets the room and closes the assignment", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeRoomCleaning), nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		var roomFields map[string]any
		m.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				roomFields = fields

				return nil
			})

		var assignmentFields map[string]any
		m.assignmentRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assignmentFields = fields

				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.NoError(t, err)
		assert.Equal(t, roomModel.CleaningStatusClean, roomFields[roomModel.FieldCleaningStatus])
		assert.NotNil(t, roomFields[roomModel.FieldLastCleanedAt])
		assert.Equal(t, model.AssignmentStatusCompleted, assignmentFields[model.AssignmentFieldStatus])
	})

	t.Run("maintenance completion closes the request with notes", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeMaintenance), nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		var requestFields map[string]any
		m.maintenanceRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				requestFields = fields

				return nil
			})

		var roomFields map[string]any
		m.roomRepo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				roomFields = fields

				return nil
			})

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		notes := "Replaced the compressor"

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{CompletionNotes: &notes})

		assert.NoError(t, err)
		assert.Equal(t, maintenanceModel.StatusCompleted, requestFields[maintenanceModel.FieldStatus])
		assert.Equal(t, notes, requestFields[maintenanceModel.FieldCompletionNotes])
		assert.Equal(t, roomModel.MaintenanceStatusOperational, roomFields[roomModel.FieldMaintenanceStatus])
	})

	t.Run("general task completes with no write-back", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeGeneral), nil)

		m.db.ExpectBegin()
		m.db.ExpectCommit()

		m.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.NoError(t, err)
	})

	t.Run("caller mismatch performs no writes", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-2")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(assignedTask(model.TypeCheckIn), nil)

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.Error(t, err)
		assert.Equal(t, 403, failure.GetCode(err))
	})

	t.Run("completing twice is a conflict", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		task := assignedTask(model.TypeCheckIn)
		task.Status = model.StatusCompleted

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(task, nil)

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("unknown task is not found", func(t *testing.T) {
		svc, m := newService(t)
		ctx := staffContext("staff-1")

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.StaffTask{}, nil)

		err := svc.Complete(ctx, "task-1", dto.CompleteTaskRequest{})

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestTaskService_GetMine(t *testing.T) {
	svc, m := newService(t)
	ctx := staffContext("staff-1")

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(1, nil)

	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.StaffTask, error) {
			found := false
			for _, raw := range filter.Filters {
				if f, ok := raw.(gDto.Filter); ok && f.Field == model.FieldAssignedTo {
					found = true
					assert.Equal(t, "staff-1", f.Value)
				}
			}
			assert.True(t, found, "expected an assignee filter")

			return []model.StaffTask{assignedTask(model.TypeCheckIn)}, nil
		})

	m.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	res, err := svc.GetMine(ctx, gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	if assert.Len(t, res.Tasks, 1) {
		assert.Equal(t, "staff-1", res.Tasks[0].AssignedTo)
	}
}
