package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/rs/zerolog/log"

	bookingModel "lodge/internal/domains/booking/model"
	maintenanceModel "lodge/internal/domains/maintenance/model"
	roomModel "lodge/internal/domains/room/model"
	"lodge/internal/domains/task/model"
	"lodge/internal/domains/task/model/dto"
	userModel "lodge/internal/domains/user/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

const (
	checkInHour            = 14
	checkInEstimateMinutes = 15

	checkOutHour            = 11
	checkOutEstimateMinutes = 10

	cleaningHour            = 12
	cleaningEstimateMinutes = 45

	maintenanceDefaultMinutes = 60
	maxOpenTasksPerStaff      = 3

	generationBatchLimit = 1000
)

// GenerateDailyTasks creates the check-in, check-out and cleaning tasks for
// one operational day. The batch is atomic: any hard failure rolls back every
// task created so far. Bookings or rooms with no eligible staff are skipped,
// not failed.
func (s *serviceImpl) GenerateDailyTasks(ctx context.Context, req dto.GenerateTasksRequest) (res dto.GenerateTasksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GenerateDailyTasks")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	date, err := req.TargetDate()
	if err != nil {
		return res, failure.BadRequestFromString("invalid generation date")
	}

	date = dayOf(date)

	arrivals, err := s.bookingsOn(ctx, bookingModel.StatusConfirmed, bookingModel.FieldCheckIn, date)
	if err != nil {
		return res, err
	}

	departures, err := s.bookingsOn(ctx, bookingModel.StatusCheckedIn, bookingModel.FieldCheckOut, date)
	if err != nil {
		return res, err
	}

	dirtyRooms, err := s.dirtyRooms(ctx)
	if err != nil {
		return res, err
	}

	frontDesk, err := s.userRepo.ActiveStaff(ctx, constant.DepartmentFrontDesk)
	if err != nil {
		log.Error().Err(err).Msg("failed to get front desk staff")

		return res, fmt.Errorf("failed to get front desk staff: %w", err)
	}

	housekeepers, err := s.userRepo.ScheduledStaff(ctx, constant.DepartmentHousekeeping, date)
	if err != nil {
		log.Error().Err(err).Msg("failed to get housekeeping staff")

		return res, fmt.Errorf("failed to get housekeeping staff: %w", err)
	}

	busyIDs, err := s.repo.StaffIDsWithTaskOn(ctx, date)
	if err != nil {
		return res, err
	}

	assignedIDs, err := s.assignmentRepo.StaffIDsAssignedOn(ctx, date)
	if err != nil {
		return res, err
	}

	busy := toSet(busyIDs)
	assigned := toSet(assignedIDs)

	created := 0

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, booking := range arrivals {
			exists, err := s.bookingTaskExists(ctx, booking.ID, model.TypeCheckIn)
			if err != nil {
				return err
			}

			if exists {
				continue
			}

			staff, ok := pickStaff(frontDesk, busy)
			if !ok {
				log.Info().Str("bookingID", booking.ID).Msg("no eligible front desk staff for check-in task")

				continue
			}

			busy[staff.ID] = struct{}{}

			if err := s.repo.InsertTx(ctx, tx, buildBookingTask(booking, staff.ID, model.TypeCheckIn, date, user)); err != nil {
				return err
			}

			created++
		}

		for _, booking := range departures {
			exists, err := s.bookingTaskExists(ctx, booking.ID, model.TypeCheckOut)
			if err != nil {
				return err
			}

			if exists {
				continue
			}

			staff, ok := pickStaff(frontDesk, busy)
			if !ok {
				log.Info().Str("bookingID", booking.ID).Msg("no eligible front desk staff for check-out task")

				continue
			}

			busy[staff.ID] = struct{}{}

			if err := s.repo.InsertTx(ctx, tx, buildBookingTask(booking, staff.ID, model.TypeCheckOut, date, user)); err != nil {
				return err
			}

			created++
		}

		for _, room := range dirtyRooms {
			planned, err := s.cleaningPlanned(ctx, room.ID, date)
			if err != nil {
				return err
			}

			if planned {
				continue
			}

			staff, ok := pickStaff(housekeepers, assigned)
			if !ok {
				log.Info().Str("roomID", room.ID).Msg("no eligible housekeeping staff for cleaning task")

				continue
			}

			assigned[staff.ID] = struct{}{}

			task := buildCleaningTask(room, staff.ID, date, user)
			if err := s.repo.InsertTx(ctx, tx, task); err != nil {
				return err
			}

			assignment := model.RoomAssignment{
				ID:      uuid.NewString(),
				RoomID:  room.ID,
				StaffID: staff.ID,
				Date:    date,
				Status:  model.AssignmentStatusAssigned,
				TaskID:  &task.ID,
				Metadata: gModel.Metadata{
					CreatedAt:  timezone.Now(),
					ModifiedAt: timezone.Now(),
					CreatedBy:  user,
					ModifiedBy: user,
				},
			}

			if err := s.assignmentRepo.InsertTx(ctx, tx, assignment); err != nil {
				return err
			}

			created++
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("date", timezone.Format(date, constant.DateOnlyFormat)).Msg("failed to generate daily tasks")

		return res, err
	}

	if created > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, cacheGetAllTask)
			shared.InvalidateCaches(c, s.cache, cacheCountTask)
		}()
	}

	res = dto.GenerateTasksResponse{
		Date:    timezone.Format(date, constant.DateOnlyFormat),
		Created: created,
	}

	return res, nil
}

// GenerateMaintenanceTasks assigns every pending, unassigned maintenance
// request to a maintenance staff member with capacity. Requests with no
// eligible staff stay pending for the next run.
func (s *serviceImpl) GenerateMaintenanceTasks(ctx context.Context) (created int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GenerateMaintenanceTasks")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    maintenanceModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    maintenanceModel.StatusPending,
				Table:    maintenanceModel.TableName,
			},
			gDto.Filter{
				Field:    maintenanceModel.FieldAssignedTo,
				Operator: gDto.FilterIsNull,
				Table:    maintenanceModel.TableName,
			},
		},
	}

	params := gDto.QueryParams{Limit: generationBatchLimit, Page: 1, SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	requests, err := s.maintenanceRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get pending maintenance requests")

		return 0, fmt.Errorf("failed to get pending maintenance requests: %w", err)
	}

	if len(requests) == 0 {
		return 0, nil
	}

	staff, err := s.userRepo.ActiveStaff(ctx, constant.DepartmentMaintenance)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance staff")

		return 0, fmt.Errorf("failed to get maintenance staff: %w", err)
	}

	if len(staff) == 0 {
		log.Info().Msg("no active maintenance staff, leaving requests pending")

		return 0, nil
	}

	staffIDs := make([]string, len(staff))
	for i, member := range staff {
		staffIDs[i] = member.ID
	}

	openCounts, err := s.repo.OpenCountByStaff(ctx, staffIDs)
	if err != nil {
		return 0, err
	}

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, request := range requests {
			candidate, ok := pickMaintenanceStaff(staff, openCounts)
			if !ok {
				log.Info().Str("requestID", request.ID).Msg("no eligible maintenance staff for request")

				continue
			}

			openCounts[candidate.ID]++

			if err := s.repo.InsertTx(ctx, tx, buildMaintenanceTask(request, candidate.ID, user)); err != nil {
				return err
			}

			requestFields := map[string]any{
				maintenanceModel.FieldStatus:     maintenanceModel.StatusAssigned,
				maintenanceModel.FieldAssignedTo: candidate.ID,
				constant.FieldModifiedAt:         timezone.Now(),
				constant.FieldModifiedBy:         user,
			}

			if err := s.maintenanceRepo.UpdateTx(ctx, tx, requestFields, shared.FilterByID(request.ID, maintenanceModel.FieldID, maintenanceModel.TableName)); err != nil {
				return err
			}

			created++
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to generate maintenance tasks")

		return 0, err
	}

	if created > 0 {
		go func() {
			c := context.WithoutCancel(ctx)

			shared.InvalidateCaches(c, s.cache, cacheGetAllTask)
			shared.InvalidateCaches(c, s.cache, cacheCountTask)
		}()
	}

	return created, nil
}

func (s *serviceImpl) bookingsOn(ctx context.Context, status bookingModel.Status, dateField string, date time.Time) ([]bookingModel.Booking, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    string(status),
				Table:    bookingModel.TableName,
			},
			gDto.Filter{
				Field:    dateField,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    bookingModel.TableName,
			},
		},
	}

	params := gDto.QueryParams{Limit: generationBatchLimit, Page: 1, SortBy: bookingModel.FieldID, SortDir: gDto.SortDirAsc}

	bookings, err := s.bookingRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("dateField", dateField).Msg("failed to get bookings for task generation")

		return nil, fmt.Errorf("failed to get bookings for task generation: %w", err)
	}

	return bookings, nil
}

func (s *serviceImpl) dirtyRooms(ctx context.Context) ([]roomModel.Room, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    roomModel.FieldActive,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    roomModel.TableName,
			},
			gDto.Filter{
				Field:    roomModel.FieldCleaningStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    roomModel.CleaningStatusDirty,
				Table:    roomModel.TableName,
			},
		},
	}

	params := gDto.QueryParams{Limit: generationBatchLimit, Page: 1, SortBy: roomModel.FieldNumber, SortDir: gDto.SortDirAsc}

	rooms, err := s.roomRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get dirty rooms")

		return nil, fmt.Errorf("failed to get dirty rooms: %w", err)
	}

	return rooms, nil
}

func (s *serviceImpl) bookingTaskExists(ctx context.Context, bookingID, taskType string) (bool, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingID,
				Operator: gDto.FilterOperatorEq,
				Value:    bookingID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldType,
				Operator: gDto.FilterOperatorEq,
				Value:    taskType,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("bookingID", bookingID).Msg("failed to check existing task")

		return false, fmt.Errorf("failed to check existing task: %w", err)
	}

	return exists, nil
}

func (s *serviceImpl) cleaningPlanned(ctx context.Context, roomID string, date time.Time) (bool, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.AssignmentFieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.AssignmentTableName,
			},
			gDto.Filter{
				Field:    model.AssignmentFieldDate,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    model.AssignmentTableName,
			},
			gDto.Filter{
				Field:    model.AssignmentFieldStatus,
				Operator: gDto.FilterOperatorEq,
				Value:    model.AssignmentStatusAssigned,
				Table:    model.AssignmentTableName,
			},
		},
	}

	exists, err := s.assignmentRepo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("roomID", roomID).Msg("failed to check existing room assignment")

		return false, fmt.Errorf("failed to check existing room assignment: %w", err)
	}

	return exists, nil
}

func buildBookingTask(booking bookingModel.Booking, staffID, taskType string, date time.Time, user string) model.StaffTask {
	hour, estimate := checkInHour, checkInEstimateMinutes
	title := fmt.Sprintf("Check-in for %s", booking.GuestName)

	if taskType == model.TypeCheckOut {
		hour, estimate = checkOutHour, checkOutEstimateMinutes
		title = fmt.Sprintf("Check-out for %s", booking.GuestName)
	}

	meta, _ := json.Marshal(map[string]any{
		"guest_name":  booking.GuestName,
		"guest_email": booking.GuestEmail,
		"guest_phone": booking.GuestPhone,
		"room_id":     booking.RoomID,
		"room_type":   booking.RoomType,
	})

	roomID := booking.RoomID
	bookingID := booking.ID

	return model.StaffTask{
		ID:                       uuid.NewString(),
		AssignedTo:               staffID,
		Type:                     taskType,
		Title:                    title,
		Priority:                 model.PriorityMedium,
		Status:                   model.StatusPending,
		RoomID:                   &roomID,
		BookingID:                &bookingID,
		ScheduledAt:              at(date, hour),
		EstimatedDurationMinutes: estimate,
		Meta:                     types.JSONText(meta),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func buildCleaningTask(room roomModel.Room, staffID string, date time.Time, user string) model.StaffTask {
	meta, _ := json.Marshal(map[string]any{
		"room_id":     room.ID,
		"room_number": room.Number,
		"room_type":   room.Type,
		"floor":       room.Floor,
	})

	roomID := room.ID

	return model.StaffTask{
		ID:                       uuid.NewString(),
		AssignedTo:               staffID,
		Type:                     model.TypeRoomCleaning,
		Title:                    fmt.Sprintf("Clean room %s", room.Number),
		Priority:                 model.PriorityMedium,
		Status:                   model.StatusPending,
		RoomID:                   &roomID,
		ScheduledAt:              at(date, cleaningHour),
		EstimatedDurationMinutes: cleaningEstimateMinutes,
		Meta:                     types.JSONText(meta),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func buildMaintenanceTask(request maintenanceModel.MaintenanceRequest, staffID, user string) model.StaffTask {
	estimate := maintenanceDefaultMinutes
	if request.EstimatedTimeMinutes != nil {
		estimate = *request.EstimatedTimeMinutes
	}

	roomID := request.RoomID
	requestID := request.ID

	return model.StaffTask{
		ID:                       uuid.NewString(),
		AssignedTo:               staffID,
		Type:                     model.TypeMaintenance,
		Title:                    request.Title,
		Description:              request.Description,
		Priority:                 request.Priority,
		Status:                   model.StatusPending,
		RoomID:                   &roomID,
		MaintenanceRequestID:     &requestID,
		ScheduledAt:              timezone.Now(),
		EstimatedDurationMinutes: estimate,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// pickStaff picks one candidate not already taken for the date. The pick is
// random so repeated batches spread work across the pool.
func pickStaff(candidates []userModel.User, taken map[string]struct{}) (userModel.User, bool) {
	eligible := make([]userModel.User, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := taken[candidate.ID]; !ok {
			eligible = append(eligible, candidate)
		}
	}

	if len(eligible) == 0 {
		return userModel.User{}, false
	}

	return eligible[rand.IntN(len(eligible))], true
}

func pickMaintenanceStaff(candidates []userModel.User, openCounts map[string]int) (userModel.User, bool) {
	eligible := make([]userModel.User, 0, len(candidates))
	for _, candidate := range candidates {
		if openCounts[candidate.ID] < maxOpenTasksPerStaff {
			eligible = append(eligible, candidate)
		}
	}

	if len(eligible) == 0 {
		return userModel.User{}, false
	}

	return eligible[rand.IntN(len(eligible))], true
}

func at(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}
