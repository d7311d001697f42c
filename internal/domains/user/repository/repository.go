package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/user/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ActiveStaff(ctx context.Context, department string) ([]model.User, error)
	ScheduledStaff(ctx context.Context, department string, date time.Time) ([]model.User, error)
}

type Schedule interface {
	Insert(ctx context.Context, model model.StaffSchedule) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.StaffSchedule, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type scheduleRepositoryImpl struct {
	gRepo.Repository[model.StaffSchedule]
	db   *postgres.Connection
	otel otel.Otel
}

func NewSchedule(db *postgres.Connection, otel otel.Otel) Schedule {
	return &scheduleRepositoryImpl{
		Repository: gRepo.NewRepository[model.StaffSchedule](model.ScheduleEntityName, model.ScheduleTableName, model.ScheduleFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveStaff returns the active staff members of a department.
func (repo *repositoryImpl) ActiveStaff(ctx context.Context, department string) (staff []model.User, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.ActiveStaff")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `SELECT users.id, users.email, users.role, users.department, users.full_name, users.active, users.created_by, users.modified_by
		FROM users
		WHERE users.role = :role AND users.department = :department AND users.active = true`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"role":       constant.RoleStaff,
		"department": department,
	}

	return repo.selectStaff(ctx, query, args)
}

// ScheduledStaff returns active staff of a department with a working schedule
// entry on the given date. Staff without a row for that date are excluded.
func (repo *repositoryImpl) ScheduledStaff(ctx context.Context, department string, date time.Time) (staff []model.User, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.ScheduledStaff")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `SELECT users.id, users.email, users.role, users.department, users.full_name, users.active, users.created_by, users.modified_by
		FROM users
		JOIN staff_schedules ON staff_schedules.staff_id = users.id
			AND staff_schedules.work_date = :work_date
			AND staff_schedules.is_working = true
		WHERE users.role = :role AND users.department = :department AND users.active = true`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"role":       constant.RoleStaff,
		"department": department,
		"work_date":  date,
	}

	return repo.selectStaff(ctx, query, args)
}

func (repo *repositoryImpl) selectStaff(ctx context.Context, query string, args map[string]any) (staff []model.User, err error) {
	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return staff, fmt.Errorf("failed to prepare statement (%s): %w", model.EntityName, err)
	}
	defer prepare.Close()

	err = prepare.SelectContext(ctx, &staff, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return staff, fmt.Errorf("failed to get staff: %w", err)
	}

	return staff, nil
}
