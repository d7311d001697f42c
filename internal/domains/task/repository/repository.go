package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/task/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type Task interface {
	Insert(ctx context.Context, model model.StaffTask) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.StaffTask) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.StaffTask, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.StaffTask, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	StaffIDsWithTaskOn(ctx context.Context, date time.Time) ([]string, error)
	OpenCountByStaff(ctx context.Context, staffIDs []string) (map[string]int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.StaffTask]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Task {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.StaffTask](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const busyStaffQuery = `SELECT DISTINCT assigned_to
	FROM staff_tasks
	WHERE scheduled_at >= $1
	AND scheduled_at < $2
	AND status = ANY($3)`

// StaffIDsWithTaskOn returns the staff members that already hold an open task
// scheduled on the given calendar date.
func (repo *repositoryImpl) StaffIDsWithTaskOn(ctx context.Context, date time.Time) (staffIDs []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".staff_task.StaffIDsWithTaskOn")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, busyStaffQuery)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	err = repo.db.Read.SelectContext(ctx, &staffIDs, busyStaffQuery, dayStart, dayEnd, pq.Array(model.OpenStatuses))
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find staff with tasks on %s: %w", date.Format(constant.DateOnlyFormat), err)
	}

	return staffIDs, nil
}

const openCountQuery = `SELECT assigned_to, COUNT(*) AS open_count
	FROM staff_tasks
	WHERE assigned_to = ANY($1)
	AND status = ANY($2)
	GROUP BY assigned_to`

// OpenCountByStaff returns the number of open tasks per staff member. Staff
// with no open tasks are absent from the map.
func (repo *repositoryImpl) OpenCountByStaff(ctx context.Context, staffIDs []string) (counts map[string]int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".staff_task.OpenCountByStaff")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, openCountQuery)

	rows := []struct {
		AssignedTo string `db:"assigned_to"`
		OpenCount  int    `db:"open_count"`
	}{}

	err = repo.db.Read.SelectContext(ctx, &rows, openCountQuery, pq.Array(staffIDs), pq.Array(model.OpenStatuses))
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count open tasks: %w", err)
	}

	counts = make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.AssignedTo] = row.OpenCount
	}

	return counts, nil
}
