package repository

//go:generate go run go.uber.org/mock/mockgen -source=./assignment.go -destination=../mocks/assignment_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/task/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type Assignment interface {
	Insert(ctx context.Context, model model.RoomAssignment) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.RoomAssignment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomAssignment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomAssignment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	StaffIDsAssignedOn(ctx context.Context, date time.Time) ([]string, error)
}

type assignmentRepositoryImpl struct {
	gRepo.Repository[model.RoomAssignment]
	db   *postgres.Connection
	otel otel.Otel
}

func NewAssignment(db *postgres.Connection, otel otel.Otel) Assignment {
	return &assignmentRepositoryImpl{
		Repository: gRepo.NewRepository[model.RoomAssignment](model.AssignmentEntityName, model.AssignmentTableName, model.AssignmentFieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const assignedStaffQuery = `SELECT DISTINCT staff_id
	FROM room_assignments
	WHERE assignment_date = $1
	AND status = $2`

// StaffIDsAssignedOn returns the staff members that already hold an active
// room assignment for the given date.
func (repo *assignmentRepositoryImpl) StaffIDsAssignedOn(ctx context.Context, date time.Time) (staffIDs []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_assignment.StaffIDsAssignedOn")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, assignedStaffQuery)

	err = repo.db.Read.SelectContext(ctx, &staffIDs, assignedStaffQuery, date, model.AssignmentStatusAssigned)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find assigned staff on %s: %w", date.Format(constant.DateOnlyFormat), err)
	}

	return staffIDs, nil
}
