package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/booking/model"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]model.Booking, error)
	FindOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, checkIn, checkOut time.Time) ([]model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// overlapQuery matches bookings that hold the room for any night in
// [checkIn, checkOut). Ranges are half-open, so a booking ending on a date
// does not overlap one starting on the same date.
const overlapQuery = `SELECT id, room_id, user_id, guest_name, guest_email, guest_phone, check_in, check_out,
	adults, children, room_type, room_price, total_amount, status, special_requests, booking_source,
	actual_check_in, actual_check_out, created_by, modified_by
	FROM bookings
	WHERE room_id = $1
	AND status = ANY($2)
	AND check_in < $4
	AND check_out > $3`

func (repo *repositoryImpl) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bookings []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	err = repo.db.Read.SelectContext(ctx, &bookings, overlapQuery, roomID, pq.Array(model.BlockingStatuses), checkIn, checkOut)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return bookings, nil
}

// FindOverlappingTx runs the overlap check inside the given transaction. The
// caller must already hold the room row lock so concurrent writers cannot
// both see an empty result.
func (repo *repositoryImpl) FindOverlappingTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, checkIn, checkOut time.Time) (bookings []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlappingTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	err = sqltx.SelectContext(ctx, &bookings, overlapQuery, roomID, pq.Array(model.BlockingStatuses), checkIn, checkOut)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return bookings, nil
}

// GetForUpdateTx loads a booking inside the given transaction and locks its
// row until the transaction ends, so a concurrent status change cannot slip
// in between a state check and its write.
func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (booking model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetForUpdateTx")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := `SELECT id, room_id, user_id, guest_name, guest_email, guest_phone, check_in, check_out,
		adults, children, room_type, room_price, total_amount, status, special_requests, booking_source,
		actual_check_in, actual_check_out, created_by, modified_by
		FROM bookings WHERE id = $1 FOR UPDATE`
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)

		return model.Booking{}, fmt.Errorf("failed to lock booking row: %w", err)
	}

	return booking, nil
}

// InsertTx wraps the generic insert to surface the bookings exclusion
// constraint as a conflict. The constraint is the database-level backstop for
// the in-transaction overlap check.
func (repo *repositoryImpl) InsertTx(ctx context.Context, sqltx *sqlx.Tx, mod model.Booking) error {
	err := repo.Repository.InsertTx(ctx, sqltx, mod)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case constant.PqErrorCodeExclusionViolation, constant.PqErrorCodeUniqueViolation:
				return failure.Conflict("room is already booked for the selected dates")
			}
		}

		return err
	}

	return nil
}
