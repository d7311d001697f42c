package model

import (
	"time"

	"github.com/lib/pq"

	"lodge/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID                = "id"
	FieldNumber            = "number"
	FieldType              = "type"
	FieldPricePerNight     = "price_per_night"
	FieldCapacity          = "capacity"
	FieldBeds              = "beds"
	FieldSizeSqm           = "size_sqm"
	FieldAmenities         = "amenities"
	FieldImages            = "images"
	FieldFloor             = "floor"
	FieldIsAvailable       = "is_available"
	FieldIsPopular         = "is_popular"
	FieldCleaningStatus    = "cleaning_status"
	FieldMaintenanceStatus = "maintenance_status"
	FieldLastCleanedAt     = "last_cleaned_at"
	FieldActive            = "active"
)

const (
	TypeSingle = "single"
	TypeDouble = "double"
	TypeSuite  = "suite"
	TypeFamily = "family"
	TypeDeluxe = "deluxe"
)

const (
	CleaningStatusClean      = "clean"
	CleaningStatusDirty      = "dirty"
	CleaningStatusInProgress = "in_progress"
)

const (
	MaintenanceStatusOperational = "operational"
	MaintenanceStatusReported    = "reported"
	MaintenanceStatusInRepair    = "in_repair"
)

type Room struct {
	ID                string         `db:"id"`
	Number            string         `db:"number"`
	Type              string         `db:"type"`
	PricePerNight     float64        `db:"price_per_night"`
	Capacity          int            `db:"capacity"`
	Beds              int            `db:"beds"`
	SizeSqm           float64        `db:"size_sqm"`
	Amenities         pq.StringArray `db:"amenities"`
	Images            pq.StringArray `db:"images"`
	Floor             int            `db:"floor"`
	IsAvailable       bool           `db:"is_available"`
	IsPopular         bool           `db:"is_popular"`
	CleaningStatus    string         `db:"cleaning_status"`
	MaintenanceStatus string         `db:"maintenance_status"`
	LastCleanedAt     *time.Time     `db:"last_cleaned_at"`
	Active            bool           `db:"active"`
	model.Metadata
}

// Bookable reports whether the room can accept new bookings at all,
// independent of any date range.
func (r *Room) Bookable() bool {
	return r.Active && r.IsAvailable
}
