package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"

	"lodge/shared/model"
)

const (
	TableName  = "staff_tasks"
	EntityName = "staff_task"

	FieldID                   = "id"
	FieldAssignedTo           = "assigned_to"
	FieldType                 = "type"
	FieldTitle                = "title"
	FieldDescription          = "description"
	FieldPriority             = "priority"
	FieldStatus               = "status"
	FieldRoomID               = "room_id"
	FieldBookingID            = "booking_id"
	FieldMaintenanceRequestID = "maintenance_request_id"
	FieldScheduledAt          = "scheduled_at"
	FieldStartedAt            = "started_at"
	FieldCompletedAt          = "completed_at"
	FieldEstimatedDuration    = "estimated_duration_minutes"
	FieldActualDuration       = "actual_duration_minutes"
)

const (
	TypeRoomCleaning   = "room_cleaning"
	TypeMaintenance    = "maintenance"
	TypeCheckIn        = "check_in"
	TypeCheckOut       = "check_out"
	TypeGuestService   = "guest_service"
	TypeSecurityPatrol = "security_patrol"
	TypeGeneral        = "general"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// OpenStatuses are the statuses that count against a staff member's workload.
var OpenStatuses = []string{StatusPending, StatusInProgress}

// StaffTask is a unit of staff work, usually produced by the daily generation
// batch. Meta carries a JSON snapshot of the linked guest/room at creation
// time.
type StaffTask struct {
	ID                       string         `db:"id"`
	AssignedTo               string         `db:"assigned_to"`
	Type                     string         `db:"type"`
	Title                    string         `db:"title"`
	Description              *string        `db:"description"`
	Priority                 string         `db:"priority"`
	Status                   string         `db:"status"`
	RoomID                   *string        `db:"room_id"`
	BookingID                *string        `db:"booking_id"`
	MaintenanceRequestID     *string        `db:"maintenance_request_id"`
	ScheduledAt              time.Time      `db:"scheduled_at"`
	StartedAt                *time.Time     `db:"started_at"`
	CompletedAt              *time.Time     `db:"completed_at"`
	EstimatedDurationMinutes int            `db:"estimated_duration_minutes"`
	ActualDurationMinutes    *int           `db:"actual_duration_minutes"`
	Meta                     types.JSONText `db:"meta"`
	model.Metadata
}

// Open reports whether the task still counts against its assignee's workload.
func (t *StaffTask) Open() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

const (
	AssignmentTableName  = "room_assignments"
	AssignmentEntityName = "room_assignment"

	AssignmentFieldID      = "id"
	AssignmentFieldRoomID  = "room_id"
	AssignmentFieldStaffID = "staff_id"
	AssignmentFieldDate    = "assignment_date"
	AssignmentFieldStatus  = "status"
	AssignmentFieldTaskID  = "task_id"
)

const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusCancelled = "cancelled"
)

// RoomAssignment pairs a housekeeping staff member with a room for one date.
// The room+staff+date combination is unique.
type RoomAssignment struct {
	ID      string    `db:"id"`
	RoomID  string    `db:"room_id"`
	StaffID string    `db:"staff_id"`
	Date    time.Time `db:"assignment_date"`
	Status  string    `db:"status"`
	TaskID  *string   `db:"task_id"`
	model.Metadata
}
