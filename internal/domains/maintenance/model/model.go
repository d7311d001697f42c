package model

import (
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "maintenance_requests"
	EntityName = "maintenance_request"

	FieldID              = "id"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldPriority        = "priority"
	FieldStatus          = "status"
	FieldCategory        = "category"
	FieldRoomID          = "room_id"
	FieldReportedBy      = "reported_by"
	FieldAssignedTo      = "assigned_to"
	FieldEstimatedTime   = "estimated_time_minutes"
	FieldCompletionNotes = "completion_notes"
	FieldCompletedAt     = "completed_at"
)

const (
	StatusPending    = "pending"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusOnHold     = "on_hold"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type MaintenanceRequest struct {
	ID                   string     `db:"id"`
	Title                string     `db:"title"`
	Description          *string    `db:"description"`
	Priority             string     `db:"priority"`
	Status               string     `db:"status"`
	Category             *string    `db:"category"`
	RoomID               string     `db:"room_id"`
	ReportedBy           string     `db:"reported_by"`
	AssignedTo           *string    `db:"assigned_to"`
	EstimatedTimeMinutes *int       `db:"estimated_time_minutes"`
	CompletionNotes      *string    `db:"completion_notes"`
	CompletedAt          *time.Time `db:"completed_at"`
	model.Metadata
}

// Open reports whether the request still needs work.
func (m *MaintenanceRequest) Open() bool {
	switch m.Status {
	case StatusCompleted, StatusCancelled:
		return false
	}

	return true
}
