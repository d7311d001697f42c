package dto

import (
	"encoding/json"
	"time"

	"lodge/internal/domains/task/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/timezone"
)

type GenerateTasksRequest struct {
	Date string `json:"date" validate:"omitempty,dateonly"`
}

// TargetDate resolves the generation date, defaulting to today when the
// request leaves it empty.
func (g *GenerateTasksRequest) TargetDate() (time.Time, error) {
	if g.Date == constant.Empty {
		return timezone.Today(), nil
	}

	return timezone.Parse(constant.DateOnlyFormat, g.Date)
}

type CompleteTaskRequest struct {
	CompletionNotes *string `json:"completion_notes,omitempty" validate:"omitempty,max=2000"`
}

type TaskResponse struct {
	ID                       string          `json:"id"`
	AssignedTo               string          `json:"assigned_to"`
	Type                     string          `json:"type"`
	Title                    string          `json:"title"`
	Description              *string         `json:"description,omitempty"`
	Priority                 string          `json:"priority"`
	Status                   string          `json:"status"`
	RoomID                   *string         `json:"room_id,omitempty"`
	BookingID                *string         `json:"booking_id,omitempty"`
	MaintenanceRequestID     *string         `json:"maintenance_request_id,omitempty"`
	ScheduledAt              string          `json:"scheduled_at"`
	StartedAt                *string         `json:"started_at,omitempty"`
	CompletedAt              *string         `json:"completed_at,omitempty"`
	EstimatedDurationMinutes int             `json:"estimated_duration_minutes"`
	ActualDurationMinutes    *int            `json:"actual_duration_minutes,omitempty"`
	Meta                     json.RawMessage `json:"metadata,omitempty"`
	gDto.Metadata
}

func (r *TaskResponse) FromModel(mod model.StaffTask) {
	r.ID = mod.ID
	r.AssignedTo = mod.AssignedTo
	r.Type = mod.Type
	r.Title = mod.Title
	r.Description = mod.Description
	r.Priority = mod.Priority
	r.Status = mod.Status
	r.RoomID = mod.RoomID
	r.BookingID = mod.BookingID
	r.MaintenanceRequestID = mod.MaintenanceRequestID
	r.ScheduledAt = timezone.Format(mod.ScheduledAt, constant.DateFormat)
	r.EstimatedDurationMinutes = mod.EstimatedDurationMinutes
	r.ActualDurationMinutes = mod.ActualDurationMinutes
	r.Meta = json.RawMessage(mod.Meta)

	if mod.StartedAt != nil {
		formatted := timezone.Format(*mod.StartedAt, constant.DateFormat)
		r.StartedAt = &formatted
	}

	if mod.CompletedAt != nil {
		formatted := timezone.Format(*mod.CompletedAt, constant.DateFormat)
		r.CompletedAt = &formatted
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetTasksResponse) FromModels(models []model.StaffTask, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tasks = make([]TaskResponse, len(models))
	for i, mod := range models {
		r.Tasks[i].FromModel(mod)
	}
}

type GenerateTasksResponse struct {
	Date    string `json:"date"`
	Created int    `json:"created"`
}
