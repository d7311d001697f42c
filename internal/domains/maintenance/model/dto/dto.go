package dto

import (
	"github.com/google/uuid"

	"lodge/internal/domains/maintenance/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type CreateMaintenanceRequest struct {
	Title                string  `json:"title"                            validate:"required,max=200"`
	Description          *string `json:"description,omitempty"            validate:"omitempty,max=2000"`
	Priority             string  `json:"priority"                         validate:"omitempty,oneof=low medium high urgent"`
	Category             *string `json:"category,omitempty"               validate:"omitempty,max=100"`
	RoomID               string  `json:"room_id"                          validate:"required,uuid"`
	EstimatedTimeMinutes *int    `json:"estimated_time_minutes,omitempty" validate:"omitempty,min=1"`
}

func (c *CreateMaintenanceRequest) ToModel(reportedBy string) model.MaintenanceRequest {
	priority := c.Priority
	if priority == constant.Empty {
		priority = model.PriorityMedium
	}

	return model.MaintenanceRequest{
		ID:                   uuid.NewString(),
		Title:                c.Title,
		Description:          c.Description,
		Priority:             priority,
		Status:               model.StatusPending,
		Category:             c.Category,
		RoomID:               c.RoomID,
		ReportedBy:           reportedBy,
		EstimatedTimeMinutes: c.EstimatedTimeMinutes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  reportedBy,
			ModifiedBy: reportedBy,
		},
	}
}

type MaintenanceResponse struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Description          *string `json:"description,omitempty"`
	Priority             string  `json:"priority"`
	Status               string  `json:"status"`
	Category             *string `json:"category,omitempty"`
	RoomID               string  `json:"room_id"`
	ReportedBy           string  `json:"reported_by"`
	AssignedTo           *string `json:"assigned_to,omitempty"`
	EstimatedTimeMinutes *int    `json:"estimated_time_minutes,omitempty"`
	CompletionNotes      *string `json:"completion_notes,omitempty"`
	CompletedAt          *string `json:"completed_at,omitempty"`
	gDto.Metadata
}

func (r *MaintenanceResponse) FromModel(mod model.MaintenanceRequest) {
	r.ID = mod.ID
	r.Title = mod.Title
	r.Description = mod.Description
	r.Priority = mod.Priority
	r.Status = mod.Status
	r.Category = mod.Category
	r.RoomID = mod.RoomID
	r.ReportedBy = mod.ReportedBy
	r.AssignedTo = mod.AssignedTo
	r.EstimatedTimeMinutes = mod.EstimatedTimeMinutes
	r.CompletionNotes = mod.CompletionNotes

	if mod.CompletedAt != nil {
		formatted := timezone.Format(*mod.CompletedAt, constant.DateFormat)
		r.CompletedAt = &formatted
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetMaintenanceResponse struct {
	Requests  []MaintenanceResponse `json:"requests"`
	TotalPage int                   `json:"total_page"`
	TotalData int                   `json:"total_data"`
}

func (r *GetMaintenanceResponse) FromModels(models []model.MaintenanceRequest, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Requests = make([]MaintenanceResponse, len(models))
	for i, mod := range models {
		r.Requests[i].FromModel(mod)
	}
}
