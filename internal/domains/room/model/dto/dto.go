package dto

import (
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"lodge/internal/domains/room/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type CreateRoomRequest struct {
	Number        string                `json:"number"          validate:"required,max=10"`
	Type          string                `json:"type"            validate:"required,oneof=single double suite family deluxe"`
	PricePerNight float64               `json:"price_per_night" validate:"required,gt=0"`
	Capacity      int                   `json:"capacity"        validate:"required,min=1"`
	Beds          int                   `json:"beds"            validate:"omitempty,min=1"`
	SizeSqm       float64               `json:"size_sqm"        validate:"omitempty,gt=0"`
	Amenities     []string              `json:"amenities"       validate:"omitempty"`
	Floor         int                   `json:"floor"           validate:"omitempty,min=0"`
	Image         *multipart.FileHeader `json:"image"           validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	IsPopular     *bool                 `json:"is_popular"      validate:"omitempty"`
	Active        *bool                 `json:"active"          validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string, imageURL string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	popular := false
	if c.IsPopular != nil {
		popular = *c.IsPopular
	}

	beds := c.Beds
	if beds == 0 {
		beds = 1
	}

	images := pq.StringArray{}
	if imageURL != constant.Empty {
		images = pq.StringArray{imageURL}
	}

	return model.Room{
		ID:                uuid.NewString(),
		Number:            c.Number,
		Type:              c.Type,
		PricePerNight:     c.PricePerNight,
		Capacity:          c.Capacity,
		Beds:              beds,
		SizeSqm:           c.SizeSqm,
		Amenities:         pq.StringArray(c.Amenities),
		Images:            images,
		Floor:             c.Floor,
		IsAvailable:       true,
		IsPopular:         popular,
		CleaningStatus:    model.CleaningStatusClean,
		MaintenanceStatus: model.MaintenanceStatusOperational,
		Active:            active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Number        string                `db:"number"          json:"number"          validate:"omitempty,max=10"`
	Type          string                `db:"type"            json:"type"            validate:"omitempty,oneof=single double suite family deluxe"`
	PricePerNight *float64              `db:"price_per_night" json:"price_per_night" validate:"omitempty,gt=0"`
	Capacity      *int                  `db:"capacity"        json:"capacity"        validate:"omitempty,min=1"`
	Beds          *int                  `db:"beds"            json:"beds"            validate:"omitempty,min=1"`
	SizeSqm       *float64              `db:"size_sqm"        json:"size_sqm"        validate:"omitempty,gt=0"`
	Floor         *int                  `db:"floor"           json:"floor"           validate:"omitempty,min=0"`
	IsAvailable   *bool                 `db:"is_available"    json:"is_available"    validate:"omitempty"`
	Image         *multipart.FileHeader `json:"image"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile     multipart.File        `json:"-"`
	IsPopular     *bool                 `db:"is_popular"      json:"is_popular"      validate:"omitempty"`
	Active        *bool                 `db:"active"          json:"active"          validate:"omitempty"`
}

type RoomResponse struct {
	ID                string   `json:"id"`
	Number            string   `json:"number"`
	Type              string   `json:"type"`
	PricePerNight     float64  `json:"price_per_night"`
	Capacity          int      `json:"capacity"`
	Beds              int      `json:"beds"`
	SizeSqm           float64  `json:"size_sqm"`
	Amenities         []string `json:"amenities"`
	Images            []string `json:"images"`
	Floor             int      `json:"floor"`
	IsAvailable       bool     `json:"is_available"`
	IsPopular         bool     `json:"is_popular"`
	CleaningStatus    string   `json:"cleaning_status"`
	MaintenanceStatus string   `json:"maintenance_status"`
	LastCleanedAt     *string  `json:"last_cleaned_at,omitempty"`
	Active            bool     `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(mod model.Room) {
	r.ID = mod.ID
	r.Number = mod.Number
	r.Type = mod.Type
	r.PricePerNight = mod.PricePerNight
	r.Capacity = mod.Capacity
	r.Beds = mod.Beds
	r.SizeSqm = mod.SizeSqm
	r.Amenities = mod.Amenities
	r.Images = mod.Images
	r.Floor = mod.Floor
	r.IsAvailable = mod.IsAvailable
	r.IsPopular = mod.IsPopular
	r.CleaningStatus = mod.CleaningStatus
	r.MaintenanceStatus = mod.MaintenanceStatus
	r.Active = mod.Active

	if mod.LastCleanedAt != nil {
		cleaned := timezone.Format(*mod.LastCleanedAt, constant.DateFormat)
		r.LastCleanedAt = &cleaned
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
