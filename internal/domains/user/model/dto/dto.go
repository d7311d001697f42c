package dto

import (
	"time"

	"github.com/google/uuid"

	"lodge/internal/domains/user/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
)

type CreateUserRequest struct {
	Email      string  `json:"email"                validate:"required,email"`
	Password   string  `json:"password"             validate:"required,min=8"`
	Role       string  `json:"role"                 validate:"omitempty,oneof=admin staff guest"`
	Department *string `json:"department,omitempty" validate:"omitempty,oneof=front_desk housekeeping maintenance"`
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

func (r *CreateUserRequest) ToModel(username string, hashedPassword string) model.User {
	role := r.Role
	if role == "" {
		role = constant.RoleGuest
	}

	return model.User{
		ID:         uuid.NewString(),
		Email:      r.Email,
		Password:   hashedPassword,
		Role:       role,
		Department: r.Department,
		FullName:   r.FullName,
		Phone:      r.Phone,
		Active:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}

type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	LastLogin  *string `json:"last_login,omitempty"`
	Active     bool    `json:"active"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(mod model.User) {
	r.ID = mod.ID
	r.Email = mod.Email
	r.Role = mod.Role
	r.Department = mod.Department
	r.FullName = mod.FullName
	r.Phone = mod.Phone
	r.LastLogin = mod.LastLogin
	r.Active = mod.Active
	r.Metadata.FromModel(mod.Metadata)
}

type UpdateUserRequest struct {
	Role       *string `json:"role,omitempty"       validate:"omitempty,oneof=admin staff guest"`
	Department *string `json:"department,omitempty" validate:"omitempty,oneof=front_desk housekeeping maintenance"`
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Active     *bool   `json:"active,omitempty"`
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}

type StaffScheduleRequest struct {
	StaffID   string `json:"staff_id"   validate:"required,uuid"`
	WorkDate  string `json:"work_date"  validate:"required,dateonly"`
	IsWorking *bool  `json:"is_working" validate:"omitempty"`
}

// Date parses the schedule date in the application timezone.
func (r *StaffScheduleRequest) Date() (time.Time, error) {
	return timezone.Parse(constant.DateOnlyFormat, r.WorkDate)
}

func (r *StaffScheduleRequest) ToModel(workDate time.Time, username string) model.StaffSchedule {
	working := true
	if r.IsWorking != nil {
		working = *r.IsWorking
	}

	return model.StaffSchedule{
		ID:        uuid.NewString(),
		StaffID:   r.StaffID,
		WorkDate:  workDate,
		IsWorking: working,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  username,
			ModifiedBy: username,
		},
	}
}
