package model

import (
	"time"

	"lodge/shared/model"
)

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldRole       = "role"
	FieldDepartment = "department"
	FieldFullName   = "full_name"
	FieldPhone      = "phone"
	FieldLastLogin  = "last_login"
	FieldActive     = "active"
)

const (
	ScheduleTableName  = "staff_schedules"
	ScheduleEntityName = "staff_schedule"

	ScheduleFieldID        = "id"
	ScheduleFieldStaffID   = "staff_id"
	ScheduleFieldWorkDate  = "work_date"
	ScheduleFieldIsWorking = "is_working"
)

type User struct {
	ID         string  `db:"id"`
	Email      string  `db:"email"`
	Password   string  `db:"password"`
	Role       string  `db:"role"`
	Department *string `db:"department"`
	FullName   *string `db:"full_name"`
	Phone      *string `db:"phone"`
	LastLogin  *string `db:"last_login"`
	Active     bool    `db:"active"`
	model.Metadata
}

// StaffSchedule marks whether a staff member works on a calendar date. One
// row per staff member and date; no row means off that day.
type StaffSchedule struct {
	ID        string    `db:"id"`
	StaffID   string    `db:"staff_id"`
	WorkDate  time.Time `db:"work_date"`
	IsWorking bool      `db:"is_working"`
	model.Metadata
}
