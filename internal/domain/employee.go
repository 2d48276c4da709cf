package domain

import (
	"time"
)

type Role string

const (
	RoleDoctor    Role = "医生"
	RoleNurse     Role = "护士"
	RoleScheduler Role = "排班员"
	RoleAdmin     Role = "管理员"
)

type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "FULL_TIME"
	EmploymentPartTime EmploymentType = "PART_TIME"
)

type Employee struct {
	ID             int64          `json:"id"`
	Code           string         `json:"code"`
	Username       string         `json:"username"`
	PasswordHash   string         `json:"-"`
	FullName       string         `json:"fullName"`
	Email          string         `json:"email"`
	Role           Role           `json:"role"`
	EmploymentType EmploymentType `json:"employmentType"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int32          `json:"-"`
}

// EmployeeSummary 是嵌入在班次和预约中的员工摘要
type EmployeeSummary struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

func (e *Employee) Summary() EmployeeSummary {
	return EmployeeSummary{
		ID:       e.ID,
		Code:     e.Code,
		FullName: e.FullName,
		Role:     e.Role,
	}
}
