package domain

import "time"

type LeaveRequestStatus string

const (
	LeaveRequestPending  LeaveRequestStatus = "PENDING"
	LeaveRequestApproved LeaveRequestStatus = "APPROVED"
	LeaveRequestRejected LeaveRequestStatus = "REJECTED"
)

// LeaveRequest 是请假申请。审批通过时，区间内所有待执行的班次
// 会在同一个事务中被置为 ON_LEAVE，这是 ON_LEAVE 状态的唯一来源
type LeaveRequest struct {
	ID         int64              `json:"id"`
	EmployeeID int64              `json:"employeeID"`
	StartDate  time.Time          `json:"startDate"`
	EndDate    time.Time          `json:"endDate"`
	Reason     string             `json:"reason"`
	Status     LeaveRequestStatus `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	Version    int32              `json:"-"`
}
