package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusActive    AppointmentStatus = "ACTIVE"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// CancelReason 是取消预约的枚举原因，只有 OTHER 需要附加文字说明
type CancelReason string

const (
	CancelReasonPatientRequest    CancelReason = "PATIENT_REQUEST"
	CancelReasonDoctorUnavailable CancelReason = "DOCTOR_UNAVAILABLE"
	CancelReasonHolidayClosure    CancelReason = "HOLIDAY_CLOSURE"
	CancelReasonOther             CancelReason = "OTHER"
)

func IsValidCancelReason(r CancelReason) bool {
	switch r {
	case CancelReasonPatientRequest, CancelReasonDoctorUnavailable, CancelReasonHolidayClosure, CancelReasonOther:
		return true
	}
	return false
}

type Appointment struct {
	ID               int64             `json:"id"`
	Code             string            `json:"code"`
	PatientCode      string            `json:"patientCode"`
	EmployeeCode     string            `json:"employeeCode"`
	RoomCode         string            `json:"roomCode"`
	StartTime        time.Time         `json:"startTime"`
	Status           AppointmentStatus `json:"status"`
	ServiceIDs       []int64           `json:"serviceIDs"`
	ParticipantCodes []string          `json:"participantCodes"`
	CancelReason     CancelReason      `json:"cancelReason,omitempty"`
	CancelNotes      string            `json:"cancelNotes,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	Version          int32             `json:"-"`
}

// RescheduleResult 是一次改约操作的成对结果：旧预约被取消，新预约被创建。
// 两者要么同时成立，要么都不成立
type RescheduleResult struct {
	CancelledAppointment *Appointment `json:"cancelledAppointment"`
	NewAppointment       *Appointment `json:"newAppointment"`
}
