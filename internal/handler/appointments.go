package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/scheduling"
	"github.com/renxin-clinic/clinic-manager/backend/internal/utils"
)

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)

	result, err := h.repository.ListAppointments(page, size)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取预约列表成功", result)
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment := r.Context().Value(AppointmentCtx).(*domain.Appointment)
	h.successResponse(w, r, "获取预约成功", appointment)
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientCode      string    `json:"patientCode" validate:"required"`
		EmployeeCode     string    `json:"employeeCode" validate:"required"`
		RoomCode         string    `json:"roomCode" validate:"required"`
		StartTime        time.Time `json:"startTime" validate:"required"`
		ServiceIDs       []int64   `json:"serviceIDs" validate:"required,min=1"`
		ParticipantCodes []string  `json:"participantCodes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 预约时间必须落在 15 分钟网格上，这里拦截后不会产生任何数据库访问
	if err := utils.ValidateQuarterHour(req.StartTime); err != nil {
		h.classifiedError(w, r, err)
		return
	}

	participantCodes := req.ParticipantCodes
	if participantCodes == nil {
		participantCodes = []string{}
	}

	appointment := &domain.Appointment{
		Code:             utils.GenerateAppointmentCode(),
		PatientCode:      req.PatientCode,
		EmployeeCode:     req.EmployeeCode,
		RoomCode:         req.RoomCode,
		StartTime:        req.StartTime,
		Status:           domain.AppointmentStatusActive,
		ServiceIDs:       req.ServiceIDs,
		ParticipantCodes: participantCodes,
	}

	if err := h.repository.CreateAppointment(appointment); err != nil {
		var businessErr *domain.BusinessError
		if errors.As(err, &businessErr) {
			h.classifiedError(w, r, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建预约成功", appointment)
}

// RescheduleAppointment 原子地改约：旧预约被取消，新预约被创建，
// 两者在同一个事务中完成。请求体中省略 serviceIDs 时沿用原预约的服务，
// 省略 participantCodes 时新预约没有参与人员
func (h *Handler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	appointment := r.Context().Value(AppointmentCtx).(*domain.Appointment)

	var req struct {
		NewStartTime        time.Time `json:"newStartTime" validate:"required"`
		NewEmployeeCode     string    `json:"newEmployeeCode" validate:"required"`
		NewRoomCode         string    `json:"newRoomCode" validate:"required"`
		ReasonCode          string    `json:"reasonCode" validate:"required"`
		CancelNotes         string    `json:"cancelNotes"`
		NewServiceIDs       []int64   `json:"newServiceIDs"`
		NewParticipantCodes []string  `json:"newParticipantCodes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// JSON 中省略的字段解码后为 nil，显式传空数组则为非 nil 空切片，
	// 协调器依赖这个区别实现两条不同的默认规则
	input := &scheduling.RescheduleInput{
		AppointmentCode:     appointment.Code,
		NewStartTime:        req.NewStartTime,
		NewEmployeeCode:     req.NewEmployeeCode,
		NewRoomCode:         req.NewRoomCode,
		ReasonCode:          domain.CancelReason(req.ReasonCode),
		NewServiceIDs:       req.NewServiceIDs,
		NewParticipantCodes: req.NewParticipantCodes,
		CancelNotes:         req.CancelNotes,
	}

	result, err := h.coordinator.Reschedule(input)
	if err != nil {
		var businessErr *domain.BusinessError
		if errors.As(err, &businessErr) {
			h.classifiedError(w, r, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	// 通知患者改约结果。改约已经提交，邮件失败只记录日志
	h.notifyPatientRescheduled(r, result)

	h.successResponse(w, r, "改约成功", result)
}

func (h *Handler) notifyPatientRescheduled(r *http.Request, result *domain.RescheduleResult) {
	patient, err := h.repository.GetPatientByCode(result.NewAppointment.PatientCode)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	doctorName := result.NewAppointment.EmployeeCode
	if doctor, err := h.repository.GetEmployeeByCode(result.NewAppointment.EmployeeCode); err == nil {
		doctorName = doctor.FullName
	}

	mailMessage := domain.MailMessage{
		Type: "appointment_rescheduled",
		To:   patient.Email,
		Data: domain.AppointmentRescheduledMailData{
			PatientName:  patient.FullName,
			OldStartTime: result.CancelledAppointment.StartTime.Format("2006-01-02 15:04"),
			NewStartTime: result.NewAppointment.StartTime.Format("2006-01-02 15:04"),
			DoctorName:   doctorName,
			RoomName:     result.NewAppointment.RoomCode,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.logInternalServerError(r, err)
	}
}
