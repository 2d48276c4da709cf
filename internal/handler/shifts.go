package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/repository"
	"github.com/renxin-clinic/clinic-manager/backend/internal/utils"
)

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	startDate, err := time.Parse("2006-01-02", query.Get("startDate"))
	if err != nil {
		h.errorResponse(w, r, "开始日期无效")
		return
	}
	endDate, err := time.Parse("2006-01-02", query.Get("endDate"))
	if err != nil {
		h.errorResponse(w, r, "结束日期无效")
		return
	}
	if err := utils.ValidateDateRange(startDate, endDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	filter := repository.ShiftFilter{
		StartDate: startDate,
		EndDate:   endDate,
	}

	if employeeIDParam := query.Get("employeeId"); employeeIDParam != "" {
		employeeID, err := strconv.ParseInt(employeeIDParam, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "员工ID无效")
			return
		}
		filter.EmployeeID = &employeeID
	}

	if statusParam := query.Get("status"); statusParam != "" {
		status := domain.ShiftStatus(statusParam)
		if !domain.IsValidShiftStatus(status) {
			h.errorResponse(w, r, "班次状态无效")
			return
		}
		filter.Status = &status
	}

	filter.Page, filter.Size = parsePaging(r)

	page, err := h.repository.ListEmployeeShifts(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", page)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftInfoCtx).(*domain.EmployeeShift)
	h.successResponse(w, r, "获取班次成功", shift)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeID  int64  `json:"employeeID" validate:"required"`
		WorkDate    string `json:"workDate" validate:"required"`
		WorkShiftID int64  `json:"workShiftID" validate:"required"`
		Notes       string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		h.errorResponse(w, r, "工作日期无效")
		return
	}

	// 手动创建的班次类型为 MANUAL，不受批量默认排班的取消保护
	shift := &domain.EmployeeShift{
		EmployeeID: req.EmployeeID,
		WorkDate:   workDate,
		WorkShift:  domain.WorkShiftTemplate{ID: req.WorkShiftID},
		Status:     domain.ShiftStatusScheduled,
		ShiftType:  domain.ShiftTypeManual,
		Notes:      req.Notes,
	}

	if err := h.repository.CreateEmployeeShift(shift); err != nil {
		var businessErr *domain.BusinessError
		if errors.As(err, &businessErr) {
			h.classifiedError(w, r, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	// 排班变化后对应月份的可用性缓存作废
	h.resolver.Invalidate(shift.EmployeeID, shift.WorkDate)

	h.successResponse(w, r, "创建班次成功", shift)
}

func (h *Handler) UpdateShiftStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Status == nil && req.Notes == nil {
		h.errorResponse(w, r, "请求没有携带需要更新的字段")
		return
	}

	shift := r.Context().Value(ShiftInfoCtx).(*domain.EmployeeShift)

	if req.Status != nil {
		newStatus := domain.ShiftStatus(*req.Status)

		// 把状态改为 CANCELLED 等同于取消操作，取消保护规则同样生效
		var employmentType domain.EmploymentType
		if newStatus == domain.ShiftStatusCancelled {
			employee, err := h.repository.GetEmployeeByID(shift.EmployeeID)
			if err != nil {
				switch {
				case errors.Is(err, sql.ErrNoRows):
					h.errorResponse(w, r, "员工不存在")
				default:
					h.internalServerError(w, r, err)
				}
				return
			}
			employmentType = employee.EmploymentType
		}

		if err := shift.ValidateStatusChange(newStatus, employmentType); err != nil {
			h.classifiedError(w, r, err)
			return
		}

		shift.Status = newStatus
	} else if shift.Status.IsFinalized() {
		// 终结的班次连备注也不允许修改
		h.classifiedError(w, r, domain.ErrBusiness(domain.CodeShiftFinalized, "班次已终结，无法修改"))
		return
	}

	if req.Notes != nil {
		shift.Notes = *req.Notes
	}

	if err := h.repository.UpdateEmployeeShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次已被修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.resolver.Invalidate(shift.EmployeeID, shift.WorkDate)

	h.successResponse(w, r, "更新班次状态成功", shift)
}

func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftInfoCtx).(*domain.EmployeeShift)

	employee, err := h.repository.GetEmployeeByID(shift.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := shift.ValidateCancel(employee.EmploymentType); err != nil {
		h.classifiedError(w, r, err)
		return
	}

	shift.Status = domain.ShiftStatusCancelled

	if err := h.repository.UpdateEmployeeShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次已被修改，请刷新后重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.resolver.Invalidate(shift.EmployeeID, shift.WorkDate)

	// 通知员工班次被取消。取消已经生效，邮件失败只记录日志
	mailMessage := domain.MailMessage{
		Type: "shift_cancelled",
		To:   employee.Email,
		Data: domain.ShiftCancelledMailData{
			FullName:  employee.FullName,
			WorkDate:  shift.WorkDate.Format("2006-01-02"),
			ShiftName: shift.WorkShift.Name,
			Notes:     shift.Notes,
		},
	}

	if mailData, err := json.Marshal(mailMessage); err == nil {
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

	h.successResponse(w, r, "取消班次成功", shift)
}
