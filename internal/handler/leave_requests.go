package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/utils"
)

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Reason    string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "开始日期无效")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "结束日期无效")
		return
	}
	if err := utils.ValidateDateRange(startDate, endDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	request := &domain.LeaveRequest{
		EmployeeID: myInfo.ID,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
	}

	if err := h.repository.CreateLeaveRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交请假申请成功", request)
}

func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	page, size := parsePaging(r)

	result, err := h.repository.ListLeaveRequests(page, size)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取请假申请列表成功", result)
}

// ApproveLeaveRequest 审批通过请假申请。区间内所有待执行的班次
// 会在同一个事务中被置为 ON_LEAVE
func (h *Handler) ApproveLeaveRequest(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)

	affected, err := h.repository.ApproveLeaveRequest(request)
	if err != nil {
		var businessErr *domain.BusinessError
		if errors.As(err, &businessErr) {
			h.classifiedError(w, r, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	// 请假区间可能跨月，逐月作废可用性缓存
	for month := monthStart(request.StartDate); !month.After(request.EndDate); month = month.AddDate(0, 1, 0) {
		h.resolver.Invalidate(request.EmployeeID, month)
	}

	h.successResponse(w, r, "审批通过", map[string]any{
		"leaveRequest":   request,
		"affectedShifts": affected,
	})
}

func (h *Handler) RejectLeaveRequest(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)

	if err := h.repository.RejectLeaveRequest(request); err != nil {
		var businessErr *domain.BusinessError
		if errors.As(err, &businessErr) {
			h.classifiedError(w, r, err)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "已驳回", request)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
