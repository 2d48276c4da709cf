package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/calendar"
	"github.com/renxin-clinic/clinic-manager/backend/internal/repository"
)

// GetDayAvailability 解析某员工某一天的可预约时间窗。
// 携带 participants 参数时，为医生和每一位参与人员分别解析，
// 可用性是按人计算的
func (h *Handler) GetDayAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	employeeID, err := strconv.ParseInt(query.Get("employeeId"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	date, err := time.Parse("2006-01-02", query.Get("date"))
	if err != nil {
		h.errorResponse(w, r, "日期无效")
		return
	}

	participantsParam := query.Get("participants")
	if participantsParam == "" {
		day, err := h.resolver.ResolveDay(employeeID, date)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		h.successResponse(w, r, "获取可用性成功", day)
		return
	}

	employeeIDs := []int64{employeeID}
	for _, part := range strings.Split(participantsParam, ",") {
		participantID, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			h.errorResponse(w, r, "参与人员ID无效")
			return
		}
		employeeIDs = append(employeeIDs, participantID)
	}

	result, err := h.resolver.ResolveForAll(employeeIDs, date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取可用性成功", result)
}

// GetAvailabilityCalendar 返回某员工某个月的班次日历事件，
// 每个状态有固定的颜色
func (h *Handler) GetAvailabilityCalendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	employeeID, err := strconv.ParseInt(query.Get("employeeId"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "员工ID无效")
		return
	}

	month, err := time.Parse("2006-01", query.Get("month"))
	if err != nil {
		h.errorResponse(w, r, "月份无效")
		return
	}

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).AddDate(0, 0, -1)

	// 日历展示所有状态的班次，不走可用性缓存
	page, err := h.repository.ListEmployeeShifts(repository.ShiftFilter{
		EmployeeID: &employeeID,
		StartDate:  monthStart,
		EndDate:    monthEnd,
		Page:       1,
		Size:       maxPageSize,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	events := calendar.Project(page.Content)

	h.successResponse(w, r, "获取日历成功", events)
}
