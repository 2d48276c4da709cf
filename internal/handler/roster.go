package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/roster"
)

// GenerateRoster 为所有在职的全职员工批量生成某个月的默认排班。
// 已存在的班次（SLOT_CONFLICT）跳过，不视为失败，重复调用是幂等的
func (h *Handler) GenerateRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year  int `json:"year" validate:"required,min=2000,max=2200"`
		Month int `json:"month" validate:"required,min=1,max=12"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	templates, err := h.repository.GetAllWorkShiftTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	holidays, err := h.repository.GetAllHolidays()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	generator := roster.New(employees, templates, holidays)
	shifts := generator.Generate(req.Year, time.Month(req.Month))

	created := 0
	skipped := 0
	for _, shift := range shifts {
		if err := h.repository.CreateEmployeeShift(shift); err != nil {
			var businessErr *domain.BusinessError
			if errors.As(err, &businessErr) && businessErr.Code == domain.CodeSlotConflict {
				skipped++
				continue
			}
			h.internalServerError(w, r, err)
			return
		}
		created++
	}

	// 批量排班后整月的可用性缓存作废
	monthDate := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	for _, employee := range employees {
		h.resolver.Invalidate(employee.ID, monthDate)
	}

	h.successResponse(w, r, "批量排班完成", map[string]any{
		"created": created,
		"skipped": skipped,
	})
}
