package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/utils"
)

func (h *Handler) GetAllWorkShiftTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.repository.GetAllWorkShiftTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次模板列表成功", templates)
}

func (h *Handler) CreateWorkShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		StartTime string `json:"startTime" validate:"required"`
		EndTime   string `json:"endTime" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := &domain.WorkShiftTemplate{
		Name:      req.Name,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}

	if err := utils.ValidateWorkShiftTemplateTime(template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWorkShiftTemplate(template); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建班次模板成功", template)
}

func (h *Handler) GetWorkShiftTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(WorkShiftTplCtx).(*domain.WorkShiftTemplate)
	h.successResponse(w, r, "获取班次模板成功", template)
}

func (h *Handler) UpdateWorkShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      *string `json:"name"`
		StartTime *string `json:"startTime"`
		EndTime   *string `json:"endTime"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	template := r.Context().Value(WorkShiftTplCtx).(*domain.WorkShiftTemplate)

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.StartTime != nil {
		template.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		template.EndTime = *req.EndTime
	}

	if err := utils.ValidateWorkShiftTemplateTime(template); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWorkShiftTemplate(template); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班次模板失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班次模板成功", template)
}

func (h *Handler) DeleteWorkShiftTemplate(w http.ResponseWriter, r *http.Request) {
	template := r.Context().Value(WorkShiftTplCtx).(*domain.WorkShiftTemplate)

	if err := h.repository.DeleteWorkShiftTemplate(template.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除班次模板成功", nil)
}
