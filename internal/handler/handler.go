package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/renxin-clinic/clinic-manager/backend/internal/availability"
	"github.com/renxin-clinic/clinic-manager/backend/internal/config"
	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/repository"
	"github.com/renxin-clinic/clinic-manager/backend/internal/scheduling"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	resolver    *availability.Resolver
	coordinator *scheduling.Coordinator

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		resolver:    availability.NewResolver(repo, availability.NewCache()),
		coordinator: scheduling.NewCoordinator(repo),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(h.RequiredCapability(domain.CapManageEmployees)).Post("/", h.CreateEmployee)
			r.Get("/", h.GetAllEmployees) // 排班和预约都需要看到其他员工的摘要信息
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Get("/", h.GetEmployee)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredCapability(domain.CapManageEmployees)).Patch("/", h.UpdateEmployee)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredCapability(domain.CapManageEmployees)).Delete("/", h.DeleteEmployee)
			})
		})

		r.Route("/work-shift-templates", func(r chi.Router) {
			r.With(h.RequiredCapability(domain.CapManageTemplates)).Post("/", h.CreateWorkShiftTemplate)
			r.Get("/", h.GetAllWorkShiftTemplates)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workShiftTemplate)
				r.Get("/", h.GetWorkShiftTemplate)
				r.With(h.RequiredCapability(domain.CapManageTemplates)).Patch("/", h.UpdateWorkShiftTemplate)
				r.With(h.RequiredCapability(domain.CapManageTemplates)).Delete("/", h.DeleteWorkShiftTemplate)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.RequiredCapability(domain.CapViewShifts)).Get("/", h.ListShifts)
			r.With(h.RequiredCapability(domain.CapManageShifts)).Post("/", h.CreateShift)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftInfo)
				r.With(h.RequiredCapability(domain.CapViewShifts)).Get("/", h.GetShift)
				r.With(h.RequiredCapability(domain.CapManageShifts)).Patch("/", h.UpdateShiftStatus)
				r.With(h.RequiredCapability(domain.CapManageShifts)).Delete("/", h.CancelShift)
			})
		})

		r.Route("/availability", func(r chi.Router) {
			r.Use(h.RequiredCapability(domain.CapViewShifts))
			r.Get("/", h.GetDayAvailability)
			r.Get("/calendar", h.GetAvailabilityCalendar)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Use(h.RequiredCapability(domain.CapManageAppointments))
			r.Post("/", h.CreateAppointment)
			r.Get("/", h.ListAppointments)
			r.Route("/{code}", func(r chi.Router) {
				r.Use(h.appointmentInfo)
				r.Get("/", h.GetAppointment)
				r.With(h.RequiredCapability(domain.CapRescheduleAppt)).Post("/reschedule", h.RescheduleAppointment)
			})
		})

		r.Route("/leave-requests", func(r chi.Router) {
			r.With(h.RequiredCapability(domain.CapRequestLeave)).With(h.myInfo).Post("/", h.CreateLeaveRequest)
			r.With(h.RequiredCapability(domain.CapApproveLeave)).Get("/", h.ListLeaveRequests)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.RequiredCapability(domain.CapApproveLeave))
				r.Use(h.leaveRequestInfo)
				r.Post("/approve", h.ApproveLeaveRequest)
				r.Post("/reject", h.RejectLeaveRequest)
			})
		})

		r.Route("/patients", func(r chi.Router) {
			r.Get("/", h.GetAllPatients)
			r.With(h.RequiredCapability(domain.CapManageReference)).Post("/", h.CreatePatient)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", h.GetAllRooms)
			r.With(h.RequiredCapability(domain.CapManageReference)).Post("/", h.CreateRoom)
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.GetAllServices)
			r.With(h.RequiredCapability(domain.CapManageReference)).Post("/", h.CreateService)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.GetAllHolidays)
			r.With(h.RequiredCapability(domain.CapManageReference)).Post("/", h.CreateHoliday)
			r.With(h.RequiredCapability(domain.CapManageReference)).Delete("/{id}", h.DeleteHoliday)
		})

		r.With(h.RequiredCapability(domain.CapManageShifts)).Post("/roster/generate", h.GenerateRoster)
	})
}
