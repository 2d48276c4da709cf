package scheduling

import (
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/utils"
)

// AppointmentStore 是协调器依赖的预约存储，由 repository 实现
type AppointmentStore interface {
	GetAppointmentByCode(code string) (*domain.Appointment, error)
	RescheduleAppointment(old *domain.Appointment, reason domain.CancelReason, notes string, replacement *domain.Appointment) (*domain.RescheduleResult, error)
}

// RescheduleInput 是一次改约请求。
// NewServiceIDs 为 nil 时沿用原预约的服务集合；
// NewParticipantCodes 为 nil 时新预约没有参与人员（不从原预约继承）。
// 这两条默认规则是不对称的，分别由两个独立的函数实现
type RescheduleInput struct {
	AppointmentCode     string
	NewStartTime        time.Time
	NewEmployeeCode     string
	NewRoomCode         string
	ReasonCode          domain.CancelReason
	NewParticipantCodes []string
	NewServiceIDs       []int64
	CancelNotes         string
}

type Coordinator struct {
	store AppointmentStore

	mu       sync.Mutex
	inFlight map[string]bool

	newCode func() string
}

func NewCoordinator(store AppointmentStore) *Coordinator {
	return &Coordinator{
		store:    store,
		inFlight: make(map[string]bool),
		newCode:  utils.GenerateAppointmentCode,
	}
}

// validateInput 在访问存储之前完成所有前置校验，
// 校验失败的请求不会产生任何网络或数据库访问
func validateInput(input *RescheduleInput) error {
	if input.AppointmentCode == "" {
		return domain.ErrBusiness(domain.CodeValidationFailed, "预约编号不能为空")
	}
	if input.NewEmployeeCode == "" {
		return domain.ErrBusiness(domain.CodeValidationFailed, "必须指定新的医生")
	}
	if input.NewRoomCode == "" {
		return domain.ErrBusiness(domain.CodeValidationFailed, "必须指定新的诊室")
	}
	if input.NewStartTime.IsZero() {
		return domain.ErrBusiness(domain.CodeValidationFailed, "必须指定新的开始时间")
	}
	if err := utils.ValidateQuarterHour(input.NewStartTime); err != nil {
		return err
	}
	if !domain.IsValidCancelReason(input.ReasonCode) {
		return domain.ErrBusiness(domain.CodeValidationFailed, "未知的取消原因")
	}
	if input.ReasonCode == domain.CancelReasonOther && input.CancelNotes == "" {
		return domain.ErrBusiness(domain.CodeValidationFailed, "取消原因为其他时必须填写说明")
	}
	return nil
}

// reuseOriginalServices 实现服务集合的默认规则：
// 请求未携带服务时，沿用原预约的服务集合，绝不写入空列表，
// 否则新预约会悄悄丢失计费项目
func reuseOriginalServices(input *RescheduleInput, original *domain.Appointment) []int64 {
	if input.NewServiceIDs != nil {
		return input.NewServiceIDs
	}

	services := make([]int64, len(original.ServiceIDs))
	copy(services, original.ServiceIDs)
	return services
}

// emptyParticipantsWhenOmitted 实现参与人员的默认规则：
// 请求未携带参与人员时，新预约没有参与人员，不从原预约继承
func emptyParticipantsWhenOmitted(input *RescheduleInput) []string {
	if input.NewParticipantCodes != nil {
		return input.NewParticipantCodes
	}
	return []string{}
}

// Reschedule 原子地用新预约替换一个生效中的预约。
// 同一预约编号同一时刻只允许一个改约请求在途；任何失败都不自动重试，
// 分类后原样抛给调用方
func (c *Coordinator) Reschedule(input *RescheduleInput) (*domain.RescheduleResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.inFlight[input.AppointmentCode] {
		c.mu.Unlock()
		return nil, domain.ErrBusiness(domain.CodeValidationFailed, "该预约的改约请求正在处理中")
	}
	c.inFlight[input.AppointmentCode] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, input.AppointmentCode)
		c.mu.Unlock()
	}()

	original, err := c.store.GetAppointmentByCode(input.AppointmentCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBusiness(domain.CodeAppointmentNotFound, "预约不存在")
		}
		return nil, err
	}

	if original.Status != domain.AppointmentStatusActive {
		return nil, domain.ErrBusiness(domain.CodeValidationFailed, "只有生效中的预约才能改约")
	}

	replacement := &domain.Appointment{
		Code:             c.newCode(),
		PatientCode:      original.PatientCode,
		EmployeeCode:     input.NewEmployeeCode,
		RoomCode:         input.NewRoomCode,
		StartTime:        input.NewStartTime,
		Status:           domain.AppointmentStatusActive,
		ServiceIDs:       reuseOriginalServices(input, original),
		ParticipantCodes: emptyParticipantsWhenOmitted(input),
	}

	result, err := c.store.RescheduleAppointment(original, input.ReasonCode, input.CancelNotes, replacement)
	if err != nil {
		return nil, err
	}

	return result, nil
}
