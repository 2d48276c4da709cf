package scheduling

import (
	"database/sql"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

type stubStore struct {
	appointments map[string]*domain.Appointment

	getCalls        int
	rescheduleCalls int
	lastReplacement *domain.Appointment
	rescheduleErr   error
}

func (s *stubStore) GetAppointmentByCode(code string) (*domain.Appointment, error) {
	s.getCalls++
	appointment, ok := s.appointments[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return appointment, nil
}

func (s *stubStore) RescheduleAppointment(old *domain.Appointment, reason domain.CancelReason, notes string, replacement *domain.Appointment) (*domain.RescheduleResult, error) {
	s.rescheduleCalls++
	s.lastReplacement = replacement
	if s.rescheduleErr != nil {
		return nil, s.rescheduleErr
	}

	old.Status = domain.AppointmentStatusCancelled
	old.CancelReason = reason
	old.CancelNotes = notes

	return &domain.RescheduleResult{
		CancelledAppointment: old,
		NewAppointment:       replacement,
	}, nil
}

func activeAppointment(code string, services []int64, participants []string) *domain.Appointment {
	return &domain.Appointment{
		Code:             code,
		PatientCode:      "PAT-1",
		EmployeeCode:     "DOC-1",
		RoomCode:         "ROOM-1",
		StartTime:        time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Status:           domain.AppointmentStatusActive,
		ServiceIDs:       services,
		ParticipantCodes: participants,
	}
}

func validInput(code string) *RescheduleInput {
	return &RescheduleInput{
		AppointmentCode: code,
		NewStartTime:    time.Date(2025, 4, 1, 9, 15, 0, 0, time.UTC),
		NewEmployeeCode: "DOC-2",
		NewRoomCode:     "ROOM-2",
		ReasonCode:      domain.CancelReasonPatientRequest,
	}
}

func assertBusinessCode(t *testing.T, err error, want domain.ErrorCode) {
	t.Helper()

	var be *domain.BusinessError
	if !errors.As(err, &be) {
		t.Fatalf("期望业务错误 %s，实际 %v", want, err)
	}
	if be.Code != want {
		t.Fatalf("错误码不匹配，期望 %s，实际 %s", want, be.Code)
	}
}

func TestRescheduleSuccessPairsResult(t *testing.T) {
	store := &stubStore{appointments: map[string]*domain.Appointment{
		"APT-100": activeAppointment("APT-100", []int64{1, 2}, nil),
	}}
	coordinator := NewCoordinator(store)

	result, err := coordinator.Reschedule(validInput("APT-100"))
	if err != nil {
		t.Fatalf("改约失败: %v", err)
	}

	if result.CancelledAppointment == nil || result.NewAppointment == nil {
		t.Fatalf("成功的改约必须同时返回取消的预约和新预约")
	}
	if result.CancelledAppointment.Code != "APT-100" {
		t.Fatalf("被取消的预约编号必须等于输入编号，实际 %s", result.CancelledAppointment.Code)
	}
	if result.CancelledAppointment.Status != domain.AppointmentStatusCancelled {
		t.Fatalf("旧预约应该处于已取消状态")
	}
	if result.NewAppointment.Status != domain.AppointmentStatusActive {
		t.Fatalf("新预约应该处于生效状态")
	}
	if result.NewAppointment.Code == "APT-100" || result.NewAppointment.Code == "" {
		t.Fatalf("新预约必须有新的编号，实际 %q", result.NewAppointment.Code)
	}
	if result.NewAppointment.EmployeeCode != "DOC-2" || result.NewAppointment.RoomCode != "ROOM-2" {
		t.Fatalf("新预约应该携带请求中的医生和诊室")
	}
	if result.NewAppointment.PatientCode != "PAT-1" {
		t.Fatalf("新预约的患者应该与原预约一致")
	}
}

func TestRescheduleOmittedServicesReused(t *testing.T) {
	// 请求未携带服务时，服务集合逐项等于原预约
	store := &stubStore{appointments: map[string]*domain.Appointment{
		"APT-100": activeAppointment("APT-100", []int64{11, 22}, nil),
	}}
	coordinator := NewCoordinator(store)

	result, err := coordinator.Reschedule(validInput("APT-100"))
	if err != nil {
		t.Fatalf("改约失败: %v", err)
	}

	if !slices.Equal(result.NewAppointment.ServiceIDs, []int64{11, 22}) {
		t.Fatalf("省略服务时应该沿用原预约的服务集合，实际 %v", result.NewAppointment.ServiceIDs)
	}
}

func TestRescheduleExplicitServicesOverride(t *testing.T) {
	store := &stubStore{appointments: map[string]*domain.Appointment{
		"APT-100": activeAppointment("APT-100", []int64{11, 22}, nil),
	}}
	coordinator := NewCoordinator(store)

	input := validInput("APT-100")
	input.NewServiceIDs = []int64{33}

	result, err := coordinator.Reschedule(input)
	if err != nil {
		t.Fatalf("改约失败: %v", err)
	}

	if !slices.Equal(result.NewAppointment.ServiceIDs, []int64{33}) {
		t.Fatalf("显式指定的服务集合应该被采用，实际 %v", result.NewAppointment.ServiceIDs)
	}
}

func TestRescheduleOmittedParticipantsNotCarriedOver(t *testing.T) {
	// 原预约有参与人员，但请求未携带参与人员时，新预约必须没有参与人员
	store := &stubStore{appointments: map[string]*domain.Appointment{
		"APT-100": activeAppointment("APT-100", nil, []string{"NUR-1", "NUR-2"}),
	}}
	coordinator := NewCoordinator(store)

	result, err := coordinator.Reschedule(validInput("APT-100"))
	if err != nil {
		t.Fatalf("改约失败: %v", err)
	}

	if len(result.NewAppointment.ParticipantCodes) != 0 {
		t.Fatalf("省略参与人员时新预约不应该继承原预约的参与人员，实际 %v", result.NewAppointment.ParticipantCodes)
	}
}

func TestRescheduleOffGridTimeRejectedBeforeStore(t *testing.T) {
	store := &stubStore{appointments: map[string]*domain.Appointment{
		"APT-101": activeAppointment("APT-101", nil, nil),
	}}
	coordinator := NewCoordinator(store)

	input := validInput("APT-101")
	input.NewStartTime = time.Date(2025, 4, 1, 9, 7, 0, 0, time.UTC)

	_, err := coordinator.Reschedule(input)
	assertBusinessCode(t, err, domain.CodeValidationFailed)

	// 校验失败的请求不应该触发任何存储访问
	if store.getCalls != 0 || store.rescheduleCalls != 0 {
		t.Fatalf("前置校验失败时不应该访问存储，get=%d reschedule=%d", store.getCalls, store.rescheduleCalls)
	}
}

func TestRescheduleMissingRequiredFields(t *testing.T) {
	store := &stubStore{}
	coordinator := NewCoordinator(store)

	input := validInput("APT-100")
	input.NewRoomCode = ""

	_, err := coordinator.Reschedule(input)
	assertBusinessCode(t, err, domain.CodeValidationFailed)

	input = validInput("APT-100")
	input.ReasonCode = domain.CancelReason("WHATEVER")
	_, err = coordinator.Reschedule(input)
	assertBusinessCode(t, err, domain.CodeValidationFailed)

	if store.getCalls != 0 {
		t.Fatalf("校验失败不应该访问存储")
	}
}

func TestRescheduleOtherReasonRequiresNotes(t *testing.T) {
	store := &stubStore{appointments: map[string]*domain.Appointment{
		"APT-100": activeAppointment("APT-100", nil, nil),
	}}
	coordinator := NewCoordinator(store)

	input := validInput("APT-100")
	input.ReasonCode = domain.CancelReasonOther

	_, err := coordinator.Reschedule(input)
	assertBusinessCode(t, err, domain.CodeValidationFailed)

	input.CancelNotes = "患者临时更改行程"
	if _, err := coordinator.Reschedule(input); err != nil {
		t.Fatalf("携带说明后应该成功: %v", err)
	}
}

func TestRescheduleNotFound(t *testing.T) {
	store := &stubStore{appointments: map[string]*domain.Appointment{}}
	coordinator := NewCoordinator(store)

	_, err := coordinator.Reschedule(validInput("APT-404"))
	assertBusinessCode(t, err, domain.CodeAppointmentNotFound)
}

func TestRescheduleNonActiveRejected(t *testing.T) {
	cancelled := activeAppointment("APT-100", nil, nil)
	cancelled.Status = domain.AppointmentStatusCancelled

	store := &stubStore{appointments: map[string]*domain.Appointment{"APT-100": cancelled}}
	coordinator := NewCoordinator(store)

	_, err := coordinator.Reschedule(validInput("APT-100"))
	assertBusinessCode(t, err, domain.CodeValidationFailed)

	if store.rescheduleCalls != 0 {
		t.Fatalf("非生效预约不应该触发改约事务")
	}
}

func TestRescheduleStoreFailureNotRetried(t *testing.T) {
	store := &stubStore{
		appointments: map[string]*domain.Appointment{
			"APT-100": activeAppointment("APT-100", nil, nil),
		},
		rescheduleErr: domain.ErrBusiness(domain.CodeSlotConflict, "该医生在此时间已有预约"),
	}
	coordinator := NewCoordinator(store)

	_, err := coordinator.Reschedule(validInput("APT-100"))
	assertBusinessCode(t, err, domain.CodeSlotConflict)

	// 语义性失败不允许自动重试
	if store.rescheduleCalls != 1 {
		t.Fatalf("改约事务应该只被调用一次，实际 %d 次", store.rescheduleCalls)
	}
}

func TestRescheduleGridBoundaries(t *testing.T) {
	store := &stubStore{appointments: map[string]*domain.Appointment{
		"APT-100": activeAppointment("APT-100", nil, nil),
	}}
	coordinator := NewCoordinator(store)

	for _, minute := range []int{0, 15, 30, 45} {
		input := validInput("APT-100")
		input.NewStartTime = time.Date(2025, 4, 1, 9, minute, 0, 0, time.UTC)
		if _, err := coordinator.Reschedule(input); err != nil {
			t.Fatalf("分钟 %d 在 15 分钟网格上，应该被接受: %v", minute, err)
		}
		// stub 会把旧预约置为已取消，复位以便下一轮
		store.appointments["APT-100"].Status = domain.AppointmentStatusActive
	}
}
