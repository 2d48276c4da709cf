package domain

import (
	"errors"
	"testing"
)

func assertCode(t *testing.T, err error, want ErrorCode) {
	t.Helper()

	var be *BusinessError
	if !errors.As(err, &be) {
		t.Fatalf("期望业务错误 %s，实际得到 %v", want, err)
	}
	if be.Code != want {
		t.Fatalf("错误码不匹配，期望 %s，实际 %s", want, be.Code)
	}
}

func TestValidateStatusTransitionFromScheduled(t *testing.T) {
	for _, to := range []ShiftStatus{ShiftStatusCompleted, ShiftStatusCancelled, ShiftStatusAbsent} {
		if err := ValidateStatusTransition(ShiftStatusScheduled, to); err != nil {
			t.Fatalf("SCHEDULED -> %s 应该被允许，实际返回 %v", to, err)
		}
	}
}

func TestValidateStatusTransitionFinalizedGuard(t *testing.T) {
	// 终结状态下，无论目标状态是什么都必须被拒绝
	for _, from := range []ShiftStatus{ShiftStatusCompleted, ShiftStatusCancelled} {
		for _, to := range []ShiftStatus{ShiftStatusScheduled, ShiftStatusCompleted, ShiftStatusCancelled, ShiftStatusOnLeave, ShiftStatusAbsent} {
			err := ValidateStatusTransition(from, to)
			assertCode(t, err, CodeShiftFinalized)
		}
	}
}

func TestValidateStatusTransitionOnLeaveForbidden(t *testing.T) {
	// ON_LEAVE 不允许来自任何状态的手动设置；终结状态下终态守卫优先
	err := ValidateStatusTransition(ShiftStatusScheduled, ShiftStatusOnLeave)
	assertCode(t, err, CodeIllegalStatusTransition)

	err = ValidateStatusTransition(ShiftStatusAbsent, ShiftStatusOnLeave)
	assertCode(t, err, CodeIllegalStatusTransition)

	err = ValidateStatusTransition(ShiftStatusCompleted, ShiftStatusOnLeave)
	assertCode(t, err, CodeShiftFinalized)
}

func TestValidateStatusTransitionUnknownTarget(t *testing.T) {
	err := ValidateStatusTransition(ShiftStatusScheduled, ShiftStatus("NAPPING"))
	assertCode(t, err, CodeValidationFailed)
}

func TestValidateCancelBatchDefaultProtected(t *testing.T) {
	shift := &EmployeeShift{
		Status:    ShiftStatusScheduled,
		ShiftType: ShiftTypeBatchDefault,
	}

	// 全职员工的默认排班即使处于待执行状态也不允许直接取消
	err := shift.ValidateCancel(EmploymentFullTime)
	assertCode(t, err, CodeCannotCancelBatch)

	// 兼职员工不受保护
	if err := shift.ValidateCancel(EmploymentPartTime); err != nil {
		t.Fatalf("兼职员工的批量班次应该允许取消，实际返回 %v", err)
	}
}

func TestValidateCancelCompleted(t *testing.T) {
	shift := &EmployeeShift{
		Status:    ShiftStatusCompleted,
		ShiftType: ShiftTypeManual,
	}

	err := shift.ValidateCancel(EmploymentFullTime)
	assertCode(t, err, CodeCannotCancelCompleted)

	// 这是终态守卫拦截的结果，分类为非法状态转移而不是政策限制
	if got := Classify(err); got.Kind != KindIllegalTransition {
		t.Fatalf("已完成班次的取消应该归入 %s，实际 %s", KindIllegalTransition, got.Kind)
	}
}

func TestValidateStatusChangeCancelBatchDefaultProtected(t *testing.T) {
	shift := &EmployeeShift{
		Status:    ShiftStatusScheduled,
		ShiftType: ShiftTypeBatchDefault,
	}

	// 通过状态更新把班次改成 CANCELLED 等同于取消操作，
	// 全职员工的默认排班保护必须同样生效
	err := shift.ValidateStatusChange(ShiftStatusCancelled, EmploymentFullTime)
	assertCode(t, err, CodeCannotCancelBatch)

	// 兼职员工不受保护
	if err := shift.ValidateStatusChange(ShiftStatusCancelled, EmploymentPartTime); err != nil {
		t.Fatalf("兼职员工的批量班次应该允许取消，实际返回 %v", err)
	}

	// 非取消的目标状态不触发取消规则
	if err := shift.ValidateStatusChange(ShiftStatusCompleted, EmploymentFullTime); err != nil {
		t.Fatalf("SCHEDULED -> COMPLETED 不涉及取消保护，应该被允许，实际返回 %v", err)
	}
}

func TestValidateStatusChangeManualCancelAllowed(t *testing.T) {
	shift := &EmployeeShift{
		Status:    ShiftStatusScheduled,
		ShiftType: ShiftTypeManual,
	}

	if err := shift.ValidateStatusChange(ShiftStatusCancelled, EmploymentFullTime); err != nil {
		t.Fatalf("手动创建的班次应该允许通过状态更新取消，实际返回 %v", err)
	}
}

func TestValidateStatusChangeFinalizedGuardFirst(t *testing.T) {
	shift := &EmployeeShift{
		Status:    ShiftStatusCancelled,
		ShiftType: ShiftTypeBatchDefault,
	}

	// 终态守卫优先于取消保护
	err := shift.ValidateStatusChange(ShiftStatusCancelled, EmploymentFullTime)
	assertCode(t, err, CodeShiftFinalized)
}

func TestValidateCancelManualScheduled(t *testing.T) {
	shift := &EmployeeShift{
		Status:    ShiftStatusScheduled,
		ShiftType: ShiftTypeManual,
	}

	if err := shift.ValidateCancel(EmploymentFullTime); err != nil {
		t.Fatalf("手动创建的待执行班次应该允许取消，实际返回 %v", err)
	}
}
