package domain

import (
	"errors"
	"testing"
)

func TestClassifyKnownCodes(t *testing.T) {
	cases := []struct {
		code ErrorCode
		kind ConflictKind
	}{
		{CodeHolidayConflict, KindSchedulingConflict},
		{CodeSlotConflict, KindSchedulingConflict},
		{CodeShiftFinalized, KindIllegalTransition},
		{CodeIllegalStatusTransition, KindIllegalTransition},
		{CodeCannotCancelBatch, KindPolicyViolation},
		{CodeCannotCancelCompleted, KindIllegalTransition},
		{CodeRelatedResourceNotFound, KindNotFound},
		{CodeShiftNotFound, KindNotFound},
		{CodeAppointmentNotFound, KindNotFound},
		{CodeForbidden, KindAuthorization},
		{CodeValidationFailed, KindValidation},
	}

	for _, c := range cases {
		got := Classify(ErrBusiness(c.code, "原文"))
		if got.Kind != c.kind {
			t.Fatalf("%s 应该归入 %s，实际 %s", c.code, c.kind, got.Kind)
		}
		if got.Message != "原文" {
			t.Fatalf("分类不应该改写后端原文，实际 %q", got.Message)
		}
	}
}

func TestClassifyUnknownCodeKeepsMessage(t *testing.T) {
	got := Classify(ErrBusiness(ErrorCode("QUOTA_EXCEEDED"), "本月排班配额已用完"))
	if got.Kind != KindUnclassified {
		t.Fatalf("未知错误码应该归入 unclassified，实际 %s", got.Kind)
	}
	if got.Code != ErrorCode("QUOTA_EXCEEDED") {
		t.Fatalf("未知错误码应该被保留，实际 %s", got.Code)
	}
	if got.Message != "本月排班配额已用完" {
		t.Fatalf("未知错误码的原文必须保留，实际 %q", got.Message)
	}
}

func TestClassifyNonBusinessError(t *testing.T) {
	got := Classify(errors.New("connection refused"))
	if got.Kind != KindUnclassified {
		t.Fatalf("非业务错误应该归入 unclassified，实际 %s", got.Kind)
	}
	if got.Message != "connection refused" {
		t.Fatalf("非业务错误的原文必须保留，实际 %q", got.Message)
	}
}

func TestClassifyWrappedBusinessError(t *testing.T) {
	wrapped := errors.Join(errors.New("更新班次失败"), ErrBusiness(CodeSlotConflict, "该时段已有排班"))
	got := Classify(wrapped)
	if got.Kind != KindSchedulingConflict {
		t.Fatalf("包裹后的业务错误仍应可分类，实际 %s", got.Kind)
	}
}
