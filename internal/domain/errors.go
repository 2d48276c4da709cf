package domain

import (
	"errors"
)

// ErrorCode 是后端与前端之间约定的机器可读错误码。
// 前端只匹配错误码，不解析 Message 的文字内容
type ErrorCode string

const (
	CodeHolidayConflict         ErrorCode = "HOLIDAY_CONFLICT"
	CodeSlotConflict            ErrorCode = "SLOT_CONFLICT"
	CodeShiftFinalized          ErrorCode = "SHIFT_FINALIZED"
	CodeIllegalStatusTransition ErrorCode = "ILLEGAL_STATUS_TRANSITION"
	CodeCannotCancelBatch       ErrorCode = "CANNOT_CANCEL_BATCH"
	CodeCannotCancelCompleted   ErrorCode = "CANNOT_CANCEL_COMPLETED"
	CodeRelatedResourceNotFound ErrorCode = "RELATED_RESOURCE_NOT_FOUND"
	CodeShiftNotFound           ErrorCode = "SHIFT_NOT_FOUND"
	CodeAppointmentNotFound     ErrorCode = "APPOINTMENT_NOT_FOUND"
	CodeForbidden               ErrorCode = "FORBIDDEN"
	CodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
)

// ConflictKind 是错误码的闭集分类，UI 的固定提示语以此为键。
// 新增错误码时未识别的码归入 KindUnclassified，原始 Message 仍然展示
type ConflictKind string

const (
	KindSchedulingConflict ConflictKind = "scheduling_conflict"
	KindIllegalTransition  ConflictKind = "illegal_state_transition"
	KindPolicyViolation    ConflictKind = "policy_violation"
	KindAuthorization      ConflictKind = "authorization_failure"
	KindNotFound           ConflictKind = "not_found"
	KindValidation         ConflictKind = "validation_failure"
	KindUnclassified       ConflictKind = "unclassified"
)

type BusinessError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *BusinessError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func ErrBusiness(code ErrorCode, message string) error {
	return &BusinessError{Code: code, Message: message}
}

var codeKinds = map[ErrorCode]ConflictKind{
	CodeHolidayConflict:         KindSchedulingConflict,
	CodeSlotConflict:            KindSchedulingConflict,
	CodeShiftFinalized:          KindIllegalTransition,
	CodeIllegalStatusTransition: KindIllegalTransition,
	CodeCannotCancelBatch:       KindPolicyViolation,
	CodeCannotCancelCompleted:   KindIllegalTransition,
	CodeRelatedResourceNotFound: KindNotFound,
	CodeShiftNotFound:           KindNotFound,
	CodeAppointmentNotFound:     KindNotFound,
	CodeForbidden:               KindAuthorization,
	CodeValidationFailed:        KindValidation,
}

// Classification 是冲突分类器的输出：分类、原始错误码和后端原文
type Classification struct {
	Kind    ConflictKind `json:"kind"`
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
}

// Classify 将一个错误映射为固定分类。未知的错误码以及非业务错误
// 一律归入 KindUnclassified，并保留原始信息，绝不吞掉
func Classify(err error) Classification {
	var be *BusinessError
	if !errors.As(err, &be) {
		return Classification{
			Kind:    KindUnclassified,
			Message: err.Error(),
		}
	}

	kind, ok := codeKinds[be.Code]
	if !ok {
		return Classification{
			Kind:    KindUnclassified,
			Code:    be.Code,
			Message: be.Message,
		}
	}

	return Classification{
		Kind:    kind,
		Code:    be.Code,
		Message: be.Message,
	}
}
