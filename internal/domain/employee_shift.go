package domain

import (
	"time"
)

type ShiftStatus string

const (
	ShiftStatusScheduled ShiftStatus = "SCHEDULED"
	ShiftStatusCompleted ShiftStatus = "COMPLETED"
	ShiftStatusCancelled ShiftStatus = "CANCELLED"
	ShiftStatusOnLeave   ShiftStatus = "ON_LEAVE"
	ShiftStatusAbsent    ShiftStatus = "ABSENT"
)

type ShiftType string

const (
	// ShiftTypeBatchDefault 表示全职员工的默认排班，由批量生成产生，
	// 不允许直接取消，必须走请假流程
	ShiftTypeBatchDefault ShiftType = "BATCH_DEFAULT"
	ShiftTypeManual       ShiftType = "MANUAL"
)

// EmployeeShift 是某个员工在某一天被分配到某个班次模板的记录。
// 同一 (员工, 日期, 模板) 至多存在一条未取消的记录，该约束由数据库唯一索引保证
type EmployeeShift struct {
	ID         int64             `json:"id"`
	EmployeeID int64             `json:"employeeID"`
	Employee   EmployeeSummary   `json:"employee"`
	WorkDate   time.Time         `json:"workDate"`
	WorkShift  WorkShiftTemplate `json:"workShift"`
	Status     ShiftStatus       `json:"status"`
	ShiftType  ShiftType         `json:"shiftType"`
	Notes      string            `json:"notes"`
	CreatedAt  time.Time         `json:"createdAt"`
	Version    int32             `json:"-"`
}

// IsFinalized 判断班次是否已经终结，终结的班次禁止任何手动编辑
func (s ShiftStatus) IsFinalized() bool {
	return s == ShiftStatusCompleted || s == ShiftStatusCancelled
}

func IsValidShiftStatus(s ShiftStatus) bool {
	switch s {
	case ShiftStatusScheduled, ShiftStatusCompleted, ShiftStatusCancelled, ShiftStatusOnLeave, ShiftStatusAbsent:
		return true
	}
	return false
}

// ValidateStatusTransition 校验一次手动状态更新是否合法。
// 状态机规则：
//   - SCHEDULED 可以转移到 COMPLETED / CANCELLED / ABSENT
//   - ON_LEAVE 只能由请假审批流程产生，禁止手动设置
//   - COMPLETED / CANCELLED 为终态，禁止任何转移
//   - ON_LEAVE / ABSENT 在手动编辑层面同样视为终态
func ValidateStatusTransition(from ShiftStatus, to ShiftStatus) error {
	if !IsValidShiftStatus(to) {
		return ErrBusiness(CodeValidationFailed, "未知的班次状态")
	}

	if from.IsFinalized() {
		return ErrBusiness(CodeShiftFinalized, "班次已终结，无法修改")
	}

	if to == ShiftStatusOnLeave {
		// 请假审批流程直接写库，不经过这里
		return ErrBusiness(CodeIllegalStatusTransition, "请假状态只能由请假审批产生，禁止手动设置")
	}

	if from != ShiftStatusScheduled {
		return ErrBusiness(CodeIllegalStatusTransition, "当前状态不允许手动修改")
	}

	switch to {
	case ShiftStatusCompleted, ShiftStatusCancelled, ShiftStatusAbsent:
		return nil
	case ShiftStatusScheduled:
		return ErrBusiness(CodeIllegalStatusTransition, "班次已处于待执行状态")
	}

	return ErrBusiness(CodeIllegalStatusTransition, "非法的状态转移")
}

// ValidateStatusChange 校验一次手动状态更新是否合法。
// 目标状态为 CANCELLED 时等同于取消操作，除状态机规则外
// 还必须满足取消保护规则（批量默认排班不允许直接取消）
func (s *EmployeeShift) ValidateStatusChange(to ShiftStatus, employmentType EmploymentType) error {
	if err := ValidateStatusTransition(s.Status, to); err != nil {
		return err
	}
	if to == ShiftStatusCancelled {
		return s.ValidateCancel(employmentType)
	}
	return nil
}

// ValidateCancel 校验一次取消（删除）操作是否合法。
// 全职员工的批量默认班次受保护，必须走请假流程，不允许直接取消
func (s *EmployeeShift) ValidateCancel(employmentType EmploymentType) error {
	if s.Status == ShiftStatusCompleted {
		return ErrBusiness(CodeCannotCancelCompleted, "已完成的班次无法取消")
	}
	if s.Status.IsFinalized() {
		return ErrBusiness(CodeShiftFinalized, "班次已终结，无法取消")
	}
	if s.ShiftType == ShiftTypeBatchDefault && employmentType == EmploymentFullTime {
		return ErrBusiness(CodeCannotCancelBatch, "默认排班无法直接取消，请提交请假申请")
	}
	return nil
}
