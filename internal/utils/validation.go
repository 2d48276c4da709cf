package utils

import (
	"fmt"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

// ValidateWorkShiftTemplateTime 检查班次模板的结束时间是否大于开始时间
func ValidateWorkShiftTemplateTime(template *domain.WorkShiftTemplate) error {
	startTime, err := time.Parse("15:04:05", template.StartTime)
	if err != nil {
		return fmt.Errorf("班次模板的开始时间格式错误")
	}
	endTime, err := time.Parse("15:04:05", template.EndTime)
	if err != nil {
		return fmt.Errorf("班次模板的结束时间格式错误")
	}
	if !endTime.After(startTime) {
		return fmt.Errorf("班次模板的结束时间必须大于开始时间")
	}
	return nil
}

// ValidateQuarterHour 检查时间是否落在 15 分钟网格上（分钟为 0/15/30/45 且秒为 0）。
// 预约的时间粒度是 15 分钟，不在网格上的时间必然被拒绝，
// 因此在发出请求之前就地拦截
func ValidateQuarterHour(t time.Time) error {
	if t.Minute()%15 != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return domain.ErrBusiness(domain.CodeValidationFailed, "预约时间必须落在 15 分钟的整点上")
	}
	return nil
}

// ValidateDateRange 检查起止日期的先后关系
func ValidateDateRange(startDate time.Time, endDate time.Time) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("结束日期不能早于开始日期")
	}
	return nil
}
