package utils

import (
	"testing"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func TestValidateQuarterHour(t *testing.T) {
	for _, minute := range []int{0, 15, 30, 45} {
		ts := time.Date(2025, 4, 1, 9, minute, 0, 0, time.UTC)
		if err := ValidateQuarterHour(ts); err != nil {
			t.Fatalf("分钟 %d 应该合法: %v", minute, err)
		}
	}

	for _, minute := range []int{1, 7, 14, 16, 29, 44, 59} {
		ts := time.Date(2025, 4, 1, 9, minute, 0, 0, time.UTC)
		if err := ValidateQuarterHour(ts); err == nil {
			t.Fatalf("分钟 %d 不在网格上，应该被拒绝", minute)
		}
	}

	// 秒不为零同样不在网格上
	ts := time.Date(2025, 4, 1, 9, 15, 30, 0, time.UTC)
	if err := ValidateQuarterHour(ts); err == nil {
		t.Fatalf("秒不为零的时间应该被拒绝")
	}
}

func TestValidateWorkShiftTemplateTime(t *testing.T) {
	template := &domain.WorkShiftTemplate{StartTime: "08:00:00", EndTime: "12:00:00"}
	if err := ValidateWorkShiftTemplateTime(template); err != nil {
		t.Fatalf("合法的时间窗不应该报错: %v", err)
	}

	template = &domain.WorkShiftTemplate{StartTime: "12:00:00", EndTime: "08:00:00"}
	if err := ValidateWorkShiftTemplateTime(template); err == nil {
		t.Fatalf("结束时间早于开始时间应该报错")
	}

	template = &domain.WorkShiftTemplate{StartTime: "8点", EndTime: "12:00:00"}
	if err := ValidateWorkShiftTemplateTime(template); err == nil {
		t.Fatalf("格式错误的时间应该报错")
	}
}
