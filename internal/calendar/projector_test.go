package calendar

import (
	"testing"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func TestColorMapCoversAllStatuses(t *testing.T) {
	statuses := []domain.ShiftStatus{
		domain.ShiftStatusScheduled,
		domain.ShiftStatusCompleted,
		domain.ShiftStatusCancelled,
		domain.ShiftStatusOnLeave,
		domain.ShiftStatusAbsent,
	}

	seen := make(map[string]domain.ShiftStatus)
	for _, status := range statuses {
		color := ColorForStatus(status)
		if color == "" || color == fallbackColor {
			t.Fatalf("状态 %s 缺少专属颜色", status)
		}
		if prev, dup := seen[color]; dup {
			t.Fatalf("状态 %s 和 %s 的颜色重复", status, prev)
		}
		seen[color] = status
	}
}

func TestProject(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	shifts := []*domain.EmployeeShift{
		{
			ID:       1,
			WorkDate: date,
			Status:   domain.ShiftStatusScheduled,
			Employee: domain.EmployeeSummary{FullName: "张敏"},
			WorkShift: domain.WorkShiftTemplate{
				Name:      "早班",
				StartTime: "08:00:00",
				EndTime:   "12:00:00",
			},
		},
	}

	events := Project(shifts)
	if len(events) != 1 {
		t.Fatalf("期望 1 个事件，实际 %d", len(events))
	}

	event := events[0]
	if event.Title != "早班" || event.EmployeeName != "张敏" {
		t.Fatalf("事件内容不符: %+v", event)
	}
	if event.Color != ColorForStatus(domain.ShiftStatusScheduled) {
		t.Fatalf("事件颜色应该来自状态映射")
	}
}
