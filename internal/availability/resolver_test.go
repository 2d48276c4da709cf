package availability

import (
	"testing"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

type stubShiftSource struct {
	shifts map[int64][]*domain.EmployeeShift
	calls  int
}

func (s *stubShiftSource) GetMonthScheduledShifts(employeeID int64, year int, month time.Month) ([]*domain.EmployeeShift, error) {
	s.calls++
	return s.shifts[employeeID], nil
}

func scheduledShift(employeeID int64, date time.Time, shiftID int64, name string, start string, end string) *domain.EmployeeShift {
	return &domain.EmployeeShift{
		EmployeeID: employeeID,
		WorkDate:   date,
		Status:     domain.ShiftStatusScheduled,
		WorkShift: domain.WorkShiftTemplate{
			ID:        shiftID,
			Name:      name,
			StartTime: start,
			EndTime:   end,
		},
	}
}

func TestResolveDayReturnsWindows(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	source := &stubShiftSource{
		shifts: map[int64][]*domain.EmployeeShift{
			42: {
				scheduledShift(42, date, 1, "早班", "08:00:00", "12:00:00"),
				scheduledShift(42, date, 2, "午班", "13:00:00", "17:00:00"),
				scheduledShift(42, date.AddDate(0, 0, 1), 1, "早班", "08:00:00", "12:00:00"),
			},
		},
	}

	resolver := NewResolver(source, NewCache())

	day, err := resolver.ResolveDay(42, date)
	if err != nil {
		t.Fatalf("ResolveDay 返回错误: %v", err)
	}

	if day.NoShiftScheduled {
		t.Fatalf("当天存在班次，不应该标记无排班警告")
	}
	if len(day.Windows) != 2 {
		t.Fatalf("期望 2 个时间窗，实际 %d", len(day.Windows))
	}
	if day.Windows[0].StartTime != "08:00:00" || day.Windows[1].StartTime != "13:00:00" {
		t.Fatalf("时间窗内容不符: %+v", day.Windows)
	}
}

func TestResolveDayNoShiftHardWarning(t *testing.T) {
	source := &stubShiftSource{shifts: map[int64][]*domain.EmployeeShift{}}
	resolver := NewResolver(source, NewCache())

	day, err := resolver.ResolveDay(7, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ResolveDay 返回错误: %v", err)
	}

	if !day.NoShiftScheduled {
		t.Fatalf("当天没有任何班次时必须设置硬警告标记")
	}
}

func TestResolveMonthQueriedOncePerMonth(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	source := &stubShiftSource{
		shifts: map[int64][]*domain.EmployeeShift{
			42: {scheduledShift(42, date, 1, "早班", "08:00:00", "12:00:00")},
		},
	}
	resolver := NewResolver(source, NewCache())

	// 同一个月内不同日期的解析只触发一次查询
	if _, err := resolver.ResolveDay(42, date); err != nil {
		t.Fatalf("ResolveDay 返回错误: %v", err)
	}
	if _, err := resolver.ResolveDay(42, date.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("ResolveDay 返回错误: %v", err)
	}

	if source.calls != 1 {
		t.Fatalf("同一 (员工, 月份) 应该只查询一次，实际 %d 次", source.calls)
	}
}

func TestResolveForAllPerPerson(t *testing.T) {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	source := &stubShiftSource{
		shifts: map[int64][]*domain.EmployeeShift{
			42: {scheduledShift(42, date, 1, "早班", "08:00:00", "12:00:00")},
			// 员工 43 当天没有班次
		},
	}
	resolver := NewResolver(source, NewCache())

	result, err := resolver.ResolveForAll([]int64{42, 43}, date)
	if err != nil {
		t.Fatalf("ResolveForAll 返回错误: %v", err)
	}

	if result[42].NoShiftScheduled {
		t.Fatalf("医生当天有班次，不应该有警告")
	}
	if !result[43].NoShiftScheduled {
		t.Fatalf("参与人员当天无班次，必须单独标记警告")
	}
}
