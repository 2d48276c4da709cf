package roster

import (
	"testing"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func TestGenerateSkipsHolidaysAndSundays(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, IsActive: true, EmploymentType: domain.EmploymentFullTime},
	}
	templates := []*domain.WorkShiftTemplate{
		{ID: 1, Name: "早班", StartTime: "08:00:00", EndTime: "12:00:00"},
	}
	holidays := []*domain.Holiday{
		{Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), Name: "院庆"},
	}

	generator := New(employees, templates, holidays)
	shifts := generator.Generate(2025, time.March)

	// 2025 年 3 月有 31 天，5 个周日，外加 1 个节假日（3 月 10 日是周一）
	want := 31 - 5 - 1
	if len(shifts) != want {
		t.Fatalf("期望 %d 个班次，实际 %d", want, len(shifts))
	}

	for _, shift := range shifts {
		if shift.ShiftType != domain.ShiftTypeBatchDefault {
			t.Fatalf("批量生成的班次类型必须是 BATCH_DEFAULT")
		}
		if shift.Status != domain.ShiftStatusScheduled {
			t.Fatalf("批量生成的班次初始状态必须是 SCHEDULED")
		}
		if shift.WorkDate.Weekday() == time.Sunday {
			t.Fatalf("周日不应该生成班次")
		}
		if shift.WorkDate.Equal(holidays[0].Date) {
			t.Fatalf("节假日不应该生成班次")
		}
	}
}

func TestGenerateOnlyFullTimeActive(t *testing.T) {
	employees := []*domain.Employee{
		{ID: 1, IsActive: true, EmploymentType: domain.EmploymentFullTime},
		{ID: 2, IsActive: true, EmploymentType: domain.EmploymentPartTime},
		{ID: 3, IsActive: false, EmploymentType: domain.EmploymentFullTime},
	}
	templates := []*domain.WorkShiftTemplate{
		{ID: 1, Name: "早班", StartTime: "08:00:00", EndTime: "12:00:00"},
	}

	generator := New(employees, templates, nil)
	shifts := generator.Generate(2025, time.March)

	for _, shift := range shifts {
		if shift.EmployeeID != 1 {
			t.Fatalf("只有在职的全职员工参与默认排班，员工 %d 不应出现", shift.EmployeeID)
		}
	}
}
