package roster

import (
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

// Generator 为全职员工批量生成某个月的默认排班。
// 生成的班次类型为 BATCH_DEFAULT，受保护，不能直接取消
type Generator struct {
	employees []*domain.Employee
	templates []*domain.WorkShiftTemplate
	holidays  map[string]bool
}

func New(employees []*domain.Employee, templates []*domain.WorkShiftTemplate, holidays []*domain.Holiday) *Generator {
	holidayMap := make(map[string]bool, len(holidays))
	for _, holiday := range holidays {
		holidayMap[holiday.Date.Format("2006-01-02")] = true
	}

	return &Generator{
		employees: employees,
		templates: templates,
		holidays:  holidayMap,
	}
}

func (g *Generator) isWorkingDay(date time.Time) bool {
	if date.Weekday() == time.Sunday {
		return false
	}
	return !g.holidays[date.Format("2006-01-02")]
}

// Generate 产出整月的默认班次。节假日和周日跳过，
// 只有在职的全职员工参与默认排班
func (g *Generator) Generate(year int, month time.Month) []*domain.EmployeeShift {
	shifts := make([]*domain.EmployeeShift, 0)

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	for date := monthStart; date.Before(monthEnd); date = date.AddDate(0, 0, 1) {
		if !g.isWorkingDay(date) {
			continue
		}

		for _, employee := range g.employees {
			if !employee.IsActive || employee.EmploymentType != domain.EmploymentFullTime {
				continue
			}

			for _, template := range g.templates {
				shifts = append(shifts, &domain.EmployeeShift{
					EmployeeID: employee.ID,
					Employee:   employee.Summary(),
					WorkDate:   date,
					WorkShift:  *template,
					Status:     domain.ShiftStatusScheduled,
					ShiftType:  domain.ShiftTypeBatchDefault,
				})
			}
		}
	}

	return shifts
}
