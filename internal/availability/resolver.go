package availability

import (
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

// ShiftSource 是解析器读取班次的来源，由 repository 实现
type ShiftSource interface {
	GetMonthScheduledShifts(employeeID int64, year int, month time.Month) ([]*domain.EmployeeShift, error)
}

// Window 是某一天内使员工可被预约的一个班次时间窗
type Window struct {
	ShiftID   int64  `json:"shiftID"`
	Name      string `json:"name"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DayAvailability 是某员工某一天的可用性。
// NoShiftScheduled 为 true 时表示当天没有任何待执行班次，
// 调用方必须把它当作硬警告展示，而不是静默忽略
type DayAvailability struct {
	EmployeeID       int64     `json:"employeeID"`
	Date             time.Time `json:"date"`
	Windows          []Window  `json:"windows"`
	NoShiftScheduled bool      `json:"noShiftScheduled"`
}

type Resolver struct {
	source ShiftSource
	cache  *Cache
}

func NewResolver(source ShiftSource, cache *Cache) *Resolver {
	return &Resolver{
		source: source,
		cache:  cache,
	}
}

// resolveMonth 按 (员工, 月份) 批量查询一次，而不是按天查询。
// 结果经过带序号的缓存，后发起的查询会作废先发起的查询的结果
func (r *Resolver) resolveMonth(employeeID int64, year int, month time.Month) ([]*domain.EmployeeShift, error) {
	key := MonthKey{EmployeeID: employeeID, Year: year, Month: month}

	if shifts, ok := r.cache.Get(key); ok {
		return shifts, nil
	}

	seq := r.cache.Begin(key)

	shifts, err := r.source.GetMonthScheduledShifts(employeeID, year, month)
	if err != nil {
		return nil, err
	}

	// 缓存可能拒绝过期的结果，但本次调用方仍然使用自己查到的快照
	r.cache.Apply(key, seq, shifts)

	return shifts, nil
}

// ResolveDay 解析某员工在某一天的可用时间窗
func (r *Resolver) ResolveDay(employeeID int64, date time.Time) (*DayAvailability, error) {
	shifts, err := r.resolveMonth(employeeID, date.Year(), date.Month())
	if err != nil {
		return nil, err
	}

	day := &DayAvailability{
		EmployeeID: employeeID,
		Date:       date,
		Windows:    make([]Window, 0),
	}

	for _, shift := range shifts {
		if sameDate(shift.WorkDate, date) {
			day.Windows = append(day.Windows, Window{
				ShiftID:   shift.WorkShift.ID,
				Name:      shift.WorkShift.Name,
				StartTime: shift.WorkShift.StartTime,
				EndTime:   shift.WorkShift.EndTime,
			})
		}
	}

	day.NoShiftScheduled = len(day.Windows) == 0

	return day, nil
}

// ResolveForAll 为主治医生和每一位参与人员分别解析可用性。
// 可用性是按人计算的：对医生有效的时段对参与人员不一定有效
func (r *Resolver) ResolveForAll(employeeIDs []int64, date time.Time) (map[int64]*DayAvailability, error) {
	result := make(map[int64]*DayAvailability, len(employeeIDs))

	for _, employeeID := range employeeIDs {
		if _, exists := result[employeeID]; exists {
			continue
		}

		day, err := r.ResolveDay(employeeID, date)
		if err != nil {
			return nil, err
		}
		result[employeeID] = day
	}

	return result, nil
}

// Invalidate 在班次发生变化后使对应月份的缓存失效
func (r *Resolver) Invalidate(employeeID int64, date time.Time) {
	r.cache.Invalidate(MonthKey{EmployeeID: employeeID, Year: date.Year(), Month: date.Month()})
}

func sameDate(a time.Time, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
