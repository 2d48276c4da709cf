package calendar

import (
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

// statusColors 是班次状态到日历颜色的固定映射。
// 这个映射是状态机对外契约的一部分：新增状态必须同时补充颜色，
// 否则投影不完整
var statusColors = map[domain.ShiftStatus]string{
	domain.ShiftStatusScheduled: "#409eff",
	domain.ShiftStatusCompleted: "#67c23a",
	domain.ShiftStatusCancelled: "#909399",
	domain.ShiftStatusOnLeave:   "#e6a23c",
	domain.ShiftStatusAbsent:    "#f56c6c",
}

const fallbackColor = "#303133"

func ColorForStatus(status domain.ShiftStatus) string {
	if color, ok := statusColors[status]; ok {
		return color
	}
	return fallbackColor
}

// Event 是日历上的一个时间块
type Event struct {
	ShiftID      int64              `json:"shiftID"`
	EmployeeName string             `json:"employeeName"`
	Title        string             `json:"title"`
	Date         time.Time          `json:"date"`
	StartTime    string             `json:"startTime"`
	EndTime      string             `json:"endTime"`
	Status       domain.ShiftStatus `json:"status"`
	Color        string             `json:"color"`
}

// Project 把班次列表转换成可渲染的日历事件
func Project(shifts []*domain.EmployeeShift) []Event {
	events := make([]Event, 0, len(shifts))

	for _, shift := range shifts {
		events = append(events, Event{
			ShiftID:      shift.ID,
			EmployeeName: shift.Employee.FullName,
			Title:        shift.WorkShift.Name,
			Date:         shift.WorkDate,
			StartTime:    shift.WorkShift.StartTime,
			EndTime:      shift.WorkShift.EndTime,
			Status:       shift.Status,
			Color:        ColorForStatus(shift.Status),
		})
	}

	return events
}
