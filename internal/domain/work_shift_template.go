package domain

import (
	"time"
)

// WorkShiftTemplate 是可复用的班次时间窗（例如 "早班" 08:00-12:00），
// 只包含一天内的时间，不包含日期
type WorkShiftTemplate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"` // "15:04:05" 格式
	EndTime   string    `json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
