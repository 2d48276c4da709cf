package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
	"github.com/renxin-clinic/clinic-manager/backend/internal/repository"
	"github.com/renxin-clinic/clinic-manager/backend/internal/utils"
)

var defaultTemplates = []domain.WorkShiftTemplate{
	{Name: "早班", StartTime: "08:00:00", EndTime: "12:00:00"},
	{Name: "午班", StartTime: "12:00:00", EndTime: "16:00:00"},
	{Name: "晚班", StartTime: "16:00:00", EndTime: "20:00:00"},
}

var defaultRooms = []domain.Room{
	{Code: "R101", Name: "一号诊室"},
	{Code: "R102", Name: "二号诊室"},
	{Code: "R201", Name: "治疗室"},
	{Code: "R202", Name: "理疗室"},
}

// 价格单位为分
var defaultServices = []domain.Service{
	{Name: "普通门诊", Price: 3000},
	{Name: "专家门诊", Price: 10000},
	{Name: "针灸治疗", Price: 15000},
	{Name: "推拿理疗", Price: 12000},
	{Name: "健康体检", Price: 30000},
}

// SeedBaseData 插入诊所运转所需的基础数据：班次模板、诊室、服务项目。
// 已存在的记录插入失败时只记录日志，不中断
func SeedBaseData(r *repository.Repository) {
	for _, template := range defaultTemplates {
		t := template
		if err := r.CreateWorkShiftTemplate(&t); err != nil {
			slog.Error("插入班次模板失败", "name", t.Name, "error", err)
			continue
		}
	}

	for _, room := range defaultRooms {
		rm := room
		if err := r.CreateRoom(&rm); err != nil {
			slog.Error("插入诊室失败", "code", rm.Code, "error", err)
			continue
		}
	}

	for _, service := range defaultServices {
		s := service
		if err := r.CreateService(&s); err != nil {
			slog.Error("插入服务项目失败", "name", s.Name, "error", err)
			continue
		}
	}

	slog.Info("基础数据插入完成")
}

// SeedEmployeesFromCSV 从 CSV 导入员工名单。
// 表头要求为：姓名,用户名,邮箱,角色,聘用类型。已存在的用户名跳过
func SeedEmployeesFromCSV(r *repository.Repository) {
	file, err := os.Open("./internal/seed/data/employees.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	index := make(map[string]int, len(headers))
	for i, header := range headers {
		index[header] = i
	}
	for _, required := range []string{"姓名", "用户名", "邮箱", "角色", "聘用类型"} {
		if _, ok := index[required]; !ok {
			slog.Error("缺少必需的列", "column", required)
			return
		}
	}

	inserted := 0
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		username := row[index["用户名"]]
		if username == "" {
			slog.Error("没有找到用户名", "row", row)
			continue
		}

		if _, err := r.GetEmployeeByUsername(username); err == nil {
			// 已存在，跳过
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("获取员工失败", "error", err)
			continue
		}

		employee := &domain.Employee{
			Code:         utils.GenerateEmployeeCode(),
			Username:     username,
			PasswordHash: "$2a$10$aUTaWl3vmXuQFocBkb9Qx.YJPAzNoaAcj2VC5tI45l1Roh24meCgO", // clinic@test8403
			FullName:     row[index["姓名"]],
			Email:        row[index["邮箱"]],
			Role:         domain.Role(row[index["角色"]]),
			EmploymentType: domain.EmploymentType(
				row[index["聘用类型"]],
			),
		}

		if err := r.CreateEmployee(employee); err != nil {
			slog.Error("插入员工失败", "username", username, "error", err)
			continue
		}
		inserted++
	}

	slog.Info("员工导入完成", "count", inserted)
}

// SeedHolidays 插入指定年份的周日之外的固定节假日（元旦、五一、国庆）
func SeedHolidays(r *repository.Repository, year int) {
	holidays := []domain.Holiday{
		{Date: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), Name: "元旦"},
		{Date: time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC), Name: "劳动节"},
		{Date: time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC), Name: "国庆节"},
		{Date: time.Date(year, time.October, 2, 0, 0, 0, 0, time.UTC), Name: "国庆节"},
		{Date: time.Date(year, time.October, 3, 0, 0, 0, 0, time.UTC), Name: "国庆节"},
	}

	for _, holiday := range holidays {
		h := holiday
		if err := r.CreateHoliday(&h); err != nil {
			slog.Error("插入节假日失败", "date", h.Date.Format("2006-01-02"), "error", err)
			continue
		}
	}

	slog.Info("节假日插入完成", "year", year)
}
