package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

// ShiftFilter 是班次列表查询的过滤条件，
// startDate 和 endDate 必填，其余可选
type ShiftFilter struct {
	EmployeeID *int64
	StartDate  time.Time
	EndDate    time.Time
	Status     *domain.ShiftStatus
	Page       int
	Size       int
}

const shiftColumns = `
	es.id,
	es.employee_id,
	es.work_date,
	es.status,
	es.shift_type,
	es.notes,
	es.created_at,
	es.version,
	e.code,
	e.full_name,
	e.role,
	t.id,
	t.name,
	t.start_time,
	t.end_time
`

func scanShift(dst interface{ Scan(...any) error }) (*domain.EmployeeShift, error) {
	shift := &domain.EmployeeShift{}

	fields := []any{
		&shift.ID,
		&shift.EmployeeID,
		&shift.WorkDate,
		&shift.Status,
		&shift.ShiftType,
		&shift.Notes,
		&shift.CreatedAt,
		&shift.Version,
		&shift.Employee.Code,
		&shift.Employee.FullName,
		&shift.Employee.Role,
		&shift.WorkShift.ID,
		&shift.WorkShift.Name,
		&shift.WorkShift.StartTime,
		&shift.WorkShift.EndTime,
	}
	if err := dst.Scan(fields...); err != nil {
		return nil, err
	}
	shift.Employee.ID = shift.EmployeeID

	return shift, nil
}

func (r *Repository) ListEmployeeShifts(filter ShiftFilter) (*domain.Page[*domain.EmployeeShift], error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	countQuery := `
		SELECT COUNT(*)
		FROM employee_shifts es
		WHERE es.work_date >= $1 AND es.work_date <= $2
			AND ($3::bigint IS NULL OR es.employee_id = $3)
			AND ($4::text IS NULL OR es.status = $4)
	`

	var total int64
	countArgs := []any{filter.StartDate, filter.EndDate, filter.EmployeeID, filter.Status}
	if err := r.dbpool.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + shiftColumns + `
		FROM employee_shifts es
		JOIN employees e ON e.id = es.employee_id
		JOIN work_shift_templates t ON t.id = es.work_shift_id
		WHERE es.work_date >= $1 AND es.work_date <= $2
			AND ($3::bigint IS NULL OR es.employee_id = $3)
			AND ($4::text IS NULL OR es.status = $4)
		ORDER BY es.work_date, t.start_time, es.id
		LIMIT $5 OFFSET $6
	`

	args := []any{filter.StartDate, filter.EndDate, filter.EmployeeID, filter.Status, filter.Size, (filter.Page - 1) * filter.Size}
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.EmployeeShift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	page := domain.NewPage(shifts, total, filter.Page, filter.Size)
	return &page, nil
}

func (r *Repository) GetEmployeeShift(id int64) (*domain.EmployeeShift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + shiftColumns + `
		FROM employee_shifts es
		JOIN employees e ON e.id = es.employee_id
		JOIN work_shift_templates t ON t.id = es.work_shift_id
		WHERE es.id = $1
	`

	return scanShiftRow(r.dbpool.QueryRowContext(ctx, query, id))
}

func scanShiftRow(row *sql.Row) (*domain.EmployeeShift, error) {
	return scanShift(row)
}

// CreateEmployeeShift 创建班次。节假日冲突和同一时段重复排班
// 在这里被翻译成业务错误码，数据库约束是这两条规则的最终裁判
func (r *Repository) CreateEmployeeShift(shift *domain.EmployeeShift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	isHoliday := false
	holidayQuery := `
		SELECT EXISTS (SELECT 1 FROM holidays WHERE date = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, holidayQuery, shift.WorkDate).Scan(&isHoliday); err != nil {
		return err
	}
	if isHoliday {
		return domain.ErrBusiness(domain.CodeHolidayConflict, "该日期为节假日，无法排班")
	}

	query := `
		INSERT INTO employee_shifts (employee_id, work_date, work_shift_id, status, shift_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{shift.EmployeeID, shift.WorkDate, shift.WorkShift.ID, shift.Status, shift.ShiftType, shift.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.CreatedAt, &shift.Version); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.ConstraintName {
			case "employee_shifts_active_slot_key":
				return domain.ErrBusiness(domain.CodeSlotConflict, "该员工在同一日期的同一班次已有排班")
			case "employee_shifts_employee_id_fkey":
				return domain.ErrBusiness(domain.CodeRelatedResourceNotFound, "员工不存在")
			case "employee_shifts_work_shift_id_fkey":
				return domain.ErrBusiness(domain.CodeRelatedResourceNotFound, "班次模板不存在")
			}
		}
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployeeShift(shift *domain.EmployeeShift) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE employee_shifts
		SET
			status = $1,
			notes = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	args := []any{shift.Status, shift.Notes, shift.ID, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.Version); err != nil {
		return err
	}

	return nil
}

// GetMonthScheduledShifts 一次性取出某员工在某个月内所有待执行的班次，
// 可用性解析按 (员工, 月份) 批量查询而不是按天查询
func (r *Repository) GetMonthScheduledShifts(employeeID int64, year int, month time.Month) ([]*domain.EmployeeShift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).AddDate(0, 0, -1)

	query := `
		SELECT ` + shiftColumns + `
		FROM employee_shifts es
		JOIN employees e ON e.id = es.employee_id
		JOIN work_shift_templates t ON t.id = es.work_shift_id
		WHERE es.employee_id = $1 AND es.work_date >= $2 AND es.work_date <= $3 AND es.status = $4
		ORDER BY es.work_date, t.start_time
	`

	args := []any{employeeID, monthStart, monthEnd, domain.ShiftStatusScheduled}
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.EmployeeShift, 0)
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}
