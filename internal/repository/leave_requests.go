package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func (r *Repository) CreateLeaveRequest(request *domain.LeaveRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO leave_requests (employee_id, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	args := []any{request.EmployeeID, request.StartDate, request.EndDate, request.Reason, domain.LeaveRequestPending}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.ID, &request.CreatedAt, &request.Version); err != nil {
		return err
	}
	request.Status = domain.LeaveRequestPending

	return nil
}

func (r *Repository) GetLeaveRequest(id int64) (*domain.LeaveRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT employee_id, start_date, end_date, reason, status, created_at, version
		FROM leave_requests WHERE id = $1
	`

	request := &domain.LeaveRequest{
		ID: id,
	}

	dst := []any{&request.EmployeeID, &request.StartDate, &request.EndDate, &request.Reason, &request.Status, &request.CreatedAt, &request.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) ListLeaveRequests(page int, size int) (*domain.Page[*domain.LeaveRequest], error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var total int64
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM leave_requests`).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT id, employee_id, start_date, end_date, reason, status, created_at, version
		FROM leave_requests
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.dbpool.QueryContext(ctx, query, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.LeaveRequest, 0)
	for rows.Next() {
		request := &domain.LeaveRequest{}
		dst := []any{&request.ID, &request.EmployeeID, &request.StartDate, &request.EndDate, &request.Reason, &request.Status, &request.CreatedAt, &request.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := domain.NewPage(requests, total, page, size)
	return &result, nil
}

// ApproveLeaveRequest 审批通过请假申请，并在同一个事务中把请假区间内
// 所有待执行的班次置为 ON_LEAVE。这是 ON_LEAVE 状态的唯一写入点
func (r *Repository) ApproveLeaveRequest(request *domain.LeaveRequest) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE leave_requests
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3 AND status = $4
		RETURNING version
	`

	args := []any{domain.LeaveRequestApproved, request.ID, request.Version, domain.LeaveRequestPending}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&request.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrBusiness(domain.CodeValidationFailed, "请假申请已被处理")
		}
		return 0, err
	}
	request.Status = domain.LeaveRequestApproved

	shiftQuery := `
		UPDATE employee_shifts
		SET status = $1, version = version + 1
		WHERE employee_id = $2 AND work_date >= $3 AND work_date <= $4 AND status = $5
	`

	shiftArgs := []any{domain.ShiftStatusOnLeave, request.EmployeeID, request.StartDate, request.EndDate, domain.ShiftStatusScheduled}
	result, err := tx.ExecContext(ctx, shiftQuery, shiftArgs...)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return affected, nil
}

func (r *Repository) RejectLeaveRequest(request *domain.LeaveRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE leave_requests
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3 AND status = $4
		RETURNING version
	`

	args := []any{domain.LeaveRequestRejected, request.ID, request.Version, domain.LeaveRequestPending}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrBusiness(domain.CodeValidationFailed, "请假申请已被处理")
		}
		return err
	}
	request.Status = domain.LeaveRequestRejected

	return nil
}
