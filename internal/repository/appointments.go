package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func (r *Repository) GetAppointmentByCode(code string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, patient_code, employee_code, room_code, start_time, status, cancel_reason, cancel_notes, created_at, version
		FROM appointments WHERE code = $1
	`

	appointment := &domain.Appointment{
		Code: code,
	}

	var cancelReason sql.NullString
	var cancelNotes sql.NullString

	dst := []any{&appointment.ID, &appointment.PatientCode, &appointment.EmployeeCode, &appointment.RoomCode, &appointment.StartTime, &appointment.Status, &cancelReason, &cancelNotes, &appointment.CreatedAt, &appointment.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, code).Scan(dst...); err != nil {
		return nil, err
	}

	appointment.CancelReason = domain.CancelReason(cancelReason.String)
	appointment.CancelNotes = cancelNotes.String

	if err := r.loadAppointmentRelations(ctx, appointment); err != nil {
		return nil, err
	}

	return appointment, nil
}

func (r *Repository) loadAppointmentRelations(ctx context.Context, appointment *domain.Appointment) error {
	serviceQuery := `
		SELECT service_id FROM appointment_services WHERE appointment_id = $1 ORDER BY service_id
	`

	rows, err := r.dbpool.QueryContext(ctx, serviceQuery, appointment.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	appointment.ServiceIDs = make([]int64, 0)
	for rows.Next() {
		var serviceID int64
		if err := rows.Scan(&serviceID); err != nil {
			return err
		}
		appointment.ServiceIDs = append(appointment.ServiceIDs, serviceID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	participantQuery := `
		SELECT participant_code FROM appointment_participants WHERE appointment_id = $1 ORDER BY participant_code
	`

	participantRows, err := r.dbpool.QueryContext(ctx, participantQuery, appointment.ID)
	if err != nil {
		return err
	}
	defer participantRows.Close()

	appointment.ParticipantCodes = make([]string, 0)
	for participantRows.Next() {
		var code string
		if err := participantRows.Scan(&code); err != nil {
			return err
		}
		appointment.ParticipantCodes = append(appointment.ParticipantCodes, code)
	}
	return participantRows.Err()
}

func (r *Repository) ListAppointments(page int, size int) (*domain.Page[*domain.Appointment], error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var total int64
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, err
	}

	query := `
		SELECT id, code, patient_code, employee_code, room_code, start_time, status, cancel_reason, cancel_notes, created_at, version
		FROM appointments
		ORDER BY start_time DESC, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.dbpool.QueryContext(ctx, query, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appointment := &domain.Appointment{}
		var cancelReason sql.NullString
		var cancelNotes sql.NullString

		dst := []any{&appointment.ID, &appointment.Code, &appointment.PatientCode, &appointment.EmployeeCode, &appointment.RoomCode, &appointment.StartTime, &appointment.Status, &cancelReason, &cancelNotes, &appointment.CreatedAt, &appointment.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		appointment.CancelReason = domain.CancelReason(cancelReason.String)
		appointment.CancelNotes = cancelNotes.String
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, appointment := range appointments {
		if err := r.loadAppointmentRelations(ctx, appointment); err != nil {
			return nil, err
		}
	}

	result := domain.NewPage(appointments, total, page, size)
	return &result, nil
}

func translateAppointmentError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "appointments_employee_slot_key":
			return domain.ErrBusiness(domain.CodeSlotConflict, "该医生在此时间已有预约")
		case "appointments_room_slot_key":
			return domain.ErrBusiness(domain.CodeSlotConflict, "该诊室在此时间已被占用")
		case "appointments_patient_code_fkey":
			return domain.ErrBusiness(domain.CodeRelatedResourceNotFound, "患者不存在")
		case "appointments_employee_code_fkey":
			return domain.ErrBusiness(domain.CodeRelatedResourceNotFound, "员工不存在")
		case "appointments_room_code_fkey":
			return domain.ErrBusiness(domain.CodeRelatedResourceNotFound, "诊室不存在")
		case "appointment_services_service_id_fkey":
			return domain.ErrBusiness(domain.CodeRelatedResourceNotFound, "服务项目不存在")
		case "appointment_participants_participant_code_fkey":
			return domain.ErrBusiness(domain.CodeRelatedResourceNotFound, "参与人员不存在")
		}
	}
	return err
}

func insertAppointmentTx(ctx context.Context, tx *sql.Tx, appointment *domain.Appointment) error {
	query := `
		INSERT INTO appointments (code, patient_code, employee_code, room_code, start_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{appointment.Code, appointment.PatientCode, appointment.EmployeeCode, appointment.RoomCode, appointment.StartTime, appointment.Status}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.Version); err != nil {
		return translateAppointmentError(err)
	}

	for _, serviceID := range appointment.ServiceIDs {
		query = `
			INSERT INTO appointment_services (appointment_id, service_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, appointment.ID, serviceID); err != nil {
			return translateAppointmentError(err)
		}
	}

	for _, participantCode := range appointment.ParticipantCodes {
		query = `
			INSERT INTO appointment_participants (appointment_id, participant_code)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, appointment.ID, participantCode); err != nil {
			return translateAppointmentError(err)
		}
	}

	return nil
}

func (r *Repository) CreateAppointment(appointment *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertAppointmentTx(ctx, tx, appointment); err != nil {
		return err
	}

	return tx.Commit()
}

// RescheduleAppointment 在一个事务内取消旧预约并创建新预约。
// 对调用方而言要么两个事实都成立，要么都不成立，不存在中间状态
func (r *Repository) RescheduleAppointment(old *domain.Appointment, reason domain.CancelReason, notes string, replacement *domain.Appointment) (*domain.RescheduleResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 取消旧预约。WHERE 中带上 status 条件，防止并发下重复取消
	cancelQuery := `
		UPDATE appointments
		SET
			status = $1,
			cancel_reason = $2,
			cancel_notes = $3,
			version = version + 1
		WHERE id = $4 AND version = $5 AND status = $6
		RETURNING version
	`

	args := []any{domain.AppointmentStatusCancelled, reason, notes, old.ID, old.Version, domain.AppointmentStatusActive}
	if err := tx.QueryRowContext(ctx, cancelQuery, args...).Scan(&old.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBusiness(domain.CodeValidationFailed, "预约状态已变化，请刷新后重试")
		}
		return nil, err
	}

	old.Status = domain.AppointmentStatusCancelled
	old.CancelReason = reason
	old.CancelNotes = notes

	if err := insertAppointmentTx(ctx, tx, replacement); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.RescheduleResult{
		CancelledAppointment: old,
		NewAppointment:       replacement,
	}, nil
}
