package repository

import (
	"context"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func (r *Repository) GetAllPatients() ([]*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, code, full_name, phone, email, created_at, version FROM patients ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patients := make([]*domain.Patient, 0)
	for rows.Next() {
		patient := &domain.Patient{}
		dst := []any{&patient.ID, &patient.Code, &patient.FullName, &patient.Phone, &patient.Email, &patient.CreatedAt, &patient.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}

	return patients, rows.Err()
}

func (r *Repository) GetPatientByCode(code string) (*domain.Patient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, full_name, phone, email, created_at, version FROM patients WHERE code = $1
	`

	patient := &domain.Patient{
		Code: code,
	}

	dst := []any{&patient.ID, &patient.FullName, &patient.Phone, &patient.Email, &patient.CreatedAt, &patient.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, code).Scan(dst...); err != nil {
		return nil, err
	}

	return patient, nil
}

func (r *Repository) CreatePatient(patient *domain.Patient) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO patients (code, full_name, phone, email)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{patient.Code, patient.FullName, patient.Phone, patient.Email}
	return r.dbpool.QueryRowContext(ctx, query, args...).Scan(&patient.ID, &patient.CreatedAt, &patient.Version)
}

func (r *Repository) GetAllRooms() ([]*domain.Room, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, code, name, created_at FROM rooms ORDER BY code
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(&room.ID, &room.Code, &room.Name, &room.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

func (r *Repository) CreateRoom(room *domain.Room) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO rooms (code, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	return r.dbpool.QueryRowContext(ctx, query, room.Code, room.Name).Scan(&room.ID, &room.CreatedAt)
}

func (r *Repository) GetAllServices() ([]*domain.Service, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, price, created_at FROM services ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service := &domain.Service{}
		if err := rows.Scan(&service.ID, &service.Name, &service.Price, &service.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	return services, rows.Err()
}

func (r *Repository) CreateService(service *domain.Service) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO services (name, price)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	return r.dbpool.QueryRowContext(ctx, query, service.Name, service.Price).Scan(&service.ID, &service.CreatedAt)
}

func (r *Repository) GetAllHolidays() ([]*domain.Holiday, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, date, name, created_at FROM holidays ORDER BY date
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]*domain.Holiday, 0)
	for rows.Next() {
		holiday := &domain.Holiday{}
		if err := rows.Scan(&holiday.ID, &holiday.Date, &holiday.Name, &holiday.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}

	return holidays, rows.Err()
}

func (r *Repository) CreateHoliday(holiday *domain.Holiday) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO holidays (date, name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	return r.dbpool.QueryRowContext(ctx, query, holiday.Date, holiday.Name).Scan(&holiday.ID, &holiday.CreatedAt)
}

func (r *Repository) DeleteHoliday(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	return err
}
