package repository

import (
	"context"
	"time"

	"github.com/renxin-clinic/clinic-manager/backend/internal/domain"
)

func (r *Repository) GetAllWorkShiftTemplates() ([]*domain.WorkShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, start_time, end_time, created_at, version
		FROM work_shift_templates
		ORDER BY start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]*domain.WorkShiftTemplate, 0)
	for rows.Next() {
		template := &domain.WorkShiftTemplate{}
		dst := []any{&template.ID, &template.Name, &template.StartTime, &template.EndTime, &template.CreatedAt, &template.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) GetWorkShiftTemplate(id int64) (*domain.WorkShiftTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT name, start_time, end_time, created_at, version
		FROM work_shift_templates
		WHERE id = $1
	`

	template := &domain.WorkShiftTemplate{
		ID: id,
	}

	dst := []any{&template.Name, &template.StartTime, &template.EndTime, &template.CreatedAt, &template.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return template, nil
}

func (r *Repository) CreateWorkShiftTemplate(template *domain.WorkShiftTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO work_shift_templates (name, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{template.Name, template.StartTime, template.EndTime}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&template.ID, &template.CreatedAt, &template.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorkShiftTemplate(template *domain.WorkShiftTemplate) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE work_shift_templates
		SET
			name = $1,
			start_time = $2,
			end_time = $3,
			version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version
	`

	args := []any{template.Name, template.StartTime, template.EndTime, template.ID, template.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&template.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteWorkShiftTemplate(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM work_shift_templates WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
