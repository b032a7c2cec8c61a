package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
)

func (r *SQLiteRepo) CreateApplication(ctx context.Context, a *models.JobApplication) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO job_applications (company_name, job_title, status, date, job_link, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		a.CompanyName, a.JobTitle, a.Status, a.Date, a.JobLink, a.Notes)
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert application: last id: %w", err)
	}

	r.logger.Debug("application created", slog.Int64("id", id))
	return id, nil
}

func (r *SQLiteRepo) GetApplication(ctx context.Context, id int64) (*models.JobApplication, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, company_name, job_title, status, date, job_link, notes FROM job_applications WHERE id = ?`, id)
	var a models.JobApplication
	if err := row.Scan(&a.ID, &a.CompanyName, &a.JobTitle, &a.Status, &a.Date, &a.JobLink, &a.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get application %d: %w", id, err)
	}

	return &a, nil
}

// ListApplications returns every application in primary-key order.
func (r *SQLiteRepo) ListApplications(ctx context.Context) ([]models.JobApplication, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, company_name, job_title, status, date, job_link, notes FROM job_applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []models.JobApplication
	for rows.Next() {
		var a models.JobApplication
		if err := rows.Scan(&a.ID, &a.CompanyName, &a.JobTitle, &a.Status, &a.Date, &a.JobLink, &a.Notes); err != nil {
			return nil, fmt.Errorf("list applications: scan: %w", err)
		}

		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	return out, nil
}

// UpdateApplication overwrites every mutable column of the row with a.ID.
// It returns repository.ErrNotFound when no such row exists.
func (r *SQLiteRepo) UpdateApplication(ctx context.Context, a *models.JobApplication) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	res, err := r.conn.Exec(ctx, `UPDATE job_applications SET company_name = ?, job_title = ?, status = ?, date = ?, job_link = ?, notes = ? WHERE id = ?`,
		a.CompanyName, a.JobTitle, a.Status, a.Date, a.JobLink, a.Notes, a.ID)
	if err != nil {
		return fmt.Errorf("update application %d: %w", a.ID, err)
	}

	if err := expectOneRow(res, a.ID); err != nil {
		return fmt.Errorf("update application: %w", err)
	}

	r.logger.Debug("application updated", slog.Int64("id", a.ID))
	return nil
}

func (r *SQLiteRepo) DeleteApplication(ctx context.Context, id int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM job_applications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}

	if err := expectOneRow(res, id); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}

	r.logger.Debug("application deleted", slog.Int64("id", id))
	return nil
}

// CountByStatus groups applications by their raw status label.
func (r *SQLiteRepo) CountByStatus(ctx context.Context) (models.StatusCounts, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT status, COUNT(id) FROM job_applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := models.StatusCounts{}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("count by status: scan: %w", err)
		}

		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	return counts, nil
}

func expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("application %d: %w", id, repository.ErrNotFound)
	}

	return nil
}
