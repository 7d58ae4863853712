package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

type postgresReportStore struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresReportStore(db *sql.DB, logger *logrus.Logger) domain.ReportStore {
	return &postgresReportStore{
		db:  db,
		log: logger,
	}
}

func (r *postgresReportStore) CreateReport(report *domain.Report) (*domain.Report, error) {
	query := `
        INSERT INTO report (name, category, description)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	category := sql.NullString{String: report.Category, Valid: report.Category != ""}
	description := sql.NullString{String: report.Description, Valid: report.Description != ""}

	err := r.db.QueryRow(query, report.Name, category, description).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		r.log.Errorf("Failed to create report '%s': %v", report.Name, err)
		return nil, fmt.Errorf("could not create report: %w", err)
	}
	r.log.Infof("Report created successfully with ID: %d, Name: %s", report.ID, report.Name)
	return report, nil
}

func (r *postgresReportStore) GetReportByID(id int) (*domain.Report, error) {
	query := `
        SELECT id, name, category, created_at, description
        FROM report
        WHERE id = $1`
	report := &domain.Report{}
	var category, description sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&report.ID,
		&report.Name,
		&category,
		&report.CreatedAt,
		&description,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Report with ID %d not found", id)
			return nil, fmt.Errorf("report with id %d: %w", id, domain.ErrReportNotFound)
		}
		r.log.Errorf("Failed to get report by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get report by id: %w", err)
	}
	report.Category = category.String
	report.Description = description.String

	return report, nil
}

func (r *postgresReportStore) UpdateReport(report *domain.Report) (*domain.Report, error) {
	query := `
        UPDATE report
        SET name = $1, category = $2, description = $3
        WHERE id = $4`
	category := sql.NullString{String: report.Category, Valid: report.Category != ""}
	description := sql.NullString{String: report.Description, Valid: report.Description != ""}

	result, err := r.db.Exec(query, report.Name, category, description, report.ID)
	if err != nil {
		r.log.Errorf("Failed to update report ID %d: %v", report.ID, err)
		return nil, fmt.Errorf("could not update report: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after updating report ID %d: %v", report.ID, err)
		return nil, fmt.Errorf("could not confirm report update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Report with ID %d not found for update (0 rows affected)", report.ID)
		return nil, fmt.Errorf("report with id %d: %w", report.ID, domain.ErrReportNotFound)
	}

	r.log.Infof("Report updated successfully with ID: %d", report.ID)
	return r.GetReportByID(report.ID)
}

func (r *postgresReportStore) DeleteReport(id int) error {
	query := `DELETE FROM report WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		r.log.Errorf("Failed to delete report ID %d: %v", id, err)
		return fmt.Errorf("could not delete report: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting report ID %d: %v", id, err)
		return fmt.Errorf("could not confirm report deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent report ID %d", id)
		return fmt.Errorf("report with id %d: %w", id, domain.ErrReportNotFound)
	}
	r.log.Infof("Report deleted successfully with ID: %d", id)
	return nil
}

func (r *postgresReportStore) ListReports() ([]domain.Report, error) {
	query := `
        SELECT id, name, category, created_at, description
        FROM report
        ORDER BY id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list reports: %v", err)
		return nil, fmt.Errorf("could not list reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		var report domain.Report
		var category, description sql.NullString
		if err := rows.Scan(&report.ID, &report.Name, &category, &report.CreatedAt, &description); err != nil {
			r.log.Errorf("Failed to scan report row: %v", err)
			return nil, fmt.Errorf("error scanning report data: %w", err)
		}
		report.Category = category.String
		report.Description = description.String
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during reports list iteration: %v", err)
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}
