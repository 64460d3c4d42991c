package repositories

import (
	"context"
	"database/sql"

	"etugal/internal/models"
)

type ReportRepository interface {
	Store(ctx context.Context, report *models.UserReport) error
	FindByID(ctx context.Context, id int64) (*models.UserReport, error)
	UpdateResolution(ctx context.Context, report *models.UserReport) error
	AddImage(ctx context.Context, image *models.ReportImage) error
	ListPending(ctx context.Context) ([]models.UserReport, error)
}

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

const reportColumns = `id, reporter_id, reported_user_id, reason, additional_info,
       status, action_taken, suspension_duration, resolution_notes, resolved_at, created_at`

func scanReport(row interface{ Scan(...interface{}) error }) (*models.UserReport, error) {
	rp := &models.UserReport{}
	err := row.Scan(
		&rp.ID, &rp.ReporterID, &rp.ReportedUserID, &rp.Reason, &rp.AdditionalInfo,
		&rp.Status, &rp.ActionTaken, &rp.SuspensionDuration, &rp.ResolutionNotes,
		&rp.ResolvedAt, &rp.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rp, nil
}

func (r *reportRepository) Store(ctx context.Context, report *models.UserReport) error {
	query := `
		INSERT INTO user_reports (reporter_id, reported_user_id, reason, additional_info, status, action_taken, suspension_duration)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		report.ReporterID, report.ReportedUserID, report.Reason, report.AdditionalInfo,
		report.Status, report.ActionTaken, report.SuspensionDuration,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) FindByID(ctx context.Context, id int64) (*models.UserReport, error) {
	query := `SELECT ` + reportColumns + ` FROM user_reports WHERE id = $1`
	rp, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rp, err
}

func (r *reportRepository) UpdateResolution(ctx context.Context, report *models.UserReport) error {
	query := `
		UPDATE user_reports SET
			status=$1, action_taken=$2, resolution_notes=$3, resolved_at=$4
		WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query,
		report.Status, report.ActionTaken, report.ResolutionNotes, report.ResolvedAt, report.ID,
	)
	return err
}

func (r *reportRepository) AddImage(ctx context.Context, image *models.ReportImage) error {
	return r.db.QueryRowContext(ctx,
		`INSERT INTO report_images (report_id, image) VALUES ($1,$2) RETURNING id`,
		image.ReportID, image.Image,
	).Scan(&image.ID)
}

func (r *reportRepository) ListPending(ctx context.Context) ([]models.UserReport, error) {
	query := `SELECT ` + reportColumns + ` FROM user_reports WHERE status = 'pending' ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.UserReport
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *rp)
	}
	return reports, rows.Err()
}
