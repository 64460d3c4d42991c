package repositories

import (
	"context"
	"database/sql"

	"etugal/internal/models"
)

type ApplicantRepository interface {
	Store(ctx context.Context, applicant *models.TaskApplicant) error
	Exists(ctx context.Context, taskID, performerID int64) (bool, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.TaskApplicant, error)
	ListByPerformer(ctx context.Context, performerID int64, taskStatus *models.TaskStatus, taskUnassigned bool) ([]models.TaskApplicant, error)
}

type applicantRepository struct {
	db *sql.DB
}

func NewApplicantRepository(db *sql.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

// Store relies on the UNIQUE (task_id, performer_id) constraint; callers
// translate the violation to a duplicate-application error.
func (r *applicantRepository) Store(ctx context.Context, a *models.TaskApplicant) error {
	query := `
		INSERT INTO task_applicants (task_id, performer_id, description)
		VALUES ($1,$2,$3)
		RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query,
		a.TaskID, a.PerformerID, a.Description,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *applicantRepository) Exists(ctx context.Context, taskID, performerID int64) (bool, error) {
	var dummy int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM task_applicants WHERE task_id = $1 AND performer_id = $2 LIMIT 1`,
		taskID, performerID,
	).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *applicantRepository) ListByTask(ctx context.Context, taskID int64) ([]models.TaskApplicant, error) {
	query := `
		SELECT a.id, a.task_id, a.performer_id, a.description, a.created_at, ` + profileColumns + `
		FROM task_applicants a
		JOIN user_profiles p ON p.id = a.performer_id
		JOIN users u ON u.id = p.user_id
		WHERE a.task_id = $1
		ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplicants(rows)
}

func (r *applicantRepository) ListByPerformer(ctx context.Context, performerID int64, taskStatus *models.TaskStatus, taskUnassigned bool) ([]models.TaskApplicant, error) {
	query := `
		SELECT a.id, a.task_id, a.performer_id, a.description, a.created_at, ` + profileColumns + `
		FROM task_applicants a
		JOIN tasks t ON t.id = a.task_id
		JOIN user_profiles p ON p.id = a.performer_id
		JOIN users u ON u.id = p.user_id
		WHERE a.performer_id = $1`
	args := []interface{}{performerID}

	if taskStatus != nil {
		query += ` AND t.status = $2`
		args = append(args, *taskStatus)
		if taskUnassigned {
			query += ` AND t.performer_id IS NULL`
		} else {
			// only applications whose task ended up assigned to this performer
			query += ` AND t.performer_id = $1`
		}
	}
	query += ` ORDER BY a.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplicants(rows)
}

func scanApplicants(rows *sql.Rows) ([]models.TaskApplicant, error) {
	var applicants []models.TaskApplicant
	for rows.Next() {
		a := models.TaskApplicant{Performer: &models.UserProfile{User: &models.User{}}}
		p := a.Performer
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.PerformerID, &a.Description, &a.CreatedAt,
			&p.ID, &p.UserID, &p.Birthdate, &p.Address, &p.ContactNumber, &p.Gender,
			&p.VerificationStatus, &p.VerificationRemarks, &p.TelegramChatID,
			&p.IsSuspended, &p.SuspensionReason, &p.SuspendedUntil,
			&p.IsTerminated, &p.TerminationReason, &p.CreatedAt, &p.UpdatedAt,
			&p.User.ID, &p.User.Email, &p.User.FirstName, &p.User.LastName, &p.User.IsAdmin,
		); err != nil {
			return nil, err
		}
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}
