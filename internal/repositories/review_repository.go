package repositories

import (
	"context"
	"database/sql"

	"etugal/internal/models"
)

type ReviewRepository interface {
	FindByTask(ctx context.Context, taskID int64) (*models.TaskReview, error)
	Store(ctx context.Context, review *models.TaskReview) error
	Update(ctx context.Context, review *models.TaskReview) error
	ListForPerformer(ctx context.Context, performerID int64) ([]models.TaskReview, error)
	ListForProvider(ctx context.Context, providerID int64) ([]models.TaskReview, error)
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, task_id, provider_rate, provider_feedback,
       performer_rate, performer_feedback, created_at, updated_at`

func scanReview(row interface{ Scan(...interface{}) error }) (*models.TaskReview, error) {
	rv := &models.TaskReview{}
	err := row.Scan(
		&rv.ID, &rv.TaskID, &rv.ProviderRate, &rv.ProviderFeedback,
		&rv.PerformerRate, &rv.PerformerFeedback, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *reviewRepository) FindByTask(ctx context.Context, taskID int64) (*models.TaskReview, error) {
	query := `SELECT ` + reviewColumns + ` FROM task_reviews WHERE task_id = $1`
	rv, err := scanReview(r.db.QueryRowContext(ctx, query, taskID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rv, err
}

func (r *reviewRepository) Store(ctx context.Context, review *models.TaskReview) error {
	query := `
		INSERT INTO task_reviews (task_id, provider_rate, provider_feedback, performer_rate, performer_feedback)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		review.TaskID, review.ProviderRate, review.ProviderFeedback,
		review.PerformerRate, review.PerformerFeedback,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

func (r *reviewRepository) Update(ctx context.Context, review *models.TaskReview) error {
	query := `
		UPDATE task_reviews SET
			provider_rate=$1, provider_feedback=$2,
			performer_rate=$3, performer_feedback=$4, updated_at=NOW()
		WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query,
		review.ProviderRate, review.ProviderFeedback,
		review.PerformerRate, review.PerformerFeedback, review.ID,
	)
	return err
}

// ListForPerformer returns reviews of completed tasks performed by the given
// profile where the performer side has actually been rated (rate > 0).
func (r *reviewRepository) ListForPerformer(ctx context.Context, performerID int64) ([]models.TaskReview, error) {
	query := `
		SELECT rv.id, rv.task_id, rv.provider_rate, rv.provider_feedback,
		       rv.performer_rate, rv.performer_feedback, rv.created_at, rv.updated_at
		FROM task_reviews rv
		JOIN tasks t ON t.id = rv.task_id
		WHERE t.performer_id = $1 AND t.status = $2 AND rv.performer_rate > 0
		ORDER BY rv.created_at DESC`
	return r.listReviews(ctx, query, performerID, models.StatusCompleted)
}

func (r *reviewRepository) ListForProvider(ctx context.Context, providerID int64) ([]models.TaskReview, error) {
	query := `
		SELECT rv.id, rv.task_id, rv.provider_rate, rv.provider_feedback,
		       rv.performer_rate, rv.performer_feedback, rv.created_at, rv.updated_at
		FROM task_reviews rv
		JOIN tasks t ON t.id = rv.task_id
		WHERE t.provider_id = $1 AND t.status = $2 AND rv.provider_rate > 0
		ORDER BY rv.created_at DESC`
	return r.listReviews(ctx, query, providerID, models.StatusCompleted)
}

func (r *reviewRepository) listReviews(ctx context.Context, query string, args ...interface{}) ([]models.TaskReview, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.TaskReview
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}
