package repositories

import (
	"context"
	"database/sql"

	"etugal/internal/models"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*models.TaskCategory, error)
	List(ctx context.Context, titleSearch string) ([]models.TaskCategory, error)
}

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*models.TaskCategory, error) {
	c := &models.TaskCategory{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title FROM task_categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context, titleSearch string) ([]models.TaskCategory, error) {
	query := `SELECT id, title FROM task_categories`
	args := []interface{}{}
	if titleSearch != "" {
		query += ` WHERE title ILIKE '%' || $1 || '%'`
		args = append(args, titleSearch)
	}
	query += ` ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.TaskCategory
	for rows.Next() {
		var c models.TaskCategory
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
