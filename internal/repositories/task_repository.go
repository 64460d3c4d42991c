package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"etugal/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error
	UpdatePerformer(ctx context.Context, id int64, performerID int64, to models.TaskStatus) error
	UpdateDonePerform(ctx context.Context, id int64, done bool) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, description, task_category_id, provider_id, performer_id,
       work_type, reward, address, longitude, latitude, done_date, schedule_time,
       is_done_perform, status, rejection_reason, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	t := &models.Task{}
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.CategoryID, &t.ProviderID, &t.PerformerID,
		&t.WorkType, &t.Reward, &t.Address, &t.Longitude, &t.Latitude, &t.DoneDate,
		&t.ScheduleTime, &t.IsDonePerform, &t.Status, &t.RejectionReason,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (
			title, description, task_category_id, provider_id, performer_id,
			work_type, reward, address, longitude, latitude, done_date,
			schedule_time, is_done_perform, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.CategoryID, task.ProviderID, task.PerformerID,
		task.WorkType, task.Reward, task.Address, task.Longitude, task.Latitude,
		task.DoneDate, task.ScheduleTime, task.IsDonePerform, task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return task, err
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.ProviderID != nil {
		conditions = append(conditions, fmt.Sprintf("provider_id = $%d", argID))
		args = append(args, *filter.ProviderID)
		argID++
	}
	if filter.PerformerID != nil {
		conditions = append(conditions, fmt.Sprintf("performer_id = $%d", argID))
		args = append(args, *filter.PerformerID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("task_category_id = $%d", argID))
		args = append(args, *filter.CategoryID)
		argID++
	}
	if filter.ExcludeProvider != nil {
		conditions = append(conditions, fmt.Sprintf("provider_id <> $%d", argID))
		args = append(args, *filter.ExcludeProvider)
		argID++
	}
	if filter.TitleSearch != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", argID))
		args = append(args, filter.TitleSearch)
		argID++
	}
	if filter.Unassigned {
		conditions = append(conditions, "performer_id IS NULL")
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY updated_at DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET
			title=$1, description=$2, task_category_id=$3, work_type=$4, reward=$5,
			address=$6, longitude=$7, latitude=$8, done_date=$9, schedule_time=$10,
			updated_at=NOW()
		WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.CategoryID, task.WorkType, task.Reward,
		task.Address, task.Longitude, task.Latitude, task.DoneDate, task.ScheduleTime,
		task.ID,
	)
	return err
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id int64, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	return err
}

// UpdatePerformer attaches the performer and moves the status in one
// statement so concurrent assignments cannot interleave.
func (r *taskRepository) UpdatePerformer(ctx context.Context, id int64, performerID int64, to models.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET performer_id=$1, status=$2, updated_at=NOW() WHERE id=$3`,
		performerID, to, id)
	return err
}

func (r *taskRepository) UpdateDonePerform(ctx context.Context, id int64, done bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET is_done_perform=$1, updated_at=NOW() WHERE id=$2`, done, id)
	return err
}
