package repository

import (
	"context"
	"errors"
	"time"

	"tasktracker/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, title, description, due_date, priority, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		t.UserID, t.Title, t.Description, t.DueDate, t.Priority, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, description, due_date, priority, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY id`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
			&t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// GetByID filters on (id, user_id) jointly so a task owned by someone else
// is indistinguishable from a task that does not exist.
func (r *TaskRepository) GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, description, due_date, priority, created_at, updated_at
		 FROM tasks
		 WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)

	var t domain.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Update applies the patch in a single statement. NULL patch fields keep the
// stored value via COALESCE, so two concurrent patches cannot overwrite each
// other's untouched columns.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id int64, patch domain.TaskPatch, updatedAt time.Time) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title       = COALESCE($1, title),
		     description = COALESCE($2, description),
		     due_date    = COALESCE($3, due_date),
		     priority    = COALESCE($4, priority),
		     updated_at  = $5
		 WHERE id = $6 AND user_id = $7
		 RETURNING id, user_id, title, description, due_date, priority, created_at, updated_at`,
		patch.Title, patch.Description, patch.DueDate, patch.Priority, updatedAt, id, ownerID,
	)

	var t domain.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate,
		&t.Priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
