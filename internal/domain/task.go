package domain

import "time"

type Task struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"-"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	DueDate     string    `db:"due_date" json:"due_date"`
	Priority    int       `db:"priority" json:"priority"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TaskPatch carries a partial update. A nil field means "leave unchanged",
// so callers can tell an absent field apart from a zero value.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *int    `json:"priority"`
}
