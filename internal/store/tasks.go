package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	logx "github.com/taskative-core/server/pkg/logger"
)

const taskColumns = "id, user_id, title, description, completed, created_at, updated_at"

func scanTask(row interface{ Scan(...any) error }) (*Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTask inserts a new pending task for the user.
func (s *Store) CreateTask(ctx context.Context, userID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		userID, title, description, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert task id: %w", err)
	}

	logx.Debug().Int64("task_id", id).Str("user_id", userID).Msg("task created")
	return &Task{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ListTasks returns the user's tasks, optionally narrowed by completion
// state. Ordering is a contract: creation time ascending, id as tiebreak.
func (s *Store) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = ?"
	args := []any{userID}
	switch filter {
	case FilterCompleted:
		query += " AND completed = 1"
	case FilterPending:
		query += " AND completed = 0"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// getTaskForUpdate fetches the task inside tx, merging "absent" and "owned
// by someone else" into ErrTaskNotFound.
func getTaskForUpdate(ctx context.Context, tx *sql.Tx, userID string, taskID int64) (*Task, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?",
		taskID, userID,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// CompleteTask marks the task as done and bumps updated_at. The whole
// read-modify-write runs in one transaction so concurrent mutations of the
// same row serialize instead of losing updates.
func (s *Store) CompleteTask(ctx context.Context, userID string, taskID int64) (*Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	t, err := getTaskForUpdate(ctx, tx, userID, taskID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET completed = 1, updated_at = ? WHERE id = ?",
		now, t.ID,
	); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	t.Completed = true
	t.UpdatedAt = now
	logx.Debug().Int64("task_id", t.ID).Str("user_id", userID).Msg("task completed")
	return t, nil
}

// UpdateTask overwrites only the provided fields. updated_at bumps even
// when neither field is supplied.
func (s *Store) UpdateTask(ctx context.Context, userID string, taskID int64, title, description *string) (*Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	t, err := getTaskForUpdate(ctx, tx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, updated_at = ? WHERE id = ?",
		t.Title, t.Description, now, t.ID,
	); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	t.UpdatedAt = now
	logx.Debug().Int64("task_id", t.ID).Str("user_id", userID).Msg("task updated")
	return t, nil
}

// DeleteTask removes the row permanently and returns the row as it was,
// since the tool output still needs the title.
func (s *Store) DeleteTask(ctx context.Context, userID string, taskID int64) (*Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	t, err := getTaskForUpdate(ctx, tx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", t.ID); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	logx.Debug().Int64("task_id", t.ID).Str("user_id", userID).Msg("task deleted")
	return t, nil
}
