package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: 5,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "2 liters")
	require.NoError(t, err)

	assert.NotZero(t, task.ID)
	assert.Equal(t, "alice", task.UserID)
	assert.Equal(t, "buy milk", task.Title)
	assert.Equal(t, "2 liters", task.Description)
	assert.False(t, task.Completed)
	assert.WithinDuration(t, time.Now(), task.CreatedAt, 5*time.Second)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	// And the row is really there.
	tasks, err := s.ListTasks(ctx, "alice", FilterAll)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.Equal(t, "buy milk", tasks[0].Title)
	assert.False(t, tasks[0].Completed)
}

func TestListTasks_FilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateTask(ctx, "alice", "first", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := s.CreateTask(ctx, "alice", "second", "")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	third, err := s.CreateTask(ctx, "alice", "third", "")
	require.NoError(t, err)

	// Someone else's task must never show up.
	_, err = s.CreateTask(ctx, "bob", "bob's task", "")
	require.NoError(t, err)

	_, err = s.CompleteTask(ctx, "alice", second.ID)
	require.NoError(t, err)

	all, err := s.ListTasks(ctx, "alice", FilterAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, []int64{all[0].ID, all[1].ID, all[2].ID}, "creation time ascending")

	completed, err := s.ListTasks(ctx, "alice", FilterCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, second.ID, completed[0].ID)
	assert.True(t, completed[0].Completed)

	pending, err := s.ListTasks(ctx, "alice", FilterPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, task := range pending {
		assert.False(t, task.Completed)
	}
}

func TestCompleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	done, err := s.CompleteTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, "buy milk", done.Title)
	assert.True(t, done.UpdatedAt.After(task.UpdatedAt), "updated_at must bump")
}

func TestCompleteTask_NotFoundOrForeign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "")
	require.NoError(t, err)

	_, err = s.CompleteTask(ctx, "alice", 9999)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// A foreign owner gets the exact same error as a missing row.
	_, err = s.CompleteTask(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// And nothing mutated.
	tasks, err := s.ListTasks(ctx, "alice", FilterAll)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)
	assert.True(t, tasks[0].UpdatedAt.Equal(task.UpdatedAt), "updated_at must not bump")
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "")
	require.NoError(t, err)

	deleted, err := s.DeleteTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", deleted.Title, "title captured before deletion")

	tasks, err := s.ListTasks(ctx, "alice", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = s.DeleteTask(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTask_ForeignOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "")
	require.NoError(t, err)

	_, err = s.DeleteTask(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	tasks, err := s.ListTasks(ctx, "alice", FilterAll)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestUpdateTask_PartialFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "2 liters")
	require.NoError(t, err)

	title := "buy oat milk"
	updated, err := s.UpdateTask(ctx, "alice", task.ID, &title, nil)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Title)
	assert.Equal(t, "2 liters", updated.Description, "description untouched")

	desc := "1 liter"
	updated, err = s.UpdateTask(ctx, "alice", task.ID, nil, &desc)
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Title, "title untouched")
	assert.Equal(t, "1 liter", updated.Description)
}

func TestUpdateTask_NoFieldsStillBumps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	updated, err := s.UpdateTask(ctx, "alice", task.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, task.Title, updated.Title)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
}

func TestUpdateTask_NotFoundOrForeign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "alice", "buy milk", "")
	require.NoError(t, err)

	title := "hijacked"
	_, err = s.UpdateTask(ctx, "bob", task.ID, &title, nil)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = s.UpdateTask(ctx, "alice", 9999, &title, nil)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	tasks, err := s.ListTasks(ctx, "alice", FilterAll)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "buy milk", tasks[0].Title)
}
