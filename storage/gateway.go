package storage

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"prism-board/domain"
)

// TaskStore is the storage gateway over the tasks collection. The whole
// collection lives under one key; every write rewrites it, so a failed write
// leaves the previous collection in place.
//
// TaskStore does no locking of its own. Callers serialize access per namespace.
type TaskStore struct {
	kv KV
}

// NewTaskStore returns a gateway over kv.
func NewTaskStore(kv KV) *TaskStore {
	return &TaskStore{kv: kv}
}

// GetTasks returns the stored tasks in collection order.
func (s *TaskStore) GetTasks(ctx context.Context) ([]domain.Task, error) {
	raw, ok, err := s.kv.Get(ctx, KeyTasks)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !ok || raw == "" {
		return []domain.Task{}, nil
	}
	var tasks []domain.Task
	if err := sonic.UnmarshalString(raw, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// ReplaceTasks overwrites the whole collection.
func (s *TaskStore) ReplaceTasks(ctx context.Context, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	data, err := sonic.MarshalString(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Set(ctx, KeyTasks, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// CreateNewTask appends task, assigning an id when it has none. A nil task
// with a nil error means the id is already taken and nothing was written.
func (s *TaskStore) CreateNewTask(ctx context.Context, task domain.Task) (*domain.Task, error) {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = domain.NewTaskID()
	}
	if indexOf(tasks, task.ID) >= 0 {
		return nil, nil
	}
	if err := s.ReplaceTasks(ctx, append(tasks, task)); err != nil {
		return nil, err
	}
	return &task, nil
}

// PutTask fully replaces the task with id. The stored record keeps id even if
// task carries another one.
func (s *TaskStore) PutTask(ctx context.Context, id string, task domain.Task) error {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return fmt.Errorf("put %s: %w", id, domain.ErrTaskNotFound)
	}
	task.ID = id
	tasks[i] = task
	return s.ReplaceTasks(ctx, tasks)
}

// PatchTask merges the set fields of patch into the task with id.
func (s *TaskStore) PatchTask(ctx context.Context, id string, patch domain.TaskPatch) error {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return fmt.Errorf("patch %s: %w", id, domain.ErrTaskNotFound)
	}
	tasks[i] = patch.Apply(tasks[i])
	return s.ReplaceTasks(ctx, tasks)
}

// DeleteTask removes the task with id. Deleting a missing id is a no-op.
func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	tasks, err := s.GetTasks(ctx)
	if err != nil {
		return err
	}
	i := indexOf(tasks, id)
	if i < 0 {
		return nil
	}
	return s.ReplaceTasks(ctx, append(tasks[:i], tasks[i+1:]...))
}

func indexOf(tasks []domain.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
