package board

import (
	"context"

	"prism-board/domain"
)

// Gateway is the task storage the controller mutates.
type Gateway interface {
	GetTasks(ctx context.Context) ([]domain.Task, error)
	CreateNewTask(ctx context.Context, task domain.Task) (*domain.Task, error)
	PutTask(ctx context.Context, id string, task domain.Task) error
	PatchTask(ctx context.Context, id string, patch domain.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
	ReplaceTasks(ctx context.Context, tasks []domain.Task) error
}

// PreferenceStore persists the active board and UI chrome flags.
type PreferenceStore interface {
	ActiveBoard(ctx context.Context) (string, bool, error)
	SetActiveBoard(ctx context.Context, name string) error
	Preferences(ctx context.Context) (domain.Preferences, error)
	SetShowSidebar(ctx context.Context, show bool) error
	SetLightTheme(ctx context.Context, light bool) error
}

// Journal receives a record of every persisted mutation.
type Journal interface {
	Publish(ctx context.Context, m domain.Mutation) error
}
