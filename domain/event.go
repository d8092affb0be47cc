package domain

import "github.com/bytedance/sonic"

// EventType names a UI interaction the board reacts to.
type EventType string

const (
	EventSelectBoard       EventType = "select-board"
	EventOpenCreateTask    EventType = "open-create-task"
	EventCancelCreateTask  EventType = "cancel-create-task"
	EventSubmitCreateTask  EventType = "submit-create-task"
	EventOpenEditTask      EventType = "open-edit-task"
	EventChangeEditForm    EventType = "change-edit-form"
	EventSaveTask          EventType = "save-task"
	EventDeleteTask        EventType = "delete-task"
	EventCancelEditTask    EventType = "cancel-edit-task"
	EventOpenBoardManager  EventType = "open-board-manager"
	EventCloseBoardManager EventType = "close-board-manager"
	EventCreateBoard       EventType = "create-board"
	EventDeleteBoard       EventType = "delete-board"
	EventToggleSidebar     EventType = "toggle-sidebar"
	EventToggleTheme       EventType = "toggle-theme"
)

// Event is a single UI interaction with its payload.
type Event struct {
	Type EventType              `json:"type"`
	Data sonic.NoCopyRawMessage `json:"data,omitempty"`
}

// BoardData is the payload of select-board, create-board and delete-board.
type BoardData struct {
	Board string `json:"board"`
}

// TaskRef is the payload of open-edit-task.
type TaskRef struct {
	TaskID string `json:"taskId"`
}

// FormPatch is the payload of change-edit-form; nil fields are left as they are.
type FormPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Apply merges p into f.
func (p FormPatch) Apply(f TaskFields) TaskFields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	return f
}

// ToggleData is the payload of toggle-sidebar and toggle-theme.
type ToggleData struct {
	On bool `json:"on"`
}

// Mutation kinds recorded in the journal.
const (
	MutationTaskCreated  = "task-created"
	MutationTaskUpdated  = "task-updated"
	MutationTaskDeleted  = "task-deleted"
	MutationBoardCreated = "board-created"
	MutationBoardDeleted = "board-deleted"
)

// Mutation describes a persisted change for downstream consumers.
type Mutation struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
	Type      string `json:"type"`
	TaskID    string `json:"taskId,omitempty"`
	Board     string `json:"board,omitempty"`
	Count     int    `json:"count,omitempty"`
	Time      int64  `json:"time"`
}
