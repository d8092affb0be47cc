package domain

import "errors"

var (
	// ErrTaskNotFound is returned when a task id is not present in storage.
	ErrTaskNotFound = errors.New("task not found")
	// ErrBoardNotFound is returned when selecting a board no task references.
	ErrBoardNotFound = errors.New("board not found")
	// ErrUnsavedChanges blocks a workflow that would discard open edits.
	ErrUnsavedChanges = errors.New("unsaved changes in the open task")
	// ErrNoEditSession is returned by save/delete when no task is being edited.
	ErrNoEditSession = errors.New("no task is being edited")
	// ErrCreateFailed signals that storage declined to create a task.
	ErrCreateFailed = errors.New("task creation failed")
	// ErrUnknownEvent is returned for event types nothing is registered for.
	ErrUnknownEvent = errors.New("unknown event type")
	// ErrInvalidPayload is returned when an event carries undecodable data.
	ErrInvalidPayload = errors.New("invalid event payload")
)

// UnsavedChangesAlert is shown when a new task is requested while edits are pending.
const UnsavedChangesAlert = "You have unsaved changes. Please save your changes before adding a new task."

// NoBoardAlert is shown when a task is submitted while no board exists.
const NoBoardAlert = "Create a board before adding tasks."

// ValidationError reports user input that was rejected before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
