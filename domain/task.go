package domain

import "strings"

// PlaceholderTitle is the title of the task that keeps a freshly created board alive.
const PlaceholderTitle = "New Task"

// DefaultStatuses is the column layout used when none is configured.
var DefaultStatuses = []string{"todo", "doing", "done"}

// Task represents a single card on a board.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Status      string `json:"status" yaml:"status"`
	Board       string `json:"board" yaml:"board"`
}

// TaskFields carries the user editable part of a task.
type TaskFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// TaskPatch carries optional task fields for partial updates.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Board       *string `json:"board,omitempty"`
}

// Fields returns the editable fields of t.
func (t Task) Fields() TaskFields {
	return TaskFields{Title: t.Title, Description: t.Description, Status: t.Status}
}

// Apply merges the non-nil fields of p into t.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Board != nil {
		t.Board = *p.Board
	}
	return t
}

// ValidateTitle trims title and rejects it when nothing is left.
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Field: "title", Message: "The title field cannot be empty!"}
	}
	return trimmed, nil
}

// ValidateBoardName trims name and rejects it when nothing is left.
func ValidateBoardName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "board", Message: "Board name cannot be empty"}
	}
	return trimmed, nil
}

// ParseStatuses splits a comma separated status list, dropping blanks and duplicates.
// An empty result falls back to DefaultStatuses.
func ParseStatuses(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 4)
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultStatuses...)
	}
	return out
}
