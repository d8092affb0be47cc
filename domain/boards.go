package domain

// ListBoards returns the distinct board names referenced by tasks in order of
// first appearance. Tasks without a board are ignored.
func ListBoards(tasks []Task) []string {
	seen := make(map[string]struct{}, len(tasks))
	boards := make([]string, 0, 4)
	for _, t := range tasks {
		if t.Board == "" {
			continue
		}
		if _, ok := seen[t.Board]; ok {
			continue
		}
		seen[t.Board] = struct{}{}
		boards = append(boards, t.Board)
	}
	return boards
}

// HasBoard reports whether name is one of boards.
func HasBoard(boards []string, name string) bool {
	for _, b := range boards {
		if b == name {
			return true
		}
	}
	return false
}

// ResolveActiveBoard picks the board to display. A persisted board is kept only
// while it still exists; otherwise the first board wins. The second result is
// false when there are no boards at all.
func ResolveActiveBoard(persisted string, ok bool, boards []string) (string, bool) {
	if ok && persisted != "" && HasBoard(boards, persisted) {
		return persisted, true
	}
	if len(boards) > 0 {
		return boards[0], true
	}
	return "", false
}

// FilterTasks returns the tasks of board in the given status, preserving order.
func FilterTasks(tasks []Task, board, status string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Board == board && t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// WithoutBoard returns tasks minus every task that belongs to board.
func WithoutBoard(tasks []Task, board string) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Board != board {
			out = append(out, t)
		}
	}
	return out
}
