package view

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"prism-board/domain"
)

// MissingColumnError reports a status without a column container.
type MissingColumnError struct {
	Status string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column not found for status: %s", e.Status)
}

// RenderBoard rebuilds every status column of doc with the tasks of board.
// A missing column is logged and reported in the returned error; the other
// columns are still rendered.
func RenderBoard(doc *Document, board string, tasks []domain.Task, statuses []string) error {
	var errs []error
	for _, status := range statuses {
		col, ok := doc.Column(status)
		if !ok {
			err := &MissingColumnError{Status: status}
			log.WithField("board", board).Error(err.Error())
			errs = append(errs, err)
			continue
		}
		col.Reset()
		for _, t := range domain.FilterTasks(tasks, board, status) {
			col.Append(t)
		}
	}
	return errors.Join(errs...)
}

// AppendTask adds a single card to the column of its status.
func AppendTask(doc *Document, t domain.Task) error {
	col, ok := doc.Column(t.Status)
	if !ok {
		err := &MissingColumnError{Status: t.Status}
		log.WithField("task", t.ID).Error(err.Error())
		return err
	}
	col.Append(t)
	return nil
}

// ClearColumns empties every column, used when no board is active.
func ClearColumns(doc *Document) {
	for _, c := range doc.Columns {
		c.Reset()
	}
}

// RenderBoardNav rebuilds the board selector. Every button starts inactive.
func RenderBoardNav(doc *Document, boards []string) {
	doc.Boards = doc.Boards[:0]
	for _, b := range boards {
		doc.Boards = append(doc.Boards, BoardButton{Name: b})
	}
}

// StyleActiveBoard marks the buttons whose text equals name as active and
// clears every other one.
func StyleActiveBoard(doc *Document, name string) {
	for i := range doc.Boards {
		doc.Boards[i].Active = doc.Boards[i].Name == name
	}
}

// PopulateBoardList refreshes the board manager listing.
func PopulateBoardList(doc *Document, boards []string) {
	doc.BoardList = append(doc.BoardList[:0], boards...)
}
